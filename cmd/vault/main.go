// Command vault manages at-rest encryption of the financer data directory.
//
//	financer-vault enable   encrypt an unencrypted data directory
//	financer-vault verify   check a passphrase against the encrypted store
package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"financer/internal/config"
	"financer/internal/services/storage"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	store, err := storage.New(cfg.DataDirectory)
	if err != nil {
		logrus.WithError(err).Fatal("could not open data directory")
	}

	switch os.Args[1] {
	case "enable":
		enable(store)
	case "verify":
		verify(store)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: financer-vault <enable|verify>")
}

func enable(store *storage.Store) {
	if store.IsEncrypted() {
		fmt.Println("data directory is already encrypted")
		return
	}

	pass := promptPassphrase("New passphrase: ")
	confirm := promptPassphrase("Confirm passphrase: ")
	if pass != confirm {
		logrus.Fatal("passphrases do not match")
	}

	if err := store.EnableEncryption(pass); err != nil {
		logrus.WithError(err).Fatal("could not enable encryption")
	}
	fmt.Printf("encrypted records in %s\n", store.BaseDir())
}

func verify(store *storage.Store) {
	if !store.IsEncrypted() {
		fmt.Println("data directory is not encrypted")
		return
	}

	pass := promptPassphrase("Passphrase: ")
	if err := store.Unlock(pass); err != nil {
		logrus.WithError(err).Fatal("passphrase rejected")
	}
	fmt.Println("passphrase ok")
}

func promptPassphrase(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		logrus.WithError(err).Fatal("could not read passphrase")
	}
	return string(pass)
}
