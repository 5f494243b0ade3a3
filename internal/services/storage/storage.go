// Package storage persists the user's financial records as JSON files in
// the data directory, optionally encrypted at rest with an Age scrypt
// passphrase. The application owns the load/clear lifecycle; the
// computation services only ever see the slices loaded from here.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
)

const (
	// ageHeader is the prefix of Age-encrypted files.
	ageHeader = "age-encryption.org"

	// markerFile indicates encryption is enabled for the data directory.
	markerFile = ".encrypted"

	// verifyFile holds a known plaintext used to validate the passphrase.
	verifyFile = ".encryption-verify"

	verifyMagic = `{"magic":"financer-encryption-verify","version":1}`
)

// Collection file names inside the data directory.
const (
	fixedDepositsFile = "fds.json"
	investmentsFile   = "investments.json"
	expensesFile      = "expenses.json"
)

// Store provides transparent encrypted/unencrypted access to the record
// collections.
type Store struct {
	baseDir   string
	encrypted bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New creates a Store over the given data directory, detecting whether
// encryption was previously enabled.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &Store{baseDir: baseDir}
	if _, err := os.Stat(filepath.Join(baseDir, markerFile)); err == nil {
		s.encrypted = true
	}
	return s, nil
}

// BaseDir returns the data directory.
func (s *Store) BaseDir() string { return s.baseDir }

// IsEncrypted reports whether encryption is enabled for the data directory.
func (s *Store) IsEncrypted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encrypted
}

// IsUnlocked reports whether records can currently be read: either
// encryption is off, or a passphrase has been verified.
func (s *Store) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.encrypted || s.identity != nil
}

// Unlock verifies the passphrase against the verification file and keeps
// the derived identity in memory for subsequent reads and writes.
func (s *Store) Unlock(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return nil
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	sealed, err := os.ReadFile(filepath.Join(s.baseDir, verifyFile))
	if err != nil {
		return fmt.Errorf("failed to read verification file: %w", err)
	}
	plain, err := decrypt(sealed, identity)
	if err != nil || string(plain) != verifyMagic {
		return fmt.Errorf("incorrect passphrase")
	}

	s.identity = identity
	s.recipient, err = age.NewScryptRecipient(passphrase)
	if err != nil {
		s.identity = nil
		return fmt.Errorf("failed to create recipient: %w", err)
	}
	return nil
}

// Lock drops the passphrase-derived keys from memory.
func (s *Store) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.recipient = nil
}

// EnableEncryption encrypts the existing collection files with the given
// passphrase and leaves the store unlocked.
func (s *Store) EnableEncryption(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encrypted {
		return fmt.Errorf("encryption is already enabled")
	}
	if len(passphrase) < 8 {
		return fmt.Errorf("passphrase must be at least 8 characters")
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("failed to create recipient: %w", err)
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	sealed, err := encrypt([]byte(verifyMagic), recipient)
	if err != nil {
		return fmt.Errorf("failed to encrypt verification file: %w", err)
	}
	if err := atomicWrite(filepath.Join(s.baseDir, verifyFile), sealed, 0644); err != nil {
		return fmt.Errorf("failed to write verification file: %w", err)
	}

	for _, name := range []string{fixedDepositsFile, investmentsFile, expensesFile} {
		path := filepath.Join(s.baseDir, name)
		plain, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if isAgeEncrypted(plain) {
			continue
		}
		sealed, err := encrypt(plain, recipient)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", name, err)
		}
		if err := atomicWrite(path, sealed, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := atomicWrite(filepath.Join(s.baseDir, markerFile), []byte{}, 0644); err != nil {
		return fmt.Errorf("failed to write marker file: %w", err)
	}

	s.encrypted = true
	s.identity = identity
	s.recipient = recipient
	return nil
}

// readFile reads a collection file, decrypting it when needed.
func (s *Store) readFile(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.baseDir, name))
	if err != nil {
		return nil, err
	}
	if isAgeEncrypted(data) {
		if s.identity == nil {
			return nil, fmt.Errorf("%s is encrypted but the store is locked", name)
		}
		return decrypt(data, s.identity)
	}
	return data, nil
}

// writeFile writes a collection file atomically, encrypting it when the
// store is encrypted and unlocked.
func (s *Store) writeFile(name string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.encrypted {
		if s.recipient == nil {
			return fmt.Errorf("store is locked")
		}
		sealed, err := encrypt(data, s.recipient)
		if err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", name, err)
		}
		data = sealed
	}
	return atomicWrite(filepath.Join(s.baseDir, name), data, 0644)
}

// atomicWrite goes through a temp file and rename so a crash mid-write
// never truncates a collection.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}

func encrypt(data []byte, recipient *age.ScryptRecipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decrypt(data []byte, identity *age.ScryptIdentity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
