// Package backup serves a downloadable archive of all financial records.
// The archive always contains plaintext JSON regardless of at-rest
// encryption, so a backup restores on any machine without the passphrase.
package backup

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	api "financer/internal/http"
	"financer/internal/services/storage"
)

var store *storage.Store

// Initialize sets up the backup package with required dependencies
func Initialize(s *storage.Store) {
	store = s
}

// RegisterRoutes registers the backup route
func RegisterRoutes(r chi.Router) {
	r.Get("/api/backup", handleBackup)
}

func handleBackup(w http.ResponseWriter, r *http.Request) {
	// Load everything before writing headers so errors can still become a
	// proper response.
	fds, err := store.LoadFixedDeposits()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}
	investments, err := store.LoadInvestments()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}
	expenses, err := store.LoadExpenses()
	if err != nil {
		api.RespondFromErr(w, err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("financer_backup_%s.zip", timestamp)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	zw := zip.NewWriter(w)
	defer zw.Close()

	entries := []struct {
		name string
		data interface{}
	}{
		{"fds.json", fds},
		{"investments.json", investments},
		{"expenses.json", expenses},
	}
	for _, e := range entries {
		f, err := zw.Create(e.name)
		if err != nil {
			logrus.WithError(err).Error("backup archive write failed")
			return
		}
		payload, err := json.MarshalIndent(e.data, "", "  ")
		if err != nil {
			logrus.WithError(err).Error("backup marshal failed")
			return
		}
		if _, err := f.Write(payload); err != nil {
			logrus.WithError(err).Error("backup archive write failed")
			return
		}
	}
}
