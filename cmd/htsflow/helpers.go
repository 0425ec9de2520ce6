package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/htsflow/htsflow/internal/api"
	"github.com/htsflow/htsflow/internal/archive"
	"github.com/htsflow/htsflow/internal/config"
	"github.com/htsflow/htsflow/internal/session"
)

// newBackendClient builds the API client from viper config.
func newBackendClient() (api.Client, error) {
	client, err := api.New(api.Config{
		BaseURL: viper.GetString("api.base_url"),
		Timeout: viper.GetDuration("api.timeout"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}
	return client, nil
}

// openArchive opens the history store, or returns nil when history is
// disabled or the store cannot be opened. Archive failures never block
// classification.
func openArchive() *archive.Store {
	if !viper.GetBool("history.enabled") {
		slog.Debug("history disabled, exchanges will not be archived")
		return nil
	}

	dbPath := config.ExpandPath(viper.GetString("history.path"))

	store, err := archive.New(dbPath)
	if err != nil {
		slog.Warn("failed to open history archive, continuing without it",
			"path", dbPath, "error", err)
		return nil
	}

	return store
}

// newSession builds a conversation client, attaching the archive only when
// one is open. A typed-nil Recorder would defeat the nil check in the
// session client, so the option is applied conditionally.
func newSession(backend api.Client, store *archive.Store) *session.Client {
	if store == nil {
		return session.New(backend)
	}
	return session.New(backend, session.WithRecorder(store))
}
