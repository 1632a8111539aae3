// Package config resolves paths, credentials, and rule tables from the
// environment, with sensible defaults under ~/.fleeting.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pbaille/fleeting/internal/rules"
	"github.com/pbaille/fleeting/internal/store"
)

// Config is everything the CLI wires at startup.
type Config struct {
	DataDir    string // local state root (db, index, digest)
	DBPath     string
	IndexPath  string
	DigestPath string
	LedgerPath string
	InboxDir   string // watched capture folder
	IdeasDir   string // generated project folders
	RulesPath  string // optional YAML rule-table overrides
	StoreURL   string // remote record store; empty selects SQLite
	StoreKey   string
}

// Load builds the configuration from environment variables and defaults.
func Load() *Config {
	home, _ := os.UserHomeDir()
	dataDir := envOr("FLEETING_DATA_DIR", filepath.Join(home, ".fleeting"))

	return &Config{
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, "fleeting.db"),
		IndexPath:  filepath.Join(dataDir, "fleeting.bleve"),
		DigestPath: filepath.Join(dataDir, "digest-log.json"),
		LedgerPath: envOr("FLEETING_LEDGER", filepath.Join(dataDir, "PIPELINE_LEDGER.md")),
		InboxDir:   envOr("FLEETING_INBOX", filepath.Join(home, "FleetingThoughts")),
		IdeasDir:   envOr("FLEETING_IDEAS", filepath.Join(home, "FleetingThoughts", "Ideas")),
		RulesPath:  os.Getenv("FLEETING_RULES"),
		StoreURL:   os.Getenv("FLEETING_STORE_URL"),
		StoreKey:   os.Getenv("FLEETING_STORE_KEY"),
	}
}

// Tables loads the rule tables: YAML overrides when configured,
// built-in defaults otherwise.
func (c *Config) Tables() (rules.Tables, error) {
	if c.RulesPath == "" {
		return rules.Defaults(), nil
	}
	return rules.Load(c.RulesPath)
}

// OpenStore opens the configured persistence backend: the remote record
// store when a URL is set, the local SQLite database otherwise. A remote
// URL without a key is a fatal configuration error.
func (c *Config) OpenStore() (store.Store, error) {
	if c.StoreURL != "" {
		if c.StoreKey == "" {
			return nil, fmt.Errorf("FLEETING_STORE_URL is set but FLEETING_STORE_KEY is missing")
		}
		return store.NewRemote(c.StoreURL, c.StoreKey), nil
	}

	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return store.Open(c.DBPath)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
