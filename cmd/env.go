package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/geoquiz/internal/config"
	"github.com/abhisek/geoquiz/internal/store"
)

// loadConfig reads the configuration and applies the persistent flags on top.
// The --db flag wins over GEOQUIZ_DB and the config file, which win over
// the default XDG path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		cfg.DBPath = p
	} else if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("create DB dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore loads the configuration and opens the record store.
// Callers close the store.
func openStore(cmd *cobra.Command) (*config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, st, nil
}
