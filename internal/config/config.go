// internal/config/config.go
package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StoreConfig points at the remote structured store holding the product
// catalog and the order history.
type StoreConfig struct {
	Dialect string `json:"dialect"` // postgres | mysql | sqlite
	DSN     string `json:"dsn"`
}

type Config struct {
	Store          StoreConfig `json:"store"`
	AdminPasscode  string      `json:"admin_passcode"`  // gates import/edit/admin commands
	ConsoleLog     bool        `json:"console_log"`
	SkipMatchCheck bool        `json:"skip_match_check"` // auto-confirm zero-image-match imports
}

func LoadOrCreate(path string) (*Config, bool, error) {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{
				Store: StoreConfig{
					Dialect: "postgres",
					DSN:     "host=localhost user=frostorder password=frostorder dbname=frostorder port=5432 sslmode=disable",
				},
				AdminPasscode: "changeme",
				ConsoleLog:    true,
			}
			if err := Save(path, cfg); err != nil {
				return nil, false, fmt.Errorf("writing default config: %w", err)
			}
			return cfg, true, nil
		}
		return nil, false, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, false, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, false, nil
}

func Save(path string, cfg *Config) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
