package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configDir  = ".rentalviz"
	configFile = "config"
	configType = "yaml"
	envPrefix  = "RENTALVIZ"
)

// Load reads the configuration. With an empty path it looks for
// ~/.rentalviz/config.yaml and falls back to defaults when the file does not
// exist. Environment variables (RENTALVIZ_DATABASE_HOST, ...) override both.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFile)
		v.SetConfigType(configType)
		if dir, err := configDirPath(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path, or to ~/.rentalviz/config.yaml when
// path is empty. Passwords are never written; use the keyring instead.
func Save(cfg *Config, path string) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	conn := cfg.Database
	conn.Password = ""

	v := viper.New()
	v.SetConfigType(configType)
	v.Set("database", conn)
	v.Set("output", cfg.Output)
	if len(cfg.Reports) > 0 {
		v.Set("reports", cfg.Reports)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// DefaultPath returns ~/.rentalviz/config.yaml.
func DefaultPath() (string, error) {
	dir, err := configDirPath()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, configFile+"."+configType), nil
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	v := newViper()
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	v.SetDefault("database.name", "")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "pagila_dwh")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.params", map[string]string{})

	v.SetDefault("output.viewer", ViewerWindow)
	v.SetDefault("output.chart_dir", filepath.Join(os.TempDir(), "rentalviz"))
	v.SetDefault("output.chart_format", "png")
	v.SetDefault("output.export_dir", "")
	v.SetDefault("output.export_formats", []string{})
	v.SetDefault("output.history_path", defaultHistoryPath())

	v.SetDefault("reports", []string{})

	return v
}

func defaultHistoryPath() string {
	dir, err := configDirPath()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

func configDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}
