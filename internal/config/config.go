package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	envPrefix = "FABRICALC"

	defaultConfigPath = "config.json"
	defaultDBPath     = "fabricalc.db"
	defaultPort       = "8080"
	defaultLogLevel   = "INFO"
	defaultLogFormat  = "text"
)

// Config holds application settings. The cost model itself is not part of it;
// ConfigPath and DBPath only say where the cost model lives.
type Config struct {
	ConfigPath string
	Backend    string
	DBPath     string
	Port       string
	LogLevel   string
	LogFormat  string
}

// flagKeys maps command-line flag names to settings keys.
var flagKeys = map[string]string{
	"config-path": "config_path",
	"backend":     "backend",
	"db-path":     "db_path",
	"port":        "port",
	"log-level":   "log_level",
	"log-format":  "log_format",
}

// Load resolves settings from flags, FABRICALC_* environment variables, a
// local .env file and defaults, in that order of precedence.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("config_path", defaultConfigPath)
	v.SetDefault("backend", BackendJSON)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("port", defaultPort)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := Config{
		ConfigPath: v.GetString("config_path"),
		Backend:    strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		DBPath:     v.GetString("db_path"),
		Port:       v.GetString("port"),
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
	}

	if cfg.Backend != BackendJSON && cfg.Backend != BackendSQLite {
		return Config{}, fmt.Errorf("unknown backend %q (expected %s or %s)", cfg.Backend, BackendJSON, BackendSQLite)
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = defaultConfigPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}

	return cfg, nil
}
