// Package config resolves hivehook settings from defaults, an optional
// config file, HIVEHOOK_* environment variables, and flag overrides, in
// that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultConfigDir = ".hivehook"
	DefaultRulesFile = "rules.yaml"
	DefaultLogFile   = "audit.jsonl"
)

type Config struct {
	// PolicyPath points at the optional YAML rule overlay.
	PolicyPath string
	// LogPath is the local JSONL audit log.
	LogPath string
	// RelayURL is the Hive relay service.
	RelayURL string
	// UIURL is the real-time UI notification endpoint.
	UIURL string
	// FailClosed blocks instead of allowing when validation itself fails.
	FailClosed bool
	// ConfigDir is ~/.hivehook, created on first load.
	ConfigDir string
	// PlanDir holds plan markdown picked up by session snapshots.
	PlanDir string
}

// Overrides carries flag values; zero values mean "not set".
type Overrides struct {
	PolicyPath string
	LogPath    string
	RelayURL   string
	FailClosed bool
}

// Load resolves the configuration and ensures the config directory
// exists with owner-only permissions.
func Load(o Overrides) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	configDir := filepath.Join(home, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetDefault("policy_path", filepath.Join(configDir, DefaultRulesFile))
	v.SetDefault("log_path", filepath.Join(configDir, DefaultLogFile))
	v.SetDefault("relay_url", "http://localhost:8600")
	v.SetDefault("ui_url", "http://localhost:8585")
	v.SetDefault("fail_closed", false)
	v.SetDefault("plan_dir", filepath.Join(home, ".claude", "plans"))

	cfgFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(cfgFile); err == nil {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("HIVEHOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.PolicyPath != "" {
		v.Set("policy_path", o.PolicyPath)
	}
	if o.LogPath != "" {
		v.Set("log_path", o.LogPath)
	}
	if o.RelayURL != "" {
		v.Set("relay_url", o.RelayURL)
	}
	if o.FailClosed {
		v.Set("fail_closed", true)
	}

	return &Config{
		PolicyPath: v.GetString("policy_path"),
		LogPath:    v.GetString("log_path"),
		RelayURL:   v.GetString("relay_url"),
		UIURL:      v.GetString("ui_url"),
		FailClosed: v.GetBool("fail_closed"),
		ConfigDir:  configDir,
		PlanDir:    v.GetString("plan_dir"),
	}, nil
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0o700)
	}
	return nil
}
