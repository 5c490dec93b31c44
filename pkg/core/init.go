package core

import (
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// RootFolderName is the default configuration root under the user's home directory.
const RootFolderName = ".ferrapi_tester"

// Settings are the process-wide values resolved once at startup.
type Settings struct {
	Root       string
	LogLevel   string
	Accessible bool
	MaxRetries int
	Timeout    time.Duration
}

// DefaultRoot returns ~/.ferrapi_tester.
func DefaultRoot() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("could not determine user home directory: %w", err)
	}
	return filepath.Join(home, RootFolderName), nil
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("accessible", false)
	v.SetDefault("max_retries", 0)
	v.SetDefault("timeout", 30)
}

// LoadSettings reads settings from v. An empty root falls back to DefaultRoot, and a
// leading ~ is expanded.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	root := v.GetString("root")
	if root == "" {
		def, err := DefaultRoot()
		if err != nil {
			return nil, err
		}
		root = def
	}

	expanded, err := homedir.Expand(root)
	if err != nil {
		return nil, fmt.Errorf("failed to expand root %q: %w", root, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("invalid root %q: %w", root, err)
	}

	timeout := v.GetInt("timeout")
	if timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %d", timeout)
	}

	return &Settings{
		Root:       abs,
		LogLevel:   v.GetString("log_level"),
		Accessible: v.GetBool("accessible"),
		MaxRetries: v.GetInt("max_retries"),
		Timeout:    time.Duration(timeout) * time.Second,
	}, nil
}
