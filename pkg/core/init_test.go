package core

import (
	"path/filepath"
	"testing"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	settings, err := LoadSettings(v)
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, RootFolderName), settings.Root)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.False(t, settings.Accessible)
	assert.Zero(t, settings.MaxRetries)
	assert.Equal(t, 30*time.Second, settings.Timeout)
}

func TestLoadSettings_Overrides(t *testing.T) {
	dir := t.TempDir()
	v := viper.New()
	SetDefaults(v)
	v.Set("root", dir)
	v.Set("timeout", 5)
	v.Set("max_retries", 3)
	v.Set("accessible", true)

	settings, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, dir, settings.Root)
	assert.Equal(t, 5*time.Second, settings.Timeout)
	assert.Equal(t, 3, settings.MaxRetries)
	assert.True(t, settings.Accessible)
}

func TestLoadSettings_ExpandsHome(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("root", "~/apis")

	settings, err := LoadSettings(v)
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "apis"), settings.Root)
}

func TestLoadSettings_NegativeTimeout(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("timeout", -1)

	_, err := LoadSettings(v)
	assert.Error(t, err)
}
