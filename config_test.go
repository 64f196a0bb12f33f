package checkfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidateDefault(t *testing.T) {
	cfg := DefaultConfig.Clone()
	require.NoError(t, cfg.Validate())
	require.Equal(t, []string{"CHECK"}, cfg.CheckPrefixes)
}

func TestConfigValidateRejectsEmptyPrefix(t *testing.T) {
	cfg := &Config{CheckPrefixes: []string{""}}
	require.Error(t, cfg.Validate())
}

func TestConfigValidateRejectsBadCharacters(t *testing.T) {
	cfg := &Config{CheckPrefixes: []string{"CHECK!"}}
	require.Error(t, cfg.Validate())
}

func TestConfigValidateRequiresAtLeastOnePrefix(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())
}

func TestConfigValidateRejectsDuplicatePrefix(t *testing.T) {
	cfg := &Config{CheckPrefixes: []string{"CHECK", "CHECK", "VERIFY"}}
	require.Error(t, cfg.Validate())
}

func TestConfigCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig.Clone()
	cfg.CheckPrefixes = append(cfg.CheckPrefixes, "EXTRA")
	require.Equal(t, []string{"CHECK"}, DefaultConfig.CheckPrefixes)
}

func TestNewConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("check_prefixes:\n  - VERIFY\nstrict_whitespace: true\n"), 0644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"VERIFY"}, cfg.CheckPrefixes)
	require.True(t, cfg.StrictWhitespace)
}

func TestGenerateSampleWritesReadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	require.NoError(t, GenerateSample(path))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"CHECK"}, cfg.CheckPrefixes)
}
