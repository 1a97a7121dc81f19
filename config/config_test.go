package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/config"
	"github.com/dargueta/yaz0rom/repack"
	"github.com/dargueta/yaz0rom/utilities/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NotNil(t, cfg.SizeMiB)
	assert.Equal(t, config.DefaultSizeMiB, *cfg.SizeMiB)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Equal(t, ".z64", cfg.Extension)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel)
	assert.Equal(t, repack.FixedSize(32), cfg.SizePolicy())
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
size_mib: 0
jobs: 4
profiles: releases.csv
log_level: debug
extension: n64
`))
	require.NoError(t, err)

	assert.Equal(t, repack.AutoSize(), cfg.SizePolicy(), "0 MiB means automatic sizing")
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "releases.csv", cfg.Profiles)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel)
	assert.Equal(t, ".n64", cfg.Extension)
}

func TestParse__Partial(t *testing.T) {
	cfg, err := config.Parse([]byte("size_mib: 64\n"))
	require.NoError(t, err)
	assert.Equal(t, repack.FixedSize(64), cfg.SizePolicy())
	assert.Equal(t, 1, cfg.Jobs)
	assert.Equal(t, ".z64", cfg.Extension)
}

func TestParse__Invalid(t *testing.T) {
	testCases := map[string]string{
		"negative size": "size_mib: -1\n",
		"bad level":     "log_level: loud\n",
		"not a mapping": "- 1\n- 2\n",
	}

	for name, text := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(text))
			assert.ErrorIs(t, err, yaz0rom.ErrInvalidArgument)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yaz0rom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs: 2\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Jobs)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, yaz0rom.ErrIOFailed)
}

func TestSetSizeMiB(t *testing.T) {
	cfg := config.Default()
	cfg.SetSizeMiB(0)
	assert.Equal(t, repack.AutoSize(), cfg.SizePolicy())
}
