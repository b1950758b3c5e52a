package main

import (
	"bytes"
	"flag"
	"testing"

	"github.com/kiep/teletekst/pkg/teletekst/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name        string
		argv        []string
		wantPage    int
		wantSubpage int
		warnings    int
	}{
		{"none", nil, -1, -1, 0},
		{"english", []string{"-page", "200", "-subpage", "3"}, 200, 3, 0},
		{"dutch", []string{"-pagina", "888", "-subpagina", "2"}, 888, 2, 0},
		{"malformed page", []string{"-pagina", "abc"}, -1, -1, 1},
		{"negative page", []string{"-page=-5"}, -1, -1, 1},
		{"zero subpage", []string{"-subpage", "0"}, -1, -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseArgs(tt.argv, &bytes.Buffer{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, a.page)
			assert.Equal(t, tt.wantSubpage, a.subpage)
			assert.Len(t, a.warnings, tt.warnings)
		})
	}
}

func TestParseArgs_IgnoresUnknownArguments(t *testing.T) {
	a, err := parseArgs([]string{"-zoom", "stray", "-pagina", "300", "--fullscreen=yes"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 300, a.page)
	assert.Len(t, a.warnings, 3)
}

func TestParseArgs_FlagWithoutValue(t *testing.T) {
	a, err := parseArgs([]string{"-subpagina", "2", "-page"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, -1, a.page)
	assert.Equal(t, 2, a.subpage)
	assert.Len(t, a.warnings, 1)
}

func TestParseArgs_Help(t *testing.T) {
	_, err := parseArgs([]string{"-h"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestArgs_Apply(t *testing.T) {
	t.Setenv("TELETEKST_CONFIG", "")
	a, err := parseArgs([]string{"-pagina", "301", "-log-level", "debug", "-log", "/tmp/kiep/viewer.log"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg := config.Default()
	a.apply(cfg)

	assert.Equal(t, 301, cfg.Page.Default)
	assert.Equal(t, 1, cfg.Page.DefaultSubpage)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/kiep/viewer.log", cfg.Log.Path)
	assert.Equal(t, "", a.configPath)
}

func TestArgs_ConfigFromEnvironment(t *testing.T) {
	t.Setenv("TELETEKST_CONFIG", "/etc/kiep/teletekst.toml")
	a, err := parseArgs(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "/etc/kiep/teletekst.toml", a.configPath)
}
