package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(opts *CommonOpts, build *BuildCmd) *flags.Parser {
	p := flags.NewParser(opts, flags.None)
	p.CommandHandler = func(flags.Commander, []string) error { return nil }
	_, _ = p.AddCommand("build", "", "", build)
	return p
}

func TestLoadConfig_CommandLineWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.ini")
	writeFile(t, path, `[Application Options]
stash-dir = /var/tmp/stash
trust-host = cdn.example.com

[build]
outdir = dist
retries = 2
`)

	var opts CommonOpts
	var build BuildCmd
	p := newTestParser(&opts, &build)

	args := []string{"--config", path, "build", "--outdir", "out", "index.js"}
	require.NoError(t, loadConfig(p, args))
	_, err := p.ParseArgs(args)
	require.NoError(t, err)

	assert.Equal(t, "/var/tmp/stash", opts.StashDir)
	assert.Equal(t, []string{"cdn.example.com"}, opts.TrustHosts)
	assert.Equal(t, "out", build.OutDir)
	assert.Equal(t, 2, build.Retries)
	assert.Equal(t, "iife", build.Format)
	assert.Equal(t, []string{"index.js"}, build.PosArgs.Files)
}

func TestLoadConfig_MissingDefaultIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("URLBUNDLE_CONFIG", "")

	var opts CommonOpts
	var build BuildCmd
	p := newTestParser(&opts, &build)

	require.NoError(t, loadConfig(p, nil))
	_, err := p.ParseArgs([]string{"build"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/estash", opts.StashDir)
	assert.Equal(t, "build", build.OutDir)
	assert.Equal(t, 5, build.Retries)
}

func TestLoadConfig_MissingExplicitFails(t *testing.T) {
	var opts CommonOpts
	var build BuildCmd
	p := newTestParser(&opts, &build)

	err := loadConfig(p, []string{"--config=" + filepath.Join(t.TempDir(), "nope.ini")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_UnknownOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ini")
	writeFile(t, path, "no-such-option = 1\n")

	var opts CommonOpts
	var build BuildCmd
	p := newTestParser(&opts, &build)

	err := loadConfig(p, []string{"--config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-option")
}

func TestConfigPath(t *testing.T) {
	t.Setenv("URLBUNDLE_CONFIG", "")

	path, explicit := configPath([]string{"build", "--config=a.ini"})
	assert.Equal(t, "a.ini", path)
	assert.True(t, explicit)

	path, explicit = configPath([]string{"--config", "b.ini", "build"})
	assert.Equal(t, "b.ini", path)
	assert.True(t, explicit)

	path, explicit = configPath([]string{"build", "--", "--config=c.ini"})
	assert.Equal(t, defaultConfigFile, path)
	assert.False(t, explicit)

	t.Setenv("URLBUNDLE_CONFIG", "env.ini")
	path, explicit = configPath(nil)
	assert.Equal(t, "env.ini", path)
	assert.True(t, explicit)
}
