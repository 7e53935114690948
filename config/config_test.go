// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfigSetsDeclaredDefaults(t *testing.T) {
	c, err := NewDefaultConfig()
	require.NoError(t, err)

	assert.False(t, c.NoParallel)
	assert.Equal(t, "yaml", c.Format)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "fancy", c.Log.Type)
	assert.NotEmpty(t, c.Paths.Config)
	assert.NotEmpty(t, c.Paths.Cache)
}

func TestEnvFeederOverridesDefaults(t *testing.T) {
	t.Setenv("KRAFTGRAPH_FORMAT", "tree")
	t.Setenv("KRAFTGRAPH_NO_PARALLEL", "true")
	t.Setenv("KRAFTGRAPH_LOG_LEVEL", "debug")

	c, err := NewDefaultConfig()
	require.NoError(t, err)

	require.NoError(t, EnvFeeder{}.Feed(&c))

	assert.Equal(t, "tree", c.Format)
	assert.True(t, c.NoParallel)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestEnvFeederIgnoresUnsetVariables(t *testing.T) {
	c, err := NewDefaultConfig()
	require.NoError(t, err)

	require.NoError(t, EnvFeeder{}.Feed(&c))
	assert.Equal(t, "yaml", c.Format)
}

func TestYamlFeederWritesThenReadsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kraftgraph.yaml")

	c, err := NewDefaultConfig()
	require.NoError(t, err)
	c.Format = "json"
	c.TripleSets = map[string][]string{"posix": {"x86_64-unknown-linux-gnu"}}

	feeder := YamlFeeder{File: path}
	require.NoError(t, feeder.Write(c, false))

	loaded := &Config{}
	require.NoError(t, feeder.Feed(loaded))

	assert.Equal(t, "json", loaded.Format)
	assert.Equal(t, []string{"x86_64-unknown-linux-gnu"}, loaded.TripleSets["posix"])
}

func TestYamlFeederFeedOfEmptyFileIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	loaded := &Config{}
	require.NoError(t, YamlFeeder{File: path}.Feed(loaded))
	assert.Equal(t, "", loaded.Format)
}

func TestConfigManagerFeedsEnvOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kraftgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: tree\n"), 0o600))

	t.Setenv("KRAFTGRAPH_FORMAT", "json")

	cm, err := NewConfigManager(WithFile(path, false), WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "json", cm.Config.Format, "a later feeder must win over an earlier one")
}

func TestAllowedValuesLookup(t *testing.T) {
	assert.Equal(t, []string{"yaml", "json", "tree"}, AllowedValues("format"))
	assert.Empty(t, AllowedValues("does.not.exist"))
}
