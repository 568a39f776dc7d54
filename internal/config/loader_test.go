package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	opts := ApplyDefaults(Options{})
	assert.Equal(t, 4, opts.Workers)
	require.NotNil(t, opts.OverwriteOutputFormulas)
	assert.True(t, *opts.OverwriteOutputFormulas)
	assert.True(t, opts.OverwriteEnabled())
}

func TestApplyDefaults_PreservesSetValues(t *testing.T) {
	overwrite := false
	opts := ApplyDefaults(Options{Workers: 8, OverwriteOutputFormulas: &overwrite})
	assert.Equal(t, 8, opts.Workers)
	assert.False(t, opts.OverwriteEnabled())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "templatePath: /tmp/t.xlsx\nsourceFolder: /tmp/src\noutputFolder: /tmp/out\noptions:\n  workers: 6\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/t.xlsx", f.Request.TemplatePath)
	assert.Equal(t, 6, f.Request.Options.Workers)
}
