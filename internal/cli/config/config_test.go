package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tvmtools/tvmdbg/internal/config"
)

func loadDefaults(cmd *cobra.Command) (*config.Config, error) {
	return config.Default(), nil
}

func TestNewConfigCmd(t *testing.T) {
	cmd := NewConfigCmd(loadDefaults)
	require.NotNil(t, cmd)
	assert.Equal(t, "config", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"view", "validate", "init", "path"}, names)
}

func TestViewCmd_Formats(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runView(&out, config.Default(), "yaml"))

		var got config.Config
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, config.DefaultGDBPath, got.GDB.Path)
		assert.Equal(t, config.DefaultEvalTimeout, got.GDB.EvalTimeout)
		assert.Equal(t, config.DefaultDumpFunction, got.Runtime.DumpFunction)
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runView(&out, config.Default(), "json"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Contains(t, got, "runtime")
		runtime := got["runtime"].(map[string]any)
		assert.Equal(t, config.DefaultNamespace, runtime["namespace"])
	})

	t.Run("rejects csv", func(t *testing.T) {
		cmd := NewConfigCmd(loadDefaults)
		cmd.SetArgs([]string{"view", "-o", "csv"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}

func TestValidateCmd(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var out bytes.Buffer
		cmd := NewConfigCmd(loadDefaults)
		cmd.SetArgs([]string{"validate"})
		cmd.SetOut(&out)
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Configuration is valid")
	})

	t.Run("invalid", func(t *testing.T) {
		failing := func(cmd *cobra.Command) (*config.Config, error) {
			return nil, errors.New("invalid configuration: gdb.path must not be empty")
		}
		cmd := NewConfigCmd(failing)
		cmd.SetArgs([]string{"validate"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gdb.path")
	})
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoaderAt(dir)

	var out bytes.Buffer
	require.NoError(t, runInit(&out, loader, false))
	assert.Contains(t, out.String(), filepath.Join(dir, config.ConfigFile))

	_, err := os.Stat(loader.Path())
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultNamespace, cfg.Runtime.Namespace)

	t.Run("refuses to overwrite", func(t *testing.T) {
		err := runInit(&bytes.Buffer{}, loader, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("force overwrites", func(t *testing.T) {
		require.NoError(t, runInit(&bytes.Buffer{}, loader, true))
	})
}

func TestPathCmd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TVMDBG_CONFIG", dir)

	var out bytes.Buffer
	cmd := NewConfigCmd(loadDefaults)
	cmd.SetArgs([]string{"path"})
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, filepath.Join(dir, config.ConfigFile)+"\n", out.String())
}
