package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func chdirTemp(t *testing.T) string {
	t.Helper()

	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	return tempDir
}

func TestInitCmd_WritesConfigFile(t *testing.T) {
	tempDir := chdirTemp(t)

	cmd, out := newTestRootCmd(t, newInitCmd())
	require.NoError(t, runTestCmd(t, cmd, "init"))

	targetPath := filepath.Join(tempDir, configFileName)
	contents, err := os.ReadFile(targetPath)
	require.NoError(t, err)

	var written defaultConfig
	require.NoError(t, yaml.Unmarshal(contents, &written))

	assert.Equal(t, newDefaultConfig(), written)
	assert.Equal(t, []string{"pylint", "naming-check"}, written.Tools["python"])
	assert.Equal(t, []string{"cpplint", "naming-check"}, written.Tools["c"])
	assert.Contains(t, out.String(), "Wrote "+configFileName)
}

func TestInitCmd_ErrorsWhenFileExists(t *testing.T) {
	tempDir := chdirTemp(t)

	targetPath := filepath.Join(tempDir, configFileName)
	require.NoError(t, os.WriteFile(targetPath, []byte("existing: true\n"), 0o600))

	cmd, _ := newTestRootCmd(t, newInitCmd())
	err := runTestCmd(t, cmd, "init")

	require.ErrorIs(t, err, errConfigExists)

	contents, readErr := os.ReadFile(targetPath)
	require.NoError(t, readErr)
	assert.Equal(t, "existing: true\n", string(contents))
}
