package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	base := filepath.FromSlash("/home/user/project")
	assert.Equal(t, filepath.Join(base, "presets", "a.json"), ResolvePath(base, "presets/./a.json"))
	assert.Equal(t, filepath.Join(base, "b.json"), ResolvePath(base, "presets/../b.json"))

	abs := filepath.Join(t.TempDir(), "c.json")
	assert.Equal(t, abs, ResolvePath(base, abs))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "CMakePresets.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	ok, err := FileExists(file)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = FileExists(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = FileExists(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBoolEnvVar(t *testing.T) {
	t.Setenv("CMAKEPRESETS_TEST_BOOL", "true")
	v, ok, err := BoolEnvVar("CMAKEPRESETS_TEST_BOOL")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, v)

	t.Setenv("CMAKEPRESETS_TEST_BOOL", "maybe")
	_, _, err = BoolEnvVar("CMAKEPRESETS_TEST_BOOL")
	assert.Error(t, err)

	_, ok, err = BoolEnvVar("CMAKEPRESETS_TEST_UNSET")
	require.NoError(t, err)
	assert.False(t, ok)
}
