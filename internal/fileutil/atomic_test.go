package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.hcl")

	require.NoError(t, WriteFileAtomic(path, []byte("initial"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("updated"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not remain")
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "rpsbot.hcl")
	require.NoError(t, WriteFileAtomic(path, []byte("x"), 0o644))
	assert.FileExists(t, path)
}

func TestWriteFileAtomicParentIsFile(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := WriteFileAtomic(filepath.Join(blocker, "rpsbot.hcl"), []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestWriteHCLFormats(t *testing.T) {
	t.Parallel()

	f := hclwrite.NewEmptyFile()
	f.Body().SetAttributeValue("theme", cty.StringVal("dark"))
	f.Body().SetAttributeValue("a", cty.StringVal("b"))

	path := filepath.Join(t.TempDir(), "prefs.hcl")
	require.NoError(t, WriteHCL(path, f))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^theme = "dark"\na\s+= "b"\n$`, string(data))
}
