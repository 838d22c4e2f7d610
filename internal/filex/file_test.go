package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesAndIsIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "downloads", "nested")

	first, err := EnsureDir(target)
	require.NoError(t, err)
	require.Equal(t, target, first)

	second, err := EnsureDir(target)
	require.NoError(t, err)
	require.Equal(t, first, second)

	fi, err := os.Stat(target)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "downloads")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	_, err := EnsureDir(p)
	require.Error(t, err)
}

func TestCreateUnique_AddsSuffix(t *testing.T) {
	dir := t.TempDir()

	f1, err := CreateUnique(dir, "book.pdf")
	require.NoError(t, err)
	require.NoError(t, f1.Close())

	f2, err := CreateUnique(dir, "book.pdf")
	require.NoError(t, err)
	require.NoError(t, f2.Close())

	f3, err := CreateUnique(dir, "book.pdf")
	require.NoError(t, err)
	require.NoError(t, f3.Close())

	require.Equal(t, filepath.Join(dir, "book.pdf"), f1.Name())
	require.Equal(t, filepath.Join(dir, "book (1).pdf"), f2.Name())
	require.Equal(t, filepath.Join(dir, "book (2).pdf"), f3.Name())
}

func TestCreateUnique_MissingDir(t *testing.T) {
	_, err := CreateUnique(filepath.Join(t.TempDir(), "nope"), "a.txt")
	require.Error(t, err)
}
