package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeString(s string) func(w io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestNames(t *testing.T) {
	day := time.Date(2024, time.March, 5, 23, 0, 0, 0, time.UTC)
	require.Equal(t, "2019/sso_2019_keys.20240305.csv", DatedName("2019/sso_2019_keys.csv", day))
	require.Equal(t, "sso_html_2018_2024.orig.db", OrigName("sso_html_2018_2024.db"))
}

func TestWriteReplacing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.csv")
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, WriteReplacing(path, day, writeString("first\n")))
	require.False(t, Exists(DatedName(path, day)))

	require.NoError(t, WriteReplacing(path, day, writeString("second\n")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second\n", string(content))
	backup, err := os.ReadFile(DatedName(path, day))
	require.NoError(t, err)
	require.Equal(t, "first\n", string(backup))

	// same-day collisions overwrite the backup
	require.NoError(t, WriteReplacing(path, day, writeString("third\n")))
	backup, err = os.ReadFile(DatedName(path, day))
	require.NoError(t, err)
	require.Equal(t, "second\n", string(backup))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestWrittenFilesAreWorldReadable(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	atomic := filepath.Join(dir, "merged.json")
	require.NoError(t, WriteAtomic(atomic, writeString("{}")))
	replacing := filepath.Join(dir, "keys.csv")
	require.NoError(t, WriteReplacing(replacing, day, writeString("a\n")))

	for _, path := range []string{atomic, replacing} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o644), info.Mode().Perm(), path)
	}
}

func TestWriteAtomicFailureLeavesTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "merged.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := WriteAtomic(path, func(w io.Writer) error {
		return errors.New("boom")
	})
	require.Error(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "old", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.db")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0o600))

	dst := OrigName(src)
	require.NoError(t, CopyFile(src, dst))
	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "data", string(content))
}
