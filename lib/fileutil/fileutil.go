package fileutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func splitExt(path string) (string, string) {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}

// DatedName returns <name>.<YYYYMMDD><ext> for the given day.
func DatedName(path string, day time.Time) string {
	base, ext := splitExt(path)
	return fmt.Sprintf("%s.%s%s", base, day.Format("20060102"), ext)
}

// OrigName returns <name>.orig<ext>.
func OrigName(path string) string {
	base, ext := splitExt(path)
	return base + ".orig" + ext
}

// BackupDated renames an existing file to its dated name. A backup taken
// earlier on the same day is overwritten. Returns "" when there was nothing
// to back up.
func BackupDated(path string, day time.Time) (string, error) {
	if !Exists(path) {
		return "", nil
	}
	backup := DatedName(path, day)
	err := os.Rename(path, backup)
	if err != nil {
		// some platforms refuse to rename over an existing file
		if rmErr := os.Remove(backup); rmErr != nil && !os.IsNotExist(rmErr) {
			return "", rmErr
		}
		if err := os.Rename(path, backup); err != nil {
			return "", err
		}
	}
	slog.Info("renamed existing file", "file", path, "backup", backup)
	return backup, nil
}

// CopyFile copies src to dst, keeping the file mode and modification time.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func writeTemp(path string, write func(w io.Writer) error) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return "", err
	}
	// CreateTemp makes the file 0600, the rename would keep that
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write temp file %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// WriteAtomic writes to a temp file next to path and renames it into place.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := writeTemp(path, write)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// WriteReplacing is WriteAtomic, except an existing file at path is first
// moved aside with BackupDated.
func WriteReplacing(path string, day time.Time, write func(w io.Writer) error) error {
	tmp, err := writeTemp(path, write)
	if err != nil {
		return err
	}
	if _, err := BackupDated(path, day); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s to %s: %w", tmp, path, err)
	}
	return nil
}
