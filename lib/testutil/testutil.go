package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sso-concerts/lib/telemetry"
	"sso-concerts/services/htmlstore"
)

type ServiceParams struct {
	// relative path -> file content, written under DataDir
	Files map[string]string
	// if non-empty, these are imported into a fresh store at DBPath
	Records []htmlstore.Record
}

type ServiceResult struct {
	DataDir string
	DBPath  string
	Store   *htmlstore.Store
}

// SetupService prepares a throwaway data directory (and optionally a seeded
// html store) for a test. Everything is removed when the test ends.
func SetupService(t testing.TB, params ServiceParams) ServiceResult {
	t.Helper()
	telemetry.SetupForTesting(t)

	dir := t.TempDir()
	WriteFiles(t, dir, params.Files)

	res := ServiceResult{
		DataDir: dir,
		DBPath:  filepath.Join(dir, "sso_html_test.db"),
	}
	if len(params.Records) == 0 {
		return res
	}

	store, err := htmlstore.Open(res.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	err = store.Import(context.Background(), params.Records, false)
	if err != nil {
		t.Fatal(err)
	}
	res.Store = store
	return res
}

func WriteFiles(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(path, []byte(content), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
}

func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
