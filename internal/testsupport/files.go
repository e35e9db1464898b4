package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and its directory) holding size filler bytes,
// at least one.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()
	writeUpload(t, path, "", size)
}

// WritePDF creates a file of size bytes whose content sniffs as
// application/pdf.
func WritePDF(t testing.TB, path string, size int64) {
	t.Helper()
	writeUpload(t, path, "%PDF-1.4\n", size)
}

func writeUpload(t testing.TB, path, header string, size int64) {
	t.Helper()
	size = max(size, int64(len(header)), 1)
	body := append([]byte(header), bytes.Repeat([]byte{'B'}, int(size)-len(header))...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
