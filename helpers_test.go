package archivekit

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
)

func zipBytes(t testing.TB, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func tarBytes(t testing.TB, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg}
		if err := w.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write tar entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// buildTree lays out a directory with good, damaged and unsupported files
// and returns the root.
func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{"a.txt": "alpha", "b.txt": "bravo"}

	good := tarBytes(t, files)
	writeFile(t, filepath.Join(root, "good.zip"), zipBytes(t, files))
	writeFile(t, filepath.Join(root, "good.tar"), good)
	writeFile(t, filepath.Join(root, "nested", "deep", "good.zip"), zipBytes(t, files))
	writeFile(t, filepath.Join(root, "nested", "cut.tar"), good[:len(good)-700])
	writeFile(t, filepath.Join(root, "nested", "fake.7z"), []byte("not really an archive"))
	writeFile(t, filepath.Join(root, "notes.txt"), []byte("This is a test file."))
	writeFile(t, filepath.Join(root, "UPPER.ZIP"), zipBytes(t, files))
	return root
}
