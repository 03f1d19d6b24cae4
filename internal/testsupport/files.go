package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteMedia creates a stand-in media file of roughly size bytes. The
// content is a RIFF/WAVE preamble followed by a repeating pattern; only the
// bytes matter to the code under test, which hashes but never decodes it.
func WriteMedia(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	header := []byte("RIFF\x00\x00\x00\x00WAVE")
	if _, err := f.Write(header); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	remaining := size - int64(len(header))
	for remaining > 0 {
		n := min(remaining, int64(chunkSize))
		if _, err := f.Write(buf[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= n
	}
}
