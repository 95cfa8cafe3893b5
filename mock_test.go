package gsd_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeRawFile materializes buf as a file under t.TempDir and returns its
// path, for tests that need to hand-construct corrupt or truncated on-disk
// structures byte-by-byte rather than going through Create.
func writeRawFile(t *testing.T, buf []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.gsd")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatalf("writeRawFile: %v", err)
	}
	return path
}

// rawHeader builds a 256-byte header block by hand, bypassing the package's
// own marshaling, so header-validation tests don't depend on the code
// they're meant to exercise.
func rawHeader(magic uint64, gsdVersion uint32, indexLocation, indexAllocated, namelistLocation, namelistAllocated uint64) []byte {
	buf := make([]byte, 256)
	order := binary.LittleEndian
	order.PutUint64(buf[0:8], magic)
	order.PutUint64(buf[8:16], indexLocation)
	order.PutUint64(buf[16:24], indexAllocated)
	order.PutUint64(buf[24:32], namelistLocation)
	order.PutUint64(buf[32:40], namelistAllocated)
	order.PutUint32(buf[40:44], 0)
	order.PutUint32(buf[44:48], gsdVersion)
	return buf
}

// errInjectingFile wraps a real *os.File and fails its WriteAt calls from
// the failAfter'th call onward, simulating a disk that starts erroring
// partway through a commit or index-growth sequence. Reads, Sync, Truncate,
// Stat, Close and Fd are all passed straight through to the real file so
// the engine's mmap path keeps working unmodified.
type errInjectingFile struct {
	*os.File

	writeAtCalls int
	failAfter    int // 1-indexed; 0 means never fail
	failErr      error
}

func (m *errInjectingFile) WriteAt(p []byte, off int64) (int, error) {
	m.writeAtCalls++
	if m.failAfter > 0 && m.writeAtCalls >= m.failAfter {
		return 0, m.failErr
	}
	return m.File.WriteAt(p, off)
}
