package gsd

import "os"

// fileHandle is the subset of *os.File the engine depends on. Tests
// substitute a fake implementation (see export_test.go/mock_test.go) to
// inject I/O errors at a specific write call without needing a real
// failing disk, mirroring the teacher's error-injecting mockReader.
type fileHandle interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Sync() error
	Truncate(size int64) error
	Stat() (os.FileInfo, error)
	Close() error
	Fd() uintptr
}
