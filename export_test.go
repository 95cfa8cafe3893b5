package gsd

// The functions below exist only to let external tests (package gsd_test)
// drive the engine on top of a fake fileHandle that injects I/O errors at a
// chosen write call, the way the teacher's mockReader injects read errors
// into squashfs.New. fileHandle itself is unexported, but Go's structural
// interface satisfaction means a test package can still pass any value
// whose method set matches it.

// OpenHandleForTest builds a *File directly on top of fh, bypassing Open's
// own os.OpenFile.
func OpenHandleForTest(fh fileHandle, path string, mode OpenFlag, opts ...OpenOption) (*File, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return initializeHandle(fh, path, mode, cfg)
}

// InitializeForTest runs Create's on-disk initialization directly against
// fh, the Create-time analog of OpenHandleForTest.
func InitializeForTest(fh fileHandle, application, schema string, schemaVersion uint32, namelistAllocatedEntries uint64) error {
	return initializeFile(fh, application, schema, schemaVersion, namelistAllocatedEntries)
}
