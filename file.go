package gsd

import (
	"os"

	"go.uber.org/zap"
)

// File is a handle to an open gsd file. Every operation is called on a
// single handle from a single goroutine; the package does not serialize
// concurrent access (§5 — no scheduling model, caller-owned serialization).
type File struct {
	f    fileHandle
	path string
	mode OpenFlag
	cfg  *config

	header Header

	names *nameTable
	index *fileIndex
	frame *frameBuffer

	curFrame uint64
	fileSize int64
}

// Create writes a new, empty gsd file at path, per §4.6 Create. The file
// is not left open; call Open or CreateAndOpen to start writing to it.
func Create(path, application, schema string, schemaVersion uint32, opts ...CreateOption) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return opErr("create", path, err)
	}
	defer f.Close()

	if err := initializeFile(f, application, schema, schemaVersion, cfg.namelistAllocatedEntries); err != nil {
		return opErr("create", path, err)
	}

	cfg.logger.Debug("gsd: created file", zap.String("path", path), zap.String("application", application), zap.String("schema", schema))
	return nil
}

// Open opens an existing gsd file in the given mode.
func Open(path string, mode OpenFlag, opts ...OpenOption) (*File, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var flag int
	switch mode {
	case ReadWrite, Append:
		flag = os.O_RDWR
	case ReadOnly:
		flag = os.O_RDONLY
	default:
		return nil, opErr("open", path, ErrInvalidArgument)
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, opErr("open", path, err)
	}

	gf, err := initializeHandle(f, path, mode, cfg)
	if err != nil {
		f.Close()
		return nil, opErr("open", path, err)
	}

	cfg.logger.Debug("gsd: opened file", zap.String("path", path), zap.String("mode", mode.String()), zap.Uint64("frames", gf.curFrame))
	return gf, nil
}

// CreateAndOpen creates a new gsd file and opens it in one step, optionally
// requiring exclusive creation (fails if the file already exists).
func CreateAndOpen(path, application, schema string, schemaVersion uint32, mode OpenFlag, exclusive bool, opts ...OpenOption) (*File, error) {
	if mode != ReadWrite && mode != Append {
		return nil, opErr("create_and_open", path, ErrFileMustBeWritable)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	flag := os.O_RDWR | os.O_CREATE | os.O_TRUNC
	if exclusive {
		flag |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, opErr("create_and_open", path, err)
	}

	if err := initializeFile(f, application, schema, schemaVersion, cfg.namelistAllocatedEntries); err != nil {
		f.Close()
		return nil, opErr("create_and_open", path, err)
	}

	gf, err := initializeHandle(f, path, mode, cfg)
	if err != nil {
		f.Close()
		return nil, opErr("create_and_open", path, err)
	}

	return gf, nil
}

// initializeFile truncates fd to zero and writes a freshly initialized
// header, index block, and namelist block, per §4.6 Create.
func initializeFile(f fileHandle, application, schema string, schemaVersion uint32, namelistAllocatedEntries uint64) error {
	if err := f.Truncate(0); err != nil {
		return err
	}

	hdr := Header{
		Magic:                    magicID,
		GSDVersion:               MakeVersion(1, 0),
		SchemaVersion:            schemaVersion,
		Application:              application,
		Schema:                   schema,
		IndexLocation:            headerSize,
		IndexAllocatedEntries:    initialIndexAllocatedEntries,
		NamelistAllocatedEntries: namelistAllocatedEntries,
	}
	hdr.NamelistLocation = hdr.IndexLocation + indexEntrySize*hdr.IndexAllocatedEntries

	if err := pwriteAll(f, hdr.marshalBinary(), 0); err != nil {
		return err
	}
	if err := pwriteAll(f, zeroBytes(int(indexEntrySize*hdr.IndexAllocatedEntries)), int64(hdr.IndexLocation)); err != nil {
		return err
	}
	if err := pwriteAll(f, zeroBytes(int(nameSize*hdr.NamelistAllocatedEntries)), int64(hdr.NamelistLocation)); err != nil {
		return err
	}

	return f.Sync()
}

// initializeHandle reads and validates the header, loads the namelist,
// maps the index, and determines the current frame counter, per §4.6 Open.
func initializeHandle(f fileHandle, path string, mode OpenFlag, cfg *config) (*File, error) {
	headerBuf := make([]byte, headerSize)
	if err := preadAll(f, headerBuf, 0); err != nil {
		return nil, ErrNotAGSDFile
	}

	hdr := unmarshalHeader(headerBuf)
	if hdr.Magic != magicID {
		return nil, ErrNotAGSDFile
	}
	if !readableVersion(hdr.GSDVersion) {
		return nil, ErrInvalidVersion
	}

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	fileSize := fi.Size()

	if int64(hdr.NamelistLocation+nameSize*hdr.NamelistAllocatedEntries) > fileSize {
		return nil, ErrFileCorrupt
	}

	names, err := loadNameTable(f, hdr.NamelistLocation, hdr.NamelistAllocatedEntries)
	if err != nil {
		return nil, err
	}

	index, err := mapFileIndex(f, hdr, fileSize, names.writtenEntries)
	if err != nil {
		cfg.logger.Warn("gsd: corrupt index on open", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	gf := &File{
		f:        f,
		path:     path,
		mode:     mode,
		cfg:      cfg,
		header:   *hdr,
		names:    names,
		index:    index,
		fileSize: fileSize,
	}

	if index.size == 0 {
		gf.curFrame = 0
	} else {
		gf.curFrame = index.entry(index.size-1).Frame + 1
	}

	if mode.writable() {
		gf.frame = newFrameBuffer(initialFrameBufferSize)
	}

	return gf, nil
}

// Truncate frees in-memory state, reinitializes the file (reusing the
// current application/schema/schema_version), and reloads the handle. The
// file keeps its name and descriptor; suitable for restart files.
func (gf *File) Truncate() error {
	if !gf.mode.writable() {
		return opErr("truncate", gf.path, ErrFileMustBeWritable)
	}

	if err := gf.index.close(); err != nil {
		return opErr("truncate", gf.path, err)
	}

	if err := initializeFile(gf.f, gf.header.Application, gf.header.Schema, gf.header.SchemaVersion, gf.header.NamelistAllocatedEntries); err != nil {
		return opErr("truncate", gf.path, err)
	}

	reopened, err := initializeHandle(gf.f, gf.path, gf.mode, gf.cfg)
	if err != nil {
		return opErr("truncate", gf.path, err)
	}

	*gf = *reopened
	return nil
}

// Close releases the mapped/owned index, the frame buffer, and the
// namelist, then closes the file descriptor. It releases all resources
// even if called after a previous operation failed.
func (gf *File) Close() error {
	var firstErr error
	if gf.index != nil {
		if err := gf.index.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := gf.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return opErr("close", gf.path, firstErr)
	}
	return nil
}

// Sync fsyncs the underlying file descriptor, giving callers an explicit
// flush point for frames committed without WithSyncOnEndFrame (§9 design
// note 1).
func (gf *File) Sync() error {
	if err := gf.f.Sync(); err != nil {
		return opErr("sync", gf.path, err)
	}
	return nil
}

// NFrames returns the number of frames committed to the file.
func (gf *File) NFrames() uint64 {
	return gf.curFrame
}

// reloadFileSize re-stats the file, per the design note that a safe
// implementation should reload file_size on any write error (growth or
// otherwise may have left it advanced past on-disk reality).
func (gf *File) reloadFileSize() {
	if fi, err := gf.f.Stat(); err == nil {
		gf.fileSize = fi.Size()
	}
}

// WriteChunk stages a chunk of the current, uncommitted frame: it
// looks up or assigns the chunk's name id, appends an entry to the frame
// buffer, and writes the raw bytes to the file tail. The chunk is not
// visible to FindChunk until EndFrame commits the frame.
func (gf *File) WriteChunk(name string, typ ElementType, n uint64, m uint32, flags uint8, data []byte) error {
	if !gf.mode.writable() {
		return opErr("write_chunk", gf.path, ErrFileMustBeWritable)
	}
	if data == nil || n == 0 || m == 0 || flags != 0 || !typ.Valid() {
		return opErr("write_chunk", gf.path, ErrInvalidArgument)
	}

	id, err := gf.names.lookupOrAssign(name)
	if err != nil {
		return opErr("write_chunk", gf.path, err)
	}

	size := int64(n) * int64(m) * int64(SizeofType(typ))
	if int64(len(data)) < size {
		return opErr("write_chunk", gf.path, ErrInvalidArgument)
	}

	entry := IndexEntry{
		Frame:    gf.curFrame,
		N:        n,
		Location: gf.fileSize,
		M:        m,
		ID:       id,
		Type:     typ,
		Flags:    0,
	}

	if err := pwriteAll(gf.f, data[:size], entry.Location); err != nil {
		gf.reloadFileSize()
		return opErr("write_chunk", gf.path, err)
	}
	gf.fileSize += size

	gf.frame.push(entry)
	return nil
}

// EndFrame commits every chunk written since the previous EndFrame: it
// flushes any new names, grows the file index if needed, appends the
// frame's entries, and advances the frame counter.
func (gf *File) EndFrame() error {
	if !gf.mode.writable() {
		return opErr("end_frame", gf.path, ErrFileMustBeWritable)
	}

	gf.curFrame++

	if gf.names.hasPendingNames() {
		if err := gf.names.flush(gf.f); err != nil {
			gf.reloadFileSize()
			return opErr("end_frame", gf.path, err)
		}
	}

	if gf.frame.len() > 0 {
		for gf.index.size+uint64(gf.frame.len()) > gf.index.allocated {
			if err := gf.expandFileIndex(); err != nil {
				gf.reloadFileSize()
				return opErr("end_frame", gf.path, err)
			}
		}

		buf := make([]byte, indexEntrySize*gf.frame.len())
		for i, e := range gf.frame.entries {
			e.marshalBinary(buf[i*indexEntrySize : (i+1)*indexEntrySize])
		}

		writePos := int64(gf.header.IndexLocation) + int64(gf.index.size)*indexEntrySize
		if err := pwriteAll(gf.f, buf, writePos); err != nil {
			gf.reloadFileSize()
			return opErr("end_frame", gf.path, err)
		}

		gf.index.size += uint64(gf.frame.len())
		gf.cfg.logger.Debug("gsd: committed frame", zap.Uint64("frame", gf.curFrame-1), zap.Int("chunks", gf.frame.len()))
		gf.frame.reset()
	}

	if gf.cfg.syncOnEndFrame {
		if err := gf.f.Sync(); err != nil {
			return opErr("end_frame", gf.path, err)
		}
	}

	return nil
}

// FindChunk binary-searches the committed index for the named chunk at
// frame, scanning leftward over the run of equal-frame entries so the
// most recently written entry for a repeated (frame, name) wins.
func (gf *File) FindChunk(frame uint64, name string) (*IndexEntry, error) {
	if !gf.mode.readable() {
		return nil, opErr("find_chunk", gf.path, ErrFileMustBeReadable)
	}
	if frame >= gf.curFrame {
		return nil, nil
	}

	id := gf.names.findName(name)
	if id == notFoundID {
		return nil, nil
	}

	if gf.index.size == 0 {
		return nil, nil
	}

	l, r := uint64(0), gf.index.size
	for r-l > 1 {
		m := (l + r) / 2
		if frame < gf.index.entry(m).Frame {
			r = m
		} else {
			l = m
		}
	}

	for cur := int64(l); cur >= 0; cur-- {
		e := gf.index.entry(uint64(cur))
		if e.Frame != frame {
			break
		}
		if e.ID == id {
			return &e, nil
		}
	}

	return nil, nil
}

// ReadChunk reads the bytes described by entry (as returned by FindChunk)
// into buf.
func (gf *File) ReadChunk(buf []byte, entry *IndexEntry) error {
	if !gf.mode.readable() {
		return opErr("read_chunk", gf.path, ErrFileMustBeReadable)
	}
	if entry == nil || buf == nil {
		return opErr("read_chunk", gf.path, ErrInvalidArgument)
	}

	size := entry.size()
	if size == 0 || entry.Location == 0 {
		return opErr("read_chunk", gf.path, ErrFileCorrupt)
	}
	if entry.Location+size > gf.fileSize {
		return opErr("read_chunk", gf.path, ErrFileCorrupt)
	}
	if int64(len(buf)) < size {
		return opErr("read_chunk", gf.path, ErrInvalidArgument)
	}

	if err := preadAll(gf.f, buf[:size], entry.Location); err != nil {
		return opErr("read_chunk", gf.path, err)
	}
	return nil
}

// FindMatchingChunkName returns the next committed chunk name, in sorted
// order, that begins with prefix, starting after prev (or from the start
// if prev is ""). The boolean result reports whether a match was found.
func (gf *File) FindMatchingChunkName(prefix, prev string) (string, bool) {
	return gf.names.findMatchingName(prefix, prev)
}
