package gsd

// mappedIndex is the read-only view over the on-disk index block described
// in §4.4 ("Mapped" variant): backed by mmap where the platform supports
// it (index_mmap_unix.go), or a full heap copy otherwise
// (index_mmap_fallback.go). Both implementations satisfy this interface so
// the file engine never branches on platform.
type mappedIndex interface {
	// entry returns the i'th raw 32-byte on-disk slot.
	entry(i uint64) IndexEntry
	// close releases the mapping / backing buffer.
	close() error
}

// fileIndex is the committed, on-disk index: a mappedIndex plus the
// logical size determined by binary-searching for the first unused slot
// at open time (§4.4, §4.9).
type fileIndex struct {
	view    mappedIndex
	size    uint64 // number of written (non-sentinel) entries
	allocated uint64
}

// mapFileIndex opens the on-disk index block for reading and determines
// its logical size via the binary search described in §4.4/§4.9, validating
// every probed entry (§4.5) and the frame-monotonicity invariant along the
// way. namelistNumEntries is the namelist's committed entry count (not its
// pre-allocated capacity), used to bound each entry's id.
func mapFileIndex(f fileHandle, hdr *Header, fileSize int64, namelistNumEntries uint64) (*fileIndex, error) {
	allocated := hdr.IndexAllocatedEntries
	indexBytes := indexEntrySize * allocated
	if int64(hdr.IndexLocation+indexBytes) > fileSize {
		return nil, ErrFileCorrupt
	}

	view, err := newMappedIndex(f, hdr.IndexLocation, allocated)
	if err != nil {
		return nil, err
	}

	fi := &fileIndex{view: view, allocated: allocated}

	if allocated == 0 {
		fi.size = 0
		return fi, nil
	}

	first := view.entry(0)
	if first.Location != 0 {
		if !isEntryValid(&first, hdr, fileSize, namelistNumEntries) {
			view.close()
			return nil, ErrFileCorrupt
		}
	}

	if first.Location == 0 {
		fi.size = 0
		return fi, nil
	}

	// binary search for the first slot with Location == 0, validating
	// every probed non-sentinel entry and the frame-monotonicity
	// invariant as we go.
	l, r := uint64(0), allocated
	for r-l > 1 {
		m := (l + r) / 2
		e := view.entry(m)
		if e.Location != 0 {
			if !isEntryValid(&e, hdr, fileSize, namelistNumEntries) || e.Frame < view.entry(l).Frame {
				view.close()
				return nil, ErrFileCorrupt
			}
			l = m
		} else {
			r = m
		}
	}
	fi.size = r

	return fi, nil
}

func (fi *fileIndex) entry(i uint64) IndexEntry {
	return fi.view.entry(i)
}

func (fi *fileIndex) close() error {
	if fi.view == nil {
		return nil
	}
	err := fi.view.close()
	fi.view = nil
	return err
}

// isEntryValid implements §4.5 entry validation. namelistNumEntries bounds
// the id against the namelist's committed count, not its pre-allocated
// capacity, matching gsd_is_entry_valid in the reference implementation:
// an id past every name ever actually written is corrupt even though it
// still fits within namelist_allocated_entries.
func isEntryValid(e *IndexEntry, hdr *Header, fileSize int64, namelistNumEntries uint64) bool {
	sz := SizeofType(e.Type)
	if sz == 0 {
		return false
	}
	if e.Location+int64(e.N)*int64(e.M)*int64(sz) > fileSize {
		return false
	}
	if e.Frame >= hdr.IndexAllocatedEntries {
		return false
	}
	if uint64(e.ID) >= namelistNumEntries {
		return false
	}
	if e.Flags != 0 {
		return false
	}
	return true
}

// frameBuffer is the writable, in-memory staging buffer for the entries of
// the current, uncommitted frame (§4.4 "Owned" variant).
type frameBuffer struct {
	entries []IndexEntry
}

func newFrameBuffer(initial int) *frameBuffer {
	return &frameBuffer{entries: make([]IndexEntry, 0, initial)}
}

func (fb *frameBuffer) push(e IndexEntry) {
	fb.entries = append(fb.entries, e)
}

func (fb *frameBuffer) len() int {
	return len(fb.entries)
}

func (fb *frameBuffer) reset() {
	fb.entries = fb.entries[:0]
}
