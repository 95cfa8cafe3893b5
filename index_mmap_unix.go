//go:build !windows && !js

package gsd

import (
	"os"

	"golang.org/x/sys/unix"
)

// unixMappedIndex backs the read-only index view with a real mmap(2)
// mapping, per §4.9 / the design note on mmap vs heap: large files pay
// only page faults for the entries a reader actually touches.
type unixMappedIndex struct {
	data       []byte // the full mmap'd region, page-aligned
	pageOffset int64  // byte offset of indexLocation within data
}

func newMappedIndex(f fileHandle, location, allocatedEntries uint64) (mappedIndex, error) {
	if allocatedEntries == 0 {
		return &unixMappedIndex{}, nil
	}

	pageSize := int64(os.Getpagesize())
	indexSize := int64(indexEntrySize) * int64(allocatedEntries)
	alignedOffset := (int64(location) / pageSize) * pageSize
	within := int64(location) - alignedOffset

	data, err := unix.Mmap(int(f.Fd()), alignedOffset, int(indexSize+within), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	return &unixMappedIndex{data: data, pageOffset: within}, nil
}

func (m *unixMappedIndex) entry(i uint64) IndexEntry {
	off := m.pageOffset + int64(i)*indexEntrySize
	return unmarshalIndexEntry(m.data[off : off+indexEntrySize])
}

func (m *unixMappedIndex) close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return err
}
