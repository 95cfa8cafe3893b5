package gsd

import "go.uber.org/zap"

// expandFileIndex implements §4.7: the file index has run out of room for
// the frame about to be committed. The old index contents are copied to a
// new, larger block appended at the file's tail, the tail is zero-extended
// to the new allocation, the data is fsynced ahead of the header so a crash
// mid-growth can never observe a header pointing at an index block that
// isn't fully on disk, and only then is the header rewritten to point at
// the new location.
func (gf *File) expandFileIndex() error {
	factor := gf.cfg.indexGrowthFactor
	if factor < 2 {
		factor = indexGrowthFactor
	}

	oldAllocated := gf.index.allocated
	newAllocated := oldAllocated * uint64(factor)
	if newAllocated == 0 {
		newAllocated = initialIndexAllocatedEntries
	}

	newLocation := uint64(gf.fileSize)
	newBytes := indexEntrySize * newAllocated

	buf := make([]byte, newBytes)
	for i := uint64(0); i < gf.index.size; i++ {
		e := gf.index.entry(i)
		e.marshalBinary(buf[i*indexEntrySize : (i+1)*indexEntrySize])
	}

	if err := pwriteAll(gf.f, buf, int64(newLocation)); err != nil {
		return err
	}
	if err := gf.f.Sync(); err != nil {
		return err
	}

	gf.fileSize = int64(newLocation) + int64(newBytes)

	newHdr := gf.header
	newHdr.IndexLocation = newLocation
	newHdr.IndexAllocatedEntries = newAllocated

	if err := pwriteAll(gf.f, newHdr.marshalBinary(), 0); err != nil {
		return err
	}
	if err := gf.f.Sync(); err != nil {
		return err
	}

	if err := gf.index.close(); err != nil {
		return err
	}

	view, err := newMappedIndex(gf.f, newLocation, newAllocated)
	if err != nil {
		return err
	}

	gf.header = newHdr
	gf.index = &fileIndex{view: view, size: gf.index.size, allocated: newAllocated}

	gf.cfg.logger.Info("gsd: grew file index",
		zap.Uint64("old_allocated", oldAllocated),
		zap.Uint64("new_allocated", newAllocated),
		zap.Uint64("new_location", newLocation))

	return nil
}
