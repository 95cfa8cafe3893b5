package gsd

import "encoding/binary"

// IndexEntry locates one chunk by (frame, id, location, N, M, type). It is
// the 32-byte on-disk record; Location == 0 marks an unused slot.
type IndexEntry struct {
	Frame    uint64
	N        uint64
	Location int64
	M        uint32
	ID       uint16
	Type     ElementType
	Flags    uint8
}

// size returns the byte length of the chunk this entry describes, or 0 if
// the type is unknown.
func (e *IndexEntry) size() int64 {
	sz := SizeofType(e.Type)
	if sz == 0 {
		return 0
	}
	return int64(e.N) * int64(e.M) * int64(sz)
}

func (e *IndexEntry) marshalBinary(dst []byte) {
	order := binary.LittleEndian
	order.PutUint64(dst[0:8], e.Frame)
	order.PutUint64(dst[8:16], e.N)
	order.PutUint64(dst[16:24], uint64(e.Location))
	order.PutUint32(dst[24:28], e.M)
	order.PutUint16(dst[28:30], e.ID)
	dst[30] = byte(e.Type)
	dst[31] = e.Flags
}

func unmarshalIndexEntry(src []byte) IndexEntry {
	order := binary.LittleEndian
	return IndexEntry{
		Frame:    order.Uint64(src[0:8]),
		N:        order.Uint64(src[8:16]),
		Location: int64(order.Uint64(src[16:24])),
		M:        order.Uint32(src[24:28]),
		ID:       order.Uint16(src[28:30]),
		Type:     ElementType(src[30]),
		Flags:    src[31],
	}
}
