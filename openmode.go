package gsd

import "fmt"

// OpenFlag selects the access mode a file is opened with.
type OpenFlag int

const (
	// ReadWrite allows both find_chunk and write_chunk. The committed index
	// is read through the same index view as in ReadOnly mode; it is not
	// loaded into memory as a whole.
	ReadWrite OpenFlag = iota + 1
	// ReadOnly disallows writes; find_chunk and read_chunk are available.
	ReadOnly
	// Append is writer-friendly and disallows find_chunk.
	Append
)

func (m OpenFlag) String() string {
	switch m {
	case ReadWrite:
		return "read-write"
	case ReadOnly:
		return "read-only"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("OpenFlag(%d)", int(m))
	}
}

func (m OpenFlag) writable() bool {
	return m == ReadWrite || m == Append
}

func (m OpenFlag) readable() bool {
	return m == ReadWrite || m == ReadOnly
}
