package dma

import (
	"fmt"

	"github.com/dargueta/yaz0rom"
)

// State says how an entry takes part in repacking.
type State int

const (
	// StateActive is a live file. Only active entries are validated, compressed,
	// and placed.
	StateActive State = iota
	// StateDeleted is a file removed from the ROM. It has no address range.
	StateDeleted
	// StateSkipped is a record from a packed table that doesn't describe a
	// usable file (e.g. an end-of-table marker). It's written back verbatim.
	StateSkipped
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDeleted:
		return "deleted"
	case StateSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Record is the on-disk form of a table entry.
type Record struct {
	VirtualStart  uint32
	VirtualEnd    uint32
	PhysicalStart uint32
	PhysicalEnd   uint32
}

func (r Record) String() string {
	return fmt.Sprintf(
		"%08X %08X %08X %08X", r.VirtualStart, r.VirtualEnd, r.PhysicalStart, r.PhysicalEnd)
}

// IsDeleted determines if the record uses the sentinel for deleted files.
func (r Record) IsDeleted() bool {
	return r.PhysicalStart == yaz0rom.DeletedSentinel && r.PhysicalEnd == yaz0rom.DeletedSentinel
}

// Entry is one file's mapping between the virtual and physical address spaces.
type Entry struct {
	// Index is the position of the record in the table as parsed.
	Index int
	State State

	VirtualStart uint32
	VirtualEnd   uint32

	// PhysicalStart is where the file's stored bytes begin in the ROM.
	PhysicalStart uint32
	// PhysicalEnd is 0 if the file is stored uncompressed, in which case it
	// occupies VirtualEnd - VirtualStart bytes. Otherwise the file is compressed
	// and occupies [PhysicalStart, PhysicalEnd).
	PhysicalEnd uint32

	// OriginalStart and OriginalEnd hold the virtual range as it was on disk, so
	// deleted entries can be written back unchanged.
	OriginalStart uint32
	OriginalEnd   uint32

	// ShouldCompress is set from the release's compression flags. Packing clears
	// it if compressing the file doesn't make it smaller.
	ShouldCompress bool

	// Payload holds the bytes to be stored for this file between encoding and
	// placement. It's nil at all other times.
	Payload []byte

	// raw is the record as read from disk, kept for skipped entries.
	raw Record
}

// Size returns the uncompressed size of the file.
func (e *Entry) Size() uint32 {
	if e.VirtualEnd < e.VirtualStart {
		return 0
	}
	return e.VirtualEnd - e.VirtualStart
}

// IsEmpty determines if the entry has nothing to store.
func (e *Entry) IsEmpty() bool {
	return e.State != StateActive || e.VirtualStart == e.VirtualEnd
}

// IsCompressed determines if the entry's physical range holds compressed data.
func (e *Entry) IsCompressed() bool {
	return e.PhysicalEnd != 0
}

// StoredSize returns the number of bytes the file occupies in the physical
// address space.
func (e *Entry) StoredSize() uint32 {
	if e.IsCompressed() {
		return e.PhysicalEnd - e.PhysicalStart
	}
	return e.Size()
}

// Record converts the entry to its on-disk form.
func (e *Entry) Record() Record {
	switch e.State {
	case StateDeleted:
		return Record{
			VirtualStart:  e.OriginalStart,
			VirtualEnd:    e.OriginalEnd,
			PhysicalStart: yaz0rom.DeletedSentinel,
			PhysicalEnd:   yaz0rom.DeletedSentinel,
		}
	case StateSkipped:
		return e.raw
	default:
		return Record{
			VirtualStart:  e.VirtualStart,
			VirtualEnd:    e.VirtualEnd,
			PhysicalStart: e.PhysicalStart,
			PhysicalEnd:   e.PhysicalEnd,
		}
	}
}

func (e *Entry) String() string {
	return fmt.Sprintf("entry %d (%s, %s)", e.Index, e.State, e.Record())
}
