package dma

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/yaz0rom"
	"github.com/xaionaro-go/bytesextra"
)

// MaxEntries is the largest table we're willing to parse.
const MaxEntries = 8192

// Table is the ordered set of entries parsed from one ROM. Entries stay in the
// order they were parsed in; Entries[i].Index == i.
type Table struct {
	// Offset is the byte offset of the table in the ROM.
	Offset  uint32
	Entries []Entry
}

// Parse reads `count` records starting at `offset` from an unpacked ROM.
//
// Records whose physical fields are both the deletion sentinel become deleted
// entries with an empty virtual range. Any other record with a nonzero
// physical_end means the ROM is already packed, which is an [yaz0rom.ErrLayout].
func Parse(rom []byte, offset uint32, count int) (*Table, error) {
	return parse(rom, offset, count, false)
}

// ParsePacked reads `count` records starting at `offset` from a packed ROM.
//
// Records that don't describe a restorable file are kept as skipped entries
// and written back verbatim: any field holding the deletion sentinel, an empty
// or inverted virtual range, or a compressed range of zero length.
func ParsePacked(rom []byte, offset uint32, count int) (*Table, error) {
	return parse(rom, offset, count, true)
}

func parse(rom []byte, offset uint32, count int, packed bool) (*Table, error) {
	if count < 0 || count > MaxEntries {
		return nil, yaz0rom.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("entry count must be in [0, %d], got %d", MaxEntries, count))
	}

	tableEnd := uint64(offset) + uint64(count)*yaz0rom.RecordSize
	if tableEnd > uint64(len(rom)) {
		return nil, yaz0rom.ErrLayout.WithMessage(
			fmt.Sprintf(
				"table of %d entries at 0x%X runs past the end of the ROM (%d bytes)",
				count,
				offset,
				len(rom)))
	}

	reader := bytesextra.NewReadWriteSeeker(rom)
	if _, err := reader.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, yaz0rom.ErrIOFailed.Wrap(err)
	}

	table := &Table{
		Offset:  offset,
		Entries: make([]Entry, count),
	}

	for i := 0; i < count; i++ {
		var record Record
		if err := binary.Read(reader, binary.BigEndian, &record); err != nil {
			return nil, yaz0rom.ErrIOFailed.Wrap(err)
		}

		var err error
		if packed {
			table.Entries[i] = entryFromPackedRecord(i, record)
		} else {
			table.Entries[i], err = entryFromRecord(i, record)
		}
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

func entryFromRecord(index int, record Record) (Entry, error) {
	if record.IsDeleted() {
		return deletedEntry(index, record), nil
	}
	if record.PhysicalEnd != 0 && record.PhysicalEnd != yaz0rom.DeletedSentinel {
		return Entry{}, yaz0rom.ErrLayout.WithMessage(
			fmt.Sprintf(
				"entry %d (%s) suggests the ROM is already compressed", index, record))
	}

	return Entry{
		Index:         index,
		State:         StateActive,
		VirtualStart:  record.VirtualStart,
		VirtualEnd:    record.VirtualEnd,
		PhysicalStart: record.PhysicalStart,
		PhysicalEnd:   record.PhysicalEnd,
		OriginalStart: record.VirtualStart,
		OriginalEnd:   record.VirtualEnd,
		raw:           record,
	}, nil
}

func entryFromPackedRecord(index int, record Record) Entry {
	if record.IsDeleted() {
		return deletedEntry(index, record)
	}

	unusable := record.VirtualStart == yaz0rom.DeletedSentinel ||
		record.VirtualEnd == yaz0rom.DeletedSentinel ||
		record.PhysicalStart == yaz0rom.DeletedSentinel ||
		record.PhysicalEnd == yaz0rom.DeletedSentinel ||
		record.VirtualEnd <= record.VirtualStart ||
		(record.PhysicalEnd != 0 && record.PhysicalEnd == record.PhysicalStart)

	state := StateActive
	if unusable {
		state = StateSkipped
	}
	return Entry{
		Index:         index,
		State:         state,
		VirtualStart:  record.VirtualStart,
		VirtualEnd:    record.VirtualEnd,
		PhysicalStart: record.PhysicalStart,
		PhysicalEnd:   record.PhysicalEnd,
		OriginalStart: record.VirtualStart,
		OriginalEnd:   record.VirtualEnd,
		raw:           record,
	}
}

func deletedEntry(index int, record Record) Entry {
	return Entry{
		Index:         index,
		State:         StateDeleted,
		OriginalStart: record.VirtualStart,
		OriginalEnd:   record.VirtualEnd,
		raw:           record,
	}
}

// Size returns the number of bytes the table occupies on disk.
func (t *Table) Size() int {
	return len(t.Entries) * yaz0rom.RecordSize
}

// ApplyCompressionFlags sets ShouldCompress on every active entry whose bit is
// set in `flags`. Entries past the end of the bitmap aren't compressed.
func (t *Table) ApplyCompressionFlags(flags bitmap.Bitmap) {
	for i := range t.Entries {
		entry := &t.Entries[i]
		entry.ShouldCompress = entry.State == StateActive && i < flags.Len() && flags.Get(i)
	}
}

// CountCompressible returns the number of entries flagged for compression.
func (t *Table) CountCompressible() int {
	total := 0
	for i := range t.Entries {
		if t.Entries[i].ShouldCompress {
			total++
		}
	}
	return total
}

// ActiveByVirtualStart returns pointers to every active entry with a nonempty
// range, ordered by ascending virtual start. Ties keep table order.
func (t *Table) ActiveByVirtualStart() []*Entry {
	active := make([]*Entry, 0, len(t.Entries))
	for i := range t.Entries {
		if t.Entries[i].State == StateActive && !t.Entries[i].IsEmpty() {
			active = append(active, &t.Entries[i])
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].VirtualStart < active[j].VirtualStart
	})
	return active
}

// MaxVirtualEnd returns the highest virtual end address of any active entry.
func (t *Table) MaxVirtualEnd() uint32 {
	highest := uint32(0)
	for i := range t.Entries {
		entry := &t.Entries[i]
		if entry.State == StateActive && entry.VirtualEnd > highest {
			highest = entry.VirtualEnd
		}
	}
	return highest
}
