package dma

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/dargueta/yaz0rom"
	"github.com/noxer/bytewriter"
)

// Serialize writes the table into `rom` at the table's offset, in the order a
// packed ROM expects.
//
// The table area is cleared first. Entries with a nonempty range go first,
// sorted by ascending virtual start. The rest follow in table order, and
// writing stops after the first of them with a virtual end of 0, which serves
// as the end-of-table marker.
func (t *Table) Serialize(rom []byte) error {
	return t.writeRecords(rom, t.packedOrder())
}

// SerializeInPlace writes every entry back to the slot it was parsed from.
func (t *Table) SerializeInPlace(rom []byte) error {
	order := make([]*Entry, len(t.Entries))
	for i := range t.Entries {
		order[i] = &t.Entries[i]
	}
	return t.writeRecords(rom, order)
}

// packedOrder returns the entries in the order Serialize writes them. Sizes are
// sorted largest first, then the nonempty prefix is re-sorted by virtual start.
// The result is the same as taking the nonempty entries by start followed by
// the empty ones, which all have the same size and keep their table order.
func (t *Table) packedOrder() []*Entry {
	order := make([]*Entry, len(t.Entries))
	for i := range t.Entries {
		order[i] = &t.Entries[i]
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Size() > order[j].Size()
	})

	numUsed := 0
	for numUsed < len(order) && order[numUsed].VirtualStart != order[numUsed].VirtualEnd {
		numUsed++
	}

	prefix := order[:numUsed]
	sort.SliceStable(prefix, func(i, j int) bool {
		return prefix[i].VirtualStart < prefix[j].VirtualStart
	})

	for i := numUsed; i < len(order); i++ {
		if order[i].VirtualEnd == 0 {
			return order[:i+1]
		}
	}
	return order
}

func (t *Table) writeRecords(rom []byte, entries []*Entry) error {
	tableEnd := uint64(t.Offset) + uint64(t.Size())
	if tableEnd > uint64(len(rom)) {
		return yaz0rom.ErrLayout.WithMessage(
			fmt.Sprintf(
				"table at 0x%X needs %d bytes but the ROM is only %d bytes",
				t.Offset,
				t.Size(),
				len(rom)))
	}

	area := rom[t.Offset:tableEnd]
	for i := range area {
		area[i] = 0
	}

	writer := bytewriter.New(area)
	for _, entry := range entries {
		if err := binary.Write(writer, binary.BigEndian, entry.Record()); err != nil {
			return yaz0rom.ErrIOFailed.Wrap(err)
		}
	}
	return nil
}
