package dma

import (
	"fmt"
	"sort"

	"github.com/dargueta/yaz0rom"
)

// Validate checks the active entries of an unpacked table for consistency with
// a ROM of `romSize` bytes. Both ends of every range must be 4-byte aligned,
// ranges can't be inverted or extend past the end of the ROM, and no two ranges
// may overlap. An empty range overlaps a file if it starts inside it. Deleted
// entries and (0, 0) placeholders are ignored.
//
// The first violation found is returned as an [yaz0rom.ErrLayout] naming the
// entry.
func (t *Table) Validate(romSize uint64) error {
	checked := make([]*Entry, 0, len(t.Entries))
	for i := range t.Entries {
		entry := &t.Entries[i]
		if entry.State != StateActive {
			continue
		}
		if entry.VirtualStart == 0 && entry.VirtualEnd == 0 {
			continue
		}
		checked = append(checked, entry)
	}

	sort.SliceStable(checked, func(i, j int) bool {
		return checked[i].VirtualStart < checked[j].VirtualStart
	})

	lowest := uint32(0)
	var previous *Entry
	for _, entry := range checked {
		if entry.VirtualEnd < entry.VirtualStart {
			return layoutError(entry, "end precedes start")
		}
		if entry.VirtualStart%yaz0rom.AddressAlignment != 0 ||
			entry.VirtualEnd%yaz0rom.AddressAlignment != 0 {
			return layoutError(
				entry, fmt.Sprintf("not aligned to %d bytes", yaz0rom.AddressAlignment))
		}
		if uint64(entry.VirtualEnd) > romSize {
			return layoutError(
				entry, fmt.Sprintf("extends past the end of the ROM (%d bytes)", romSize))
		}

		if entry.VirtualStart < lowest {
			return layoutError(entry, fmt.Sprintf("overlaps entry %d", previous.Index))
		}
		lowest = entry.VirtualEnd
		previous = entry
	}
	return nil
}

func layoutError(entry *Entry, problem string) error {
	return yaz0rom.ErrLayout.WithMessage(fmt.Sprintf("%s: %s", entry, problem))
}
