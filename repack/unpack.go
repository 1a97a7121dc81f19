package repack

import (
	"fmt"

	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/dma"
	"github.com/dargueta/yaz0rom/utilities/compression"
)

// UnpackROM parses the address table of a packed ROM as described by `profile`
// and restores the unpacked image.
func UnpackROM(packed []byte, profile yaz0rom.Profile, options Options) ([]byte, Stats, error) {
	table, err := dma.ParsePacked(packed, profile.TableOffset(), profile.EntryCount())
	if err != nil {
		return nil, Stats{}, err
	}

	options.Logger.Infof(
		"address table at 0x%X with %d entries", profile.TableOffset(), profile.EntryCount())
	return Unpack(packed, table, options)
}

// Unpack restores every active file in a packed ROM to its virtual address,
// then rewrites the table so that every file is marked as stored uncompressed
// at its virtual address.
//
// The output starts out the size of the input and is doubled until every file
// fits, so it's usually larger than strictly needed.
func Unpack(packed []byte, table *dma.Table, options Options) ([]byte, Stats, error) {
	size := uint64(len(packed))
	highest := uint64(table.MaxVirtualEnd())
	if size == 0 {
		size = highest
	}
	for size < highest {
		size *= 2
	}

	output, err := allocate(size)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{OutputSize: size}
	for i := range table.Entries {
		entry := &table.Entries[i]
		if entry.State != dma.StateActive {
			continue
		}
		options.Logger.Debugf("decompressing entry %d/%d", i+1, len(table.Entries))

		if err = restoreEntry(packed, output, entry); err != nil {
			return nil, Stats{}, err
		}

		if entry.IsCompressed() {
			stats.Compressed++
			stats.CompressedBytes += uint64(entry.StoredSize())
			stats.OriginalBytes += uint64(entry.Size())
		} else {
			stats.Stored++
		}
		stats.DataSize += uint64(entry.Size())
	}
	options.Logger.Infof(
		"decompressed %d files, copied %d uncompressed files", stats.Compressed, stats.Stored)

	for i := range table.Entries {
		entry := &table.Entries[i]
		if entry.State == dma.StateActive {
			entry.PhysicalStart = entry.VirtualStart
			entry.PhysicalEnd = 0
		}
	}

	if err = table.SerializeInPlace(output); err != nil {
		return nil, Stats{}, err
	}
	if err = updateChecksum(output, options); err != nil {
		return nil, Stats{}, err
	}
	return output, stats, nil
}

// restoreEntry copies or decompresses one file to its virtual address.
func restoreEntry(packed, output []byte, entry *dma.Entry) error {
	physicalEnd := uint64(entry.PhysicalStart) + uint64(entry.StoredSize())
	if entry.IsCompressed() {
		physicalEnd = uint64(entry.PhysicalEnd)
		if entry.PhysicalEnd < entry.PhysicalStart {
			return yaz0rom.ErrLayout.WithMessage(
				fmt.Sprintf("%s: physical end precedes start", entry))
		}
	}
	if physicalEnd > uint64(len(packed)) {
		return yaz0rom.ErrLayout.WithMessage(
			fmt.Sprintf("%s: stored data runs past the end of the ROM (%d bytes)", entry, len(packed)))
	}

	stored := packed[entry.PhysicalStart:physicalEnd]
	if !entry.IsCompressed() {
		copy(output[entry.VirtualStart:entry.VirtualEnd], stored)
		return nil
	}

	decodedSize, err := compression.DecodedSize(stored)
	if err != nil {
		return fmt.Errorf("%s: %w", entry, err)
	}
	if decodedSize != int(entry.Size()) {
		return yaz0rom.ErrFormat.WithMessage(
			fmt.Sprintf(
				"%s: stream holds %d bytes but the entry is %d bytes",
				entry,
				decodedSize,
				entry.Size()))
	}

	if _, err = compression.Decode(stored, output, int(entry.VirtualStart)); err != nil {
		return fmt.Errorf("%s: %w", entry, err)
	}
	return nil
}
