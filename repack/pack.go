package repack

import (
	"context"
	"fmt"
	"math"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/dma"
	"github.com/dargueta/yaz0rom/utilities/compression"
	"golang.org/x/sync/errgroup"
)

// PackROM parses and validates the address table of an unpacked ROM as
// described by `profile`, then packs it with the profile's compression flags.
func PackROM(rom []byte, profile yaz0rom.Profile, options Options) ([]byte, Stats, error) {
	table, err := dma.Parse(rom, profile.TableOffset(), profile.EntryCount())
	if err != nil {
		return nil, Stats{}, err
	}
	if err = table.Validate(uint64(len(rom))); err != nil {
		return nil, Stats{}, err
	}

	options.Logger.Infof(
		"address table at 0x%X with %d entries", profile.TableOffset(), profile.EntryCount())
	return Pack(rom, table, profile.CompressionFlags(), options)
}

// Pack builds a packed ROM from an unpacked one.
//
// If `flags` isn't nil it replaces the ShouldCompress setting of every entry.
// Each flagged file is compressed, and kept uncompressed instead if that doesn't
// make it smaller. Files are then placed back-to-back in order of virtual
// address, each padded to a 16-byte boundary, and the updated table is written
// into the new image.
//
// The table is updated in place. On failure the returned image is nil.
func Pack(rom []byte, table *dma.Table, flags bitmap.Bitmap, options Options) ([]byte, Stats, error) {
	defer releasePayloads(table)

	if err := table.Validate(uint64(len(rom))); err != nil {
		return nil, Stats{}, err
	}
	if flags != nil {
		table.ApplyCompressionFlags(flags)
	}
	options.Logger.Infof("files to compress: %d", table.CountCompressible())

	entries := table.ActiveByVirtualStart()
	if err := encodeEntries(rom, entries, options); err != nil {
		return nil, Stats{}, err
	}

	stats, err := layOut(table, entries)
	if err != nil {
		return nil, Stats{}, err
	}

	capacity, err := options.Size.Capacity(stats.DataSize)
	if err != nil {
		return nil, Stats{}, err
	}
	stats.OutputSize = capacity

	output, err := allocate(capacity)
	if err != nil {
		return nil, Stats{}, err
	}

	for i, entry := range entries {
		options.Logger.Debugf("injecting file %d/%d", i+1, len(entries))
		copy(output[entry.PhysicalStart:], entry.Payload)
		entry.Payload = nil
	}

	if stats.OriginalBytes > 0 {
		options.Logger.Infof("compression ratio: %.2f%%", stats.Ratio()*100.0)
	}

	if err = table.Serialize(output); err != nil {
		return nil, Stats{}, err
	}
	if err = updateChecksum(output, options); err != nil {
		return nil, Stats{}, err
	}
	return output, stats, nil
}

// encodeEntries fills in the payload of every entry. Each file is compressed
// independently, so up to Options.Jobs of them run at once.
func encodeEntries(rom []byte, entries []*dma.Entry, options Options) error {
	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(options.jobs())

	for i, entry := range entries {
		i, entry := i, entry
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			options.Logger.Debugf("processing entry %d/%d: %s", i+1, len(entries), entry)
			return encodeEntry(rom, entry)
		})
	}
	return group.Wait()
}

// encodeEntry sets the entry's payload to its compressed data, or to the raw
// file if compression isn't requested or doesn't help. Compression is never
// allowed to make a file bigger.
func encodeEntry(rom []byte, entry *dma.Entry) error {
	raw := rom[entry.VirtualStart:entry.VirtualEnd]
	if !entry.ShouldCompress {
		entry.Payload = raw
		return nil
	}

	encoded, err := compression.Encode(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", entry, err)
	}

	if len(encoded) >= len(raw) {
		entry.Payload = raw
		entry.ShouldCompress = false
	} else {
		entry.Payload = encoded
	}
	return nil
}

// layOut assigns physical addresses to the entries, which must be sorted by
// virtual address.
func layOut(table *dma.Table, entries []*dma.Entry) (Stats, error) {
	stats := Stats{}
	offset := uint64(0)

	for _, entry := range entries {
		rounded := yaz0rom.AlignUp(uint64(len(entry.Payload)), yaz0rom.PlacementAlignment)
		if offset+rounded > math.MaxUint32 {
			return Stats{}, yaz0rom.ErrCapacity.WithMessage(
				fmt.Sprintf("%s doesn't fit in a 32-bit address space", entry))
		}

		entry.PhysicalStart = uint32(offset)
		if entry.ShouldCompress {
			entry.PhysicalEnd = uint32(offset + rounded)
			stats.Compressed++
			stats.CompressedBytes += rounded
			stats.OriginalBytes += uint64(entry.Size())
		} else {
			entry.PhysicalEnd = 0
			stats.Stored++
		}
		offset += rounded
	}
	stats.DataSize = offset

	// The table is written back at the same offset it was read from, so the
	// file holding it mustn't move.
	for _, entry := range entries {
		if entry.VirtualStart <= table.Offset && table.Offset < entry.VirtualEnd {
			if entry.PhysicalStart != entry.VirtualStart || entry.IsCompressed() {
				return Stats{}, yaz0rom.ErrLayout.WithMessage(
					fmt.Sprintf(
						"%s holds the address table and would move to 0x%X",
						entry,
						entry.PhysicalStart))
			}
			break
		}
	}
	return stats, nil
}

func releasePayloads(table *dma.Table) {
	for i := range table.Entries {
		table.Entries[i].Payload = nil
	}
}
