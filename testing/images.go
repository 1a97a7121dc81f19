package testing

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/dma"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// HeaderSize is the size of the first file in a fixture ROM. It plays the part
// of the cartridge header and boot code, and is never compressed.
const HeaderSize = 0x1000

// TableOffset is where fixture ROMs keep their address table, directly after
// the header. The table lives in its own file, entry 1.
const TableOffset = HeaderSize

// ROMImage is an unpacked ROM built for a test, along with the contents of
// every file in it.
type ROMImage struct {
	Data        []byte
	TableOffset uint32
	EntryCount  int
	// Files holds the contents of each file by entry index. The last entry is
	// the end-of-table marker and has no contents.
	Files [][]byte
}

// NewUnpackedROM builds an unpacked ROM image holding `files`, in the same
// shape as a real one: a header file, the file holding the address table, the
// given files, and an all-zero end-of-table record.
//
// File contents are padded with null bytes to a multiple of 4, and every file
// starts on a 16-byte boundary.
func NewUnpackedROM(t *testing.T, files ...[]byte) *ROMImage {
	entryCount := len(files) + 3
	tableSize := yaz0rom.AlignUp(uint64(entryCount*yaz0rom.RecordSize), 16)

	contents := make([][]byte, 0, entryCount)
	contents = append(contents, make([]byte, HeaderSize))
	contents = append(contents, make([]byte, tableSize))
	for _, file := range files {
		padded := make([]byte, yaz0rom.AlignUp(uint64(len(file)), 4))
		copy(padded, file)
		contents = append(contents, padded)
	}

	records := make([]dma.Record, entryCount)
	offset := uint64(0)
	for i, file := range contents {
		records[i] = dma.Record{
			VirtualStart:  uint32(offset),
			VirtualEnd:    uint32(offset) + uint32(len(file)),
			PhysicalStart: uint32(offset),
		}
		offset = yaz0rom.AlignUp(offset+uint64(len(file)), 16)
	}

	data := make([]byte, offset)
	for i, file := range contents {
		copy(data[records[i].VirtualStart:], file)
	}

	image := &ROMImage{
		Data:        data,
		TableOffset: TableOffset,
		EntryCount:  entryCount,
		Files:       append(contents, nil),
	}
	for i, record := range records {
		image.SetRecord(t, i, record)
	}
	return image
}

// Record returns the on-disk record for entry `index`.
func (image *ROMImage) Record(t *testing.T, index int) dma.Record {
	return ReadRecord(t, image.Data, image.TableOffset, index)
}

// SetRecord overwrites the on-disk record for entry `index`. The copy of the
// table file in Files is kept in sync.
func (image *ROMImage) SetRecord(t *testing.T, index int, record dma.Record) {
	require.Less(t, index, image.EntryCount, "record index out of range")

	start := int(image.TableOffset) + index*yaz0rom.RecordSize
	binary.BigEndian.PutUint32(image.Data[start:], record.VirtualStart)
	binary.BigEndian.PutUint32(image.Data[start+4:], record.VirtualEnd)
	binary.BigEndian.PutUint32(image.Data[start+8:], record.PhysicalStart)
	binary.BigEndian.PutUint32(image.Data[start+12:], record.PhysicalEnd)

	tableFile := image.Files[1]
	copy(tableFile, image.Data[image.TableOffset:int(image.TableOffset)+len(tableFile)])
}

// MarkDeleted replaces the physical fields of entry `index` with the deletion
// sentinel.
func (image *ROMImage) MarkDeleted(t *testing.T, index int) {
	record := image.Record(t, index)
	record.PhysicalStart = yaz0rom.DeletedSentinel
	record.PhysicalEnd = yaz0rom.DeletedSentinel
	image.SetRecord(t, index, record)
}

// WriteString copies `text` into the header file at `offset`, e.g. to plant a
// build string for release detection.
func (image *ROMImage) WriteString(t *testing.T, offset int, text string) {
	require.LessOrEqual(t, offset+len(text), HeaderSize, "string doesn't fit in header")
	copy(image.Data[offset:], text)
	copy(image.Files[0][offset:], text)
}

// WriteToDir saves the image under `dir` and returns its path.
func (image *ROMImage) WriteToDir(t *testing.T, dir, name string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, image.Data, 0o644)
	require.NoErrorf(t, err, "failed to write ROM fixture to %q", path)
	return path
}

// ReadRecord decodes record `index` of the table at `tableOffset` in `rom`.
func ReadRecord(t *testing.T, rom []byte, tableOffset uint32, index int) dma.Record {
	reader := bytesextra.NewReadWriteSeeker(rom)
	_, err := reader.Seek(int64(tableOffset)+int64(index*yaz0rom.RecordSize), io.SeekStart)
	require.NoError(t, err)

	var record dma.Record
	err = binary.Read(reader, binary.BigEndian, &record)
	require.NoErrorf(t, err, "failed to read record %d at 0x%X", index, tableOffset)
	return record
}
