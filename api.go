package yaz0rom

import (
	"github.com/boljen/go-bitmap"
)

// Checksummer recomputes the integrity fields of a fully assembled ROM image in
// place.
//
// If the ROM's bootstrap code isn't recognized the image must be left untouched
// and the error must wrap [ErrChecksumSkipped]. Callers treat that as a warning;
// any other error is fatal.
type Checksummer interface {
	UpdateChecksum(rom []byte) error
}

// Profile describes where a known release keeps its address table and which of
// its files may be compressed.
type Profile interface {
	// DisplayName gives a human-readable name for the release.
	DisplayName() string
	// TableOffset gives the byte offset of the address table in the ROM.
	TableOffset() uint32
	// EntryCount gives the number of 16-byte records in the address table.
	EntryCount() int
	// CompressionFlags returns a bitmap with one bit per table entry. A set bit
	// means the entry may be compressed.
	CompressionFlags() bitmap.Bitmap
}

// ProfileDetector identifies the release a raw ROM image was built from.
type ProfileDetector interface {
	Detect(rom []byte) (Profile, error)
}
