// Package dma reads and writes the address table that maps every file in the
// ROM's virtual address space to where it's actually stored.
//
// The table is a run of 16-byte big-endian records:
//
//	virtual_start  virtual_end  physical_start  physical_end
//
// In an unpacked ROM every file is stored uncompressed, so physical_end is 0 and
// physical_start equals virtual_start. In a packed ROM a nonzero physical_end
// means the file is stored Yaz0-compressed in [physical_start, physical_end).
// A record with both physical fields set to 0xFFFFFFFF is a deleted file.
//
// Sentinel values only exist on disk. In memory each [Entry] carries an explicit
// [State], and conversion happens in [Parse], [ParsePacked], and the Serialize
// methods of [Table].
package dma
