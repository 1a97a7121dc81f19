package yaz0rom

// RecordSize is the size of one address table record on disk, in bytes.
const RecordSize = 16

// PlacementAlignment is the boundary every file is placed on in a packed ROM.
const PlacementAlignment = 16

// AddressAlignment is the boundary both ends of an active virtual range must
// fall on.
const AddressAlignment = 4

const MiB = 0x100000

// AutoSizeGranularity is the multiple a packed ROM is padded to when no fixed
// size is requested.
const AutoSizeGranularity = 8 * MiB

// DeletedSentinel marks a deleted record when stored in both physical fields.
const DeletedSentinel uint32 = 0xFFFFFFFF

// AlignUp rounds size up to the next multiple of alignment, which must be a
// power of two.
func AlignUp(size, alignment uint64) uint64 {
	return (size + alignment - 1) &^ (alignment - 1)
}
