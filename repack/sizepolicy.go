package repack

import (
	"fmt"

	"github.com/dargueta/yaz0rom"
)

// SizePolicy decides how large a packed ROM is.
type SizePolicy struct {
	// FixedMiB is the exact output size in MiB. Zero means the output is sized
	// automatically, rounded up to the next multiple of 8 MiB.
	FixedMiB int
}

// AutoSize sizes the output to fit, in 8 MiB steps.
func AutoSize() SizePolicy {
	return SizePolicy{}
}

// FixedSize makes the output exactly `mib` MiB, and fails if the packed data
// won't fit.
func FixedSize(mib int) SizePolicy {
	return SizePolicy{FixedMiB: mib}
}

func (p SizePolicy) IsAuto() bool {
	return p.FixedMiB <= 0
}

func (p SizePolicy) String() string {
	if p.IsAuto() {
		return "auto"
	}
	return fmt.Sprintf("%d MiB", p.FixedMiB)
}

// Capacity returns the size of the output buffer for `total` bytes of packed
// data.
func (p SizePolicy) Capacity(total uint64) (uint64, error) {
	if p.IsAuto() {
		capacity := yaz0rom.AlignUp(total, yaz0rom.AutoSizeGranularity)
		if capacity == 0 {
			capacity = yaz0rom.AutoSizeGranularity
		}
		return capacity, nil
	}

	capacity := uint64(p.FixedMiB) * yaz0rom.MiB
	if total > capacity {
		return 0, yaz0rom.ErrCapacity.WithMessage(
			fmt.Sprintf(
				"compressed data (%.2f MiB) exceeds %d MiB limit",
				float64(total)/yaz0rom.MiB,
				p.FixedMiB))
	}
	return capacity, nil
}
