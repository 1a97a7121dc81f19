package checksum

import (
	"encoding/binary"
	"hash/crc32"
	"math/rand"
	"testing"

	"github.com/dargueta/yaz0rom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ yaz0rom.Checksummer = Updater{}

// With an all-zero program area every iteration adds the seed to t1 and leaves
// the rest alone, so the expected values can be worked out by hand.
func TestCompute__ZeroedProgram(t *testing.T) {
	tests := []struct {
		Variant Variant
		CRC1    uint32
		CRC2    uint32
	}{
		{CIC6101, 0, 0x303A4DDC},
		{CIC6102, 0, 0x303A4DDC},
		{CIC6103, 0x4710CEB2, 0x40EC6759},
		{CIC6105, 0, 0xDF26F436},
		{CIC6106, 0x1FEA617A, 0x89F80F9E},
	}

	rom := make([]byte, MinimumROMSize)
	for _, test := range tests {
		t.Run(
			test.Variant.String(),
			func(t *testing.T) {
				crc1, crc2, err := Compute(rom, test.Variant)
				require.NoError(t, err)
				assert.Equal(t, test.CRC1, crc1, "CRC1 is wrong")
				assert.Equal(t, test.CRC2, crc2, "CRC2 is wrong")
			},
		)
	}
}

// Random contents exercise the carry and rotation paths that a zeroed program
// never reaches.
func TestCompute__RandomProgram(t *testing.T) {
	tests := []struct {
		Variant Variant
		CRC1    uint32
		CRC2    uint32
	}{
		{CIC6102, 0x68AD4B4E, 0xD69B940F},
		{CIC6105, 0x0259A1A0, 0x6E9F5F10},
	}

	rom := make([]byte, MinimumROMSize)
	_, err := rand.New(rand.NewSource(7)).Read(rom)
	require.NoError(t, err)

	for _, test := range tests {
		t.Run(
			test.Variant.String(),
			func(t *testing.T) {
				crc1, crc2, err := Compute(rom, test.Variant)
				require.NoError(t, err)
				assert.Equal(t, test.CRC1, crc1, "CRC1 is wrong")
				assert.Equal(t, test.CRC2, crc2, "CRC2 is wrong")
			},
		)
	}
}

func TestCompute__Errors(t *testing.T) {
	_, _, err := Compute(make([]byte, MinimumROMSize), VariantUnknown)
	assert.ErrorIs(t, err, yaz0rom.ErrInvalidArgument)

	_, _, err = Compute(make([]byte, MinimumROMSize-4), CIC6102)
	assert.ErrorIs(t, err, yaz0rom.ErrChecksumSkipped)
}

func TestUpdate__UnknownBootCode(t *testing.T) {
	rom := make([]byte, MinimumROMSize)
	for i := range rom[:0x40] {
		rom[i] = 0x5A
	}

	variant, err := Update(rom)
	assert.Equal(t, VariantUnknown, variant)
	assert.ErrorIs(t, err, yaz0rom.ErrChecksumSkipped)
	for i := range rom[:0x40] {
		require.Equal(t, byte(0x5A), rom[i], "header modified at byte %d", i)
	}

	assert.ErrorIs(t, Updater{}.UpdateChecksum(make([]byte, 0x800)), yaz0rom.ErrChecksumSkipped)
}

func TestUpdate__WritesHeader(t *testing.T) {
	rom := make([]byte, MinimumROMSize+0x1000)
	for i := checksumStart; i < len(rom); i++ {
		rom[i] = byte(i * 7)
	}

	// Pretend an all-zero boot code belongs to a 6103.
	crc := crc32.ChecksumIEEE(rom[headerSize:bootCodeEnd])
	bootCodes[crc] = CIC6103
	defer delete(bootCodes, crc)

	expected1, expected2, err := Compute(rom, CIC6103)
	require.NoError(t, err)

	variant, err := Update(rom)
	require.NoError(t, err)
	assert.Equal(t, CIC6103, variant)
	assert.Equal(t, expected1, binary.BigEndian.Uint32(rom[crc1Offset:]))
	assert.Equal(t, expected2, binary.BigEndian.Uint32(rom[crc2Offset:]))
	assert.NotEqual(t, uint32(0), expected1)
}
