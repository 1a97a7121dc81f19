package dma_test

import (
	"testing"

	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/dma"
	dt "github.com/dargueta/yaz0rom/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate__Valid(t *testing.T) {
	image := dt.NewUnpackedROM(t, make([]byte, 0x40), make([]byte, 0), make([]byte, 0x100))
	table, err := dma.Parse(image.Data, image.TableOffset, image.EntryCount)
	require.NoError(t, err)
	assert.NoError(t, table.Validate(uint64(len(image.Data))))
}

func TestValidate__Violations(t *testing.T) {
	tests := []struct {
		Name    string
		Record  dma.Record
		Message string
	}{
		{
			"inverted",
			dma.Record{VirtualStart: 0x1200, VirtualEnd: 0x1100, PhysicalStart: 0x1200},
			"end precedes start",
		},
		{
			"unaligned start",
			dma.Record{VirtualStart: 0x1102, VirtualEnd: 0x1140, PhysicalStart: 0x1102},
			"not aligned",
		},
		{
			"unaligned end",
			dma.Record{VirtualStart: 0x1100, VirtualEnd: 0x1141, PhysicalStart: 0x1100},
			"not aligned",
		},
		{
			"past end of ROM",
			dma.Record{VirtualStart: 0x1100, VirtualEnd: 0x100000, PhysicalStart: 0x1100},
			"past the end",
		},
		{
			"overlaps previous",
			dma.Record{VirtualStart: 0x0F00, VirtualEnd: 0x0F40, PhysicalStart: 0x0F00},
			"overlaps entry 0",
		},
		{
			"empty range inside previous",
			dma.Record{VirtualStart: 0x0F00, VirtualEnd: 0x0F00, PhysicalStart: 0x0F00},
			"overlaps entry 0",
		},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				image := dt.NewUnpackedROM(t, make([]byte, 0x40))
				image.SetRecord(t, 2, test.Record)

				table, err := dma.Parse(image.Data, image.TableOffset, image.EntryCount)
				require.NoError(t, err)

				err = table.Validate(uint64(len(image.Data)))
				require.ErrorIs(t, err, yaz0rom.ErrLayout)
				assert.Contains(t, err.Error(), test.Message)
				assert.Contains(t, err.Error(), "entry 2")
			},
		)
	}
}

func TestValidate__TouchingRangesAllowed(t *testing.T) {
	image := dt.NewUnpackedROM(t, make([]byte, 0x40), make([]byte, 0x40))
	second := image.Record(t, 3)
	first := image.Record(t, 2)
	second.VirtualStart = first.VirtualEnd
	second.PhysicalStart = first.VirtualEnd
	image.SetRecord(t, 3, second)

	table, err := dma.Parse(image.Data, image.TableOffset, image.EntryCount)
	require.NoError(t, err)
	assert.NoError(t, table.Validate(uint64(len(image.Data))))
}

func TestValidate__EmptyRangeAtFileStart(t *testing.T) {
	image := dt.NewUnpackedROM(t, make([]byte, 0), make([]byte, 0x40))
	require.Equal(t, image.Record(t, 2).VirtualStart, image.Record(t, 3).VirtualStart)

	table, err := dma.Parse(image.Data, image.TableOffset, image.EntryCount)
	require.NoError(t, err)
	assert.NoError(t, table.Validate(uint64(len(image.Data))), "empty entry listed first")

	// The same empty range listed after the file starting there falls inside it.
	empty, file := image.Record(t, 2), image.Record(t, 3)
	image.SetRecord(t, 2, file)
	image.SetRecord(t, 3, empty)

	table, err = dma.Parse(image.Data, image.TableOffset, image.EntryCount)
	require.NoError(t, err)
	err = table.Validate(uint64(len(image.Data)))
	require.ErrorIs(t, err, yaz0rom.ErrLayout)
	assert.Contains(t, err.Error(), "overlaps entry 2")
}
