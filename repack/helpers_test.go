package repack_test

import (
	"testing"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/dma"
	dt "github.com/dargueta/yaz0rom/testing"
	"github.com/stretchr/testify/require"
)

// fixtureProfile describes a fixture ROM. The header and table files are never
// compressed.
type fixtureProfile struct {
	image *dt.ROMImage
}

func (p fixtureProfile) DisplayName() string {
	return "fixture"
}

func (p fixtureProfile) TableOffset() uint32 {
	return p.image.TableOffset
}

func (p fixtureProfile) EntryCount() int {
	return p.image.EntryCount
}

func (p fixtureProfile) CompressionFlags() bitmap.Bitmap {
	return compressAllFiles(p.image)
}

// compressAllFiles flags every entry except the header and the table.
func compressAllFiles(image *dt.ROMImage) bitmap.Bitmap {
	flags := bitmap.New(image.EntryCount)
	for i := 2; i < image.EntryCount; i++ {
		flags.Set(i, true)
	}
	return flags
}

func parseImage(t *testing.T, image *dt.ROMImage) *dma.Table {
	table, err := dma.Parse(image.Data, image.TableOffset, image.EntryCount)
	require.NoError(t, err)
	return table
}

func parsePacked(t *testing.T, packed []byte, image *dt.ROMImage) *dma.Table {
	table, err := dma.ParsePacked(packed, image.TableOffset, image.EntryCount)
	require.NoError(t, err)
	return table
}

// recordingChecksummer remembers how often it was called and returns a fixed
// error.
type recordingChecksummer struct {
	calls int
	err   error
}

func (c *recordingChecksummer) UpdateChecksum(rom []byte) error {
	c.calls++
	return c.err
}

var _ yaz0rom.Checksummer = (*recordingChecksummer)(nil)
var _ yaz0rom.Profile = fixtureProfile{}

func isZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
