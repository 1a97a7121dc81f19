package compression_test

import (
	"bytes"
	"testing"

	c "github.com/dargueta/yaz0rom/utilities/compression"
	"github.com/noxer/bytewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	testData := []yaz0TestData{
		{"homogenous", bytes.Repeat([]byte{100}, 9174)},
		{"empty", []byte{}},
		{"heterogenous", randomBytes(t, 119)},
	}

	for _, data := range testData {
		t.Run(
			data.Name,
			func(t *testing.T) {
				// Random data expands slightly, one control byte per 8 literals.
				compressedBuffer := make([]byte, len(data.Data)*2+32)
				compressedWriter := bytewriter.New(compressedBuffer)

				compressedSize, err := c.CompressFile(bytes.NewReader(data.Data), compressedWriter)
				require.NoError(t, err, "unexpected error while compressing")
				t.Logf("file size after compression: %d -> %d", len(data.Data), compressedSize)

				decompressedBuffer := make([]byte, len(data.Data))
				decompressedWriter := bytewriter.New(decompressedBuffer)
				compressedReader := bytes.NewReader(compressedBuffer[:compressedSize])

				n, err := c.DecompressFile(compressedReader, decompressedWriter)
				require.NoError(t, err, "unexpected error while decompressing")
				assert.EqualValues(t, len(data.Data), n, "decompressed file has wrong size")
				assert.Equal(t, data.Data, decompressedBuffer, "decompressed data is wrong")
			},
		)
	}
}

func TestDecompressFile__NotYaz0(t *testing.T) {
	var output bytes.Buffer
	_, err := c.DecompressFile(bytes.NewReader([]byte("definitely not compressed")), &output)
	assert.Error(t, err)
	assert.Zero(t, output.Len())
}

func TestDecompressFile__EmptyIntoFullSink(t *testing.T) {
	stream, err := c.Encode(nil)
	require.NoError(t, err)

	n, err := c.DecompressFile(bytes.NewReader(stream), bytewriter.New([]byte{}))
	require.NoError(t, err, "nothing should be written for an empty file")
	assert.Zero(t, n)
}
