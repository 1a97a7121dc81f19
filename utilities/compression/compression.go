package compression

import (
	"io"

	"github.com/dargueta/yaz0rom"
)

// CompressFile reads the input until EOF and writes it to the output as a single
// Yaz0 stream.
//
// The returned int64 gives the number of bytes written to the output stream. If
// an error occurred, the value is undefined and should not be used.
func CompressFile(input io.Reader, output io.Writer) (int64, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return 0, yaz0rom.ErrIOFailed.Wrap(err)
	}

	stream, err := Encode(data)
	if err != nil {
		return 0, err
	}

	n, err := output.Write(stream)
	if err != nil {
		return int64(n), yaz0rom.ErrIOFailed.Wrap(err)
	}
	return int64(n), nil
}

// DecompressFile takes a Yaz0 stream and writes the original bytes to the
// output.
//
// The returned int64 gives the number of bytes written to the output (i.e. the
// decompressed size of the file). If an error occurred, the value is undefined
// and should not be used.
func DecompressFile(input io.Reader, output io.Writer) (int64, error) {
	stream, err := io.ReadAll(input)
	if err != nil {
		return 0, yaz0rom.ErrIOFailed.Wrap(err)
	}

	data, err := DecodeToBytes(stream)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}

	n, err := output.Write(data)
	if err != nil {
		return int64(n), yaz0rom.ErrIOFailed.Wrap(err)
	}
	return int64(n), nil
}
