package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/dargueta/yaz0rom"
)

// DecodedSize returns the uncompressed size stored in a Yaz0 header.
func DecodedSize(stream []byte) (int, error) {
	if len(stream) < HeaderSize {
		return 0, yaz0rom.ErrFormat.WithMessage(
			fmt.Sprintf("Yaz0 stream too short: need %d bytes, got %d", HeaderSize, len(stream)))
	}
	if !IsCompressed(stream) {
		return 0, yaz0rom.ErrFormat.WithMessage(
			fmt.Sprintf("bad Yaz0 magic: %q", stream[:len(Magic)]))
	}
	return int(binary.BigEndian.Uint32(stream[4:8])), nil
}

// Decode expands a Yaz0 stream into `destination`, starting at `offset`. It
// returns the number of bytes written, which is the uncompressed size from the
// header.
//
// Back-references are copied one byte at a time so that a reference overlapping
// its own output repeats the pattern, as the format requires. A reference can't
// reach behind `offset`.
func Decode(stream []byte, destination []byte, offset int) (int, error) {
	size, err := DecodedSize(stream)
	if err != nil {
		return 0, err
	}

	end := offset + size
	if offset < 0 || end > len(destination) {
		return 0, yaz0rom.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"can't decode %d bytes at offset %d into a buffer of %d bytes",
				size,
				offset,
				len(destination)))
	}

	src := HeaderSize
	dst := offset
	var controlByte byte
	bitsLeft := 0

	for dst < end {
		if bitsLeft == 0 {
			if src >= len(stream) {
				return dst - offset, truncatedError(dst-offset, size)
			}
			controlByte = stream[src]
			src++
			bitsLeft = 8
		}

		if controlByte&0x80 != 0 {
			if src >= len(stream) {
				return dst - offset, truncatedError(dst-offset, size)
			}
			destination[dst] = stream[src]
			src++
			dst++
		} else {
			if src+2 > len(stream) {
				return dst - offset, truncatedError(dst-offset, size)
			}
			high := stream[src]
			low := stream[src+1]
			src += 2

			distance := int(high&0x0F)<<8 | int(low)
			copyFrom := dst - distance - 1

			length := int(high >> 4)
			if length == 0 {
				if src >= len(stream) {
					return dst - offset, truncatedError(dst-offset, size)
				}
				length = int(stream[src]) + shortMatchLimit
				src++
			} else {
				length += 2
			}

			if copyFrom < offset {
				return dst - offset, yaz0rom.ErrFormat.WithMessage(
					fmt.Sprintf(
						"back-reference at output byte %d reaches %d bytes before the start",
						dst-offset,
						offset-copyFrom))
			}
			if dst+length > end {
				return dst - offset, yaz0rom.ErrFormat.WithMessage(
					fmt.Sprintf(
						"%d-byte back-reference at output byte %d runs past the end (%d bytes)",
						length,
						dst-offset,
						size))
			}

			for i := 0; i < length; i++ {
				destination[dst] = destination[copyFrom]
				dst++
				copyFrom++
			}
		}

		controlByte <<= 1
		bitsLeft--
	}

	return size, nil
}

// DecodeToBytes is a convenience wrapper around [Decode] that allocates a new
// buffer of exactly the right size.
func DecodeToBytes(stream []byte) ([]byte, error) {
	size, err := DecodedSize(stream)
	if err != nil {
		return nil, err
	}

	output := make([]byte, size)
	_, err = Decode(stream, output, 0)
	if err != nil {
		return nil, err
	}
	return output, nil
}

func truncatedError(written, expected int) error {
	return yaz0rom.ErrFormat.WithMessage(
		fmt.Sprintf(
			"Yaz0 stream truncated after %d of %d uncompressed bytes", written, expected))
}
