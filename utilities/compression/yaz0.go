package compression

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dargueta/yaz0rom"
)

// Magic is the four-byte signature at the start of every Yaz0 stream.
var Magic = []byte("Yaz0")

// HeaderSize is the size of the Yaz0 header, in bytes.
const HeaderSize = 16

const (
	windowSize       = 0x1000
	minMatchLength   = 3
	maxMatchLength   = 0x111
	shortMatchLimit  = 0x12
	maxDistanceField = 0xFFF
)

// IsCompressed determines if `data` starts with a Yaz0 header.
func IsCompressed(data []byte) bool {
	return len(data) >= HeaderSize && bytes.Equal(data[:len(Magic)], Magic)
}

// Encode compresses `data` into a self-describing Yaz0 stream. Empty input gives
// a header-only stream with a length of 0.
func Encode(data []byte) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, yaz0rom.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("input too large for Yaz0: %d bytes", len(data)))
	}

	writer := tokenWriter{out: make([]byte, HeaderSize, HeaderSize+len(data)/2+16)}
	copy(writer.out, Magic)
	binary.BigEndian.PutUint32(writer.out[4:8], uint32(len(data)))

	pos := 0
	for pos < len(data) {
		matchPos, matchLength := findMatch(data, pos)
		if matchLength < minMatchLength {
			writer.literal(data[pos])
			pos++
			continue
		}

		// If the next byte starts a match that's at least two bytes longer, it's
		// cheaper to spend one literal on this byte and take that one instead.
		nextPos, nextLength := findMatch(data, pos+1)
		if matchLength+1 < nextLength {
			writer.literal(data[pos])
			pos++
			matchPos = nextPos
			matchLength = nextLength
		}

		writer.match(pos-matchPos-1, matchLength)
		pos += matchLength
	}

	return writer.out, nil
}

// tokenWriter accumulates control bytes and tokens. A new control byte is only
// reserved when the first token of a group is written.
type tokenWriter struct {
	out          []byte
	controlIndex int
	bitsLeft     uint
}

func (w *tokenWriter) controlBit(isLiteral bool) {
	if w.bitsLeft == 0 {
		w.controlIndex = len(w.out)
		w.out = append(w.out, 0)
		w.bitsLeft = 8
	}
	w.bitsLeft--
	if isLiteral {
		w.out[w.controlIndex] |= 1 << w.bitsLeft
	}
}

func (w *tokenWriter) literal(value byte) {
	w.controlBit(true)
	w.out = append(w.out, value)
}

// match writes a back-reference. `distance` is the number of bytes between the
// end of the source run and the current position, i.e. the encoded field value.
func (w *tokenWriter) match(distance, length int) {
	w.controlBit(false)
	if length < shortMatchLimit {
		token := uint16((length-2)<<12) | uint16(distance)
		w.out = append(w.out, byte(token>>8), byte(token))
	} else {
		w.out = append(
			w.out, byte(distance>>8), byte(distance), byte(length-shortMatchLimit))
	}
}
