package compression

import "bytes"

// findMatch searches the 4096 bytes preceding `pos` for the longest run matching
// the bytes starting at `pos`, capped at 273 bytes. It returns the absolute
// position of the run and its length, or a length of 0 if there's no run of at
// least 3 bytes.
//
// The search finds the earliest occurrence of the shortest acceptable prefix,
// extends it as far as it goes, then looks for an occurrence of a prefix one
// byte longer than that, starting just past the previous hit. Each pass can only
// produce a longer match, so it stops once the cap is reached or no longer
// prefix exists in the window.
func findMatch(data []byte, pos int) (int, int) {
	windowStart := 0
	if pos > windowSize {
		windowStart = pos - windowSize
	}

	limit := len(data) - pos
	if limit > maxMatchLength {
		limit = maxMatchLength
	}
	if limit < minMatchLength {
		return 0, 0
	}

	matchPos := 0
	needleLength := minMatchLength
	for windowStart < pos {
		hit := indexOfPrefix(data, windowStart, pos, needleLength)
		if hit >= pos {
			break
		}

		for needleLength < limit && data[pos+needleLength] == data[hit+needleLength] {
			needleLength++
		}
		matchPos = hit
		if needleLength == limit {
			return matchPos, needleLength
		}

		windowStart = hit + 1
		needleLength++
	}

	if needleLength <= minMatchLength {
		return 0, 0
	}
	return matchPos, needleLength - 1
}

// indexOfPrefix returns the absolute position of the first occurrence of the
// `length` bytes at `pos` in data[from:]. Occurrences may run into `pos` itself,
// and since the needle always matches itself the result is at most `pos`.
func indexOfPrefix(data []byte, from, pos, length int) int {
	needle := data[pos : pos+length]
	return from + bytes.Index(data[from:pos+length], needle)
}
