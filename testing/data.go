package testing

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// RandomBytes returns `size` bytes of random data, which won't compress.
func RandomBytes(t *testing.T, size int) []byte {
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoErrorf(t, err, "failed to generate %d random bytes", size)
	return data
}

// CompressibleBytes returns `size` bytes of highly repetitive data seeded with
// `seed`, so different files have different contents.
func CompressibleBytes(size int, seed byte) []byte {
	pattern := []byte{seed, seed + 1, seed + 2, seed + 3, 0, 0, 0, 0, seed, seed, 'z', 'e', 'l', 'd', 'a', 0}
	data := bytes.Repeat(pattern, size/len(pattern)+1)
	return data[:size]
}
