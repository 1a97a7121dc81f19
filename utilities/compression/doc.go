// Package compression implements the Yaz0 codec used to compress individual
// files inside a cartridge ROM.
//
// A Yaz0 stream starts with a 16-byte header: the magic "Yaz0", the size of the
// uncompressed data as a big-endian uint32, and 8 reserved null bytes. The rest
// of the stream is a sequence of groups, each made of one control byte followed
// by up to eight tokens. Control bits are consumed from the most significant bit
// down. A set bit means the next token is a single literal byte; a clear bit
// means it's a back-reference:
//
//	NR RR          copy N+2 bytes (N in 1..15) from R+1 bytes back
//	0R RR NN       copy NN+0x12 bytes from R+1 bytes back
//
// R is 12 bits wide, so a back-reference can reach at most 4096 bytes behind the
// current output position. Matches range from 3 to 273 bytes. Back-references
// may overlap the bytes they produce, which is how runs are encoded: 19 copies of
// "A" are stored as one literal followed by a single 18-byte reference with
// R = 0.
//
// The encoder only emits as many control bytes as the tokens need, so there are
// never any trailing padding bits or bytes after the last token.
//
// The encoder is a straight greedy match finder with a single step of lazy
// evaluation: before committing to a match at position P it also looks at P+1,
// and if that match is more than one byte longer it emits P as a literal and
// takes the longer match instead. Output is deterministic for a given input, so
// repacking the same ROM twice gives byte-identical results.

package compression
