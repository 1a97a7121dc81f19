// Package repack converts ROM images between the unpacked layout, where every
// file sits uncompressed at its virtual address, and the packed layout, where
// files are stored back-to-back and optionally Yaz0-compressed.
//
// Both directions are all-or-nothing. Any invalid entry, undecodable stream, or
// oversized result aborts the whole operation and no output is returned.
package repack
