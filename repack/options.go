package repack

import (
	"errors"
	"fmt"

	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/utilities/logging"
)

// Options controls packing and unpacking.
type Options struct {
	Size SizePolicy
	// Jobs is the number of files to compress at once. Values below 1 mean 1.
	Jobs int
	// Checksum updates the header of the finished image. If nil, the header is
	// left as is.
	Checksum yaz0rom.Checksummer
	Logger   *logging.Logger
}

func (o Options) jobs() int {
	if o.Jobs < 1 {
		return 1
	}
	return o.Jobs
}

// Stats summarizes a pack or unpack operation.
type Stats struct {
	// Compressed is the number of files stored compressed.
	Compressed int
	// Stored is the number of files stored (or restored) as-is.
	Stored int
	// CompressedBytes is the space taken by compressed files, after padding.
	CompressedBytes uint64
	// OriginalBytes is the uncompressed size of the files counted in
	// CompressedBytes.
	OriginalBytes uint64
	// DataSize is the number of bytes taken up by file data in the output.
	DataSize uint64
	// OutputSize is the size of the output image.
	OutputSize uint64
}

// Ratio gives the size of the compressed files relative to their original
// size. It's 0 if nothing was compressed.
func (s Stats) Ratio() float64 {
	if s.OriginalBytes == 0 {
		return 0
	}
	return float64(s.CompressedBytes) / float64(s.OriginalBytes)
}

// updateChecksum runs the checksum collaborator. Only a skipped checksum is
// tolerated, and it's logged as a warning.
func updateChecksum(image []byte, options Options) error {
	if options.Checksum == nil {
		return nil
	}

	err := options.Checksum.UpdateChecksum(image)
	if errors.Is(err, yaz0rom.ErrChecksumSkipped) {
		options.Logger.Warnf("%s", err)
		return nil
	}
	return err
}

// allocate makes a zeroed buffer, turning an impossible size into an error
// instead of a panic.
func allocate(size uint64) (buffer []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			buffer = nil
			err = yaz0rom.ErrResource.WithMessage(
				fmt.Sprintf("failed to allocate %d bytes: %v", size, r))
		}
	}()

	if size > uint64(int(^uint(0)>>1)) {
		return nil, yaz0rom.ErrResource.WithMessage(
			fmt.Sprintf("can't allocate %d bytes", size))
	}
	return make([]byte, int(size)), nil
}
