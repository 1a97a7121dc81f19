package yaz0rom

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// RomError is the error type returned by every ROM operation in this module.
// Errors derived from one of the sentinels below with WithMessage or Wrap still
// match it with [errors.Is].
type RomError interface {
	error
	WithMessage(message string) RomError
	Wrap(err error) RomError
}

type baseRomError string

const rootError = baseRomError("")

// ErrFormat means the input isn't in a format we understand: bad Yaz0 magic,
// a truncated stream, or a ROM from an unrecognized release.
var ErrFormat = rootError.WithMessage("Invalid data format")

// ErrLayout means an address table is inconsistent: misaligned, overlapping, or
// out-of-range entries, or a table that's already in packed form.
var ErrLayout = rootError.WithMessage("Invalid address table layout")

// ErrCapacity means the packed data doesn't fit in the requested ROM size.
var ErrCapacity = rootError.WithMessage("No space left in ROM")

// ErrResource means a buffer couldn't be allocated.
var ErrResource = rootError.WithMessage("Cannot allocate memory")

var ErrInvalidArgument = rootError.WithMessage("Invalid argument")
var ErrIOFailed = rootError.WithMessage("Input/output error")

// ErrChecksumSkipped is the only non-fatal error. It's returned when the
// checksum couldn't be recomputed, and callers should log it and move on.
var ErrChecksumSkipped = rootError.WithMessage("Checksum not updated")

func (e baseRomError) Error() string {
	return string(e)
}

func (e baseRomError) WithMessage(message string) RomError {
	return customRomError{
		message:       message,
		originalError: e,
	}
}

func (e baseRomError) Wrap(err error) RomError {
	return customRomError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customRomError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customRomError) Error() string {
	return e.message
}

func (e customRomError) WithMessage(message string) RomError {
	return customRomError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customRomError) Wrap(err error) RomError {
	return customRomError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customRomError) Unwrap() error {
	return e.originalError
}
