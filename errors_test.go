package yaz0rom_test

import (
	"errors"
	"testing"

	"github.com/dargueta/yaz0rom"
	"github.com/stretchr/testify/assert"
)

func TestRomErrorWithMessage(t *testing.T) {
	newErr := yaz0rom.ErrLayout.WithMessage("entry 3 overlaps entry 2")
	assert.Equal(
		t,
		"Invalid address table layout: entry 3 overlaps entry 2",
		newErr.Error(),
		"error message is wrong")
	assert.ErrorIs(t, newErr, yaz0rom.ErrLayout)
	assert.NotErrorIs(t, newErr, yaz0rom.ErrFormat)
}

func TestRomErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := yaz0rom.ErrIOFailed.Wrap(originalErr)
	expectedMessage := "Input/output error: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, yaz0rom.ErrIOFailed, "ROM error not set as parent")
}

func TestRomErrorChainedMessages(t *testing.T) {
	newErr := yaz0rom.ErrCapacity.WithMessage("32 MiB").WithMessage("need 40 MiB")
	assert.Equal(t, "No space left in ROM: 32 MiB: need 40 MiB", newErr.Error())
	assert.ErrorIs(t, newErr, yaz0rom.ErrCapacity)
}
