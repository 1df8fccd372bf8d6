package recovererr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesWrappedSentinel(t *testing.T) {
	err := New("repair cost overflowed its 16-bit accumulator", ErrInvariant)
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.False(t, errors.Is(err, ErrNoRepair))
}

func TestError_ErrorStringIncludesCause(t *testing.T) {
	err := New("no success node reachable", ErrNoRepair)
	assert.Contains(t, err.Error(), "no success node reachable")
	assert.Contains(t, err.Error(), ErrNoRepair.Error())
}

func TestError_NoMessageFallsBackToCause(t *testing.T) {
	err := New("", ErrInvariant)
	assert.Equal(t, ErrInvariant.Error(), err.Error())
}
