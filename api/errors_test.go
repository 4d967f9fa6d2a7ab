package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesSentinel(t *testing.T) {
	cases := map[ErrorCode]error{
		ErrCodeInvalidArgument:    ErrInvalidArgument,
		ErrCodeOutOfMemory:        ErrOutOfMemory,
		ErrCodeOutstandingHandles: ErrOutstandingHandles,
		ErrCodeNotSupported:       ErrAffinityUnsupported,
	}
	for code, sentinel := range cases {
		err := fmt.Errorf("wrapped: %w", NewError(code, "boom"))
		assert.True(t, errors.Is(err, sentinel), "code %d", code)
		assert.True(t, errors.Is(err, &Error{Code: code}))
	}
	assert.False(t, errors.Is(NewError(ErrCodeOutOfMemory, "boom"), ErrInvalidArgument))
}

func TestError_ZeroCodeHasNoSentinel(t *testing.T) {
	var zero ErrorCode
	_, ok := codeSentinels[zero]
	assert.False(t, ok)
	assert.Len(t, codeSentinels, 4, "every code maps to a sentinel")
}

func TestError_ContextInMessage(t *testing.T) {
	err := NewError(ErrCodeOutOfMemory, "pool: arena exhausted").WithContext("nodes", 7)
	assert.Contains(t, err.Error(), "nodes:7")
}
