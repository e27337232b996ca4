package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessageFormat(t *testing.T) {
	err := Validation("title must not be empty")
	require.Equal(t, "[VALIDATION_FAILED] title must not be empty", err.Error())

	cause := errors.New("disk full")
	wrapped := Persistence("create conversation", cause)
	require.Equal(t, "[PERSISTENCE_FAILED] create conversation: disk full", wrapped.Error())
}

func TestNotFoundCarriesContext(t *testing.T) {
	err := NotFound("conversation", 42)
	require.Equal(t, "conversation not found: 42", err.Message)
	require.Equal(t, "conversation", err.Context["kind"])
	require.Equal(t, int32(42), err.Context["id"])
}

func TestIsCode(t *testing.T) {
	require.True(t, IsCode(NotFound("message", 1), ErrCodeNotFound))
	require.False(t, IsCode(NotFound("message", 1), ErrCodeValidation))
	require.False(t, IsCode(errors.New("plain"), ErrCodeNotFound))
	require.False(t, IsCode(nil, ErrCodeNotFound))
}

func TestGetCodeFromError(t *testing.T) {
	require.Equal(t, ErrCodeInvalidArgument, GetCodeFromError(InvalidArgument("skip must be non-negative"), ErrCodePersistence))
	require.Equal(t, ErrCodePersistence, GetCodeFromError(errors.New("plain"), ErrCodePersistence))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistence("list messages", cause)
	require.ErrorIs(t, err, cause)
}

func TestWithContext(t *testing.T) {
	err := InvalidArgument("limit must be non-negative").WithContext("limit", -5)
	require.Equal(t, -5, err.Context["limit"])
}
