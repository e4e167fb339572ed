package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("save: %w", Wrap("storage_error", "failed to save locations", cause))

	require.True(t, IsCode(err, "storage_error"))
	require.False(t, IsCode(err, "not_found"))
	require.Equal(t, "storage_error", CodeOf(err))
	require.Equal(t, "failed to save locations", MessageOf(err))
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "disk full")
}

func TestCodeOfPlainError(t *testing.T) {
	err := errors.New("boom")
	require.Equal(t, "", CodeOf(err))
	require.False(t, IsCode(err, ""))
	require.Equal(t, "boom", MessageOf(err))
	require.Equal(t, "", MessageOf(nil))
}
