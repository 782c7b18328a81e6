package errs

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestIsValidation(t *testing.T) {
	require.True(t, IsValidation(fmt.Errorf("update: %w", ErrInvalidStatus)))
	require.True(t, IsValidation(errors.Wrap(ErrInvalidRating, "rate")))
	require.False(t, IsValidation(ErrNotFound))
	require.False(t, IsValidation(ErrCatalogUnavailable))
	require.False(t, IsValidation(errors.New("db down")))
}

func TestConflictError(t *testing.T) {
	err := errors.Wrap(&ConflictError{CurrentStatus: "Finished"}, "add")
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, "Finished", conflict.CurrentStatus)
}
