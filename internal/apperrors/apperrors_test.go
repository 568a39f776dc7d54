package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_UnwrapAndAs(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(OutputInUseError, ReasonAccessDenied, "out.xlsx", cause)

	wrapped := fmt.Errorf("writing output: %w", err)

	ae, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, OutputInUseError, ae.Kind)
	assert.Equal(t, ReasonAccessDenied, ae.ReasonCode)
	assert.ErrorIs(t, wrapped, cause)
}

func TestKind_Recoverable(t *testing.T) {
	assert.True(t, SourceReadError.Recoverable())
	assert.True(t, StructureMismatchError.Recoverable())
	assert.True(t, CoerceError.Recoverable())
	assert.False(t, TemplateMissing.Recoverable())
	assert.False(t, OutputInUseError.Recoverable())
}
