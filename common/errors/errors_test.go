package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeError(t *testing.T) {
	assert.Nil(t, NewError(nil, FatalExitCode))

	var nilErr *ExitCodeError
	assert.Equal(t, ExitCode(0), nilErr.GetExitCode())

	err := NewError(context.Canceled, InterruptedExitCode)
	assert.Equal(t, InterruptedExitCode, err.GetExitCode())
	assert.EqualError(t, err, "context canceled")
	assert.True(t, errors.Is(err, context.Canceled))

	var target *ExitCodeError
	assert.True(t, errors.As(error(err), &target))
	assert.Equal(t, InterruptedExitCode, target.GetExitCode())
}
