package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/templui/profiledesk/internal/validation"
)

func TestWithKind(t *testing.T) {
	inner := fmt.Errorf("%w: maximum size is 5.0 MiB", validation.ErrFileTooLarge)
	err := withKind(ErrValidation, inner)

	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, inner.Error(), err.Error())

	wrapped := fmt.Errorf("replace photo: %w", err)
	assert.True(t, errors.Is(wrapped, ErrValidation))

	assert.NoError(t, withKind(ErrValidation, nil))
}

func TestInvalid(t *testing.T) {
	err := invalid("%s is required", "name")
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "name is required")
}

func errorIs(err, target error) bool {
	return errors.Is(err, target)
}
