package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidation(t *testing.T) {
	err := NewValidationError("category_name", "must not be empty")

	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "category_name")

	// Wrapping must survive errors.As
	wrapped := fmt.Errorf("request rejected: %w", err)
	assert.True(t, IsValidation(wrapped))

	assert.False(t, IsValidation(ErrNotFound))
	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsValidation(nil))
}

func TestSentinelWrapping(t *testing.T) {
	wrapped := fmt.Errorf("creating category: %w", ErrConflict)
	assert.ErrorIs(t, wrapped, ErrConflict)
	assert.NotErrorIs(t, wrapped, ErrNotFound)
}
