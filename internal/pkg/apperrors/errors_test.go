package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("service: %w", NewBadRequestError("Title is required"))

	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.False(t, errors.Is(err, ErrResourceNotFound))

	msg, ok := MessageOf(err)
	assert.True(t, ok)
	assert.Equal(t, "Title is required", msg)
}

func TestMessageOfPlainError(t *testing.T) {
	_, ok := MessageOf(ErrFileNotFound)
	assert.False(t, ok)
}

func TestIsAny(t *testing.T) {
	err := fmt.Errorf("load owner: %w", ErrUserNotFound)
	assert.True(t, Is(err, ErrResourceNotFound, ErrUserNotFound))
	assert.False(t, Is(err, ErrResourceNotFound, ErrFileNotFound))
}

func TestNewDatabaseError(t *testing.T) {
	cause := errors.New("pg: connection reset")
	err := NewDatabaseError(cause, "Error executing query")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
	msg, ok := MessageOf(err)
	assert.True(t, ok)
	assert.Equal(t, "Error executing query", msg)
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}
