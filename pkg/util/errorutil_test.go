package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageErrorHidesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("save ticket", cause)

	de := ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, CodeStorageFailure, de.Code)
	assert.Equal(t, "failed to save ticket", de.Message)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}

func TestIsNotFoundThroughWrapping(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewNotFound("ticket", map[string]any{"ticket_id": "x"}))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(nil))
}

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	de := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)

	de = ToDomainError(fiber.NewError(http.StatusNotFound, "Cannot GET /nope"))
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	de = ToDomainError(fiber.ErrRequestEntityTooLarge)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, de.HTTPStatus)
}
