package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeUnauthorized, CodeOf(Unauthorized("nope")))
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("gone")))
	assert.Equal(t, CodeInvalidInput, CodeOf(InvalidInput("bad")))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("listing messages: %w", NotFound("message not found"))
	assert.True(t, Is(err, CodeNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("cannot reach database", cause)

	assert.True(t, Is(err, CodeStorageUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cannot reach database")
	assert.Contains(t, err.Error(), "connection refused")
}
