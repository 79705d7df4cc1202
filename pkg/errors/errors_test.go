package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "course not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "course not found", err.Error())
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWrapUnwraps(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	err := Wrap(cause, ErrTransport.Code, ErrTransport.Status, "course store unreachable")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "dial tcp")
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	err := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)

	typed := Clone(ErrValidation, "credit must be between 1 and 10")
	assert.Same(t, typed, FromError(fmt.Errorf("create: %w", typed)))
	assert.Nil(t, FromError(nil))
}

func TestRemoteAndMessage(t *testing.T) {
	withMsg := Remote(http.StatusConflict, "content in use")
	assert.True(t, HasCode(withMsg, ErrRemote.Code))
	assert.Equal(t, "content in use", Message(withMsg, "failed to delete VIDEO"))

	bare := Remote(http.StatusInternalServerError, "")
	assert.Equal(t, "failed to delete PDF", Message(bare, "failed to delete PDF"))
	assert.Equal(t, "REMOTE_ERROR (status 500)", bare.Error())
	assert.Equal(t, "fallback", Message(fmt.Errorf("plain"), "fallback"))
}
