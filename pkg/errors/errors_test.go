package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	clone := Clone(ErrNotFound, "faculty not found")
	assert.Equal(t, "faculty not found", clone.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.True(t, errors.Is(clone, ErrNotFound))
	assert.False(t, errors.Is(clone, ErrConflict))
	assert.Nil(t, Clone(nil, "x"))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("lookup: %w", Clone(ErrForbidden, "token mismatch"))
	assert.Equal(t, http.StatusForbidden, FromError(wrapped).Status)

	plain := FromError(errors.New("disk full"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, "internal server error: disk full", plain.Error())

	assert.Equal(t, http.StatusGatewayTimeout, FromError(context.DeadlineExceeded).Status)
}
