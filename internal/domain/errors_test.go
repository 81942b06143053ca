package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrInvalidQuery))
	assert.True(t, IsValidation(fmt.Errorf("%w: %q", ErrInvalidMode, "banana")))
	assert.True(t, IsValidation(fmt.Errorf("%w: %q", ErrInvalidVersion, "v1")))
	assert.False(t, IsValidation(errors.New("connection refused")))
	assert.False(t, IsValidation(ErrRerankRateLimited))
}

func TestUpstreamError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &UpstreamError{Service: "index store", Err: cause}

	assert.Equal(t, "index store unavailable: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	var upstream *UpstreamError
	assert.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &upstream)
	assert.Equal(t, "index store", upstream.Service)
}
