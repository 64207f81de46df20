package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
		code   codes.Code
	}{
		{BadRequest("x"), http.StatusBadRequest, codes.InvalidArgument},
		{Unauthorized("x"), http.StatusUnauthorized, codes.Unauthenticated},
		{Forbidden("x"), http.StatusForbidden, codes.PermissionDenied},
		{Conflict("x"), http.StatusConflict, codes.AlreadyExists},
		{NotFound("x"), http.StatusNotFound, codes.NotFound},
		{Unprocessable("x"), http.StatusUnprocessableEntity, codes.FailedPrecondition},
		{Internal("x"), http.StatusInternalServerError, codes.Internal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), tc.err.Kind())
		assert.Equal(t, tc.code, tc.err.GRPCCode(), tc.err.Kind())
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := From(cause)

	assert.Equal(t, KindInternal, appErr.Kind())
	assert.ErrorIs(t, appErr, cause)
	assert.Nil(t, From(nil))
}

func TestFromKeepsWrappedAppError(t *testing.T) {
	orig := NotFound("provider not found", WithDetail("id", int64(7)))
	wrapped := fmt.Errorf("lookup: %w", orig)

	appErr := From(wrapped)
	assert.Same(t, orig, appErr)
	assert.Equal(t, int64(7), appErr.Details()["id"])
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindConflict))
}

func TestErrorMessage(t *testing.T) {
	err := Internal("failed to save quote", WithCause(errors.New("timeout")))
	assert.Equal(t, "failed to save quote: timeout", err.Error())
	assert.Equal(t, "bad_request", New(KindBadRequest, "").Message())
}
