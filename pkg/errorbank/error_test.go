package errorbank_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/Additional-Code/geosstore/pkg/errorbank"
)

func TestStatusAndGRPCCodes(t *testing.T) {
	cases := []struct {
		err    *errorbank.AppError
		status int
		code   codes.Code
	}{
		{errorbank.BadRequest("x"), http.StatusBadRequest, codes.InvalidArgument},
		{errorbank.Unauthorized("x"), http.StatusUnauthorized, codes.Unauthenticated},
		{errorbank.Conflict("x"), http.StatusConflict, codes.AlreadyExists},
		{errorbank.NotFound("x"), http.StatusNotFound, codes.NotFound},
		{errorbank.Unprocessable("x"), http.StatusUnprocessableEntity, codes.FailedPrecondition},
		{errorbank.TooLarge("x"), http.StatusRequestEntityTooLarge, codes.ResourceExhausted},
		{errorbank.Internal("x"), http.StatusInternalServerError, codes.Internal},
	}
	for _, tc := range cases {
		t.Run(string(tc.err.Kind()), func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.StatusCode())
			assert.Equal(t, tc.code, tc.err.GRPCCode())
		})
	}
}

func TestCauseIsKeptOutOfMessage(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := errorbank.Internal("could not place order", errorbank.WithCause(cause))

	assert.Equal(t, "could not place order", err.Message())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	assert.Nil(t, errorbank.From(nil))

	plain := errorbank.From(errors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, errorbank.KindInternal, plain.Kind())

	wrapped := fmt.Errorf("handler: %w", errorbank.NotFound("order not found"))
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(wrapped).Kind())
	assert.True(t, errorbank.Is(wrapped, errorbank.KindNotFound))
	assert.False(t, errorbank.Is(wrapped, errorbank.KindConflict))
}

func TestDetails(t *testing.T) {
	err := errorbank.BadRequest("invalid order",
		errorbank.WithDetail("items", "required"),
		errorbank.WithDetails(map[string]any{"customer.phone": "required"}),
	)
	assert.Equal(t, map[string]any{"items": "required", "customer.phone": "required"}, err.Details())
}
