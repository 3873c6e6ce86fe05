package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodeMapping(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeValidationFailed:        http.StatusBadRequest,
		CodeUnauthorized:            http.StatusUnauthorized,
		CodeInvalidCredentials:      http.StatusUnauthorized,
		CodeBookingNotFound:         http.StatusNotFound,
		CodeRecipeNotFound:          http.StatusNotFound,
		CodeUniqueViolation:         http.StatusConflict,
		CodeInvalidStatusTransition: http.StatusConflict,
		CodeMutationPending:         http.StatusConflict,
		CodeTooManyRequests:         http.StatusTooManyRequests,
		CodeDatabaseError:           http.StatusInternalServerError,
	}

	for code, status := range cases {
		t.Run(string(code), func(t *testing.T) {
			assert.Equal(t, status, NewAppError(code, "msg", "").StatusCode())
		})
	}
}

func TestIsFollowsWrappedErrors(t *testing.T) {
	base := NewUniqueViolationError("booking slot", stderrors.New("duplicate key"))
	wrapped := fmt.Errorf("create booking: %w", base)

	assert.True(t, Is(wrapped, CodeUniqueViolation))
	assert.False(t, Is(wrapped, CodeConflict))
	assert.Equal(t, CodeUniqueViolation, GetCode(wrapped))
	assert.Equal(t, CodeInternal, GetCode(stderrors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	appErr := NewBookingNotFoundError("b-1")
	assert.Same(t, appErr, Wrap(appErr, "ignored"))

	plain := stderrors.New("boom")
	wrapped := Wrap(plain, "something broke")
	require.NotNil(t, wrapped)
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.ErrorIs(t, wrapped, plain)
}

func TestErrorResponseRoundTrip(t *testing.T) {
	original := NewUniqueViolationError("booking slot", nil)
	resp := ToErrorResponse(original, "req-1")

	rebuilt := FromErrorResponse(resp, http.StatusConflict)
	assert.Equal(t, CodeUniqueViolation, rebuilt.Code)
	assert.Equal(t, original.Message, rebuilt.Message)
	assert.Equal(t, "booking slot", rebuilt.Metadata["constraint"])
}

func TestFromErrorResponseFallsBackToStatus(t *testing.T) {
	rebuilt := FromErrorResponse(ErrorResponse{}, http.StatusUnauthorized)
	assert.Equal(t, CodeUnauthorized, rebuilt.Code)
	assert.Equal(t, "Unauthorized", rebuilt.Message)

	// Codes the API never sends still come back from proxies and gateways
	assert.Equal(t, CodeForbidden, FromErrorResponse(ErrorResponse{}, http.StatusForbidden).Code)
	assert.Equal(t, CodeConflict, FromErrorResponse(ErrorResponse{}, http.StatusConflict).Code)
	assert.Equal(t, http.StatusForbidden, FromErrorResponse(ErrorResponse{}, http.StatusForbidden).StatusCode())
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "servings", Message: "servings must be between 1 and 20"},
		{Field: "meal_type", Message: "meal_type is invalid"},
	}
	assert.Equal(t, "servings must be between 1 and 20; meal_type is invalid", errs.Error())

	appErr := NewValidationErrors(errs)
	assert.Equal(t, CodeValidationFailed, appErr.Code)
}
