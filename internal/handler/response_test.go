package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/skillverse/internal/apperror"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperror.ValidationFailed("userId", "userId is a required field"), http.StatusBadRequest, "validation_error"},
		{"unauthorized", apperror.Unauthorized("nope"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperror.Forbidden("nope"), http.StatusForbidden, "forbidden"},
		{"not found", apperror.NotFound("user", "u1"), http.StatusNotFound, "not_found"},
		{"conflict", apperror.Conflict("course", "c1"), http.StatusConflict, "conflict"},
		{"upstream", apperror.Upstream("Gemini", errors.New("boom")), http.StatusBadGateway, "upstream_error"},
		{"unavailable", apperror.Unavailable("chat assistant"), http.StatusServiceUnavailable, "unavailable"},
		{"wrapped", fmt.Errorf("service: %w", apperror.NotFound("user", "u1")), http.StatusNotFound, "not_found"},
		{"plain", errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, message, _ := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotContains(t, message, "connection refused")
		})
	}
}

func TestErrorStatus_KeepsField(t *testing.T) {
	_, _, _, field := errorStatus(apperror.ValidationFailed("rating", "rating must be 5 or less"))
	assert.Equal(t, "rating", field)
}
