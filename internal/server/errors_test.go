package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/proposal-writer/internal/jobpost"
	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/proposal"
	"github.com/jonathan/proposal-writer/internal/schemas"
	"github.com/jonathan/proposal-writer/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"profile exists", &ErrProfileExists{}, http.StatusConflict},
		{"bad transition", &ErrInvalidTransition{From: types.StatusDraft, To: types.StatusAccepted}, http.StatusConflict},
		{"bad credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"password mismatch", &ErrPasswordMismatch{}, http.StatusUnauthorized},
		{"user missing", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"profile missing", &ErrProfileNotFound{}, http.StatusNotFound},
		{"proposal missing", &ErrProposalNotFound{}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "x", Message: "bad"}, http.StatusBadRequest},
		{"generate validation", &proposal.ValidationError{Field: "jobTitle", Message: "m"}, http.StatusBadRequest},
		{"schema", &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "a", Message: "b"}}}, http.StatusBadRequest},
		{"llm config", &llm.ConfigurationError{Message: "OpenAI API key not configured"}, http.StatusInternalServerError},
		{"provider", &llm.ProviderError{StatusCode: 429, Message: "quota"}, http.StatusBadGateway},
		{"transport timeout", &llm.TransportError{Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"transport refused", &llm.TransportError{Err: errors.New("connection refused")}, http.StatusBadGateway},
		{"import", &jobpost.Error{URL: "https://x", Message: "status 404"}, http.StatusUnprocessableEntity},
		{"wrapped", fmt.Errorf("outer: %w", &ErrProposalNotFound{}), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Internal server error", publicMessage(errors.New("pq: connection reset")))
	assert.Equal(t, "OpenAI API key not configured",
		publicMessage(&llm.ConfigurationError{Message: "OpenAI API key not configured"}))
	assert.Equal(t, "jobTitle: Invalid type",
		publicMessage(&schemas.ValidationError{Errors: []schemas.FieldError{{Field: "jobTitle", Message: "Invalid type"}}}))
	assert.Equal(t, "Proposal not found", publicMessage(&ErrProposalNotFound{ID: uuid.New()}))
	assert.Equal(t, "Cannot change proposal status from DRAFT to ACCEPTED",
		publicMessage(&ErrInvalidTransition{From: types.StatusDraft, To: types.StatusAccepted}))
	assert.Equal(t, "quota exceeded", publicMessage(&llm.ProviderError{StatusCode: 429, Message: "quota exceeded"}))
}
