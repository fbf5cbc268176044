// Package server provides the HTTP REST API for the proposal writer.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/proposal-writer/internal/jobpost"
	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/proposal"
	"github.com/jonathan/proposal-writer/internal/schemas"
	"github.com/jonathan/proposal-writer/internal/types"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return "Email already in use"
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "Invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "Current password is incorrect"
}

// ErrProfileNotFound indicates the user has no profile yet
type ErrProfileNotFound struct{}

func (e *ErrProfileNotFound) Error() string {
	return "Profile not found"
}

// ErrProfileExists indicates a create on a user that already has a profile
type ErrProfileExists struct{}

func (e *ErrProfileExists) Error() string {
	return "Profile already exists. Use PUT to update."
}

// ErrProposalNotFound indicates the proposal does not exist or belongs to
// another user. The two cases are deliberately indistinguishable.
type ErrProposalNotFound struct {
	ID uuid.UUID
}

func (e *ErrProposalNotFound) Error() string {
	return "Proposal not found"
}

// ErrInvalidTransition indicates a status change the lifecycle forbids
type ErrInvalidTransition struct {
	From types.ProposalStatus
	To   types.ProposalStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("Cannot change proposal status from %s to %s", e.From, e.To)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists   *ErrEmailAlreadyExists
		badCreds      *ErrInvalidCredentials
		mismatch      *ErrPasswordMismatch
		userMissing   *ErrUserNotFound
		profMissing   *ErrProfileNotFound
		propMissing   *ErrProposalNotFound
		profExists    *ErrProfileExists
		transition    *ErrInvalidTransition
		validation    *ErrValidation
		genValidation *proposal.ValidationError
		schemaErr     *schemas.ValidationError
		configErr     *llm.ConfigurationError
		providerErr   *llm.ProviderError
		transportErr  *llm.TransportError
		importErr     *jobpost.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailExists), errors.As(err, &profExists), errors.As(err, &transition):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userMissing), errors.As(err, &profMissing), errors.As(err, &propMissing):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &genValidation), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &configErr):
		return http.StatusInternalServerError
	case errors.As(err, &providerErr):
		return http.StatusBadGateway
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &importErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the text sent to the client for err. Unclassified
// failures are reported generically; their detail goes to the log only.
func publicMessage(err error) string {
	var (
		configErr *llm.ConfigurationError
		schemaErr *schemas.ValidationError
	)
	switch {
	case errors.As(err, &schemaErr):
		return schemaErr.Summary()
	case errors.As(err, &configErr):
		return err.Error()
	case HTTPStatus(err) == http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}
