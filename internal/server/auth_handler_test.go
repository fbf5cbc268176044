package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-writer/internal/types"
)

func TestAuthHandler_SignUp(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName":        "  Ada Lovelace ",
		"email":           "Ada@Example.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody[types.AuthResponse](t, w)
	assert.Equal(t, "User created successfully", resp.Message)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "Ada Lovelace", resp.User.FullName)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	claims, err := env.server.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthHandler_SignUp_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		message string
	}{
		{
			name:    "invalid json",
			body:    "not json",
			message: "Invalid JSON",
		},
		{
			name:    "missing full name",
			body:    map[string]string{"email": "a@example.com", "password": "secret123", "confirmPassword": "secret123"},
			message: "fullName is required",
		},
		{
			name:    "bad email",
			body:    map[string]string{"fullName": "A", "email": "nope", "password": "secret123", "confirmPassword": "secret123"},
			message: "Invalid email address",
		},
		{
			name:    "short password",
			body:    map[string]string{"fullName": "A", "email": "a@example.com", "password": "abc", "confirmPassword": "abc"},
			message: "password must be at least 6 characters",
		},
		{
			name:    "passwords differ",
			body:    map[string]string{"fullName": "A", "email": "a@example.com", "password": "secret123", "confirmPassword": "secret124"},
			message: "Passwords do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.do(http.MethodPost, "/api/auth/signup", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, errorMessage(t, w))
			assert.Empty(t, env.store.users)
		})
	}
}

func TestAuthHandler_SignUp_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signUp("dup@example.com")

	w := env.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName":        "Other",
		"email":           "DUP@example.com",
		"password":        "secret123",
		"confirmPassword": "secret123",
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already in use", errorMessage(t, w))
	assert.Len(t, env.store.users, 1)
}

func TestAuthHandler_SignIn(t *testing.T) {
	env := newTestEnv(t)
	_, userID := env.signUp("login@example.com")

	w := env.do(http.MethodPost, "/api/auth/signin", map[string]string{
		"email":    "login@example.com",
		"password": "secret123",
	}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[types.AuthResponse](t, w)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, userID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthHandler_SignIn_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.signUp("login@example.com")

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/auth/signin", map[string]string{
			"email": "login@example.com", "password": "wrong-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", errorMessage(t, w))
	})

	t.Run("unknown email reads the same", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/auth/signin", map[string]string{
			"email": "ghost@example.com", "password": "secret123",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", errorMessage(t, w))
	})

	t.Run("missing fields", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/auth/signin", map[string]string{"email": "login@example.com"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email and password are required", errorMessage(t, w))
	})
}

func TestAuthHandler_SignOut(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("out@example.com")

	w := env.do(http.MethodPost, "/api/auth/signout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Signed out successfully", decodeBody[map[string]string](t, w)["message"])

	w = env.do(http.MethodPost, "/api/auth/signout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signUp("me@example.com")

	w := env.do(http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[map[string]*types.User](t, w)
	require.NotNil(t, resp["user"])
	assert.Equal(t, userID, resp["user"].ID)
	assert.Equal(t, "me@example.com", resp["user"].Email)
}

func TestAuthHandler_Me_DeletedUser(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signUp("gone@example.com")
	delete(env.store.users, userID)

	w := env.do(http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("pw@example.com")

	w := env.do(http.MethodPut, "/api/auth/password", map[string]string{
		"currentPassword": "wrong-one",
		"newPassword":     "brandnew1",
	}, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Current password is incorrect", errorMessage(t, w))

	w = env.do(http.MethodPut, "/api/auth/password", map[string]string{
		"currentPassword": "secret123",
		"newPassword":     "abc",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "newPassword must be at least 6 characters", errorMessage(t, w))

	w = env.do(http.MethodPut, "/api/auth/password", map[string]string{
		"currentPassword": "secret123",
		"newPassword":     "brandnew1",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Password updated successfully", decodeBody[map[string]string](t, w)["message"])

	w = env.do(http.MethodPost, "/api/auth/signin", map[string]string{
		"email": "pw@example.com", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "old password no longer works")

	w = env.do(http.MethodPost, "/api/auth/signin", map[string]string{
		"email": "pw@example.com", "password": "brandnew1",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractValidationErrors_NonValidatorError(t *testing.T) {
	err := extractValidationErrors(assert.AnError)
	var ve *ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid request", ve.Message)
}

func TestExtractValidationErrors_Tags(t *testing.T) {
	status := types.UpdateStatusRequest{Status: "PENDING"}
	err := extractValidationErrors(status.Validate())
	assert.Equal(t, "status must be one of: DRAFT, SUBMITTED, ACCEPTED, REJECTED, ARCHIVED", err.Error())

	imp := types.ImportJobRequest{URL: "not a url"}
	err = extractValidationErrors(imp.Validate())
	assert.Equal(t, "url must be a valid URL", err.Error())

	score := -1
	create := types.CreateProposalRequest{
		Title: "t", JobTitle: "j", JobDescription: "d", ProposalContent: "c",
		ConfidenceScore: &score,
	}
	err = extractValidationErrors(create.Validate())
	assert.Equal(t, "confidenceScore must be at least 0", err.Error())
}
