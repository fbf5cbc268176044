package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/proposal-writer/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	srv         *Server
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService, srv *Server) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		srv:         srv,
	}
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req types.SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.srv.writeError(w, r, extractValidationErrors(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	h.srv.jsonResponse(w, http.StatusCreated, types.AuthResponse{
		Message: "User created successfully",
		User:    user,
		Token:   token,
	})
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req types.SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.srv.writeError(w, r, &ErrValidation{Field: "email", Message: "Email and password are required"})
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	h.srv.jsonResponse(w, http.StatusOK, types.AuthResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// SignOut handles POST /api/auth/signout. Tokens are stateless, so the
// client discarding its token is the whole sign-out.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.srv.currentUser(w, r); !ok {
		return
	}
	h.srv.jsonResponse(w, http.StatusOK, map[string]string{"message": "Signed out successfully"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.srv.currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	h.srv.jsonResponse(w, http.StatusOK, map[string]*types.User{"user": user})
}

// UpdatePassword handles PUT /api/auth/password for the signed-in user.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.srv.currentUser(w, r)
	if !ok {
		return
	}

	var req types.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.srv.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.srv.writeError(w, r, extractValidationErrors(err))
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.srv.writeError(w, r, err)
		return
	}

	h.srv.jsonResponse(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// extractValidationErrors turns the first validator failure into an ErrValidation.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &ErrValidation{Field: "body", Message: "Invalid request"}
	}

	fe := validationErrors[0]
	field := fe.Field()
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "email":
		msg = "Invalid email address"
	case "eqfield":
		msg = "Passwords do not match"
	case "min":
		if fe.Kind() == reflect.String {
			msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		} else {
			msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
		}
	case "max":
		msg = fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		msg = fmt.Sprintf("%s must be a valid URL", field)
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return &ErrValidation{Field: field, Message: msg}
}
