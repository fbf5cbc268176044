package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/proposal-writer/internal/profile"
	"github.com/jonathan/proposal-writer/internal/schemas"
	"github.com/jonathan/proposal-writer/internal/types"
)

// handleGetProfile returns the caller's profile, or null when none exists.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	p, err := s.store.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]*types.Profile{"profile": p})
}

// handleCreateProfile creates the caller's profile. A second create is a conflict.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	in, err := readProfileInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing, err := s.store.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if existing != nil {
		s.writeError(w, r, &ErrProfileExists{})
		return
	}

	created, err := s.store.CreateProfile(r.Context(), profile.New(userID, in))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("profile created", zap.String("user_id", userID.String()), zap.Int("strength", created.ProfileStrength))
	s.jsonResponse(w, http.StatusCreated, map[string]*types.Profile{"profile": created})
}

// handleUpdateProfile merges the provided fields into the caller's profile,
// creating it when absent.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	in, err := readProfileInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	existing, err := s.store.GetProfileByUserID(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if existing == nil {
		created, err := s.store.CreateProfile(r.Context(), profile.New(userID, in))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusCreated, map[string]*types.Profile{"profile": created})
		return
	}

	updated, err := s.store.UpdateProfile(r.Context(), profile.Apply(existing, in))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if updated == nil {
		s.writeError(w, r, &ErrProfileNotFound{})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]*types.Profile{"profile": updated})
}

// handleDeleteProfile removes the caller's profile.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, r, &ErrProfileNotFound{})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Profile deleted successfully"})
}

// readProfileInput schema-checks and decodes a profile body.
func readProfileInput(w http.ResponseWriter, r *http.Request) (*types.ProfileInput, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.ProfileInput, body); err != nil {
		return nil, err
	}

	var in types.ProfileInput
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "Invalid request body"}
	}
	if err := in.Validate(); err != nil {
		return nil, extractValidationErrors(err)
	}
	return &in, nil
}
