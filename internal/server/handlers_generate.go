package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/profile"
	"github.com/jonathan/proposal-writer/internal/proposal"
	"github.com/jonathan/proposal-writer/internal/schemas"
	"github.com/jonathan/proposal-writer/internal/types"
)

// handleGenerate drafts a proposal and returns it as one JSON document.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	req, err := s.readGenerateRequest(w, r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.generator.Generate(r.Context(), *req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, toGenerateResponse(result))
}

// handleGenerateStream drafts a proposal, reporting progress as server-sent
// events: one "stage" per step, then "complete" or "error".
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	req, err := s.readGenerateRequest(w, r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stream, err := openEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	result, err := s.generator.GenerateWithProgress(r.Context(), *req, func(stage string) {
		if werr := stream.stage(stage); werr != nil {
			s.logger.Debug("client went away during stream", zap.Error(werr))
		}
	})
	if err != nil {
		status := HTTPStatus(err)
		s.logger.Warn("streamed generation failed", zap.Int("status", status), zap.Error(err))
		_ = stream.fail(status, publicMessage(err))
		return
	}
	_ = stream.complete(toGenerateResponse(result))
}

// handleGenerateStatus reports whether the completion provider has a credential.
func (s *Server) handleGenerateStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(w, r); !ok {
		return
	}

	name := providerName(s.llmConfig.Provider)
	if !s.llmConfig.Configured() {
		s.jsonResponse(w, http.StatusOK, map[string]string{
			"status":  "not_configured",
			"message": name + " API key not set",
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":   "configured",
		"message":  name + " API is ready",
		"provider": string(s.llmConfig.Provider),
		"model":    s.llmConfig.Model,
	})
}

// handleImportJob fetches a job posting link and returns its title,
// description, and detected platform.
func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(w, r); !ok {
		return
	}

	var req types.ImportJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, extractValidationErrors(err))
		return
	}

	job, err := s.importer.Import(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// readGenerateRequest schema-checks the body, normalizes the platform, and
// falls back to the caller's stored profile when none was sent.
func (s *Server) readGenerateRequest(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*proposal.Request, error) {
	body, err := readBody(w, r)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.GenerateRequest, body); err != nil {
		return nil, err
	}

	var in types.GenerateRequest
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "Invalid request body"}
	}

	req := &proposal.Request{
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		Platform:       types.NormalizePlatform(in.Platform),
		Profile:        in.UserProfile,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Profile == nil {
		req.Profile, err = s.storedPromptProfile(r.Context(), userID)
		if err != nil {
			return nil, err
		}
	}
	return req, nil
}

// storedPromptProfile returns the caller's saved profile as prompt context,
// or nil when they have none.
func (s *Server) storedPromptProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	stored, err := s.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.ToPromptProfile(stored), nil
}

func toGenerateResponse(result *proposal.GeneratedProposal) types.GenerateResponse {
	return types.GenerateResponse{
		Proposal:        result.Proposal,
		CoverLetter:     result.CoverLetter,
		ConfidenceScore: result.ConfidenceScore,
		AIModel:         result.AIModel,
	}
}

func providerName(p llm.Provider) string {
	switch p {
	case llm.ProviderGemini:
		return "Gemini"
	default:
		return "OpenAI"
	}
}
