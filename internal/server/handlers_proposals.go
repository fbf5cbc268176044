package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/proposal-writer/internal/db"
	"github.com/jonathan/proposal-writer/internal/types"
)

// filterAll is the query value that disables a list filter.
const filterAll = "ALL"

// handleListProposals lists the caller's proposals, newest first.
func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	filters, err := parseProposalFilters(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	proposals, err := s.store.ListProposals(r.Context(), userID, filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"proposals": proposals,
		"total":     len(proposals),
	})
}

// handleCreateProposal saves a new DRAFT proposal.
func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req types.CreateProposalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, extractValidationErrors(err))
		return
	}

	created, err := s.store.CreateProposal(r.Context(), newProposal(userID, &req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("proposal created",
		zap.String("proposal_id", created.ID.String()),
		zap.String("platform", string(created.Platform)),
		zap.Bool("ai_generated", created.AIGenerated))
	s.jsonResponse(w, http.StatusCreated, map[string]*types.Proposal{"proposal": created})
}

// handleGetProposal returns one of the caller's proposals.
func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	p, err := s.loadProposal(r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]*types.Proposal{"proposal": p})
}

// handleUpdateProposal replaces the proposal text and cover letter.
func (s *Server) handleUpdateProposal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := proposalID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.UpdateProposalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, extractValidationErrors(err))
		return
	}

	updated, err := s.store.UpdateProposalContent(r.Context(), id, userID, req.ProposalContent, req.CoverLetter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if updated == nil {
		s.writeError(w, r, &ErrProposalNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]*types.Proposal{"proposal": updated})
}

// handleDeleteProposal deletes one of the caller's proposals.
func (s *Server) handleDeleteProposal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, err := proposalID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	deleted, err := s.store.DeleteProposal(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		s.writeError(w, r, &ErrProposalNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Proposal deleted successfully"})
}

// handleSubmitProposal moves a DRAFT proposal to SUBMITTED.
func (s *Server) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	s.transitionProposal(w, r, types.StatusSubmitted)
}

// handleUpdateProposalStatus applies a requested lifecycle transition.
func (s *Server) handleUpdateProposalStatus(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, extractValidationErrors(err))
		return
	}
	s.transitionProposal(w, r, req.Status)
}

func (s *Server) transitionProposal(w http.ResponseWriter, r *http.Request, next types.ProposalStatus) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	current, err := s.loadProposal(r, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !current.Status.CanTransitionTo(next) {
		s.writeError(w, r, &ErrInvalidTransition{From: current.Status, To: next})
		return
	}

	updated, err := s.store.UpdateProposalStatus(r.Context(), current.ID, userID, current.Status, next)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if updated == nil {
		// Another request changed or removed the proposal since it was read.
		s.writeError(w, r, &ErrInvalidTransition{From: current.Status, To: next})
		return
	}
	s.logger.Info("proposal status changed",
		zap.String("proposal_id", updated.ID.String()),
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)))
	s.jsonResponse(w, http.StatusOK, map[string]*types.Proposal{"proposal": updated})
}

// loadProposal fetches the {id} proposal for userID.
func (s *Server) loadProposal(r *http.Request, userID uuid.UUID) (*types.Proposal, error) {
	id, err := proposalID(r)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetProposal(r.Context(), id, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ErrProposalNotFound{ID: id}
	}
	return p, nil
}

// proposalID parses the {id} path value. A malformed ID cannot name a
// stored proposal, so it is reported as not found.
func proposalID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrProposalNotFound{}
	}
	return id, nil
}

// parseProposalFilters reads ?status= and ?platform=. Empty or ALL means no filter.
func parseProposalFilters(r *http.Request) (db.ProposalFilters, error) {
	var filters db.ProposalFilters
	q := r.URL.Query()

	if status := strings.ToUpper(strings.TrimSpace(q.Get("status"))); status != "" && status != filterAll {
		if !types.ProposalStatus(status).Known() {
			return filters, &ErrValidation{Field: "status", Message: "Invalid status filter: " + status}
		}
		filters.Status = status
	}
	if platform := strings.ToUpper(strings.TrimSpace(q.Get("platform"))); platform != "" && platform != filterAll {
		if !types.Platform(platform).Known() {
			return filters, &ErrValidation{Field: "platform", Message: "Invalid platform filter: " + platform}
		}
		filters.Platform = platform
	}
	return filters, nil
}

// newProposal maps a create request onto a DRAFT proposal for userID.
func newProposal(userID uuid.UUID, req *types.CreateProposalRequest) *types.Proposal {
	return &types.Proposal{
		UserID:          userID,
		Title:           strings.TrimSpace(req.Title),
		JobTitle:        req.JobTitle,
		JobDescription:  req.JobDescription,
		JobLink:         optional(req.JobLink),
		ProposalContent: req.ProposalContent,
		CoverLetter:     optional(req.CoverLetter),
		BidPrice:        req.BidPrice,
		EstimatedHours:  req.EstimatedHours,
		Currency:        "USD",
		Platform:        types.NormalizePlatform(req.Platform),
		ExternalJobID:   optional(req.ExternalJobID),
		ExternalJobURL:  optional(req.ExternalJobURL),
		Status:          types.StatusDraft,
		AIGenerated:     req.AIGenerated,
		AIModel:         optional(req.AIModel),
		AIPrompt:        optional(req.AIPrompt),
		ConfidenceScore: req.ConfidenceScore,
	}
}

// optional maps blank strings to NULL.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
