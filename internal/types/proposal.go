package types

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus is the lifecycle state of a saved proposal.
type ProposalStatus string

const (
	StatusDraft     ProposalStatus = "DRAFT"
	StatusSubmitted ProposalStatus = "SUBMITTED"
	StatusAccepted  ProposalStatus = "ACCEPTED"
	StatusRejected  ProposalStatus = "REJECTED"
	StatusArchived  ProposalStatus = "ARCHIVED"
)

// Known reports whether s is a valid proposal status.
func (s ProposalStatus) Known() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusAccepted, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether a proposal in state s may move to next.
// DRAFT -> SUBMITTED, SUBMITTED -> ACCEPTED|REJECTED, anything -> ARCHIVED.
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	if next == StatusArchived {
		return s != StatusArchived
	}
	switch s {
	case StatusDraft:
		return next == StatusSubmitted
	case StatusSubmitted:
		return next == StatusAccepted || next == StatusRejected
	}
	return false
}

// Proposal is the API view of a saved proposal.
type Proposal struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"userId"`
	Title           string         `json:"title"`
	JobTitle        string         `json:"jobTitle"`
	JobDescription  string         `json:"jobDescription"`
	JobLink         *string        `json:"jobLink"`
	ProposalContent string         `json:"proposalContent"`
	CoverLetter     *string        `json:"coverLetter"`
	BidPrice        *float64       `json:"bidPrice"`
	EstimatedHours  *int           `json:"estimatedHours"`
	Currency        string         `json:"currency"`
	Platform        Platform       `json:"platform"`
	ExternalJobID   *string        `json:"externalJobId"`
	ExternalJobURL  *string        `json:"externalJobUrl"`
	Status          ProposalStatus `json:"status"`
	AIGenerated     bool           `json:"aiGenerated"`
	AIModel         *string        `json:"aiModel"`
	AIPrompt        *string        `json:"aiPrompt"`
	ConfidenceScore *int           `json:"confidenceScore"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	SubmittedAt     *time.Time     `json:"submittedAt"`
	ResponseAt      *time.Time     `json:"responseAt"`
}

// CreateProposalRequest is the body of POST /api/proposals/create.
type CreateProposalRequest struct {
	Title           string   `json:"title" validate:"required"`
	JobTitle        string   `json:"jobTitle" validate:"required"`
	JobDescription  string   `json:"jobDescription" validate:"required"`
	JobLink         string   `json:"jobLink,omitempty"`
	BidPrice        *float64 `json:"bidPrice,omitempty" validate:"omitempty,min=0"`
	EstimatedHours  *int     `json:"estimatedHours,omitempty" validate:"omitempty,min=0"`
	Platform        string   `json:"platform"`
	ExternalJobID   string   `json:"externalJobId,omitempty"`
	ExternalJobURL  string   `json:"externalJobUrl,omitempty"`
	ProposalContent string   `json:"proposalContent" validate:"required"`
	CoverLetter     string   `json:"coverLetter,omitempty"`
	AIGenerated     bool     `json:"aiGenerated,omitempty"`
	AIModel         string   `json:"aiModel,omitempty"`
	AIPrompt        string   `json:"aiPrompt,omitempty"`
	ConfidenceScore *int     `json:"confidenceScore,omitempty" validate:"omitempty,min=0,max=100"`
}

// Validate validates the CreateProposalRequest.
func (r *CreateProposalRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateProposalRequest is the body of PUT /api/proposals/{id}.
type UpdateProposalRequest struct {
	ProposalContent string  `json:"proposalContent" validate:"required"`
	CoverLetter     *string `json:"coverLetter"`
}

// Validate validates the UpdateProposalRequest.
func (r *UpdateProposalRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateStatusRequest is the body of PUT /api/proposals/{id}/status.
type UpdateStatusRequest struct {
	Status ProposalStatus `json:"status" validate:"required,oneof=DRAFT SUBMITTED ACCEPTED REJECTED ARCHIVED"`
}

// Validate validates the UpdateStatusRequest.
func (r *UpdateStatusRequest) Validate() error {
	return validate.Struct(r)
}

// ProposalSummary is one row of GET /api/proposals.
type ProposalSummary struct {
	ID              uuid.UUID      `json:"id"`
	Title           string         `json:"title"`
	JobTitle        string         `json:"jobTitle"`
	Status          ProposalStatus `json:"status"`
	BidPrice        *float64       `json:"bidPrice"`
	Currency        string         `json:"currency"`
	Platform        Platform       `json:"platform"`
	CreatedAt       time.Time      `json:"createdAt"`
	SubmittedAt     *time.Time     `json:"submittedAt"`
	ResponseAt      *time.Time     `json:"responseAt"`
	AIGenerated     bool           `json:"aiGenerated"`
	ConfidenceScore *int           `json:"confidenceScore"`
}

// GenerateRequest is the body of POST /api/proposals/generate.
type GenerateRequest struct {
	JobTitle       string       `json:"jobTitle"`
	JobDescription string       `json:"jobDescription"`
	Platform       string       `json:"platform"`
	UserProfile    *UserProfile `json:"userProfile"`
}

// GenerateResponse is the success body of POST /api/proposals/generate.
type GenerateResponse struct {
	Proposal        string `json:"proposal"`
	CoverLetter     string `json:"coverLetter"`
	ConfidenceScore int    `json:"confidenceScore"`
	AIModel         string `json:"aiModel"`
}

// ImportJobRequest is the body of POST /api/proposals/import.
type ImportJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// Validate validates the ImportJobRequest.
func (r *ImportJobRequest) Validate() error {
	return validate.Struct(r)
}

// ImportedJob is a job posting fetched from a link.
type ImportedJob struct {
	JobTitle       string   `json:"jobTitle"`
	JobDescription string   `json:"jobDescription"`
	Platform       Platform `json:"platform"`
	JobLink        string   `json:"jobLink"`
}
