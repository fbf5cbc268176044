package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/proposal-writer/internal/db"
	"github.com/jonathan/proposal-writer/internal/types"
)

// UserStore is the account storage the auth endpoints need.
type UserStore interface {
	CreateUser(ctx context.Context, fullName, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ProfileStore is the one-profile-per-user storage.
type ProfileStore interface {
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	UpdateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	DeleteProfile(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ProposalStore is the owner-scoped proposal storage. Every lookup takes the
// caller's user ID; a proposal owned by someone else reads as absent.
type ProposalStore interface {
	CreateProposal(ctx context.Context, p *types.Proposal) (*types.Proposal, error)
	GetProposal(ctx context.Context, id, userID uuid.UUID) (*types.Proposal, error)
	ListProposals(ctx context.Context, userID uuid.UUID, filters db.ProposalFilters) ([]types.ProposalSummary, error)
	UpdateProposalContent(ctx context.Context, id, userID uuid.UUID, content string, coverLetter *string) (*types.Proposal, error)
	UpdateProposalStatus(ctx context.Context, id, userID uuid.UUID, from, to types.ProposalStatus) (*types.Proposal, error)
	DeleteProposal(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

// Store is everything the server persists. *db.DB implements it.
type Store interface {
	UserStore
	ProfileStore
	ProposalStore
	Ping(ctx context.Context) error
}

var _ Store = (*db.DB)(nil)
