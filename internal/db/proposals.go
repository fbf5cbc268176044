package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/proposal-writer/internal/types"
)

const proposalColumns = `id, user_id, title, job_title, job_description, job_link,
	proposal_content, cover_letter, bid_price, estimated_hours, currency, platform,
	external_job_id, external_job_url, status, ai_generated, ai_model, ai_prompt,
	confidence_score, created_at, updated_at, submitted_at, response_at`

func scanProposal(row pgx.Row) (*types.Proposal, error) {
	var p types.Proposal
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.JobTitle, &p.JobDescription, &p.JobLink,
		&p.ProposalContent, &p.CoverLetter, &p.BidPrice, &p.EstimatedHours, &p.Currency, &p.Platform,
		&p.ExternalJobID, &p.ExternalJobURL, &p.Status, &p.AIGenerated, &p.AIModel, &p.AIPrompt,
		&p.ConfidenceScore, &p.CreatedAt, &p.UpdatedAt, &p.SubmittedAt, &p.ResponseAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProposal inserts p and returns the stored row.
func (db *DB) CreateProposal(ctx context.Context, p *types.Proposal) (*types.Proposal, error) {
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Platform == "" {
		p.Platform = types.PlatformCustom
	}
	if p.Status == "" {
		p.Status = types.StatusDraft
	}

	created, err := scanProposal(db.pool.QueryRow(ctx,
		`INSERT INTO proposals (user_id, title, job_title, job_description, job_link,
			proposal_content, cover_letter, bid_price, estimated_hours, currency, platform,
			external_job_id, external_job_url, status, ai_generated, ai_model, ai_prompt,
			confidence_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING `+proposalColumns,
		p.UserID, p.Title, p.JobTitle, p.JobDescription, p.JobLink,
		p.ProposalContent, p.CoverLetter, p.BidPrice, p.EstimatedHours, p.Currency, string(p.Platform),
		p.ExternalJobID, p.ExternalJobURL, string(p.Status), p.AIGenerated, p.AIModel, p.AIPrompt,
		p.ConfidenceScore,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	return created, nil
}

// GetProposal retrieves a proposal owned by userID. Returns nil, nil when it
// does not exist or belongs to someone else.
func (db *DB) GetProposal(ctx context.Context, id, userID uuid.UUID) (*types.Proposal, error) {
	p, err := scanProposal(db.pool.QueryRow(ctx,
		`SELECT `+proposalColumns+` FROM proposals WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return p, nil
}

// ListProposals returns the user's proposals, newest first.
func (db *DB) ListProposals(ctx context.Context, userID uuid.UUID, filters ProposalFilters) ([]types.ProposalSummary, error) {
	query := `SELECT id, title, job_title, status, bid_price, currency, platform,
		created_at, submitted_at, response_at, ai_generated, confidence_score
		FROM proposals WHERE user_id = $1`
	args := []any{userID}
	argNum := 2

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.Platform != "" {
		query += fmt.Sprintf(" AND platform = $%d", argNum)
		args = append(args, filters.Platform)
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	proposals := []types.ProposalSummary{}
	for rows.Next() {
		var s types.ProposalSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.JobTitle, &s.Status, &s.BidPrice, &s.Currency, &s.Platform,
			&s.CreatedAt, &s.SubmittedAt, &s.ResponseAt, &s.AIGenerated, &s.ConfidenceScore); err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// UpdateProposalContent replaces the proposal text and cover letter.
// Returns nil, nil when the proposal is not found for userID.
func (db *DB) UpdateProposalContent(ctx context.Context, id, userID uuid.UUID, content string, coverLetter *string) (*types.Proposal, error) {
	p, err := scanProposal(db.pool.QueryRow(ctx,
		`UPDATE proposals SET proposal_content = $3, cover_letter = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+proposalColumns,
		id, userID, content, coverLetter,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update proposal: %w", err)
	}
	return p, nil
}

// UpdateProposalStatus moves the proposal from status from to status to.
// Moving to SUBMITTED stamps submitted_at; moving to ACCEPTED or REJECTED
// stamps response_at. Returns nil, nil when no proposal owned by userID is
// currently in status from.
func (db *DB) UpdateProposalStatus(ctx context.Context, id, userID uuid.UUID, from, to types.ProposalStatus) (*types.Proposal, error) {
	p, err := scanProposal(db.pool.QueryRow(ctx,
		`UPDATE proposals SET
			status = $3,
			submitted_at = CASE WHEN $3 = 'SUBMITTED' THEN NOW() ELSE submitted_at END,
			response_at = CASE WHEN $3 IN ('ACCEPTED', 'REJECTED') THEN NOW() ELSE response_at END,
			updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status = $4
		 RETURNING `+proposalColumns,
		id, userID, string(to), string(from),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update proposal status: %w", err)
	}
	return p, nil
}

// DeleteProposal removes a proposal owned by userID. It reports whether a row was deleted.
func (db *DB) DeleteProposal(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM proposals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete proposal: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
