package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/proposal-writer/internal/types"
)

const profileColumns = `id, user_id, headline, about, tagline, skills, expertise,
	certifications, languages, experience, years_experience, education,
	portfolio_urls, github_url, linkedin_url, twitter_url, hourly_rate,
	project_min_budget, availability, is_public, profile_strength,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*types.Profile, error) {
	var p types.Profile
	var skills, expertise, certifications, languages, portfolio StringArray
	err := row.Scan(
		&p.ID, &p.UserID, &p.Headline, &p.About, &p.Tagline, &skills, &expertise,
		&certifications, &languages, &p.Experience, &p.YearsExperience, &p.Education,
		&portfolio, &p.GithubURL, &p.LinkedinURL, &p.TwitterURL, &p.HourlyRate,
		&p.ProjectMinBudget, &p.Availability, &p.IsPublic, &p.ProfileStrength,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Skills = skills
	p.Expertise = expertise
	p.Certifications = certifications
	p.Languages = languages
	p.PortfolioURLs = portfolio
	return &p, nil
}

// GetProfileByUserID retrieves the profile owned by userID. Returns nil, nil when none exists.
func (db *DB) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	p, err := scanProfile(db.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// CreateProfile inserts p for p.UserID and returns the stored row.
func (db *DB) CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error) {
	created, err := scanProfile(db.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, headline, about, tagline, skills, expertise,
			certifications, languages, experience, years_experience, education,
			portfolio_urls, github_url, linkedin_url, twitter_url, hourly_rate,
			project_min_budget, availability, is_public, profile_strength)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING `+profileColumns,
		p.UserID, p.Headline, p.About, p.Tagline, StringArray(p.Skills), StringArray(p.Expertise),
		StringArray(p.Certifications), StringArray(p.Languages), p.Experience, p.YearsExperience, p.Education,
		StringArray(p.PortfolioURLs), p.GithubURL, p.LinkedinURL, p.TwitterURL, p.HourlyRate,
		p.ProjectMinBudget, p.Availability, p.IsPublic, p.ProfileStrength,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return created, nil
}

// UpdateProfile overwrites every editable column of the profile owned by
// p.UserID. Returns nil, nil when the user has no profile.
func (db *DB) UpdateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error) {
	updated, err := scanProfile(db.pool.QueryRow(ctx,
		`UPDATE profiles SET
			headline = $2, about = $3, tagline = $4, skills = $5, expertise = $6,
			certifications = $7, languages = $8, experience = $9, years_experience = $10,
			education = $11, portfolio_urls = $12, github_url = $13, linkedin_url = $14,
			twitter_url = $15, hourly_rate = $16, project_min_budget = $17,
			availability = $18, is_public = $19, profile_strength = $20, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING `+profileColumns,
		p.UserID, p.Headline, p.About, p.Tagline, StringArray(p.Skills), StringArray(p.Expertise),
		StringArray(p.Certifications), StringArray(p.Languages), p.Experience, p.YearsExperience,
		p.Education, StringArray(p.PortfolioURLs), p.GithubURL, p.LinkedinURL,
		p.TwitterURL, p.HourlyRate, p.ProjectMinBudget,
		p.Availability, p.IsPublic, p.ProfileStrength,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// DeleteProfile removes the profile owned by userID. It reports whether a row was deleted.
func (db *DB) DeleteProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
