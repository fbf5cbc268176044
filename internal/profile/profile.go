// Package profile holds the profile editor rules: completeness scoring,
// create defaults, partial updates, and the mapping to prompt context.
package profile

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/proposal-writer/internal/types"
)

// Strength weights. The total is capped at 100.
const (
	weightHeadline   = 15
	weightAbout      = 20
	weightSkills     = 15
	weightExperience = 15
	weightEducation  = 10
	weightPortfolio  = 15
	weightLinkedin   = 5
	weightGithub     = 5

	minSkillsForCredit = 3
	maxStrength        = 100
)

// Strength scores how complete a profile is, from 0 to 100.
func Strength(p *types.Profile) int {
	if p == nil {
		return 0
	}

	score := 0
	if filled(p.Headline) {
		score += weightHeadline
	}
	if filled(p.About) {
		score += weightAbout
	}
	if len(p.Skills) >= minSkillsForCredit {
		score += weightSkills
	}
	if filled(p.Experience) {
		score += weightExperience
	}
	if filled(p.Education) {
		score += weightEducation
	}
	if len(p.PortfolioURLs) > 0 {
		score += weightPortfolio
	}
	if filled(p.LinkedinURL) {
		score += weightLinkedin
	}
	if filled(p.GithubURL) {
		score += weightGithub
	}
	return min(score, maxStrength)
}

// New builds a profile for userID from in, filling defaults for every
// field that was not provided, and scores it.
func New(userID uuid.UUID, in *types.ProfileInput) *types.Profile {
	p := &types.Profile{
		UserID:         userID,
		Skills:         []string{},
		Expertise:      []string{},
		Certifications: []string{},
		Languages:      []string{},
		PortfolioURLs:  []string{},
		Availability:   types.AvailabilityAvailable,
	}
	return Apply(p, in)
}

// Apply overwrites the fields of current that are present in patch and
// recomputes the strength. current is modified and returned.
func Apply(current *types.Profile, patch *types.ProfileInput) *types.Profile {
	if patch == nil {
		current.ProfileStrength = Strength(current)
		return current
	}

	setString(&current.Headline, patch.Headline)
	setString(&current.About, patch.About)
	setString(&current.Tagline, patch.Tagline)
	setList(&current.Skills, patch.Skills)
	setList(&current.Expertise, patch.Expertise)
	setList(&current.Certifications, patch.Certifications)
	setList(&current.Languages, patch.Languages)
	setString(&current.Experience, patch.Experience)
	if patch.YearsExperience != nil {
		current.YearsExperience = patch.YearsExperience
	}
	setString(&current.Education, patch.Education)
	setList(&current.PortfolioURLs, patch.PortfolioURLs)
	setString(&current.GithubURL, patch.GithubURL)
	setString(&current.LinkedinURL, patch.LinkedinURL)
	setString(&current.TwitterURL, patch.TwitterURL)
	if patch.HourlyRate != nil {
		current.HourlyRate = patch.HourlyRate
	}
	if patch.ProjectMinBudget != nil {
		current.ProjectMinBudget = patch.ProjectMinBudget
	}
	if patch.Availability != nil && *patch.Availability != "" {
		current.Availability = *patch.Availability
	}
	if patch.IsPublic != nil {
		current.IsPublic = *patch.IsPublic
	}

	current.ProfileStrength = Strength(current)
	return current
}

// ToPromptProfile maps a stored profile to the prompt context. Returns nil
// for a nil profile so the prompt omits the profile block.
func ToPromptProfile(p *types.Profile) *types.UserProfile {
	if p == nil {
		return nil
	}
	return &types.UserProfile{
		Headline:   p.Headline,
		Skills:     p.Skills,
		Experience: p.Experience,
		Expertise:  p.Expertise,
		About:      p.About,
	}
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setList(dst *[]string, src *[]string) {
	if src == nil {
		return
	}
	if *src == nil {
		*dst = []string{}
		return
	}
	*dst = *src
}
