package types

import (
	"time"

	"github.com/google/uuid"
)

// Availability values accepted on a stored profile.
const (
	AvailabilityAvailable   = "AVAILABLE"
	AvailabilityBusy        = "BUSY"
	AvailabilityUnavailable = "UNAVAILABLE"
)

// UserProfile is the professional summary used as prompt context.
// Every field is optional.
type UserProfile struct {
	Headline   string   `json:"headline,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Expertise  []string `json:"expertise,omitempty"`
	About      string   `json:"about,omitempty"`
}

// Profile is the full stored profile returned by the profile endpoints.
type Profile struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	Headline         string    `json:"headline"`
	About            string    `json:"about"`
	Tagline          string    `json:"tagline"`
	Skills           []string  `json:"skills"`
	Expertise        []string  `json:"expertise"`
	Certifications   []string  `json:"certifications"`
	Languages        []string  `json:"languages"`
	Experience       string    `json:"experience"`
	YearsExperience  *int      `json:"yearsExperience"`
	Education        string    `json:"education"`
	PortfolioURLs    []string  `json:"portfolioUrls"`
	GithubURL        string    `json:"githubUrl"`
	LinkedinURL      string    `json:"linkedinUrl"`
	TwitterURL       string    `json:"twitterUrl"`
	HourlyRate       *float64  `json:"hourlyRate"`
	ProjectMinBudget *float64  `json:"projectMinBudget"`
	Availability     string    `json:"availability"`
	IsPublic         bool      `json:"isPublic"`
	ProfileStrength  int       `json:"profileStrength"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ProfileInput is the body of POST/PUT /api/profile. Nil fields are
// "not provided": POST fills defaults, PUT keeps the stored value.
type ProfileInput struct {
	Headline         *string   `json:"headline"`
	About            *string   `json:"about"`
	Tagline          *string   `json:"tagline"`
	Skills           *[]string `json:"skills"`
	Expertise        *[]string `json:"expertise"`
	Certifications   *[]string `json:"certifications"`
	Languages        *[]string `json:"languages"`
	Experience       *string   `json:"experience"`
	YearsExperience  *int      `json:"yearsExperience" validate:"omitempty,min=0,max=80"`
	Education        *string   `json:"education"`
	PortfolioURLs    *[]string `json:"portfolioUrls"`
	GithubURL        *string   `json:"githubUrl"`
	LinkedinURL      *string   `json:"linkedinUrl"`
	TwitterURL       *string   `json:"twitterUrl"`
	HourlyRate       *float64  `json:"hourlyRate" validate:"omitempty,min=0"`
	ProjectMinBudget *float64  `json:"projectMinBudget" validate:"omitempty,min=0"`
	Availability     *string   `json:"availability" validate:"omitempty,oneof=AVAILABLE BUSY UNAVAILABLE"`
	IsPublic         *bool     `json:"isPublic"`
}

// Validate validates the ProfileInput.
func (in *ProfileInput) Validate() error {
	return validate.Struct(in)
}
