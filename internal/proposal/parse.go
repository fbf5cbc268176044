package proposal

import (
	"regexp"
	"strings"
)

var (
	proposalPattern    = regexp.MustCompile(`(?is)PROPOSAL_START\s*(.*?)\s*PROPOSAL_END`)
	coverLetterPattern = regexp.MustCompile(`(?is)COVER_LETTER_START\s*(.*?)\s*COVER_LETTER_END`)
)

// Sections is a completion split into its parts.
type Sections struct {
	Proposal    string
	CoverLetter string
}

// Parse extracts the proposal and cover letter from raw completion text.
// Without a PROPOSAL_START/PROPOSAL_END pair the whole trimmed text is the
// proposal; without a cover letter pair CoverLetter is empty. It never fails.
func Parse(raw string) Sections {
	var s Sections

	if m := proposalPattern.FindStringSubmatch(raw); m != nil {
		s.Proposal = strings.TrimSpace(m[1])
	} else {
		s.Proposal = strings.TrimSpace(raw)
	}

	if m := coverLetterPattern.FindStringSubmatch(raw); m != nil {
		s.CoverLetter = strings.TrimSpace(m[1])
	}

	return s
}
