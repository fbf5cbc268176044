// Package proposal drafts job proposals: it builds the prompt, calls a
// completion client once, and splits the response into a proposal body and
// an optional cover letter.
package proposal

import (
	"strings"

	"github.com/jonathan/proposal-writer/internal/prompts"
	"github.com/jonathan/proposal-writer/internal/types"
)

const promptFile = "proposal.json"

// BuildPrompt assembles the completion prompt. It is pure: the same inputs
// always give the same text. The profile block is omitted when profile is
// nil, and within it empty fields are skipped.
func BuildPrompt(jobTitle, jobDescription string, platform types.Platform, profile *types.UserProfile) string {
	if platform == "" {
		platform = types.PlatformCustom
	}

	var sb strings.Builder

	sb.WriteString(prompts.MustGet(promptFile, "role"))
	sb.WriteString("\n\n")

	if block := profileBlock(profile); block != "" {
		sb.WriteString(block)
		sb.WriteString("\n")
	}

	sb.WriteString("Job Title: ")
	sb.WriteString(jobTitle)
	sb.WriteString("\nJob Description:\n")
	sb.WriteString(jobDescription)
	sb.WriteString("\n\n")

	sb.WriteString("Platform: ")
	sb.WriteString(string(platform))
	sb.WriteString("\n")
	sb.WriteString(PlatformGuide(platform))
	sb.WriteString("\n\n")

	sb.WriteString(prompts.MustGet(promptFile, "instructions"))
	sb.WriteString("\n\n")
	sb.WriteString(prompts.MustGet(promptFile, "output-format"))

	return sb.String()
}

// PlatformGuide returns the guidance sentence for platform, falling back to
// the CUSTOM guidance for anything unrecognized.
func PlatformGuide(platform types.Platform) string {
	if !platform.Known() {
		platform = types.PlatformCustom
	}
	return prompts.MustGet(promptFile, "guide-"+strings.ToLower(string(platform)))
}

func profileBlock(profile *types.UserProfile) string {
	if profile == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("User Profile:\n")
	writeLine(&sb, "Headline", profile.Headline)
	writeLine(&sb, "Skills", joinNonEmpty(profile.Skills))
	writeLine(&sb, "Experience", profile.Experience)
	writeLine(&sb, "Expertise", joinNonEmpty(profile.Expertise))
	writeLine(&sb, "About", profile.About)
	return sb.String()
}

func writeLine(sb *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	sb.WriteString("- ")
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

func joinNonEmpty(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ", ")
}
