package jobpost

import (
	"net/url"
	"strings"

	"github.com/jonathan/proposal-writer/internal/types"
)

// DetectPlatform identifies the marketplace from a URL's host.
// Anything unrecognized is CUSTOM.
func DetectPlatform(urlStr string) types.Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return types.PlatformCustom
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case hostMatches(host, "upwork.com"):
		return types.PlatformUpwork
	case hostMatches(host, "fiverr.com"):
		return types.PlatformFiverr
	case hostMatches(host, "linkedin.com"):
		return types.PlatformLinkedIn
	default:
		return types.PlatformCustom
	}
}

// hostMatches reports whether host is domain or a subdomain of it.
func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// PlatformContentSelectors returns content selectors for a platform's job pages.
func PlatformContentSelectors(platform types.Platform) []string {
	switch platform {
	case types.PlatformUpwork:
		return append([]string{
			"[data-test='Description']",
			"[data-test='job-description-text']",
			".job-description",
			"section.air3-card-section",
		}, JobPostingSelectors()...)
	case types.PlatformFiverr:
		return append([]string{
			".request-description",
			".brief-description",
			".description-content",
		}, JobPostingSelectors()...)
	case types.PlatformLinkedIn:
		return append([]string{
			".show-more-less-html__markup",
			".description__text",
			".jobs-description__content",
			".jobs-box__html-content",
		}, JobPostingSelectors()...)
	default:
		return JobPostingSelectors()
	}
}

// JobPostingSelectors returns selectors that fit most job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a platform.
func PlatformNoiseSelectors(platform types.Platform) []string {
	common := []string{
		"form",
		".apply-button-container",
		".social-share",
		".share-buttons",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case types.PlatformUpwork:
		return append(common,
			"[data-test='AboutClientUser']",
			"[data-test='SimilarJobs']",
			".job-details-sidebar",
		)
	case types.PlatformFiverr:
		return append(common,
			".seller-card",
			".gig-recommendations",
		)
	case types.PlatformLinkedIn:
		return append(common,
			".jobs-apply-button",
			".similar-jobs",
			".sign-in-modal",
			".top-card-layout__cta-container",
		)
	default:
		return common
	}
}
