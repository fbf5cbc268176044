package types

import "strings"

// Platform is the job marketplace a proposal targets.
type Platform string

const (
	// PlatformUpwork is upwork.com
	PlatformUpwork Platform = "UPWORK"
	// PlatformFiverr is fiverr.com
	PlatformFiverr Platform = "FIVERR"
	// PlatformLinkedIn is LinkedIn Jobs
	PlatformLinkedIn Platform = "LINKEDIN"
	// PlatformCustom is any other job board
	PlatformCustom Platform = "CUSTOM"
)

// Platforms lists the known platforms in display order.
var Platforms = []Platform{PlatformUpwork, PlatformFiverr, PlatformLinkedIn, PlatformCustom}

// Known reports whether p is one of the supported platforms.
func (p Platform) Known() bool {
	switch p {
	case PlatformUpwork, PlatformFiverr, PlatformLinkedIn, PlatformCustom:
		return true
	}
	return false
}

// NormalizePlatform upper-cases s and maps anything unrecognized to CUSTOM.
func NormalizePlatform(s string) Platform {
	p := Platform(strings.ToUpper(strings.TrimSpace(s)))
	if p.Known() {
		return p
	}
	return PlatformCustom
}
