// Package platform classifies social-media URLs and validates incoming requests.
package platform

import (
	"strings"
)

// Platform identifies the social-media service a URL belongs to.
type Platform string

const (
	YouTube   Platform = "youtube"
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
	Facebook  Platform = "facebook"

	// Unknown is returned when no marker matches.
	Unknown Platform = "unknown"
)

// rule maps a set of host markers to a platform.
type rule struct {
	platform Platform
	markers  []string
}

// rules is evaluated top to bottom; the first matching marker wins.
var rules = []rule{
	{Instagram, []string{"instagram.com", "instagr.am"}},
	{TikTok, []string{"tiktok.com", "vm.tiktok.com"}},
	{Facebook, []string{"facebook.com", "fb.com", "fb.watch"}},
	{YouTube, []string{"youtube.com", "youtu.be"}},
}

// Detect returns the platform whose marker appears in rawURL, or Unknown.
// Matching is a case-insensitive substring test; no parsing is done here.
func Detect(rawURL string) Platform {
	lower := strings.ToLower(rawURL)
	for _, r := range rules {
		for _, m := range r.markers {
			if strings.Contains(lower, m) {
				return r.platform
			}
		}
	}
	return Unknown
}

// Supported returns the supported platforms in display order.
func Supported() []Platform {
	return []Platform{YouTube, Instagram, TikTok, Facebook}
}

// IsSupported reports whether p is one of the supported platforms.
func (p Platform) IsSupported() bool {
	for _, s := range Supported() {
		if p == s {
			return true
		}
	}
	return false
}

// DisplayName returns the user-facing name of the platform.
func (p Platform) DisplayName() string {
	switch p {
	case YouTube:
		return "YouTube"
	case Instagram:
		return "Instagram"
	case TikTok:
		return "TikTok"
	case Facebook:
		return "Facebook"
	default:
		return ""
	}
}

func (p Platform) String() string {
	return string(p)
}
