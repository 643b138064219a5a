// Package media holds the provider-independent result shapes and the logic
// that turns a provider result into API payloads.
package media

import (
	"social-dl/internal/platform"
)

// Request is one incoming metadata or download call.
type Request struct {
	URL     string
	Quality string
	Format  string
}

const (
	DefaultQuality = "best"
	DefaultFormat  = "mp4"
)

// NewRequest fills in the default quality and format.
func NewRequest(url, quality, format string) Request {
	if quality == "" {
		quality = DefaultQuality
	}
	if format == "" {
		format = DefaultFormat
	}
	return Request{URL: url, Quality: quality, Format: format}
}

// RawResult is the fixed intermediate structure every provider adapter maps
// its payload into. Fields mirror the aliases providers use; empty means absent.
type RawResult struct {
	Provider string

	Title       string
	Caption     string
	Description string

	Author   string
	Username string
	Uploader string

	Thumbnail string
	Image     string
	Cover     string

	Duration    float64
	Views       int64
	ViewCount   int64
	Likes       int64
	LikeCount   int64
	CreatedTime string
	UploadDate  string

	// Video is ordered best first. A scalar video field from a provider is
	// stored as a one element list.
	Video       []string
	HDVideo     string
	NormalVideo string
	Audio       string
	URL         string
	DownloadURL string
	URLList     []string
}

// HasLocator reports whether r carries at least one field that can yield a
// downloadable asset URL.
func (r *RawResult) HasLocator() bool {
	if r == nil {
		return false
	}
	return firstNonEmpty(r.HDVideo, r.NormalVideo, r.Audio, r.URL, r.DownloadURL) != "" ||
		firstNonEmpty(r.Video...) != "" ||
		firstNonEmpty(r.URLList...) != ""
}

// NormalizedMedia is the canonical metadata shape returned to callers.
type NormalizedMedia struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Author       string            `json:"author"`
	Thumbnail    string            `json:"thumbnail"`
	Duration     float64           `json:"duration"`
	Platform     platform.Platform `json:"platform"`
	ViewCount    int64             `json:"view_count"`
	LikeCount    int64             `json:"like_count"`
	UploadDate   string            `json:"upload_date"`
	IsLive       bool              `json:"is_live"`
	Availability string            `json:"availability"`
}

// Alternatives lists the other locators a provider offered.
type Alternatives struct {
	HDVideo     string `json:"hd_video,omitempty"`
	NormalVideo string `json:"normal_video,omitempty"`
	Audio       string `json:"audio,omitempty"`
}

// ResolvedDownload is the payload of a successful download call.
type ResolvedDownload struct {
	DownloadURL      string          `json:"download_url"`
	MediaInfo        NormalizedMedia `json:"media_info"`
	SupportedFormats []string        `json:"supported_formats"`
	Alternatives     Alternatives    `json:"alternatives"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
