// Package ytdlp implements a provider adapter backed by the yt-dlp binary.
package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"social-dl/internal/media"
)

// Name is the provider identifier used in config.
const Name = "ytdlp"

// Config holds yt-dlp adapter configuration.
type Config struct {
	// Binary is the yt-dlp executable name or path.
	Binary string
	// CookiesFromBrowser extracts cookies from browser (e.g., "firefox", "chrome")
	CookiesFromBrowser string
	// CookiesFile path to cookies.txt file (alternative to browser cookies)
	CookiesFile string
	// SocketTimeout is passed to --socket-timeout, in seconds.
	SocketTimeout int
}

// runFunc runs a command and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Adapter extracts media info by running `yt-dlp -j`.
type Adapter struct {
	cfg Config
	run runFunc
}

// New creates a yt-dlp adapter.
func New(cfg Config) *Adapter {
	if cfg.Binary == "" {
		cfg.Binary = "yt-dlp"
	}
	if cfg.SocketTimeout <= 0 {
		cfg.SocketTimeout = 10
	}
	return &Adapter{cfg: cfg, run: runCommand}
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return Name
}

// Fetch runs yt-dlp against url and maps its JSON output.
func (a *Adapter) Fetch(ctx context.Context, url string) (*media.RawResult, error) {
	out, err := a.run(ctx, a.cfg.Binary, a.args(url)...)
	if err != nil {
		return nil, err
	}

	var info videoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	return info.toRaw(), nil
}

func (a *Adapter) args(url string) []string {
	args := []string{
		"--ignore-config",
		"--no-playlist",
		"--no-warnings",
		"--socket-timeout", fmt.Sprint(a.cfg.SocketTimeout),
		"-j",
		"--skip-download",
	}
	args = append(args, a.cookieArgs()...)
	return append(args, url)
}

// cookieArgs returns yt-dlp arguments for cookie authentication.
func (a *Adapter) cookieArgs() []string {
	if a.cfg.CookiesFile != "" {
		return []string{"--cookies", a.cfg.CookiesFile}
	}
	if a.cfg.CookiesFromBrowser != "" {
		return []string{"--cookies-from-browser", a.cfg.CookiesFromBrowser}
	}
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// videoInfo is the subset of the yt-dlp JSON document we use.
type videoInfo struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Uploader    string   `json:"uploader"`
	Channel     string   `json:"channel"`
	Thumbnail   string   `json:"thumbnail"`
	Duration    float64  `json:"duration"`
	ViewCount   int64    `json:"view_count"`
	LikeCount   int64    `json:"like_count"`
	UploadDate  string   `json:"upload_date"`
	URL         string   `json:"url"`
	Formats     []format `json:"formats"`
}

type format struct {
	URL      string  `json:"url"`
	Ext      string  `json:"ext"`
	VCodec   string  `json:"vcodec"`
	ACodec   string  `json:"acodec"`
	Height   int     `json:"height"`
	ABR      float64 `json:"abr"`
	Protocol string  `json:"protocol"`
}

func (f format) hasVideo() bool { return f.VCodec != "" && f.VCodec != "none" }
func (f format) hasAudio() bool { return f.ACodec != "" && f.ACodec != "none" }

// direct reports whether the format URL can be fetched without a manifest.
func (f format) direct() bool {
	return f.URL != "" && !strings.Contains(f.Protocol, "m3u8") && !strings.Contains(f.Protocol, "dash")
}

func (v *videoInfo) toRaw() *media.RawResult {
	raw := &media.RawResult{
		Provider:    Name,
		Title:       v.Title,
		Description: v.Description,
		Uploader:    firstNonEmpty(v.Uploader, v.Channel),
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		ViewCount:   v.ViewCount,
		LikeCount:   v.LikeCount,
		UploadDate:  formatUploadDate(v.UploadDate),
		URL:         v.URL,
	}

	var muxed []format
	var bestAudio *format
	for i := range v.Formats {
		f := v.Formats[i]
		if !f.direct() {
			continue
		}
		switch {
		case f.hasVideo() && f.hasAudio():
			muxed = append(muxed, f)
		case f.hasAudio() && !f.hasVideo():
			if bestAudio == nil || f.ABR > bestAudio.ABR {
				bestAudio = &v.Formats[i]
			}
		}
	}

	// Best first.
	sort.SliceStable(muxed, func(i, j int) bool {
		return muxed[i].Height > muxed[j].Height
	})
	for _, f := range muxed {
		raw.Video = append(raw.Video, f.URL)
	}
	if bestAudio != nil {
		raw.Audio = bestAudio.URL
	}
	return raw
}

// formatUploadDate turns yt-dlp's YYYYMMDD into YYYY-MM-DD.
func formatUploadDate(s string) string {
	if len(s) != 8 {
		return s
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
