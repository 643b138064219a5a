// Package youtube implements a native YouTube provider adapter.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	yt "github.com/kkdai/youtube/v2"

	"social-dl/internal/media"
)

// Name is the provider identifier used in config.
const Name = "youtube"

// client is the subset of *yt.Client the adapter uses.
type client interface {
	GetVideoContext(ctx context.Context, url string) (*yt.Video, error)
	GetStreamURLContext(ctx context.Context, video *yt.Video, format *yt.Format) (string, error)
}

// Adapter talks to YouTube directly without external binaries.
type Adapter struct {
	client client
}

// New creates a YouTube adapter using httpClient for requests.
func New(httpClient *http.Client) *Adapter {
	return &Adapter{client: &yt.Client{HTTPClient: httpClient}}
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return Name
}

// Fetch resolves video metadata and direct stream URLs.
// Muxed formats populate Video (highest resolution first) and the best
// audio-only format populates Audio.
func (a *Adapter) Fetch(ctx context.Context, url string) (*media.RawResult, error) {
	video, err := a.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("youtube: %w", err)
	}

	raw := &media.RawResult{
		Provider:    Name,
		Title:       video.Title,
		Description: video.Description,
		Author:      video.Author,
		Duration:    video.Duration.Seconds(),
		Views:       int64(video.Views),
	}
	if !video.PublishDate.IsZero() {
		raw.UploadDate = video.PublishDate.Format("2006-01-02")
	}
	if len(video.Thumbnails) > 0 {
		best := video.Thumbnails[0]
		for _, th := range video.Thumbnails[1:] {
			if th.Width > best.Width {
				best = th
			}
		}
		raw.Thumbnail = best.URL
	}

	muxed, audio := splitFormats(video.Formats)
	for i := range muxed {
		u, err := a.client.GetStreamURLContext(ctx, video, &muxed[i])
		if err != nil || u == "" {
			continue
		}
		raw.Video = append(raw.Video, u)
	}
	if audio != nil {
		if u, err := a.client.GetStreamURLContext(ctx, video, audio); err == nil {
			raw.Audio = u
		}
	}
	return raw, nil
}

// splitFormats returns muxed audio+video formats ordered by height descending
// and the highest bitrate audio-only format.
func splitFormats(formats yt.FormatList) ([]yt.Format, *yt.Format) {
	var muxed []yt.Format
	var audio *yt.Format

	for i := range formats {
		f := formats[i]
		isVideo := strings.HasPrefix(f.MimeType, "video/")
		isAudio := strings.HasPrefix(f.MimeType, "audio/")
		switch {
		case isVideo && f.AudioChannels > 0:
			muxed = append(muxed, f)
		case isAudio:
			if audio == nil || f.Bitrate > audio.Bitrate {
				audio = &formats[i]
			}
		}
	}

	sort.SliceStable(muxed, func(i, j int) bool {
		return muxed[i].Height > muxed[j].Height
	})
	return muxed, audio
}
