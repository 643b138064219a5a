package media

import (
	"errors"
	"reflect"
	"testing"

	"social-dl/internal/platform"
)

func TestNormalize_Defaults(t *testing.T) {
	got := Normalize(&RawResult{}, platform.TikTok)

	want := NormalizedMedia{
		Title:        DefaultTitle,
		Author:       DefaultAuthor,
		Platform:     platform.TikTok,
		Availability: DefaultAvailability,
	}
	if got != want {
		t.Errorf("Normalize(empty) = %+v, want %+v", got, want)
	}
}

func TestNormalize_NilResult(t *testing.T) {
	got := Normalize(nil, platform.YouTube)
	if got.Title != DefaultTitle || got.Author != DefaultAuthor {
		t.Errorf("Normalize(nil) = %+v", got)
	}
}

func TestNormalize_FallbackChains(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawResult
		check func(NormalizedMedia) bool
	}{
		{"title from title", RawResult{Title: "T", Caption: "C"}, func(m NormalizedMedia) bool { return m.Title == "T" }},
		{"title from caption", RawResult{Caption: "C"}, func(m NormalizedMedia) bool { return m.Title == "C" }},
		{"description from description", RawResult{Description: "D", Caption: "C"}, func(m NormalizedMedia) bool { return m.Description == "D" }},
		{"description from caption", RawResult{Caption: "C"}, func(m NormalizedMedia) bool { return m.Description == "C" }},
		{"author from author", RawResult{Author: "A", Username: "U"}, func(m NormalizedMedia) bool { return m.Author == "A" }},
		{"author from username", RawResult{Username: "U", Uploader: "P"}, func(m NormalizedMedia) bool { return m.Author == "U" }},
		{"author from uploader", RawResult{Uploader: "P"}, func(m NormalizedMedia) bool { return m.Author == "P" }},
		{"thumbnail from image", RawResult{Image: "I", Cover: "C"}, func(m NormalizedMedia) bool { return m.Thumbnail == "I" }},
		{"thumbnail from cover", RawResult{Cover: "C"}, func(m NormalizedMedia) bool { return m.Thumbnail == "C" }},
		{"duration", RawResult{Duration: 12.5}, func(m NormalizedMedia) bool { return m.Duration == 12.5 }},
		{"views before viewCount", RawResult{Views: 3, ViewCount: 9}, func(m NormalizedMedia) bool { return m.ViewCount == 3 }},
		{"viewCount", RawResult{ViewCount: 9}, func(m NormalizedMedia) bool { return m.ViewCount == 9 }},
		{"likeCount", RawResult{LikeCount: 4}, func(m NormalizedMedia) bool { return m.LikeCount == 4 }},
		{"created_time before uploadDate", RawResult{CreatedTime: "c", UploadDate: "u"}, func(m NormalizedMedia) bool { return m.UploadDate == "c" }},
		{"uploadDate", RawResult{UploadDate: "u"}, func(m NormalizedMedia) bool { return m.UploadDate == "u" }},
		{"never live", RawResult{Title: "live stream"}, func(m NormalizedMedia) bool { return !m.IsLive && m.Availability == "public" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(&tt.raw, platform.Instagram)
			if !tt.check(got) {
				t.Errorf("Normalize(%+v) = %+v", tt.raw, got)
			}
		})
	}
}

func TestResolveDownloadURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawResult
		format  string
		quality string
		want    string
	}{
		{"mp3 prefers audio", RawResult{Audio: "A", HDVideo: "HD"}, "mp3", "best", "A"},
		{"mp4 ignores audio", RawResult{Audio: "A", HDVideo: "HD"}, "mp4", "best", "HD"},
		{"mp3 without audio falls through", RawResult{HDVideo: "HD"}, "mp3", "best", "HD"},
		{"hd before normal", RawResult{HDVideo: "HD", NormalVideo: "N"}, "mp4", "worst", "HD"},
		{"normal before video", RawResult{NormalVideo: "N", Video: []string{"V"}}, "mp4", "best", "N"},
		{"video list best", RawResult{Video: []string{"a", "b", "c"}}, "mp4", "best", "a"},
		{"video list unspecified", RawResult{Video: []string{"a", "b", "c"}}, "mp4", "", "a"},
		{"video list worst", RawResult{Video: []string{"a", "b", "c"}}, "mp4", "worst", "c"},
		{"video list other quality", RawResult{Video: []string{"a", "b", "c"}}, "mp4", "720p", "a"},
		{"scalar video ignores quality", RawResult{Video: []string{"v"}}, "mp4", "worst", "v"},
		{"video before url_list", RawResult{Video: []string{"v"}, URLList: []string{"l"}}, "mp4", "best", "v"},
		{"url_list first", RawResult{URLList: []string{"l1", "l2"}, URL: "u"}, "mp4", "best", "l1"},
		{"url", RawResult{URL: "u", DownloadURL: "d"}, "mp4", "best", "u"},
		{"download_url", RawResult{DownloadURL: "d"}, "mp4", "best", "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDownloadURL(&tt.raw, tt.format, tt.quality)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveDownloadURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveDownloadURL_NoLocator(t *testing.T) {
	_, err := ResolveDownloadURL(&RawResult{Title: "only metadata"}, "mp4", "best")
	if !errors.Is(err, ErrNoDownloadURL) {
		t.Errorf("expected ErrNoDownloadURL, got %v", err)
	}
	if _, err := ResolveDownloadURL(nil, "mp4", "best"); !errors.Is(err, ErrNoDownloadURL) {
		t.Errorf("expected ErrNoDownloadURL for nil, got %v", err)
	}
}

func TestRawResult_HasLocator(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawResult
		want bool
	}{
		{"nil", nil, false},
		{"metadata only", &RawResult{Title: "x", Thumbnail: "t"}, false},
		{"empty lists", &RawResult{Video: []string{}, URLList: []string{""}}, false},
		{"video", &RawResult{Video: []string{"v"}}, true},
		{"hd", &RawResult{HDVideo: "h"}, true},
		{"normal", &RawResult{NormalVideo: "n"}, true},
		{"audio", &RawResult{Audio: "a"}, true},
		{"url", &RawResult{URL: "u"}, true},
		{"download_url", &RawResult{DownloadURL: "d"}, true},
		{"url_list", &RawResult{URLList: []string{"l"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.raw.HasLocator(); got != tt.want {
				t.Errorf("HasLocator() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildDownload(t *testing.T) {
	raw := &RawResult{
		Title:       "clip",
		HDVideo:     "HD",
		NormalVideo: "N",
		Audio:       "A",
	}

	got, err := BuildDownload(raw, platform.YouTube, NewRequest("https://youtu.be/x", "", "mp3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DownloadURL != "A" {
		t.Errorf("DownloadURL = %q, want A", got.DownloadURL)
	}
	if !reflect.DeepEqual(got.SupportedFormats, []string{"mp3"}) {
		t.Errorf("SupportedFormats = %v", got.SupportedFormats)
	}
	if got.Alternatives != (Alternatives{HDVideo: "HD", NormalVideo: "N", Audio: "A"}) {
		t.Errorf("Alternatives = %+v", got.Alternatives)
	}
	if got.MediaInfo.Title != "clip" || got.MediaInfo.Platform != platform.YouTube {
		t.Errorf("MediaInfo = %+v", got.MediaInfo)
	}
}

func TestNewRequest_Defaults(t *testing.T) {
	req := NewRequest("u", "", "")
	if req.Quality != "best" || req.Format != "mp4" {
		t.Errorf("NewRequest defaults = %+v", req)
	}
}
