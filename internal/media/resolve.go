package media

import (
	"errors"

	"social-dl/internal/platform"
)

// ErrNoDownloadURL is returned when a result has no usable locator.
var ErrNoDownloadURL = errors.New("no download URL available")

const (
	FormatMP3    = "mp3"
	FormatMP4    = "mp4"
	QualityWorst = "worst"
)

// ResolveDownloadURL picks the single asset URL for the requested format and
// quality. The cascade is strict: the first matching step wins.
//
//  1. mp3 with audio present
//  2. hd_video
//  3. normal_video
//  4. video (first for best, last for worst)
//  5. url_list[0]
//  6. url, then download_url
func ResolveDownloadURL(raw *RawResult, format, quality string) (string, error) {
	if raw == nil {
		return "", ErrNoDownloadURL
	}
	if format == FormatMP3 && raw.Audio != "" {
		return raw.Audio, nil
	}
	if raw.HDVideo != "" {
		return raw.HDVideo, nil
	}
	if raw.NormalVideo != "" {
		return raw.NormalVideo, nil
	}
	if v := pickByQuality(raw.Video, quality); v != "" {
		return v, nil
	}
	if u := firstNonEmpty(raw.URLList...); u != "" {
		return u, nil
	}
	if u := firstNonEmpty(raw.URL, raw.DownloadURL); u != "" {
		return u, nil
	}
	return "", ErrNoDownloadURL
}

// pickByQuality returns the first entry for any quality except "worst",
// which takes the last. Single element lists are unaffected by quality.
func pickByQuality(videos []string, quality string) string {
	if len(videos) == 0 {
		return ""
	}
	if quality == QualityWorst {
		return videos[len(videos)-1]
	}
	return videos[0]
}

// SupportedFormats lists the formats offered for the requested format.
func SupportedFormats(format string) []string {
	if format == FormatMP3 {
		return []string{FormatMP3}
	}
	return []string{FormatMP4}
}

// BuildDownload resolves the download URL and assembles the response payload.
func BuildDownload(raw *RawResult, p platform.Platform, req Request) (*ResolvedDownload, error) {
	downloadURL, err := ResolveDownloadURL(raw, req.Format, req.Quality)
	if err != nil {
		return nil, err
	}
	return &ResolvedDownload{
		DownloadURL:      downloadURL,
		MediaInfo:        Normalize(raw, p),
		SupportedFormats: SupportedFormats(req.Format),
		Alternatives: Alternatives{
			HDVideo:     raw.HDVideo,
			NormalVideo: raw.NormalVideo,
			Audio:       raw.Audio,
		},
	}, nil
}
