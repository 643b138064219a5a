package media

import (
	"social-dl/internal/platform"
)

const (
	DefaultTitle        = "Conteúdo de Mídia Social"
	DefaultAuthor       = "Desconhecido"
	DefaultAvailability = "public"
)

// Normalize maps a provider result into NormalizedMedia. Each field takes the
// first non-empty alias, falling back to a fixed default.
//
// IsLive and Availability are never derived from provider data.
func Normalize(raw *RawResult, p platform.Platform) NormalizedMedia {
	if raw == nil {
		raw = &RawResult{}
	}
	return NormalizedMedia{
		Title:        orDefault(firstNonEmpty(raw.Title, raw.Caption), DefaultTitle),
		Description:  firstNonEmpty(raw.Description, raw.Caption),
		Author:       orDefault(firstNonEmpty(raw.Author, raw.Username, raw.Uploader), DefaultAuthor),
		Thumbnail:    firstNonEmpty(raw.Thumbnail, raw.Image, raw.Cover),
		Duration:     raw.Duration,
		Platform:     p,
		ViewCount:    firstPositive(raw.Views, raw.ViewCount),
		LikeCount:    firstPositive(raw.Likes, raw.LikeCount),
		UploadDate:   firstNonEmpty(raw.CreatedTime, raw.UploadDate),
		IsLive:       false,
		Availability: DefaultAvailability,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func firstPositive(values ...int64) int64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
