package rapidapi

import (
	"strconv"

	"social-dl/internal/media"
)

// mapPayload converts the loosely structured reply into the fixed
// intermediate structure. Services often wrap the result in "data".
func mapPayload(p map[string]any) *media.RawResult {
	if inner, ok := p["data"].(map[string]any); ok {
		p = inner
	}

	raw := &media.RawResult{
		Provider:    Name,
		Title:       str(p, "title"),
		Caption:     str(p, "caption"),
		Description: str(p, "description", "desc"),
		Author:      author(p["author"]),
		Username:    str(p, "username"),
		Uploader:    str(p, "uploader"),
		Thumbnail:   str(p, "thumbnail"),
		Image:       str(p, "image"),
		Cover:       str(p, "cover"),
		Duration:    num(p["duration"]),
		Views:       int64(num(p["views"])),
		ViewCount:   int64(num(p["viewCount"])),
		Likes:       int64(num(p["likes"])),
		LikeCount:   int64(num(p["likeCount"])),
		CreatedTime: str(p, "created_time"),
		UploadDate:  str(p, "uploadDate"),
		Video:       strList(p["video"]),
		HDVideo:     str(p, "hd_video"),
		NormalVideo: str(p, "normal_video"),
		Audio:       str(p, "audio"),
		URL:         str(p, "url"),
		DownloadURL: str(p, "download_url"),
		URLList:     strList(p["url_list"]),
	}
	return raw
}

// errorMessage extracts a failure reported inside a 200 reply.
func errorMessage(p map[string]any) string {
	if ok, present := p["success"].(bool); present && !ok {
		if msg := str(p, "error", "message"); msg != "" {
			return msg
		}
		return "request failed"
	}
	switch s, _ := p["status"].(string); s {
	case "service_unavailable":
		// A temporary upstream outage, whatever the accompanying text says.
		if msg := str(p, "message", "error"); msg != "" {
			return "service unavailable: " + msg
		}
		return "service unavailable"
	case "error":
		if msg := str(p, "message", "error"); msg != "" {
			return msg
		}
		return "request failed"
	}
	return ""
}

// str returns the first key holding a non-empty string.
func str(p map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := p[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// author accepts either a plain name or an object with a name field.
func author(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case map[string]any:
		return str(a, "nickname", "name", "unique_id", "username")
	}
	return ""
}

// strList accepts a single string or a list of strings.
func strList(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// num accepts JSON numbers and numeric strings.
func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err == nil {
			return f
		}
	}
	return 0
}
