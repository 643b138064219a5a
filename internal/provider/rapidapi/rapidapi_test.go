package rapidapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"social-dl/internal/classify"
	"social-dl/internal/httputil"
	"social-dl/internal/platform"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "k" {
			t.Errorf("missing API key header")
		}
		if r.URL.Query().Get("url") == "" {
			t.Errorf("missing url query parameter")
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func newAdapter(t *testing.T, endpoint string) *Adapter {
	t.Helper()
	a, err := New(Config{Key: "k", Host: "example.p.rapidapi.com", Endpoint: endpoint}, httputil.NewClient(time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(Config{Endpoint: "https://example.com"}, httputil.NewClient(time.Second))
	if !errors.Is(err, ErrNoKey) {
		t.Errorf("err = %v, want ErrNoKey", err)
	}
}

func TestFetch_MapsPayload(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{
		"data": {
			"caption": "dance",
			"author": {"nickname": "dancer"},
			"cover": "https://cdn/cover.jpg",
			"duration": "15",
			"views": 100,
			"likeCount": 7,
			"created_time": "2024-01-01",
			"video": ["https://cdn/hd.mp4", "https://cdn/sd.mp4"],
			"audio": "https://cdn/music.mp3"
		}
	}`)
	defer srv.Close()

	raw, err := newAdapter(t, srv.URL+"/download").Fetch(context.Background(), "https://www.tiktok.com/@u/video/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if raw.Caption != "dance" || raw.Author != "dancer" || raw.Cover != "https://cdn/cover.jpg" {
		t.Errorf("metadata = %+v", raw)
	}
	if raw.Duration != 15 || raw.Views != 100 || raw.LikeCount != 7 {
		t.Errorf("numbers = %+v", raw)
	}
	if !reflect.DeepEqual(raw.Video, []string{"https://cdn/hd.mp4", "https://cdn/sd.mp4"}) {
		t.Errorf("Video = %v", raw.Video)
	}
	if raw.Audio != "https://cdn/music.mp3" {
		t.Errorf("Audio = %q", raw.Audio)
	}
}

func TestFetch_ScalarVideo(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"title":"t","video":"https://cdn/v.mp4","url_list":["https://cdn/a"]}`)
	defer srv.Close()

	raw, err := newAdapter(t, srv.URL).Fetch(context.Background(), "https://fb.watch/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(raw.Video, []string{"https://cdn/v.mp4"}) {
		t.Errorf("Video = %v", raw.Video)
	}
	if !reflect.DeepEqual(raw.URLList, []string{"https://cdn/a"}) {
		t.Errorf("URLList = %v", raw.URLList)
	}
}

func TestFetch_ErrorInBody(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"status":"service_unavailable","message":"External APIs unavailable"}`)
	defer srv.Close()

	_, err := newAdapter(t, srv.URL).Fetch(context.Background(), "https://instagram.com/p/1")
	if err == nil || !strings.Contains(err.Error(), "External APIs unavailable") {
		t.Errorf("err = %v", err)
	}
}

func TestFetch_HTTPError(t *testing.T) {
	srv := newServer(t, http.StatusUnauthorized, `{}`)
	defer srv.Close()

	_, err := newAdapter(t, srv.URL).Fetch(context.Background(), "https://instagram.com/p/1")
	var statusErr *httputil.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("err = %v, want 401 StatusError", err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		p    map[string]any
		want string
	}{
		{"ok", map[string]any{"success": true}, ""},
		{"success false with error", map[string]any{"success": false, "error": "private"}, "private"},
		{"success false bare", map[string]any{"success": false}, "request failed"},
		{"status error", map[string]any{"status": "error", "message": "not found"}, "not found"},
		{"status error bare", map[string]any{"status": "error"}, "request failed"},
		{"service unavailable bare", map[string]any{"status": "service_unavailable"}, "service unavailable"},
		{"service unavailable with message", map[string]any{"status": "service_unavailable", "message": "External APIs unavailable"}, "service unavailable: External APIs unavailable"},
		{"no flags", map[string]any{"title": "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage(tt.p); got != tt.want {
				t.Errorf("errorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessage_Classification(t *testing.T) {
	c := classify.New(classify.DefaultPolicy())

	tests := []struct {
		name       string
		p          map[string]any
		category   classify.Category
		wantStatus int
	}{
		{"outage without message", map[string]any{"status": "service_unavailable"}, classify.UpstreamUnavailable, http.StatusServiceUnavailable},
		{"outage with message", map[string]any{"status": "service_unavailable", "message": "External APIs unavailable"}, classify.UpstreamUnavailable, http.StatusServiceUnavailable},
		{"bare error", map[string]any{"status": "error"}, classify.RequestFailed, http.StatusUnprocessableEntity},
		{"bare failure", map[string]any{"success": false}, classify.RequestFailed, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(Name+": "+errorMessage(tt.p), platform.Instagram)
			if got.Category != tt.category {
				t.Errorf("Category = %v, want %v", got.Category, tt.category)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
		})
	}
}
