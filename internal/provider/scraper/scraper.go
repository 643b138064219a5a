// Package scraper implements a last-resort provider that reads OpenGraph
// tags from the public page of a post.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"social-dl/internal/httputil"
	"social-dl/internal/media"
)

// Name is the provider identifier used in config.
const Name = "scraper"

// Config holds scraper configuration.
type Config struct {
	UserAgent string
	// RPS caps outbound page fetches per second; 0 disables pacing.
	RPS float64
}

// Adapter fetches the page HTML and extracts og:* meta tags.
type Adapter struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a scraper adapter.
func New(cfg Config, client *http.Client) *Adapter {
	if cfg.UserAgent == "" {
		cfg.UserAgent = httputil.DefaultUserAgent
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Adapter{cfg: cfg, client: client, limiter: rate.NewLimiter(limit, 1)}
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return Name
}

// Fetch downloads the page at url and parses its OpenGraph metadata.
func (a *Adapter) Fetch(ctx context.Context, url string) (*media.RawResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("scraper pacing: %w", err)
	}

	body, err := httputil.Get(ctx, a.client, url, map[string]string{
		"User-Agent": a.cfg.UserAgent,
		"Accept":     "text/html,application/xhtml+xml",
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return parseDocument(doc), nil
}

// parseDocument maps OpenGraph and standard meta tags onto a RawResult.
func parseDocument(doc *goquery.Document) *media.RawResult {
	meta := make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, _ := s.Attr("property")
		if key == "" {
			key, _ = s.Attr("name")
		}
		content, _ := s.Attr("content")
		key = strings.ToLower(strings.TrimSpace(key))
		content = strings.TrimSpace(content)
		if key == "" || content == "" {
			return
		}
		// First occurrence wins; pages repeat tags for alternate sizes.
		if _, seen := meta[key]; !seen {
			meta[key] = content
		}
	})

	raw := &media.RawResult{
		Provider:    Name,
		Title:       first(meta, "og:title", "twitter:title"),
		Description: first(meta, "og:description", "description", "twitter:description"),
		Author:      first(meta, "author", "article:author", "og:site_name"),
		Thumbnail:   first(meta, "og:image", "og:image:secure_url", "twitter:image"),
		Audio:       first(meta, "og:audio:secure_url", "og:audio"),
	}
	if raw.Title == "" {
		raw.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if v := first(meta, "og:video:secure_url", "og:video", "og:video:url", "twitter:player:stream"); v != "" {
		raw.Video = []string{v}
	}
	if d := first(meta, "video:duration", "og:video:duration"); d != "" {
		if secs, err := strconv.ParseFloat(d, 64); err == nil {
			raw.Duration = secs
		}
	}
	return raw
}

func first(meta map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := meta[k]; v != "" {
			return v
		}
	}
	return ""
}
