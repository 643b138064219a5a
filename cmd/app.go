package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"social-dl/internal/classify"
	"social-dl/internal/config"
	"social-dl/internal/httputil"
	"social-dl/internal/platform"
	"social-dl/internal/provider"
	"social-dl/internal/provider/rapidapi"
	"social-dl/internal/provider/scraper"
	"social-dl/internal/provider/youtube"
	"social-dl/internal/provider/ytdlp"
	"social-dl/internal/ratelimit"
	"social-dl/internal/service"
	"social-dl/pkg/deps"
)

// knownProviders lists every adapter name accepted in providers.order.
var knownProviders = map[string]bool{
	ytdlp.Name:    true,
	youtube.Name:  true,
	rapidapi.Name: true,
	scraper.Name:  true,
}

// app holds the wired components shared by serve and resolve.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	table  provider.Table
	svc    *service.Service
}

func newApp(cfg *config.Config, logger *log.Logger) (*app, error) {
	available, err := buildAdapters(cfg, logger)
	if err != nil {
		return nil, err
	}

	table, err := provider.Build(cfg.PlatformOrder(), available, knownProviders)
	if err != nil {
		return nil, fmt.Errorf("provider order: %w", err)
	}
	for _, p := range platform.Supported() {
		if names := table.Names(p); len(names) > 0 {
			logger.Debug("provider chain", "platform", p, "order", names)
		} else {
			logger.Warn("no providers available", "platform", p)
		}
	}

	orch := provider.NewOrchestrator(table, cfg.Providers.Timeout, logger)
	classifier := classify.New(classify.Policy{
		RateLimitStatus: cfg.Classifier.RateLimitStatus,
		GenericStatus:   cfg.Classifier.GenericStatus,
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		table:  table,
		svc:    service.New(orch, classifier, logger),
	}, nil
}

// buildAdapters constructs every adapter whose prerequisites are met.
func buildAdapters(cfg *config.Config, logger *log.Logger) (map[string]provider.Adapter, error) {
	pc := cfg.Providers
	client := httputil.NewClient(pc.Timeout)
	available := make(map[string]provider.Adapter)

	checker := deps.NewChecker(pc.YtDlp.Binary)
	if err := checker.CheckAndLog(logger); err != nil {
		logger.Warn("yt-dlp adapter disabled", "error", err)
	} else {
		available[ytdlp.Name] = ytdlp.New(ytdlp.Config{
			Binary:             pc.YtDlp.Binary,
			CookiesFile:        pc.YtDlp.CookiesFile,
			CookiesFromBrowser: pc.YtDlp.CookiesFromBrowser,
		})
	}

	available[youtube.Name] = youtube.New(client)

	rapid, err := rapidapi.New(rapidapi.Config{
		Key:      pc.RapidAPI.Key,
		Host:     pc.RapidAPI.Host,
		Endpoint: pc.RapidAPI.Endpoint,
		RPS:      pc.RapidAPI.RPS,
	}, client)
	switch {
	case errors.Is(err, rapidapi.ErrNoKey):
		logger.Info("RAPIDAPI_KEY not set, rapidapi adapter disabled")
	case err != nil:
		return nil, err
	default:
		available[rapidapi.Name] = rapid
	}

	available[scraper.Name] = scraper.New(scraper.Config{
		UserAgent: pc.Scraper.UserAgent,
		RPS:       pc.Scraper.RPS,
	}, client)

	return available, nil
}

// newLimiter returns the admission limiter and its store. A Redis URL selects
// the shared store; otherwise counters live in memory.
func newLimiter(cfg *config.Config, logger *log.Logger) (*ratelimit.Limiter, ratelimit.Store, error) {
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if url := cfg.RateLimit.RedisURL; url != "" {
		rs, err := ratelimit.NewRedisStore(url)
		if err != nil {
			return nil, nil, err
		}
		store = rs
		logger.Info("rate limit counters in redis")
	}
	return ratelimit.New(store, cfg.RateLimit.Requests, cfg.RateLimit.Window), store, nil
}
