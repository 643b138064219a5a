// Package service runs one metadata or download request through validation,
// the provider orchestrator, normalization and error classification.
package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"social-dl/internal/classify"
	"social-dl/internal/media"
	"social-dl/internal/platform"
	"social-dl/internal/provider"
)

// Client-facing messages for errors that are not classified provider failures.
const (
	MsgInternal     = "Erro interno do servidor"
	MsgNoDownload   = "Não foi possível obter um link de download para este conteúdo"
	MsgInvalidInput = "Corpo da requisição inválido"
)

// Fetcher is the orchestrator capability the service needs.
type Fetcher interface {
	Fetch(ctx context.Context, url string, p platform.Platform) (*media.RawResult, error)
}

// Service resolves media requests.
type Service struct {
	fetcher    Fetcher
	classifier *classify.Classifier
	logger     *log.Logger
}

// New creates a service.
func New(fetcher Fetcher, classifier *classify.Classifier, logger *log.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		classifier: classifier,
		logger:     logger.WithPrefix("service"),
	}
}

// Metadata returns normalized metadata for req.URL.
func (s *Service) Metadata(ctx context.Context, req media.Request) (*media.NormalizedMedia, error) {
	p, raw, err := s.fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	m := media.Normalize(raw, p)
	return &m, nil
}

// Download resolves a direct download URL for req.
func (s *Service) Download(ctx context.Context, req media.Request) (*media.ResolvedDownload, error) {
	p, raw, err := s.fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	d, err := media.BuildDownload(raw, p, req)
	if err != nil {
		s.logger.Warn("no download URL", "platform", p, "provider", raw.Provider, "format", req.Format)
		return nil, err
	}
	return d, nil
}

// fetch validates url and runs the provider chain. Validation failures
// return before any provider is called.
func (s *Service) fetch(ctx context.Context, url string) (platform.Platform, *media.RawResult, error) {
	url = strings.TrimSpace(url)
	p, err := platform.Validate(url)
	if err != nil {
		return p, nil, err
	}

	raw, err := s.fetcher.Fetch(ctx, url, p)
	if err != nil {
		var failed *provider.AllProvidersFailedError
		if errors.As(err, &failed) {
			ce := s.classifier.Classify(failed.LastError, p)
			s.logger.Warn("all providers failed",
				"platform", p,
				"attempts", failed.Attempts,
				"category", ce.Category,
				"error", failed.LastError,
			)
			return p, nil, ce
		}
		return p, nil, err
	}
	return p, raw, nil
}

// StatusOf maps an error returned by the service to an HTTP status and a
// message that is safe to show to clients.
func StatusOf(err error) (int, string) {
	var verr *platform.ValidationError
	var cerr *classify.ClassifiedError
	switch {
	case errors.As(err, &verr):
		if verr.Kind == platform.MissingURL {
			return http.StatusBadRequest, verr.Message
		}
		return http.StatusUnprocessableEntity, verr.Message
	case errors.As(err, &cerr):
		return cerr.Status, cerr.Message
	case errors.Is(err, media.ErrNoDownloadURL):
		return http.StatusUnprocessableEntity, MsgNoDownload
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}
