package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"social-dl/internal/media"
	"social-dl/internal/platform"
	"social-dl/internal/provider"
	"social-dl/internal/service"
)

const (
	msgBanner       = "Social Media Downloader API"
	msgHealthy      = "Servidor funcionando"
	msgNoProviders  = "Nenhum provedor de extração configurado"
	msgStoreDown    = "Armazenamento de limite de requisições indisponível"
	msgNotFound     = "Endpoint não encontrado"
	statusOperating = "operational"
	statusDown      = "unavailable"
)

var availableEndpoints = []string{"/", "/health", "/metadata", "/download", "/status"}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// API handles HTTP endpoints.
type API struct {
	svc     *service.Service
	table   provider.Table
	store   Pinger
	version string
	logger  *log.Logger
}

// NewAPI creates a new API handler. store may be nil.
func NewAPI(svc *service.Service, table provider.Table, store Pinger, version string, logger *log.Logger) *API {
	return &API{
		svc:     svc,
		table:   table,
		store:   store,
		version: version,
		logger:  logger.WithPrefix("api"),
	}
}

// Root returns the service banner.
func (a *API) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Success: true,
		Message: msgBanner,
		Version: a.version,
		Status:  "online",
	})
}

// Health reports liveness, the configured providers and the state of the
// rate-limit store.
func (a *API) Health(c *gin.Context) {
	providers := a.providerNames()
	if len(providers) == 0 {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgNoProviders})
		return
	}

	if a.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := a.store.Ping(ctx); err != nil {
			a.logger.Error("rate limit store unreachable", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgStoreDown})
			return
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Success:   true,
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Providers: providers,
		Message:   msgHealthy,
	})
}

// Status lists every supported platform with its formats and whether any
// provider is configured for it. The body depends only on configuration.
func (a *API) Status(c *gin.Context) {
	c.JSON(http.StatusOK, a.platformStatus())
}

func (a *API) platformStatus() map[platform.Platform]PlatformStatus {
	out := make(map[platform.Platform]PlatformStatus, len(platform.Supported()))
	for _, p := range platform.Supported() {
		status := statusDown
		if len(a.table[p]) > 0 {
			status = statusOperating
		}
		formats := []string{media.FormatMP4}
		if p == platform.YouTube {
			formats = append(formats, media.FormatMP3)
		}
		out[p] = PlatformStatus{Supported: true, Status: status, Formats: formats}
	}
	return out
}

// Metadata returns normalized metadata for the posted URL.
func (a *API) Metadata(c *gin.Context) {
	req, ok := a.bind(c)
	if !ok {
		return
	}

	a.logger.Info("metadata request", "url", req.URL)

	meta, err := a.svc.Metadata(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, MetadataResponse{Success: true, Metadata: *meta})
}

// Download resolves a direct download URL for the posted URL.
func (a *API) Download(c *gin.Context) {
	req, ok := a.bind(c)
	if !ok {
		return
	}

	a.logger.Info("download request", "url", req.URL, "format", req.Format, "quality", req.Quality)

	d, err := a.svc.Download(c.Request.Context(), req)
	if err != nil {
		a.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, DownloadResponse{Success: true, ResolvedDownload: d})
}

// NotFound answers unknown routes.
func (a *API) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, NotFoundResponse{
		Error:              msgNotFound,
		AvailableEndpoints: availableEndpoints,
	})
}

// bind decodes the request body. An empty body is treated as a request
// without a URL.
func (a *API) bind(c *gin.Context) (media.Request, bool) {
	var body MediaRequest
	if c.Request.ContentLength != 0 {
		// A chunked request with no body reports an unknown length and then EOF.
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			a.logger.Debug("invalid request body", "error", err)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: service.MsgInvalidInput})
			return media.Request{}, false
		}
	}
	return media.NewRequest(body.URL, body.Quality, body.Format), true
}

func (a *API) fail(c *gin.Context, err error) {
	status, msg := service.StatusOf(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	} else {
		a.logger.Info("request rejected", "path", c.FullPath(), "status", status, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: msg})
}

// providerNames returns the distinct configured adapter names, sorted.
func (a *API) providerNames() []string {
	seen := make(map[string]bool)
	var names []string
	for p := range a.table {
		for _, name := range a.table.Names(p) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
