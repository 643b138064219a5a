package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"social-dl/internal/media"
	"social-dl/internal/platform"
)

// DefaultTimeout bounds a single adapter call.
const DefaultTimeout = 30 * time.Second

// AllProvidersFailedError is returned when no adapter produced a usable result.
type AllProvidersFailedError struct {
	Platform  platform.Platform
	LastError string
	Attempts  int
}

func (e *AllProvidersFailedError) Error() string {
	return fmt.Sprintf("all providers failed for %s after %d attempts: %s", e.Platform, e.Attempts, e.LastError)
}

// errNoLocator marks a result that carried no downloadable field.
var errNoLocator = errors.New("result has no media locator")

// Orchestrator tries the adapters of a platform strictly in order and returns
// the first result that carries a media locator.
type Orchestrator struct {
	table   Table
	timeout time.Duration
	logger  *log.Logger
}

// NewOrchestrator creates an orchestrator. A zero timeout uses DefaultTimeout.
func NewOrchestrator(table Table, timeout time.Duration, logger *log.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		table:   table,
		timeout: timeout,
		logger:  logger.WithPrefix("orchestrator"),
	}
}

// Table returns the configured adapter table.
func (o *Orchestrator) Table() Table {
	return o.table
}

// Fetch runs the adapters configured for p until one succeeds.
//
// Caller cancellation is not propagated: a client that disconnects does not
// abort the in-flight adapter call. Each call is bounded by the timeout.
func (o *Orchestrator) Fetch(ctx context.Context, url string, p platform.Platform) (*media.RawResult, error) {
	adapters := o.table[p]
	if len(adapters) == 0 {
		return nil, &AllProvidersFailedError{
			Platform:  p,
			LastError: "no providers configured",
		}
	}

	base := context.WithoutCancel(ctx)
	lastErr := ""

	for i, a := range adapters {
		o.logger.Debug("Trying provider", "provider", a.Name(), "platform", p, "attempt", i+1)

		result, err := o.call(base, a, url)
		if err != nil {
			o.logger.Debug("Provider failed", "provider", a.Name(), "platform", p, "error", err)
			lastErr = err.Error()
			continue
		}

		if result.Provider == "" {
			result.Provider = a.Name()
		}
		o.logger.Info("Provider succeeded", "provider", a.Name(), "platform", p)
		return result, nil
	}

	return nil, &AllProvidersFailedError{
		Platform:  p,
		LastError: lastErr,
		Attempts:  len(adapters),
	}
}

func (o *Orchestrator) call(base context.Context, a Adapter, url string) (*media.RawResult, error) {
	ctx, cancel := context.WithTimeout(base, o.timeout)
	defer cancel()

	start := time.Now()
	result, err := a.Fetch(ctx, url)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: timeout after %s: %w", a.Name(), time.Since(start).Round(time.Millisecond), err)
		}
		return nil, fmt.Errorf("%s: %w", a.Name(), err)
	}
	if !result.HasLocator() {
		return nil, fmt.Errorf("%s: %w", a.Name(), errNoLocator)
	}
	return result, nil
}
