package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const healthProbeTimeout = 5 * time.Second

// Gateway invokes a text-completion capability across multiple
// interchangeable backends with automatic failover. Backends are tried
// strictly sequentially in priority order (a manually pinned backend first
// when set); the chain fails only when every backend has been exhausted.
type Gateway struct {
	backends    []Completer
	callTimeout time.Duration
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger

	mu     sync.RWMutex
	pinned string
	health map[string]bool // lazily probed, cached until ResetHealth
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
	}
}

// NewGateway creates a gateway over the given backends in priority order.
// cfg supplies the per-call timeout and retry budget; nil uses defaults.
func NewGateway(backends []Completer, cfg *Config, opts ...GatewayOption) (*Gateway, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	g := &Gateway{
		backends:    backends,
		callTimeout: cfg.CallTimeout,
		maxAttempts: cfg.MaxAttempts,
		baseDelay:   cfg.RetryBaseDelay,
		health:      make(map[string]bool),
		logger:      slog.Default().With("component", "ai-gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// BackendNames returns the chain's backend names in priority order.
func (g *Gateway) BackendNames() []string {
	names := make([]string, len(g.backends))
	for i, b := range g.backends {
		names[i] = b.Name()
	}
	return names
}

// Selected returns the manually pinned backend name, or empty when the
// chain runs in priority order.
func (g *Gateway) Selected() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pinned
}

// Complete runs the request through the failover chain. Transient errors are
// retried with exponential backoff within a backend; any other failure moves
// to the next backend. When every backend is exhausted the first triggering
// error is surfaced wrapped in ErrAllBackendsFailed.
func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	var firstErr error

	for _, backend := range g.chain() {
		text, err := g.completeBackend(ctx, backend, req)
		if err == nil {
			g.setHealth(backend.Name(), true)
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		g.setHealth(backend.Name(), false)
		g.logger.Warn("backend failed, trying next in chain", "backend", backend.Name(), "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	return "", fmt.Errorf("%w: %w", ErrAllBackendsFailed, firstErr)
}

// completeBackend calls one backend with its own timeout and bounded retries.
// Only transient errors are retried; anything else fails the backend
// immediately so the chain can move on.
func (g *Gateway) completeBackend(ctx context.Context, backend Completer, req Request) (string, error) {
	var text string
	err := RetryWithBackoff(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()

		var err error
		text, err = backend.Complete(callCtx, req)
		return err
	}, g.maxAttempts, g.baseDelay, IsTransient)
	if err != nil {
		return "", err
	}
	return text, nil
}

// Available reports whether any backend in the chain answers a health probe.
// Probes are lazy and cached until ResetHealth; higher layers use this to
// decide between AI-backed and deterministic paths without spending a full
// completion on a backend that is known down.
func (g *Gateway) Available(ctx context.Context) bool {
	for _, backend := range g.chain() {
		healthy, probed := g.cachedHealth(backend.Name())
		if probed {
			if healthy {
				return true
			}
			continue
		}
		if err := g.probe(ctx, backend); err == nil {
			return true
		}
	}
	return false
}

// ResetHealth clears all cached probe results.
func (g *Gateway) ResetHealth() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.health = make(map[string]bool)
}

// Health returns a copy of the cached per-backend health map.
// Backends absent from the map have not been probed.
func (g *Gateway) Health() map[string]bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]bool, len(g.health))
	for name, healthy := range g.health {
		out[name] = healthy
	}
	return out
}

// SwitchBackend pins the chain to the named backend after verifying it is
// reachable. The pin only commits on a successful probe.
func (g *Gateway) SwitchBackend(ctx context.Context, name string) error {
	backend := g.byName(name)
	if backend == nil {
		return fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}

	if err := g.probe(ctx, backend); err != nil {
		return fmt.Errorf("backend %s unreachable: %w", name, err)
	}

	g.mu.Lock()
	g.pinned = name
	g.mu.Unlock()
	g.logger.Info("switched AI backend", "backend", name)
	return nil
}

// Unpin restores priority-order failover.
func (g *Gateway) Unpin() {
	g.mu.Lock()
	g.pinned = ""
	g.mu.Unlock()
}

// probe issues a minimal completion to check reachability and caches the
// outcome.
func (g *Gateway) probe(ctx context.Context, backend Completer) error {
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	_, err := backend.Complete(probeCtx, Request{
		Prompt: "ping",
		System: "Reply with the single word: pong",
	})
	g.setHealth(backend.Name(), err == nil)
	if err != nil {
		g.logger.Debug("backend probe failed", "backend", backend.Name(), "err", err)
	}
	return err
}

// chain returns the backends in call order: the pinned backend first when
// set, then the remaining backends in priority order.
func (g *Gateway) chain() []Completer {
	g.mu.RLock()
	pinned := g.pinned
	g.mu.RUnlock()

	if pinned == "" {
		return g.backends
	}

	ordered := make([]Completer, 0, len(g.backends))
	if b := g.byName(pinned); b != nil {
		ordered = append(ordered, b)
	}
	for _, b := range g.backends {
		if b.Name() != pinned {
			ordered = append(ordered, b)
		}
	}
	return ordered
}

func (g *Gateway) byName(name string) Completer {
	for _, b := range g.backends {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

func (g *Gateway) setHealth(name string, healthy bool) {
	g.mu.Lock()
	g.health[name] = healthy
	g.mu.Unlock()
}

func (g *Gateway) cachedHealth(name string) (healthy, probed bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	healthy, probed = g.health[name]
	return healthy, probed
}
