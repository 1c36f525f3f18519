package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/casaseek/casaseek/ai"
	"github.com/casaseek/casaseek/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *ai.Config {
	cfg := ai.DefaultConfig()
	cfg.CallTimeout = time.Second
	cfg.RetryBaseDelay = time.Millisecond
	return cfg
}

func TestNewGateway(t *testing.T) {
	t.Run("requires backends", func(t *testing.T) {
		_, err := ai.NewGateway(nil, nil)
		assert.Equal(t, ai.ErrNoBackends, err)
	})

	t.Run("reports backend names in order", func(t *testing.T) {
		gw, err := ai.NewGateway([]ai.Completer{
			mock.NewMockCompleter("openai", "a"),
			mock.NewMockCompleter("ollama", "b"),
			mock.NewMockCompleter("anthropic", "c"),
		}, fastConfig())
		require.NoError(t, err)
		assert.Equal(t, []string{"openai", "ollama", "anthropic"}, gw.BackendNames())
	})
}

func TestGatewayComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("first backend answers", func(t *testing.T) {
		primary := mock.NewMockCompleter("openai", "hello")
		secondary := mock.NewMockCompleter("ollama", "unused")
		gw, err := ai.NewGateway([]ai.Completer{primary, secondary}, fastConfig())
		require.NoError(t, err)

		text, err := gw.Complete(ctx, ai.Request{Prompt: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "hello", text)
		assert.Equal(t, 0, secondary.CallCount())
	})

	t.Run("rate-limited primary fails over without surfacing 429", func(t *testing.T) {
		primary := mock.NewMockCompleter("openai", "")
		primary.CompleteFunc = func(ctx context.Context, req ai.Request) (string, error) {
			return "", errors.New("API returned 429 Too Many Requests")
		}
		secondary := mock.NewMockCompleter("ollama", "fallback answer")
		gw, err := ai.NewGateway([]ai.Completer{primary, secondary}, fastConfig())
		require.NoError(t, err)

		text, err := gw.Complete(ctx, ai.Request{Prompt: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "fallback answer", text)
		// 429 is transient, so the primary was retried before failover.
		assert.Equal(t, 3, primary.CallCount())
	})

	t.Run("non-transient error moves on without retrying", func(t *testing.T) {
		primary := mock.NewMockCompleter("openai", "")
		primary.CompleteFunc = func(ctx context.Context, req ai.Request) (string, error) {
			return "", errors.New("401 unauthorized: invalid api key")
		}
		secondary := mock.NewMockCompleter("ollama", "ok")
		gw, err := ai.NewGateway([]ai.Completer{primary, secondary}, fastConfig())
		require.NoError(t, err)

		text, err := gw.Complete(ctx, ai.Request{Prompt: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
		assert.Equal(t, 1, primary.CallCount())
	})

	t.Run("chain exhaustion surfaces first error", func(t *testing.T) {
		firstErr := errors.New("401 unauthorized")
		primary := mock.NewMockCompleter("openai", "")
		primary.CompleteFunc = func(ctx context.Context, req ai.Request) (string, error) {
			return "", firstErr
		}
		secondary := mock.NewMockCompleter("ollama", "")
		secondary.CompleteFunc = func(ctx context.Context, req ai.Request) (string, error) {
			return "", errors.New("404 model not found")
		}
		gw, err := ai.NewGateway([]ai.Completer{primary, secondary}, fastConfig())
		require.NoError(t, err)

		_, err = gw.Complete(ctx, ai.Request{Prompt: "hi"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ai.ErrAllBackendsFailed)
		assert.ErrorIs(t, err, firstErr)
	})

	t.Run("cancellation propagates", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(ctx)
		primary := mock.NewMockCompleter("openai", "")
		primary.CompleteFunc = func(ctx context.Context, req ai.Request) (string, error) {
			cancel()
			return "", errors.New("timeout")
		}
		secondary := mock.NewMockCompleter("ollama", "should not run")
		gw, err := ai.NewGateway([]ai.Completer{primary, secondary}, fastConfig())
		require.NoError(t, err)

		_, err = gw.Complete(cancelCtx, ai.Request{Prompt: "hi"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, secondary.CallCount())
	})
}

func TestGatewayPinning(t *testing.T) {
	ctx := context.Background()

	t.Run("switch validates reachability before committing", func(t *testing.T) {
		primary := mock.NewMockCompleter("openai", "a")
		down := mock.NewMockCompleter("ollama", "")
		down.CompleteFunc = func(ctx context.Context, req ai.Request) (string, error) {
			return "", errors.New("connection refused")
		}
		gw, err := ai.NewGateway([]ai.Completer{primary, down}, fastConfig())
		require.NoError(t, err)

		err = gw.SwitchBackend(ctx, "ollama")
		require.Error(t, err)
		assert.Empty(t, gw.Selected())
	})

	t.Run("pinned backend is tried first", func(t *testing.T) {
		primary := mock.NewMockCompleter("openai", "primary")
		local := mock.NewMockCompleter("ollama", "local")
		gw, err := ai.NewGateway([]ai.Completer{primary, local}, fastConfig())
		require.NoError(t, err)

		require.NoError(t, gw.SwitchBackend(ctx, "ollama"))
		assert.Equal(t, "ollama", gw.Selected())

		text, err := gw.Complete(ctx, ai.Request{Prompt: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "local", text)
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		gw, err := ai.NewGateway([]ai.Completer{mock.NewMockCompleter("openai", "a")}, fastConfig())
		require.NoError(t, err)
		err = gw.SwitchBackend(ctx, "mistral")
		assert.ErrorIs(t, err, ai.ErrUnknownBackend)
	})

	t.Run("unpin restores priority order", func(t *testing.T) {
		primary := mock.NewMockCompleter("openai", "primary")
		local := mock.NewMockCompleter("ollama", "local")
		gw, err := ai.NewGateway([]ai.Completer{primary, local}, fastConfig())
		require.NoError(t, err)

		require.NoError(t, gw.SwitchBackend(ctx, "ollama"))
		gw.Unpin()

		text, err := gw.Complete(ctx, ai.Request{Prompt: "hi"})
		require.NoError(t, err)
		assert.Equal(t, "primary", text)
	})
}

func TestGatewayHealth(t *testing.T) {
	ctx := context.Background()

	t.Run("available probes lazily and caches", func(t *testing.T) {
		backend := mock.NewMockCompleter("openai", "pong")
		gw, err := ai.NewGateway([]ai.Completer{backend}, fastConfig())
		require.NoError(t, err)

		assert.True(t, gw.Available(ctx))
		probes := backend.CallCount()
		assert.True(t, gw.Available(ctx))
		assert.Equal(t, probes, backend.CallCount(), "second check must hit the cache")
	})

	t.Run("unavailable when all probes fail", func(t *testing.T) {
		backend := mock.NewMockCompleter("openai", "")
		backend.CompleteFunc = func(ctx context.Context, req ai.Request) (string, error) {
			return "", errors.New("connection refused")
		}
		gw, err := ai.NewGateway([]ai.Completer{backend}, fastConfig())
		require.NoError(t, err)

		assert.False(t, gw.Available(ctx))
	})

	t.Run("reset clears the cache", func(t *testing.T) {
		healthy := true
		backend := mock.NewMockCompleter("openai", "")
		backend.CompleteFunc = func(ctx context.Context, req ai.Request) (string, error) {
			if healthy {
				return "pong", nil
			}
			return "", errors.New("connection refused")
		}
		gw, err := ai.NewGateway([]ai.Completer{backend}, fastConfig())
		require.NoError(t, err)

		assert.True(t, gw.Available(ctx))
		healthy = false
		assert.True(t, gw.Available(ctx), "stale cache still reports healthy")

		gw.ResetHealth()
		assert.False(t, gw.Available(ctx))
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("default config valid", func(t *testing.T) {
		assert.NoError(t, ai.DefaultConfig().Validate())
	})

	t.Run("no backends", func(t *testing.T) {
		cfg := ai.DefaultConfig()
		cfg.Ollama.Enabled = false
		assert.ErrorIs(t, cfg.Validate(), ai.ErrNoBackends)
	})

	t.Run("normalize adds v1 suffix to openai host", func(t *testing.T) {
		cfg := ai.NewConfig(ai.WithOpenAI("sk-test", ""))
		cfg.OpenAI.Host = "http://localhost:8080"
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAI.Host)
	})

	t.Run("normalize strips v1 from ollama host", func(t *testing.T) {
		cfg := ai.NewConfig(ai.WithOllama("http://localhost:11434/v1", "llama3.1"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434", cfg.Ollama.Host)
	})
}
