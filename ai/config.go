// Copyright 2025 Casaseek Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
	"time"
)

// BackendConfig holds the connection settings for one AI backend.
type BackendConfig struct {
	// Enabled controls whether the backend participates in the chain.
	Enabled bool

	// Host is the base URL of the backend API. Empty uses the provider's
	// public endpoint (or localhost for the local backend).
	Host string

	// APIKey authenticates against cloud backends. Local OpenAI-compatible
	// services accept any non-empty token.
	APIKey string

	// Model is the model identifier to use for completions.
	Model string
}

// Config holds configuration for the AI gateway and its backends.
type Config struct {
	// OpenAI is the primary cloud backend.
	OpenAI BackendConfig

	// Ollama is the local backend.
	Ollama BackendConfig

	// Anthropic is the secondary cloud backend.
	Anthropic BackendConfig

	// CallTimeout bounds a single backend call. Default: 30s.
	CallTimeout time.Duration

	// MaxAttempts bounds retries of transient failures within one backend.
	// Default: 3.
	MaxAttempts int

	// RetryBaseDelay is the base delay for exponential backoff. Default: 500ms.
	RetryBaseDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithOpenAI configures the primary cloud backend.
func WithOpenAI(apiKey, model string) ConfigOption {
	return func(c *Config) {
		c.OpenAI.Enabled = true
		c.OpenAI.APIKey = apiKey
		if model != "" {
			c.OpenAI.Model = model
		}
	}
}

// WithOllama configures the local backend.
func WithOllama(host, model string) ConfigOption {
	return func(c *Config) {
		c.Ollama.Enabled = true
		if host != "" {
			c.Ollama.Host = host
		}
		if model != "" {
			c.Ollama.Model = model
		}
	}
}

// WithAnthropic configures the secondary cloud backend.
func WithAnthropic(apiKey, model string) ConfigOption {
	return func(c *Config) {
		c.Anthropic.Enabled = true
		c.Anthropic.APIKey = apiKey
		if model != "" {
			c.Anthropic.Model = model
		}
	}
}

// WithCallTimeout sets the per-backend call timeout.
func WithCallTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.CallTimeout = d
	}
}

// WithMaxAttempts sets the per-backend retry budget for transient errors.
func WithMaxAttempts(n int) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithRetryBaseDelay sets the base delay for exponential backoff.
func WithRetryBaseDelay(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryBaseDelay = d
	}
}

// DefaultConfig returns a Config with sensible defaults. Only the local
// backend is enabled by default; cloud backends need credentials.
func DefaultConfig() *Config {
	return &Config{
		OpenAI: BackendConfig{
			Model: "gpt-4o-mini",
		},
		Ollama: BackendConfig{
			Enabled: true,
			Host:    "http://localhost:11434",
			Model:   "llama3.1",
		},
		Anthropic: BackendConfig{
			Model: "claude-3-5-haiku-latest",
		},
		CallTimeout:    30 * time.Second,
		MaxAttempts:    3,
		RetryBaseDelay: 500 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// OpenAI-compatible hosts get the /v1 suffix added if missing.
func (c *Config) Normalize() {
	if c.OpenAI.Host != "" && !strings.HasSuffix(c.OpenAI.Host, "/v1") {
		c.OpenAI.Host = strings.TrimSuffix(c.OpenAI.Host, "/") + "/v1"
	}
	// Ollama's native API takes the bare server URL, no /v1 suffix.
	c.Ollama.Host = strings.TrimSuffix(c.Ollama.Host, "/v1")
	c.Ollama.Host = strings.TrimSuffix(c.Ollama.Host, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if !c.OpenAI.Enabled && !c.Ollama.Enabled && !c.Anthropic.Enabled {
		return ErrNoBackends
	}
	if c.OpenAI.Enabled && c.OpenAI.Model == "" {
		return errors.New("ai config: OpenAI model is required")
	}
	if c.Ollama.Enabled && c.Ollama.Host == "" {
		return errors.New("ai config: Ollama host is required")
	}
	if c.Ollama.Enabled && c.Ollama.Model == "" {
		return errors.New("ai config: Ollama model is required")
	}
	if c.Anthropic.Enabled && c.Anthropic.Model == "" {
		return errors.New("ai config: Anthropic model is required")
	}
	if c.CallTimeout <= 0 {
		return errors.New("ai config: CallTimeout must be positive")
	}
	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	return nil
}
