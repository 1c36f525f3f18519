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


// Package anthropic provides the secondary cloud backend for the AI gateway.
package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/casaseek/casaseek/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// Completer implements ai.Completer against the Anthropic messages API.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// NewCompleter creates the Anthropic backend from gateway configuration.
func NewCompleter(cfg ai.BackendConfig) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	opts := []anthropic.Option{
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
	}
	if cfg.Host != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.Host))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "anthropic-completer"),
	}, nil
}

// Name returns the backend identifier.
func (c *Completer) Name() string { return "anthropic" }

// Complete generates a text completion for the request.
// The Anthropic API has no JSON mode; callers relying on JSON output parse
// defensively downstream.
func (c *Completer) Complete(ctx context.Context, req ai.Request) (string, error) {
	response, err := c.client.GenerateContent(ctx, ai.ContentFromRequest(req), llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Debug("completion failed", "err", err)
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", errors.New("anthropic: no choices returned")
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
