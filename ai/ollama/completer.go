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


// Package ollama provides the local backend for the AI gateway, so search
// keeps an AI path without any cloud credentials.
package ollama

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/casaseek/casaseek/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Completer implements ai.Completer against a local Ollama server.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// NewCompleter creates the Ollama backend from gateway configuration.
func NewCompleter(cfg ai.BackendConfig) (*Completer, error) {
	if cfg.Host == "" {
		return nil, errors.New("ollama: host is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("ollama: model is required")
	}

	client, err := ollama.New(
		ollama.WithServerURL(cfg.Host),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "ollama-completer"),
	}, nil
}

// Name returns the backend identifier.
func (c *Completer) Name() string { return "ollama" }

// Complete generates a text completion for the request.
func (c *Completer) Complete(ctx context.Context, req ai.Request) (string, error) {
	response, err := c.client.GenerateContent(ctx, ai.ContentFromRequest(req), ai.CallOptions(req)...)
	if err != nil {
		c.logger.Debug("completion failed", "err", err)
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", errors.New("ollama: no choices returned")
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
