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


// Package openai provides the primary cloud backend for the AI gateway,
// speaking the OpenAI chat and embedding APIs.
package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/casaseek/casaseek/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer against the OpenAI chat API or any
// OpenAI-compatible endpoint.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// NewCompleter creates the OpenAI backend from gateway configuration.
func NewCompleter(cfg ai.BackendConfig) (*Completer, error) {
	if cfg.Model == "" {
		return nil, errors.New("openai: model is required")
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Model),
	}
	if cfg.Host != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Host))
	}
	token := cfg.APIKey
	if token == "" {
		// Local OpenAI-compatible services accept any token.
		token = "none"
	}
	opts = append(opts, openai.WithToken(token))

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// Name returns the backend identifier.
func (c *Completer) Name() string { return "openai" }

// Complete generates a text completion for the request.
func (c *Completer) Complete(ctx context.Context, req ai.Request) (string, error) {
	response, err := c.client.GenerateContent(ctx, ai.ContentFromRequest(req), ai.CallOptions(req)...)
	if err != nil {
		c.logger.Debug("completion failed", "err", err)
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}
	return strings.TrimSpace(response.Choices[0].Content), nil
}
