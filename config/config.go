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


// Package config loads the assistant's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/casaseek/casaseek/ai"
	"github.com/casaseek/casaseek/currency"
	"github.com/casaseek/casaseek/listing"
	"github.com/casaseek/casaseek/pricing"
	"gopkg.in/yaml.v3"
)

// Config holds the full assistant configuration.
type Config struct {
	AI      AIConfig          `yaml:"ai"`
	Pricing PricingConfig     `yaml:"pricing"`
	Search  SearchConfig      `yaml:"search"`
	Sites   map[string]string `yaml:"sites"` // site name -> access method
	Storage StorageConfig     `yaml:"storage"`
	Logging LoggingConfig     `yaml:"logging"`
}

// BackendConfig holds the connection settings for one AI backend.
type BackendConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// AIConfig holds the gateway chain settings.
type AIConfig struct {
	OpenAI            BackendConfig `yaml:"openai"`
	Ollama            BackendConfig `yaml:"ollama"`
	Anthropic         BackendConfig `yaml:"anthropic"`
	CallTimeoutSec    int           `yaml:"call_timeout_sec"`
	MaxAttempts       int           `yaml:"max_attempts"`
	RetryBaseDelayMS  int           `yaml:"retry_base_delay_ms"`
	EmbeddingModel    string        `yaml:"embedding_model"`
	EmbeddingDims     int           `yaml:"embedding_dimensions"`
	EmbeddingsEnabled bool          `yaml:"embeddings_enabled"` // remote embeddings via the OpenAI backend
}

// PricingConfig holds conversion rates and window tolerances.
type PricingConfig struct {
	USDToEUR            float64 `yaml:"usd_to_eur"`
	GBPToEUR            float64 `yaml:"gbp_to_eur"`
	ExactPct            float64 `yaml:"exact_pct"`
	ExactAbsCapEUR      float64 `yaml:"exact_abs_cap_eur"`
	NearMissPct         float64 `yaml:"near_miss_pct"`
	NearMissAbsFloorEUR float64 `yaml:"near_miss_abs_floor_eur"`
}

// SearchConfig holds orchestrator settings.
type SearchConfig struct {
	StrictRadiusKm   float64 `yaml:"strict_radius_km"`
	NearMissRadiusKm float64 `yaml:"near_miss_radius_km"`
	RAGTokenBudget   int     `yaml:"rag_token_budget"`
}

// StorageConfig holds data paths.
type StorageConfig struct {
	ListingsPath       string `yaml:"listings_path"`        // badger directory
	VectorSnapshotPath string `yaml:"vector_snapshot_path"` // JSON snapshot file
	InMemory           bool   `yaml:"in_memory"`            // keep everything in memory
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the built-in configuration: local AI backend only,
// default tolerances, in-memory storage.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// Load reads and validates a YAML configuration file. Values of the form
// ${VAR} or ${VAR:-default} are expanded from the environment before parsing.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.AI.Ollama.Host == "" {
		c.AI.Ollama.Host = "http://localhost:11434"
	}
	if c.AI.Ollama.Model == "" {
		c.AI.Ollama.Model = "llama3.1"
	}
	if !c.AI.OpenAI.Enabled && !c.AI.Anthropic.Enabled && !c.AI.Ollama.Enabled {
		c.AI.Ollama.Enabled = true
	}
	if c.AI.OpenAI.Model == "" {
		c.AI.OpenAI.Model = "gpt-4o-mini"
	}
	if c.AI.Anthropic.Model == "" {
		c.AI.Anthropic.Model = "claude-3-5-haiku-latest"
	}
	if c.AI.CallTimeoutSec <= 0 {
		c.AI.CallTimeoutSec = 30
	}
	if c.AI.MaxAttempts <= 0 {
		c.AI.MaxAttempts = 3
	}
	if c.AI.RetryBaseDelayMS <= 0 {
		c.AI.RetryBaseDelayMS = 500
	}
	if c.AI.EmbeddingModel == "" {
		c.AI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.AI.EmbeddingDims <= 0 {
		c.AI.EmbeddingDims = 1536
	}

	def := pricing.DefaultTolerances()
	if c.Pricing.ExactPct <= 0 {
		c.Pricing.ExactPct = def.ExactPct
	}
	if c.Pricing.ExactAbsCapEUR <= 0 {
		c.Pricing.ExactAbsCapEUR = def.ExactAbsCapEUR
	}
	if c.Pricing.NearMissPct <= 0 {
		c.Pricing.NearMissPct = def.NearMissPct
	}
	if c.Pricing.NearMissAbsFloorEUR <= 0 {
		c.Pricing.NearMissAbsFloorEUR = def.NearMissAbsFloorEUR
	}

	if c.Search.StrictRadiusKm <= 0 {
		c.Search.StrictRadiusKm = def.StrictRadiusKm
	}
	if c.Search.NearMissRadiusKm <= 0 {
		c.Search.NearMissRadiusKm = def.NearMissRadiusKm
	}
	if c.Search.RAGTokenBudget <= 0 {
		c.Search.RAGTokenBudget = 2000
	}

	if c.Storage.ListingsPath == "" && !c.Storage.InMemory {
		c.Storage.ListingsPath = filepath.Join("data", "listings")
	}
	if c.Storage.VectorSnapshotPath == "" && !c.Storage.InMemory {
		c.Storage.VectorSnapshotPath = filepath.Join("data", "vectors.json")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}

	for site, method := range c.Sites {
		switch listing.AccessMethod(strings.ToUpper(method)) {
		case listing.AccessAPI, listing.AccessSitemap, listing.AccessPublicHTML,
			listing.AccessBYOC, listing.AccessNone:
		default:
			return fmt.Errorf("sites.%s: unknown access method %q", site, method)
		}
	}

	if c.AI.OpenAI.Enabled && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("ai.openai.api_key is required when the backend is enabled")
	}
	if c.AI.Anthropic.Enabled && c.AI.Anthropic.APIKey == "" {
		return fmt.Errorf("ai.anthropic.api_key is required when the backend is enabled")
	}
	return nil
}

// AIGatewayConfig converts the YAML section to the gateway's config type.
func (c *Config) AIGatewayConfig() *ai.Config {
	cfg := ai.DefaultConfig()
	cfg.OpenAI = ai.BackendConfig(c.AI.OpenAI)
	cfg.Ollama = ai.BackendConfig(c.AI.Ollama)
	cfg.Anthropic = ai.BackendConfig(c.AI.Anthropic)
	cfg.CallTimeout = time.Duration(c.AI.CallTimeoutSec) * time.Second
	cfg.MaxAttempts = c.AI.MaxAttempts
	cfg.RetryBaseDelay = time.Duration(c.AI.RetryBaseDelayMS) * time.Millisecond
	return cfg
}

// Rates converts the YAML section to currency conversion rates.
func (c *Config) Rates() currency.Rates {
	return currency.Rates{
		USDToEUR: c.Pricing.USDToEUR,
		GBPToEUR: c.Pricing.GBPToEUR,
	}
}

// Tolerances converts the YAML sections to the pricing rule set.
func (c *Config) Tolerances() pricing.Tolerances {
	return pricing.Tolerances{
		ExactPct:            c.Pricing.ExactPct,
		ExactAbsCapEUR:      c.Pricing.ExactAbsCapEUR,
		NearMissPct:         c.Pricing.NearMissPct,
		NearMissAbsFloorEUR: c.Pricing.NearMissAbsFloorEUR,
		StrictRadiusKm:      c.Search.StrictRadiusKm,
		NearMissRadiusKm:    c.Search.NearMissRadiusKm,
	}
}

// AccessMethods converts the YAML site table to the policy's map type.
func (c *Config) AccessMethods() map[string]listing.AccessMethod {
	methods := make(map[string]listing.AccessMethod, len(c.Sites))
	for site, method := range c.Sites {
		methods[site] = listing.AccessMethod(strings.ToUpper(method))
	}
	return methods
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
