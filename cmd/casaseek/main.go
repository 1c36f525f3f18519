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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/casaseek/casaseek"
	"github.com/casaseek/casaseek/config"
	"github.com/casaseek/casaseek/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "casaseek",
		Usage: "Natural-language property search assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search listings with a natural-language query",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "lat",
						Usage: "Search center latitude",
					},
					&cli.Float64Flag{
						Name:  "lng",
						Usage: "Search center longitude",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show AI backend health and index statistics",
				Action: statusCommand,
			},
			{
				Name:      "switch-backend",
				Usage:     "Pin the AI chain to the named backend",
				ArgsUsage: "BACKEND",
				Action:    switchBackendCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Rebuild the vector index from stored listings",
				Action: reindexCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.Default(), nil
}

func openAssistant(c *cli.Context) (*casaseek.Assistant, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return casaseek.NewAssistant(cfg)
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	var userLocation *core.Coordinates
	if c.IsSet("lat") && c.IsSet("lng") {
		userLocation = &core.Coordinates{Lat: c.Float64("lat"), Lng: c.Float64("lng")}
	}

	result, err := assistant.Search(context.Background(), query, userLocation)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *core.SearchResult) {
	if result.Note != "" {
		fmt.Println(result.Note)
	}
	if len(result.Listings) == 0 {
		fmt.Println("No listings found.")
	}

	for i, l := range result.Listings {
		fmt.Printf("%2d. %s\n", i+1, l.Title)
		fmt.Printf("    %.0f %s", l.Price.Amount, l.Price.Currency)
		if l.Location != "" {
			fmt.Printf(" | %s", l.Location)
		}
		if l.DistanceKm != nil {
			fmt.Printf(" | %.1f km away", *l.DistanceKm)
		}
		fmt.Printf(" | match %d%%\n", l.MatchScore)
		if l.AIReasoning != "" {
			fmt.Printf("    %s\n", l.AIReasoning)
		}
		if l.URL != "" {
			fmt.Printf("    %s\n", l.URL)
		}
	}

	fmt.Printf("\nsearch %s (%s match)", result.SearchID, result.MatchType)
	if !result.AIAvailable {
		fmt.Print(" [AI unavailable, pattern matching in use]")
	}
	fmt.Println()
	if len(result.BlockedSites) > 0 {
		fmt.Printf("Not searched (restricted access): %s\n", strings.Join(result.BlockedSites, ", "))
	}
}

func statusCommand(c *cli.Context) error {
	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	ctx := context.Background()
	gateway := assistant.Gateway()
	available := gateway.Available(ctx)
	health := gateway.Health()

	fmt.Printf("AI available: %t\n", available)
	if pinned := gateway.Selected(); pinned != "" {
		fmt.Printf("Pinned backend: %s\n", pinned)
	}
	for _, name := range gateway.BackendNames() {
		state := "not probed"
		if healthy, probed := health[name]; probed {
			if healthy {
				state = "healthy"
			} else {
				state = "unreachable"
			}
		}
		fmt.Printf("  %-12s %s\n", name, state)
	}

	fmt.Printf("Embedding backend: %s (%d dims)\n", assistant.Embedder().Backend(), assistant.Embedder().Dimensions())
	for collection, count := range assistant.Store().Stats() {
		fmt.Printf("  %-14s %d documents\n", collection, count)
	}
	return nil
}

func switchBackendCommand(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("backend name is required")
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	if err := assistant.Gateway().SwitchBackend(context.Background(), name); err != nil {
		return err
	}
	fmt.Printf("Switched to backend %s\n", name)
	return nil
}

func reindexCommand(c *cli.Context) error {
	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	count, err := assistant.Reindex(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Reindexed %d listings\n", count)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
