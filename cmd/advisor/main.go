// Package main provides the entry point for the fantasy advisor CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fantasy-advisor/internal/cli"
	"fantasy-advisor/internal/config"
	"fantasy-advisor/internal/espn"
	"fantasy-advisor/internal/provider"
)

const defaultConfigFile = "config.yaml"

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file (default: config.yaml if present, else environment variables)")
	debug := flag.Bool("debug", false, "Show the prompt that would be sent to the model, without calling it")
	menu := flag.Bool("menu", false, "Browse raw league data interactively, without calling the model")
	interactive := flag.Bool("interactive", false, "Ask follow-up questions after the weekly analysis")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help message")
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*configPath, *debug, *menu, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printHints(err)
		os.Exit(1)
	}
}

func run(configPath string, debug, menu, interactive bool) error {
	path := configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	client, err := espn.NewClient(cfg.LeagueID, cfg.Year, cfg.ESPNS2, cfg.SWID,
		espn.WithRetryPolicy(cfg.RetryPolicy()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, err := espn.NewService(ctx, client, cfg.MyTeamID)
	if err != nil {
		return fmt.Errorf("failed to connect to league: %w", err)
	}

	llmProvider, err := provider.NewOpenAIProvider(cfg.OpenAI.APIKey, provider.WithModel(cfg.OpenAI.Model))
	if err != nil {
		return err
	}

	app := cli.New(cli.Config{
		Provider:    llmProvider,
		Service:     service,
		MaxTurns:    cfg.MaxTurns,
		RetryPolicy: cfg.RetryPolicy(),
		Retryable:   provider.IsRetryable,
	})

	switch {
	case menu:
		return app.RunDataMenu(ctx)
	case debug:
		return app.RunDebug(ctx)
	case interactive:
		return app.RunInteractive(ctx)
	default:
		return app.RunAnalysis(ctx)
	}
}

// printHints adds troubleshooting guidance for common failures.
func printHints(err error) {
	switch {
	case errors.Is(err, espn.ErrUnauthorized):
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "This league requires authentication. Check that:")
		fmt.Fprintln(os.Stderr, "  - ESPN_S2 and SWID are set (cookies from a logged-in espn.com session)")
		fmt.Fprintln(os.Stderr, "  - The cookies have not expired (log in again to refresh them)")
	case errors.Is(err, espn.ErrNotFound):
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "League not found. Check that:")
		fmt.Fprintln(os.Stderr, "  - LEAGUE_ID matches the leagueId in your league's URL")
		fmt.Fprintln(os.Stderr, "  - YEAR is a season that league actually played")
	case errors.Is(err, espn.ErrUnavailable):
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "ESPN is temporarily unavailable. Try again in a few minutes.")
	}
}

// printUsage prints the usage information.
func printUsage() {
	fmt.Println("Fantasy Football AI Advisor")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  advisor [flags]")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Configuration (config.yaml or environment variables):")
	fmt.Println("  LEAGUE_ID       ESPN fantasy league ID (required)")
	fmt.Println("  YEAR            Season year (required)")
	fmt.Println("  ESPN_S2, SWID   Cookies for private league access")
	fmt.Println("  MY_TEAM_ID      Your team ID (optional, detected from SWID)")
	fmt.Println("  OPENAI_API_KEY  OpenAI API key (required)")
	fmt.Println("  OPENAI_MODEL    Model override (default: " + provider.DefaultOpenAIModel + ")")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  advisor                  # Run the weekly analysis")
	fmt.Println("  advisor -interactive     # Analysis plus follow-up questions")
	fmt.Println("  advisor -debug           # Show the prompt without calling the model")
	fmt.Println("  advisor -menu            # Browse raw league data")
}
