// Package cli provides the command-line interface for the advisor.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fantasy-advisor/internal/agent"
	"fantasy-advisor/internal/espn"
	"fantasy-advisor/internal/provider"
	"fantasy-advisor/internal/retry"
	"fantasy-advisor/internal/tool"
)

// Config wires the CLI to its collaborators.
type Config struct {
	Provider provider.LLMProvider
	Service  *espn.Service
	// MaxTurns bounds model round trips per question. Zero uses the
	// agent default.
	MaxTurns int
	// RetryPolicy and Retryable govern model-call retries.
	RetryPolicy retry.Policy
	Retryable   retry.Classifier
}

// CLI drives the advisor from a terminal.
type CLI struct {
	provider  provider.LLMProvider
	service   *espn.Service
	maxTurns  int
	policy    retry.Policy
	retryable retry.Classifier
	output    io.Writer
	input     *bufio.Scanner
	now       func() time.Time
}

// New creates a CLI reading stdin and writing stdout.
func New(cfg Config) *CLI {
	return NewWithIO(cfg, os.Stdin, os.Stdout)
}

// NewWithIO creates a CLI with custom streams. Useful for testing.
func NewWithIO(cfg Config, input io.Reader, output io.Writer) *CLI {
	return &CLI{
		provider:  cfg.Provider,
		service:   cfg.Service,
		maxTurns:  cfg.MaxTurns,
		policy:    cfg.RetryPolicy,
		retryable: cfg.Retryable,
		output:    output,
		input:     bufio.NewScanner(input),
		now:       time.Now,
	}
}

// printf writes formatted output.
func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.output, format, args...)
}

// println writes a line of output.
func (c *CLI) println(args ...interface{}) {
	fmt.Fprintln(c.output, args...)
}

// printToolCall displays a tool call as it happens.
func (c *CLI) printToolCall(tc provider.ToolCall) {
	c.printf("  [Tool Call] %s\n", tc.Name)
	for key, value := range tc.Arguments {
		c.printf("    %s: %v\n", key, value)
	}
}

// printToolResult displays the outcome of a tool call.
func (c *CLI) printToolResult(tc provider.ToolCall, result provider.ToolResult) {
	if result.Success {
		c.printf("    -> ok (%d bytes)\n", len(result.Output))
		return
	}
	c.printf("    -> error: %s\n", result.Error)
}

// isExitCommand checks if the input is an exit command.
func isExitCommand(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	return lower == "exit" || lower == "quit"
}

// newAgent builds the agent with the fantasy tool registry and the
// analyst instructions.
func (c *CLI) newAgent() (*agent.Agent, error) {
	registry, err := tool.NewFantasyRegistry(c.service)
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	return agent.New(agent.Config{
		Provider:     c.provider,
		Tools:        registry,
		SystemPrompt: Instructions,
		MaxTurns:     c.maxTurns,
		RetryPolicy:  c.policy,
		Retryable:    c.retryable,
		OnToolCall:   c.printToolCall,
		OnToolResult: c.printToolResult,
	}), nil
}

// printHeader shows what the advisor connected to.
func (c *CLI) printHeader() {
	league := c.service.League()
	c.println("Fantasy Football AI Advisor")
	c.println(strings.Repeat("=", 50))
	c.printf("League: %s\n", league.Name)
	c.printf("Your team: %s\n", c.service.MyTeam().Name)
	if league.PreSeason() {
		c.println("Current week: Pre-season")
	} else {
		c.printf("Current week: %d\n", league.CurrentWeek)
	}
	c.println(strings.Repeat("-", 50))
}

// preSeason prints the pre-season notice when the season has not
// started. The advisor still serves data lookups, just no matchup
// analysis.
func (c *CLI) preSeason() bool {
	if !c.service.League().PreSeason() {
		return false
	}
	c.println()
	c.println("It's currently pre-season!")
	c.println("The season hasn't started yet. Come back when Week 1 begins to:")
	c.println("  - Get AI-powered lineup recommendations")
	c.println("  - Analyze start/sit decisions")
	c.println("  - Review waiver wire targets")
	c.println("  - Identify trade opportunities")
	c.println()
	c.println("For now, you can still browse league data with the --menu flag.")
	c.println("Check back when the season starts!")
	return true
}

// RunAnalysis performs the one-shot weekly analysis.
func (c *CLI) RunAnalysis(ctx context.Context) error {
	c.printHeader()
	if c.preSeason() {
		return nil
	}

	agentInstance, err := c.newAgent()
	if err != nil {
		return err
	}

	c.println()
	c.println("Generating Comprehensive Weekly Analysis")
	c.println("Analyzing roster, matchups, waiver wire, and league dynamics...")
	c.println()

	transcript := agent.NewTranscript()
	result, err := agentInstance.Run(ctx, BuildPrompt(c.service, c.now()), transcript)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	c.println()
	c.println(result.Answer)
	c.println()
	c.printf("Analysis complete. (%d model turns, %d tool calls)\n", result.Turns, len(result.ToolCallsMade))
	return nil
}

// RunDebug prints the exact request the analysis would submit, without
// calling the model. The output comes from the same request assembly
// a real run uses.
func (c *CLI) RunDebug(ctx context.Context) error {
	c.printHeader()
	if c.preSeason() {
		return nil
	}

	agentInstance, err := c.newAgent()
	if err != nil {
		return err
	}

	transcript := agent.NewTranscript()
	transcript.AddUser(BuildPrompt(c.service, c.now()))
	req := agentInstance.BuildRequest(transcript)

	c.println()
	c.println("DEBUG MODE - Showing Request")
	c.println(strings.Repeat("=", 50))

	toolNames := make([]string, 0, len(req.Tools))
	for _, def := range req.Tools {
		toolNames = append(toolNames, def.Name)
	}
	c.printf("Tools attached: %s\n", strings.Join(toolNames, ", "))
	c.println()

	c.println("PROMPT TO AI:")
	c.println(strings.Repeat("-", 50))
	prompt := ""
	if len(req.Messages) > 0 {
		prompt = req.Messages[len(req.Messages)-1].Content
	}
	c.println(prompt)
	c.println(strings.Repeat("-", 50))
	c.printf("\nPrompt length: %d characters\n", len(prompt))
	return nil
}

// RunInteractive performs the weekly analysis and then answers
// follow-up questions in the same conversation until the user exits.
func (c *CLI) RunInteractive(ctx context.Context) error {
	c.printHeader()
	if c.preSeason() {
		return nil
	}

	agentInstance, err := c.newAgent()
	if err != nil {
		return err
	}

	transcript := agent.NewTranscript()
	result, err := agentInstance.Run(ctx, BuildPrompt(c.service, c.now()), transcript)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	c.println()
	c.println(result.Answer)

	c.println()
	c.println("Ask follow-up questions about your roster. Type 'exit' or 'quit' to exit.")
	c.println()

	for {
		c.printf("You: ")

		if !c.input.Scan() {
			if err := c.input.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}
			c.println("\nGoodbye!")
			return nil
		}

		input := strings.TrimSpace(c.input.Text())
		if input == "" {
			continue
		}
		if isExitCommand(input) {
			c.println("Goodbye!")
			return nil
		}

		result, err := agentInstance.Run(ctx, input, transcript)
		if err != nil {
			if errors.Is(err, agent.ErrCancelled) {
				return err
			}
			c.printf("Error: %v\n\n", err)
			continue
		}

		c.printf("\nAdvisor: %s\n\n", result.Answer)
	}
}

// RunDataMenu is an interactive inspector over the league data the
// tools serve. It never calls the model.
func (c *CLI) RunDataMenu(ctx context.Context) error {
	c.printHeader()

	for {
		c.println()
		c.println(strings.Repeat("=", 50))
		c.println("LEAGUE DATA INSPECTOR")
		c.println(strings.Repeat("=", 50))
		c.println("1.  Waiver wire")
		c.println("2.  Team details")
		c.println("3.  Player stats")
		c.println("4.  My roster summary")
		c.println("5.  League standings")
		c.println("6.  Opponent summary")
		c.println("0.  Exit")
		c.println(strings.Repeat("=", 50))

		choice, ok := c.readLine("Enter your choice (0-6)")
		if !ok || choice == "0" || isExitCommand(choice) {
			c.println("Goodbye!")
			return nil
		}

		if err := c.runMenuChoice(ctx, choice); err != nil {
			c.printf("Error: %v\n", err)
		}
	}
}

func (c *CLI) runMenuChoice(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		position, _ := c.readLine("Position filter (QB/RB/WR/TE/K/D/ST or blank for all)")
		size := c.readInt("Number of players", espn.DefaultWaiverSize)
		result, err := c.service.WaiverWire(ctx, position, size)
		if err != nil {
			return err
		}
		return c.printJSON(result)

	case "2":
		c.println("Available teams:")
		for _, team := range c.service.League().Teams {
			c.printf("  Team ID %d: %s\n", team.ID, team.Name)
		}
		teamID := c.readInt("Team ID", c.service.MyTeam().ID)
		details, err := c.service.TeamDetails(teamID)
		if err != nil {
			return err
		}
		return c.printJSON(details)

	case "3":
		c.println("Players from your roster:")
		for i, p := range c.service.MyTeam().Roster {
			if i >= 10 {
				break
			}
			c.printf("  Player ID %d: %s (%s)\n", p.ID, p.Name, p.Position)
		}
		playerID := c.readInt("Player ID", 0)
		stats, err := c.service.PlayerStats(playerID)
		if err != nil {
			return err
		}
		return c.printJSON(stats)

	case "4":
		c.println(c.service.RosterSummary())
		return nil

	case "5":
		c.println(c.service.StandingsSummary())
		return nil

	case "6":
		c.println(c.service.OpponentSummary())
		return nil

	default:
		return fmt.Errorf("invalid choice %q, enter a number between 0 and 6", choice)
	}
}

// readLine prompts and reads one trimmed line. ok is false on EOF.
func (c *CLI) readLine(prompt string) (string, bool) {
	c.printf("%s: ", prompt)
	if !c.input.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.input.Text()), true
}

// readInt prompts for an integer, returning def on blank or bad input.
func (c *CLI) readInt(prompt string, def int) int {
	line, ok := c.readLine(fmt.Sprintf("%s (default: %d)", prompt, def))
	if !ok || line == "" {
		return def
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		c.printf("Not a number, using default %d\n", def)
		return def
	}
	return n
}

func (c *CLI) printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	c.println("RESULT:")
	c.println(string(out))
	return nil
}
