package cli

import (
	"strings"
	"testing"
	"time"
)

func TestBuildPromptHeader(t *testing.T) {
	svc := menuService()
	now := time.Date(2025, time.September, 18, 12, 0, 0, 0, time.UTC)

	prompt := BuildPrompt(svc, now)

	for _, want := range []string{
		"provide actionable recommendations for Week 3.",
		"2025 SEASON - WEEK 3 | September 18, 2025",
		"Team: Gridiron Gurus | Record: 2-0 | Points For: 245.6 | Avg/Week: 122.8",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\nprompt:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptSections(t *testing.T) {
	prompt := BuildPrompt(menuService(), time.Now())

	sections := []string{
		"MY ROSTER:",
		"OPPONENT:",
		"LEAGUE STANDINGS:",
		"## EXECUTIVE SUMMARY",
		"## STARTING LINEUP",
		"## ROSTER MOVES",
		"## MATCHUP STRATEGY",
		"## ACTION ITEMS",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(prompt, section)
		if idx < 0 {
			t.Fatalf("prompt missing section %q", section)
		}
		if idx < last {
			t.Errorf("section %q out of order", section)
		}
		last = idx
	}
}

func TestBuildPromptEmbedsSummaries(t *testing.T) {
	svc := menuService()
	prompt := BuildPrompt(svc, time.Now())

	if !strings.Contains(prompt, "QB: Josh Allen (BUF) - 23.7pts") {
		t.Error("prompt missing roster starter line")
	}
	if !strings.Contains(prompt, "End Zone Elite (1-1) - Proj: 24.2pts (team_id: 2)") {
		t.Error("prompt missing opponent summary")
	}
	if !strings.Contains(prompt, "(team_id: 1)") {
		t.Error("prompt missing standings team IDs")
	}
}

func TestBuildPromptMentionsAllTools(t *testing.T) {
	prompt := BuildPrompt(menuService(), time.Now())

	for _, name := range []string{"get_waiver_wire", "get_team_details", "get_player_stats"} {
		if !strings.Contains(prompt, name) {
			t.Errorf("prompt missing tool %q", name)
		}
	}
}

func TestInstructionsForbidCitations(t *testing.T) {
	for _, want := range []string{
		"expert fantasy football analyst",
		"NEVER include URLs",
		"NEVER include citations",
	} {
		if !strings.Contains(Instructions, want) {
			t.Errorf("instructions missing %q", want)
		}
	}
}
