package espn

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	var client *Client
	if handler != nil {
		client = newTestClient(t, handler)
	}
	league := testLeague()
	return NewSnapshotService(client, league, league.Teams[0])
}

func TestTeamDetails(t *testing.T) {
	svc := newTestService(t, nil)

	details, err := svc.TeamDetails(1)
	if err != nil {
		t.Fatalf("TeamDetails failed: %v", err)
	}

	if details.TeamName != "Gridiron Gurus" {
		t.Errorf("expected team name 'Gridiron Gurus', got %q", details.TeamName)
	}
	if details.Record != "2-0" {
		t.Errorf("expected record 2-0, got %q", details.Record)
	}
	if details.RosterStrength != 51.7 {
		t.Errorf("expected roster strength 51.7, got %v", details.RosterStrength)
	}

	if len(details.Lineup.Starters) != 2 {
		t.Fatalf("expected 2 starters, got %d", len(details.Lineup.Starters))
	}
	if details.Lineup.Starters[0].Name != "Josh Allen" || details.Lineup.Starters[1].Name != "Bijan Robinson" {
		t.Errorf("starters out of slot order: %+v", details.Lineup.Starters)
	}
	if details.Lineup.Starters[0].ProjectedPoints != 23.7 {
		t.Errorf("expected weekly projection 23.7, got %v", details.Lineup.Starters[0].ProjectedPoints)
	}

	if len(details.Lineup.Bench) != 1 {
		t.Fatalf("IR player must be excluded from bench, got %+v", details.Lineup.Bench)
	}
	if details.Lineup.Bench[0].Name != "Jaylen Waddle" {
		t.Errorf("unexpected bench player: %+v", details.Lineup.Bench[0])
	}
	if details.Lineup.Bench[0].InjuryStatus != "QUESTIONABLE" {
		t.Errorf("injury status dropped: %+v", details.Lineup.Bench[0])
	}
}

func TestTeamDetailsUnknownTeam(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.TeamDetails(99)
	if err == nil {
		t.Fatal("expected error for unknown team ID")
	}
	if !strings.Contains(err.Error(), "99") {
		t.Errorf("error should name the team ID: %v", err)
	}
}

func TestPlayerStats(t *testing.T) {
	svc := newTestService(t, nil)

	stats, err := svc.PlayerStats(101)
	if err != nil {
		t.Fatalf("PlayerStats failed: %v", err)
	}

	if stats.Name != "Josh Allen" || stats.FantasyTeam != "Gridiron Gurus" {
		t.Errorf("unexpected player: %+v", stats)
	}
	if stats.ProjectedAvgPoints != 22.5 {
		t.Errorf("expected projected average 22.5, got %v", stats.ProjectedAvgPoints)
	}
	if stats.ByeWeek != 7 {
		t.Errorf("expected bye week 7, got %d", stats.ByeWeek)
	}

	if len(stats.WeeklyStats) != 3 {
		t.Fatalf("expected 3 weeks, got %d", len(stats.WeeklyStats))
	}
	for i, want := range []int{1, 2, 3} {
		if stats.WeeklyStats[i].Week != want {
			t.Errorf("weeks not chronological: %+v", stats.WeeklyStats)
		}
	}

	if stats.WeeklyStats[0].Status != "completed" {
		t.Errorf("week with actual points must be completed, got %q", stats.WeeklyStats[0].Status)
	}
	if stats.WeeklyStats[2].Status != "projected" {
		t.Errorf("future week must be projected, got %q", stats.WeeklyStats[2].Status)
	}

	breakdown := stats.WeeklyStats[2].Breakdown
	if breakdown == nil {
		t.Fatal("expected a QB breakdown for week 3")
	}
	if breakdown["passing_attempts"] != 34.2 {
		t.Errorf("expected passing_attempts 34.2, got %v", breakdown["passing_attempts"])
	}
	if _, ok := breakdown["receiving_targets"]; ok {
		t.Error("QB breakdown must not contain receiving fields")
	}
}

func TestPlayerStatsUnknownPlayer(t *testing.T) {
	svc := newTestService(t, nil)

	if _, err := svc.PlayerStats(999999); err == nil {
		t.Fatal("expected error for unknown player ID")
	}
}

func TestWaiverWire(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(freeAgentsFixture))
	})

	result, err := svc.WaiverWire(context.Background(), "", 5)
	if err != nil {
		t.Fatalf("WaiverWire failed: %v", err)
	}

	if result.Position != "All" {
		t.Errorf("expected position 'All', got %q", result.Position)
	}
	if result.Count != 1 {
		t.Fatalf("low-projection players must be filtered out, got %d", result.Count)
	}
	if result.AvailablePlayers[0].Name != "Jordan Mason" {
		t.Errorf("unexpected waiver player: %+v", result.AvailablePlayers[0])
	}
	if result.AvailablePlayers[0].ProjectedPoints != 9.8 {
		t.Errorf("expected projection 9.8, got %v", result.AvailablePlayers[0].ProjectedPoints)
	}
}

func TestWaiverWirePositionFilter(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(freeAgentsFixture))
	})

	result, err := svc.WaiverWire(context.Background(), "WR", 5)
	if err != nil {
		t.Fatalf("WaiverWire failed: %v", err)
	}
	if result.Count != 0 {
		t.Errorf("expected no WR above projection floor, got %d", result.Count)
	}
	if result.Message == "" || !strings.Contains(result.Message, "WR") {
		t.Errorf("empty result must carry a message naming the position: %q", result.Message)
	}
}

func TestWaiverWireDSTAlias(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(freeAgentsFixture))
	})

	result, err := svc.WaiverWire(context.Background(), "DST", 5)
	if err != nil {
		t.Fatalf("WaiverWire failed: %v", err)
	}
	if result.Position != "D/ST" {
		t.Errorf("DST alias not normalized: %q", result.Position)
	}
}

func TestWaiverWireInvalidPosition(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.WaiverWire(context.Background(), "PUNTER", 5)
	if err == nil {
		t.Fatal("expected error for invalid position")
	}
	if !strings.Contains(err.Error(), "PUNTER") {
		t.Errorf("error should name the invalid position: %v", err)
	}
}

func TestWaiverWireWithoutClient(t *testing.T) {
	league := testLeague()
	svc := NewSnapshotService(nil, league, league.Teams[0])

	_, err := svc.WaiverWire(context.Background(), "", 5)
	if err == nil {
		t.Fatal("expected error when no client is attached")
	}
	if !strings.Contains(err.Error(), "unavailable") {
		t.Errorf("error should say free-agent lookups are unavailable: %v", err)
	}
}

func TestRosterStrength(t *testing.T) {
	league := testLeague()
	if got := RosterStrength(league.Teams[0]); got != 51.7 {
		t.Errorf("expected 51.7, got %v", got)
	}
	if got := RosterStrength(league.Teams[2]); got != 0 {
		t.Errorf("expected 0 for empty roster, got %v", got)
	}
}
