package espn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

const (
	// DefaultWaiverSize is how many waiver players a lookup returns
	// when the caller does not say.
	DefaultWaiverSize = 5
	// MaxWaiverSize caps a single waiver lookup.
	MaxWaiverSize = 10
	// minWaiverProjection filters out players without a meaningful
	// weekly projection.
	minWaiverProjection = 2.0
)

var validWaiverPositions = map[string]bool{
	"QB": true, "RB": true, "WR": true, "TE": true,
	"K": true, "D/ST": true, "DST": true,
}

// Service answers roster questions against one fetched league
// snapshot. The snapshot is immutable after construction; free-agent
// lookups go back to the API.
type Service struct {
	client *Client
	league *League
	myTeam *Team
}

// NewService fetches the league and identifies the caller's team.
// A positive myTeamID pins the team explicitly; otherwise the SWID
// cookie is matched against team owners, falling back to the first
// team in the league.
func NewService(ctx context.Context, client *Client, myTeamID int) (*Service, error) {
	league, err := client.FetchLeague(ctx)
	if err != nil {
		return nil, err
	}
	if len(league.Teams) == 0 {
		return nil, fmt.Errorf("espn: league %d has no teams", league.ID)
	}

	var myTeam *Team
	if myTeamID > 0 {
		myTeam = league.TeamByID(myTeamID)
		if myTeam == nil {
			return nil, fmt.Errorf("espn: configured team ID %d not found in league", myTeamID)
		}
	} else {
		myTeam = league.IdentifyTeam(client.SWID())
		if myTeam == nil {
			myTeam = league.Teams[0]
			slog.Warn("could not match SWID to a team, defaulting to first team",
				"team", myTeam.Name,
				"team_id", myTeam.ID,
			)
		}
	}

	return &Service{client: client, league: league, myTeam: myTeam}, nil
}

// NewSnapshotService builds a service around already-fetched data.
// Free-agent lookups still need the client; with a nil client,
// WaiverWire returns an error instead of reaching the network.
func NewSnapshotService(client *Client, league *League, myTeam *Team) *Service {
	return &Service{client: client, league: league, myTeam: myTeam}
}

// League returns the underlying league snapshot.
func (s *Service) League() *League {
	return s.league
}

// MyTeamID returns the configured team's ID.
func (s *Service) MyTeamID() int {
	return s.myTeam.ID
}

// MyTeam returns the caller's team.
func (s *Service) MyTeam() *Team {
	return s.myTeam
}

// WaiverPlayer is one available player in a waiver wire listing.
type WaiverPlayer struct {
	PlayerID        int     `json:"player_id"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	Team            string  `json:"team"`
	ProjectedPoints float64 `json:"projected_points"`
	ByeWeek         int     `json:"bye_week,omitempty"`
	InjuryStatus    string  `json:"injury_status,omitempty"`
}

// WaiverWireResult lists the best available players for one position.
type WaiverWireResult struct {
	Position         string         `json:"position"`
	AvailablePlayers []WaiverPlayer `json:"available_players,omitempty"`
	Count            int            `json:"count"`
	Message          string         `json:"message,omitempty"`
	Note             string         `json:"note,omitempty"`
}

// WaiverWire returns available players with a meaningful projection
// for the current week, best first. Position may be empty for all
// positions; "DST" is accepted as an alias for "D/ST".
func (s *Service) WaiverWire(ctx context.Context, position string, size int) (*WaiverWireResult, error) {
	if s.client == nil {
		return nil, errors.New("free-agent lookups are unavailable without a league connection")
	}
	if position != "" && !validWaiverPositions[position] {
		return nil, fmt.Errorf("invalid position: %s. Valid positions are QB, RB, WR, TE, K, D/ST", position)
	}
	if position == "DST" {
		position = "D/ST"
	}
	if size <= 0 {
		size = DefaultWaiverSize
	}
	if size > MaxWaiverSize {
		size = MaxWaiverSize
	}

	// Fetch more than requested so the position and projection
	// filters still leave enough candidates.
	fetchSize := 50
	if position != "" {
		fetchSize = DefaultFreeAgentFetchSize
	}
	freeAgents, err := s.client.FetchFreeAgents(ctx, s.league.CurrentWeek, fetchSize)
	if err != nil {
		return nil, err
	}

	var picks []WaiverPlayer
	for _, p := range freeAgents {
		if position != "" && p.Position != position {
			continue
		}
		projection := 0.0
		if ws, ok := p.Stats[s.league.CurrentWeek]; ok {
			projection = ws.Projected
		}
		if projection <= minWaiverProjection {
			continue
		}
		picks = append(picks, WaiverPlayer{
			PlayerID:        p.ID,
			Name:            p.Name,
			Position:        p.Position,
			Team:            p.ProTeam,
			ProjectedPoints: round1(projection),
			ByeWeek:         p.ByeWeek(),
			InjuryStatus:    p.InjuryStatus,
		})
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].ProjectedPoints > picks[j].ProjectedPoints
	})
	if len(picks) > size {
		picks = picks[:size]
	}

	result := &WaiverWireResult{Position: position, Count: len(picks)}
	if result.Position == "" {
		result.Position = "All"
	}
	if len(picks) == 0 {
		if position != "" {
			result.Message = fmt.Sprintf("No available players found for position %s", position)
		} else {
			result.Message = "No available players found"
		}
		return result, nil
	}

	result.AvailablePlayers = picks
	result.Note = "Use get_player_stats tool with player_id for detailed analysis of any player"
	return result, nil
}

// RosterPlayer is one roster entry in a team details response.
type RosterPlayer struct {
	PlayerID        int     `json:"player_id"`
	Name            string  `json:"name"`
	Position        string  `json:"position"`
	LineupSlot      string  `json:"lineup_slot"`
	ProjectedPoints float64 `json:"projected_points"`
	ByeWeek         int     `json:"bye_week,omitempty"`
	InjuryStatus    string  `json:"injury_status,omitempty"`
}

// Lineup splits a roster into starters and bench.
type Lineup struct {
	Starters []RosterPlayer `json:"starters"`
	Bench    []RosterPlayer `json:"bench"`
}

// TeamDetails describes one team and its full lineup.
type TeamDetails struct {
	TeamName       string  `json:"team_name"`
	Record         string  `json:"record"`
	PointsFor      float64 `json:"points_for"`
	PointsAgainst  float64 `json:"points_against"`
	RosterStrength float64 `json:"roster_strength"`
	Lineup         Lineup  `json:"lineup"`
	Note           string  `json:"note"`
}

// TeamDetails returns the structured roster for any team in the
// league, looked up by team ID.
func (s *Service) TeamDetails(teamID int) (*TeamDetails, error) {
	team := s.league.TeamByID(teamID)
	if team == nil {
		return nil, fmt.Errorf("team with ID '%d' not found", teamID)
	}

	return &TeamDetails{
		TeamName:       team.Name,
		Record:         formatRecord(team.Wins, team.Losses),
		PointsFor:      team.PointsFor,
		PointsAgainst:  team.PointsAgainst,
		RosterStrength: RosterStrength(team),
		Lineup:         s.structuredLineup(team),
		Note:           "Use get_player_stats tool with player_id for detailed player analysis",
	}, nil
}

// RosterStrength sums the roster's season projected weekly averages.
func RosterStrength(team *Team) float64 {
	total := 0.0
	for _, p := range team.Roster {
		total += p.ProjectedAvgPoints
	}
	return round2(total)
}

// structuredLineup splits the roster into starters ordered by lineup
// slot and bench ordered by projection. IR players are excluded.
func (s *Service) structuredLineup(team *Team) Lineup {
	var starters, bench []Player
	for _, p := range team.Roster {
		switch {
		case p.Starter():
			starters = append(starters, p)
		case p.LineupSlot != "IR":
			bench = append(bench, p)
		}
	}

	sortStarters(starters)
	sort.SliceStable(bench, func(i, j int) bool {
		return bench[i].WeekProjection(s.league.CurrentWeek) > bench[j].WeekProjection(s.league.CurrentWeek)
	})

	lineup := Lineup{
		Starters: make([]RosterPlayer, 0, len(starters)),
		Bench:    make([]RosterPlayer, 0, len(bench)),
	}
	for _, p := range starters {
		lineup.Starters = append(lineup.Starters, s.rosterPlayer(p))
	}
	for _, p := range bench {
		lineup.Bench = append(lineup.Bench, s.rosterPlayer(p))
	}
	return lineup
}

func (s *Service) rosterPlayer(p Player) RosterPlayer {
	return RosterPlayer{
		PlayerID:        p.ID,
		Name:            p.Name,
		Position:        p.Position,
		LineupSlot:      p.LineupSlot,
		ProjectedPoints: round1(p.WeekProjection(s.league.CurrentWeek)),
		ByeWeek:         p.ByeWeek(),
		InjuryStatus:    p.InjuryStatus,
	}
}

// WeekLine is one scoring period in a player's weekly stats.
type WeekLine struct {
	Week            int                `json:"week"`
	ProjectedPoints float64            `json:"projected_points"`
	ActualPoints    float64            `json:"actual_points"`
	Status          string             `json:"status"`
	Breakdown       map[string]float64 `json:"breakdown,omitempty"`
}

// PlayerStats is the detailed view of one rostered player.
type PlayerStats struct {
	PlayerID           int        `json:"player_id"`
	Name               string     `json:"name"`
	Position           string     `json:"position"`
	Team               string     `json:"team"`
	FantasyTeam        string     `json:"fantasy_team"`
	ProjectedAvgPoints float64    `json:"projected_avg_points"`
	ByeWeek            int        `json:"bye_week,omitempty"`
	InjuryStatus       string     `json:"injury_status,omitempty"`
	WeeklyStats        []WeekLine `json:"weekly_stats"`
}

// PlayerStats returns the weekly breakdown for a player found on any
// roster in the league.
func (s *Service) PlayerStats(playerID int) (*PlayerStats, error) {
	for _, team := range s.league.Teams {
		for _, p := range team.Roster {
			if p.ID == playerID {
				return s.playerStats(p, team), nil
			}
		}
	}
	return nil, fmt.Errorf("player with ID '%d' not found", playerID)
}

func (s *Service) playerStats(p Player, team *Team) *PlayerStats {
	stats := &PlayerStats{
		PlayerID:           p.ID,
		Name:               p.Name,
		Position:           p.Position,
		Team:               p.ProTeam,
		FantasyTeam:        team.Name,
		ProjectedAvgPoints: round1(p.ProjectedAvgPoints),
		ByeWeek:            p.ByeWeek(),
		InjuryStatus:       p.InjuryStatus,
	}

	weeks := make([]int, 0, len(p.Stats))
	for week := range p.Stats {
		// Week 0 rows hold season totals, not weekly data.
		if week == 0 {
			continue
		}
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	for _, week := range weeks {
		ws := p.Stats[week]
		line := WeekLine{
			Week:            week,
			ProjectedPoints: round1(ws.Projected),
			ActualPoints:    round1(ws.Actual),
			Status:          "projected",
			Breakdown:       positionBreakdown(p.Position, ws.ProjectedBreakdown),
		}
		if ws.Actual > 0 {
			line.Status = "completed"
		}
		stats.WeeklyStats = append(stats.WeeklyStats, line)
	}

	return stats
}

// positionBreakdown picks the breakdown fields relevant to the
// player's position, with snake_case keys for tool output.
func positionBreakdown(position string, fields map[string]float64) map[string]float64 {
	if fields == nil {
		return nil
	}
	pick := func(keys map[string]string) map[string]float64 {
		out := make(map[string]float64, len(keys))
		for outKey, inKey := range keys {
			out[outKey] = round1(fields[inKey])
		}
		return out
	}

	switch position {
	case "QB":
		return pick(map[string]string{
			"passing_attempts":    "passingAttempts",
			"passing_completions": "passingCompletions",
			"passing_yards":       "passingYards",
			"passing_tds":         "passingTouchdowns",
			"rushing_attempts":    "rushingAttempts",
			"rushing_yards":       "rushingYards",
		})
	case "RB", "WR", "TE":
		return pick(map[string]string{
			"rushing_attempts":     "rushingAttempts",
			"rushing_yards":        "rushingYards",
			"rushing_tds":          "rushingTouchdowns",
			"receiving_targets":    "receivingTargets",
			"receiving_receptions": "receivingReceptions",
			"receiving_yards":      "receivingYards",
			"receiving_tds":        "receivingTouchdowns",
		})
	default:
		return nil
	}
}
