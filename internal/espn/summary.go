package espn

import (
	"fmt"
	"sort"
	"strings"
)

// RosterSummary renders the caller's roster as compact text for the
// initial analysis payload: one line per player with weekly
// projection, bye week, and injury flag.
func (s *Service) RosterSummary() string {
	var starters, bench []string
	for _, p := range s.myTeam.Roster {
		if p.LineupSlot == "IR" {
			continue
		}
		line := s.playerLine(p)
		if p.Starter() {
			starters = append(starters, line)
		} else {
			bench = append(bench, line)
		}
	}

	summary := "STARTERS:\n" + strings.Join(starters, "\n")
	if len(bench) > 0 {
		summary += "\n\nBENCH:\n" + strings.Join(bench, "\n")
	}
	return summary
}

func (s *Service) playerLine(p Player) string {
	var b strings.Builder
	if p.Starter() {
		fmt.Fprintf(&b, "%s: ", p.LineupSlot)
	}
	fmt.Fprintf(&b, "%s (%s) - %.1fpts", p.Name, p.Position, p.WeekProjection(s.league.CurrentWeek))
	if bye := p.ByeWeek(); bye > 0 {
		fmt.Fprintf(&b, " (Bye: W%d)", bye)
	}
	if p.InjuryStatus != "" {
		fmt.Fprintf(&b, " [%s]", p.InjuryStatus)
	}
	return b.String()
}

// StandingsSummary renders the league standings as numbered lines,
// best record first, with team IDs for follow-up tool calls.
func (s *Service) StandingsSummary() string {
	teams := make([]*Team, len(s.league.Teams))
	copy(teams, s.league.Teams)
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Wins != teams[j].Wins {
			return teams[i].Wins > teams[j].Wins
		}
		return teams[i].PointsFor > teams[j].PointsFor
	})

	lines := make([]string, 0, len(teams))
	for i, t := range teams {
		lines = append(lines, fmt.Sprintf("%d. %s (%s) - %.1fpts (team_id: %d)",
			i+1, t.Name, formatRecord(t.Wins, t.Losses), round1(t.PointsFor), t.ID))
	}
	return strings.Join(lines, "\n")
}

// Opponent returns the caller's opponent for the current week, or nil
// when there is no matchup (pre-season included).
func (s *Service) Opponent() *Team {
	if s.league.PreSeason() {
		return nil
	}
	for _, m := range s.league.Matchups {
		if m.Week != s.league.CurrentWeek {
			continue
		}
		switch s.myTeam.ID {
		case m.HomeTeamID:
			return s.league.TeamByID(m.AwayTeamID)
		case m.AwayTeamID:
			return s.league.TeamByID(m.HomeTeamID)
		}
	}
	return nil
}

// OpponentSummary renders the current opponent in two lines, or a
// fixed notice when no matchup exists yet.
func (s *Service) OpponentSummary() string {
	opponent := s.Opponent()
	if opponent == nil {
		return "No opponent data available"
	}
	return fmt.Sprintf("%s (%s) - Proj: %.1fpts (team_id: %d)\nUse get_team_details tool for full roster analysis",
		opponent.Name, formatRecord(opponent.Wins, opponent.Losses),
		s.ProjectedStarterTotal(opponent), opponent.ID)
}

// ProjectedStarterTotal sums the weekly projections of a team's
// current starters.
func (s *Service) ProjectedStarterTotal(team *Team) float64 {
	total := 0.0
	for _, p := range team.Roster {
		if !p.Starter() {
			continue
		}
		if ws, ok := p.Stats[s.league.CurrentWeek]; ok {
			total += ws.Projected
		}
	}
	return total
}

// AvgPointsPerWeek is a team's realized scoring rate over completed
// weeks. Zero before any week has completed.
func (s *Service) AvgPointsPerWeek(team *Team) float64 {
	week := s.league.CurrentWeek
	if week <= 1 {
		return 0
	}
	return team.PointsFor / float64(week-1)
}
