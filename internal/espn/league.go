package espn

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Lineup slot IDs used by the fantasy API.
const (
	slotQB    = 0
	slotRB    = 2
	slotWR    = 4
	slotTE    = 6
	slotFlex  = 23
	slotDST   = 16
	slotK     = 17
	slotBench = 20
	slotIR    = 21
)

var slotNames = map[int]string{
	slotQB:    "QB",
	slotRB:    "RB",
	3:         "RB/WR",
	slotWR:    "WR",
	5:         "WR/TE",
	slotTE:    "TE",
	7:         "OP",
	slotDST:   "D/ST",
	slotK:     "K",
	slotBench: "BE",
	slotIR:    "IR",
	slotFlex:  "RB/WR/TE",
}

var positionNames = map[int]string{
	1:  "QB",
	2:  "RB",
	3:  "WR",
	4:  "TE",
	5:  "K",
	16: "D/ST",
}

var proTeamNames = map[int]string{
	1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL",
	7: "DEN", 8: "DET", 9: "GB", 10: "TEN", 11: "IND", 12: "KC",
	13: "LV", 14: "LAR", 15: "MIA", 16: "MIN", 17: "NE", 18: "NO",
	19: "NYG", 20: "NYJ", 21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC",
	25: "SF", 26: "SEA", 27: "TB", 28: "WSH", 29: "CAR", 30: "JAX",
	33: "BAL", 34: "HOU",
}

// byeWeeks maps NFL team abbreviations to their 2025 bye week.
var byeWeeks = map[string]int{
	"ARI": 8, "ATL": 5, "BAL": 7, "BUF": 7, "CAR": 14, "CHI": 5,
	"CIN": 10, "CLE": 9, "DAL": 10, "DEN": 12, "DET": 8, "GB": 5,
	"HOU": 6, "IND": 11, "JAX": 8, "KC": 10, "LV": 8, "LAC": 12,
	"LAR": 8, "MIA": 12, "MIN": 6, "NE": 14, "NO": 11, "NYG": 14,
	"NYJ": 9, "PHI": 9, "PIT": 5, "SF": 14, "SEA": 8, "TB": 9,
	"TEN": 10, "WSH": 12,
}

// Stat IDs for the box-score breakdown fields surfaced to the model.
var statFieldNames = map[string]string{
	"0":  "passingAttempts",
	"1":  "passingCompletions",
	"3":  "passingYards",
	"4":  "passingTouchdowns",
	"23": "rushingAttempts",
	"24": "rushingYards",
	"25": "rushingTouchdowns",
	"42": "receivingYards",
	"43": "receivingTouchdowns",
	"53": "receivingReceptions",
	"58": "receivingTargets",
}

// starterSlotOrder fixes the display order of starting lineup slots.
var starterSlotOrder = []string{"QB", "RB", "WR", "TE", "RB/WR/TE", "K", "D/ST"}

// League is a normalized snapshot of one fantasy league for one season.
type League struct {
	ID          int
	Year        int
	Name        string
	CurrentWeek int
	Teams       []*Team
	Matchups    []Matchup
}

// Team is one fantasy roster in the league.
type Team struct {
	ID            int
	Name          string
	Abbrev        string
	Wins          int
	Losses        int
	PointsFor     float64
	PointsAgainst float64
	OwnerIDs      []string
	Roster        []Player
}

// Player is one rostered or free-agent player.
type Player struct {
	ID                 int
	Name               string
	Position           string
	ProTeam            string
	LineupSlot         string
	InjuryStatus       string
	ProjectedAvgPoints float64
	Stats              map[int]WeekStats
}

// WeekStats holds one scoring period's projected and actual output.
type WeekStats struct {
	Projected          float64
	Actual             float64
	ProjectedBreakdown map[string]float64
}

// Matchup pairs two teams for one scoring period.
type Matchup struct {
	Week       int
	HomeTeamID int
	AwayTeamID int
}

// PreSeason reports whether the season has not started yet. Callers
// treat this as a reduced-capability state, not an error.
func (l *League) PreSeason() bool {
	return l.CurrentWeek == 0
}

// TeamByID returns the team with the given ID, or nil.
func (l *League) TeamByID(id int) *Team {
	for _, t := range l.Teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// IdentifyTeam finds the caller's team by matching the SWID cookie
// against team owner IDs. Braces and case are ignored on both sides.
// Returns nil when no owner matches.
func (l *League) IdentifyTeam(swid string) *Team {
	target := normalizeOwnerID(swid)
	if target == "" {
		return nil
	}
	for _, t := range l.Teams {
		for _, owner := range t.OwnerIDs {
			if normalizeOwnerID(owner) == target {
				return t
			}
		}
	}
	return nil
}

func normalizeOwnerID(id string) string {
	return strings.ToUpper(strings.Trim(id, "{}"))
}

// ByeWeek returns the player's NFL bye week, or 0 when unknown.
func (p *Player) ByeWeek() int {
	return byeWeeks[p.ProTeam]
}

// Starter reports whether the player occupies a scoring lineup slot.
func (p *Player) Starter() bool {
	return p.LineupSlot != "BE" && p.LineupSlot != "IR"
}

// WeekProjection returns the player's projected points for the given
// week, falling back to the season projected average when no weekly
// projection exists.
func (p *Player) WeekProjection(week int) float64 {
	if ws, ok := p.Stats[week]; ok && ws.Projected != 0 {
		return ws.Projected
	}
	return p.ProjectedAvgPoints
}

// newLeague normalizes a raw league payload into the domain model.
func newLeague(raw *leagueResponse) *League {
	// The scoring period is 0 before the season starts, which is how
	// pre-season is detected downstream.
	week := raw.ScoringPeriodID
	if raw.Status.FinalScoringPeriod > 0 && week > raw.Status.FinalScoringPeriod {
		week = raw.Status.FinalScoringPeriod
	}

	l := &League{
		ID:          raw.ID,
		Year:        raw.SeasonID,
		Name:        raw.Settings.Name,
		CurrentWeek: week,
	}

	for _, tj := range raw.Teams {
		t := &Team{
			ID:            tj.ID,
			Name:          tj.displayName(),
			Abbrev:        tj.Abbrev,
			Wins:          tj.Record.Overall.Wins,
			Losses:        tj.Record.Overall.Losses,
			PointsFor:     tj.Record.Overall.PointsFor,
			PointsAgainst: tj.Record.Overall.PointsAgainst,
			OwnerIDs:      tj.Owners,
		}
		for _, entry := range tj.Roster.Entries {
			t.Roster = append(t.Roster, newPlayer(entry.PlayerPoolEntry.Player, entry.LineupSlotID))
		}
		l.Teams = append(l.Teams, t)
	}

	for _, mj := range raw.Schedule {
		if mj.Home.TeamID == 0 && mj.Away.TeamID == 0 {
			continue
		}
		l.Matchups = append(l.Matchups, Matchup{
			Week:       mj.MatchupPeriodID,
			HomeTeamID: mj.Home.TeamID,
			AwayTeamID: mj.Away.TeamID,
		})
	}

	return l
}

func newPlayer(pj playerJSON, lineupSlotID int) Player {
	p := Player{
		ID:           pj.ID,
		Name:         pj.FullName,
		Position:     positionNames[pj.DefaultPositionID],
		ProTeam:      proTeamNames[pj.ProTeamID],
		LineupSlot:   slotNames[lineupSlotID],
		InjuryStatus: pj.InjuryStatus,
		Stats:        make(map[int]WeekStats),
	}
	if p.Position == "" {
		p.Position = "N/A"
	}
	if p.ProTeam == "" {
		p.ProTeam = "N/A"
	}
	if p.LineupSlot == "" {
		p.LineupSlot = "BE"
	}

	for _, line := range pj.Stats {
		// Season-level rows carry the projected average; weekly rows
		// carry the per-week projection and actual score.
		if line.StatSplitTypeID == statSplitSeason {
			if line.StatSourceID == statSourceProjected && line.ScoringPeriodID == 0 {
				p.ProjectedAvgPoints = line.AppliedAverage
			}
			continue
		}
		if line.StatSplitTypeID != statSplitWeekly {
			continue
		}
		ws := p.Stats[line.ScoringPeriodID]
		switch line.StatSourceID {
		case statSourceActual:
			ws.Actual = line.AppliedTotal
		case statSourceProjected:
			ws.Projected = line.AppliedTotal
			ws.ProjectedBreakdown = namedStatFields(line.Stats)
		}
		p.Stats[line.ScoringPeriodID] = ws
	}

	return p
}

// namedStatFields keeps only the breakdown stats the advisor reports,
// keyed by readable names instead of numeric stat IDs.
func namedStatFields(stats map[string]float64) map[string]float64 {
	if len(stats) == 0 {
		return nil
	}
	named := make(map[string]float64)
	for id, value := range stats {
		if name, ok := statFieldNames[id]; ok {
			named[name] = value
		}
	}
	if len(named) == 0 {
		return nil
	}
	return named
}

// sortStarters orders starters by lineup slot, matching the order a
// roster page displays them in.
func sortStarters(players []Player) {
	rank := func(slot string) int {
		for i, s := range starterSlotOrder {
			if s == slot {
				return i
			}
		}
		return len(starterSlotOrder)
	}
	sort.SliceStable(players, func(i, j int) bool {
		return rank(players[i].LineupSlot) < rank(players[j].LineupSlot)
	})
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatRecord(wins, losses int) string {
	return strconv.Itoa(wins) + "-" + strconv.Itoa(losses)
}
