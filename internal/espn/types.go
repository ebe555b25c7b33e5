package espn

// Raw shapes for the fantasy v3 API. Only the fields the advisor
// reads are modeled; the API returns far more.

// Stat line discriminators.
const (
	statSourceActual    = 0
	statSourceProjected = 1
	statSplitSeason     = 0
	statSplitWeekly     = 1
)

type leagueResponse struct {
	ID              int            `json:"id"`
	SeasonID        int            `json:"seasonId"`
	ScoringPeriodID int            `json:"scoringPeriodId"`
	Status          leagueStatus   `json:"status"`
	Settings        leagueSettings `json:"settings"`
	Teams           []teamJSON     `json:"teams"`
	Schedule        []matchupJSON  `json:"schedule"`
}

type leagueStatus struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type leagueSettings struct {
	Name string `json:"name"`
}

type teamJSON struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Nickname string     `json:"nickname"`
	Abbrev   string     `json:"abbrev"`
	Owners   []string   `json:"owners"`
	Record   recordJSON `json:"record"`
	Roster   rosterJSON `json:"roster"`
}

// displayName prefers the single name field newer seasons use, falling
// back to the split location/nickname pair.
func (t teamJSON) displayName() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Location != "" && t.Nickname != "" {
		return t.Location + " " + t.Nickname
	}
	return t.Location + t.Nickname
}

type recordJSON struct {
	Overall overallRecordJSON `json:"overall"`
}

type overallRecordJSON struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	PointsFor     float64 `json:"pointsFor"`
	PointsAgainst float64 `json:"pointsAgainst"`
}

type rosterJSON struct {
	Entries []rosterEntryJSON `json:"entries"`
}

type rosterEntryJSON struct {
	PlayerID        int                 `json:"playerId"`
	LineupSlotID    int                 `json:"lineupSlotId"`
	PlayerPoolEntry playerPoolEntryJSON `json:"playerPoolEntry"`
}

type playerPoolEntryJSON struct {
	Player playerJSON `json:"player"`
}

type playerJSON struct {
	ID                int            `json:"id"`
	FullName          string         `json:"fullName"`
	DefaultPositionID int            `json:"defaultPositionId"`
	ProTeamID         int            `json:"proTeamId"`
	InjuryStatus      string         `json:"injuryStatus"`
	Stats             []statLineJSON `json:"stats"`
}

type statLineJSON struct {
	ScoringPeriodID int                `json:"scoringPeriodId"`
	StatSourceID    int                `json:"statSourceId"`
	StatSplitTypeID int                `json:"statSplitTypeId"`
	AppliedTotal    float64            `json:"appliedTotal"`
	AppliedAverage  float64            `json:"appliedAverage"`
	Stats           map[string]float64 `json:"stats"`
}

type matchupJSON struct {
	MatchupPeriodID int             `json:"matchupPeriodId"`
	Home            matchupSideJSON `json:"home"`
	Away            matchupSideJSON `json:"away"`
}

type matchupSideJSON struct {
	TeamID      int     `json:"teamId"`
	TotalPoints float64 `json:"totalPoints"`
}

type freeAgentsResponse struct {
	Players []playerPoolEntryJSON `json:"players"`
}

// playerFilter is serialized into the X-Fantasy-Filter header to scope
// the free-agent listing.
type playerFilter struct {
	Players playerFilterBody `json:"players"`
}

type playerFilterBody struct {
	FilterStatus  filterValues `json:"filterStatus"`
	Limit         int          `json:"limit"`
	SortPercOwned sortSpec     `json:"sortPercOwned"`
}

type filterValues struct {
	Value []string `json:"value"`
}

type sortSpec struct {
	SortAsc      bool `json:"sortAsc"`
	SortPriority int  `json:"sortPriority"`
}
