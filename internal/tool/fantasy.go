package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"fantasy-advisor/internal/espn"
	"fantasy-advisor/internal/provider"
)

// DataSource is the league data surface the fantasy tools query.
// *espn.Service satisfies it.
type DataSource interface {
	WaiverWire(ctx context.Context, position string, size int) (*espn.WaiverWireResult, error)
	TeamDetails(teamID int) (*espn.TeamDetails, error)
	PlayerStats(playerID int) (*espn.PlayerStats, error)
	// MyTeamID is the caller's own team, used when a lookup omits one.
	MyTeamID() int
}

// NewFantasyRegistry builds a registry with the three fantasy tools
// wired to one data source.
func NewFantasyRegistry(source DataSource) (*Registry, error) {
	registry := NewRegistry()
	for _, t := range []Tool{
		NewWaiverWireTool(source),
		NewTeamDetailsTool(source),
		NewPlayerStatsTool(source),
	} {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// jsonResult marshals a tool payload into a successful ToolResult.
func jsonResult(v interface{}) (*provider.ToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return &provider.ToolResult{Success: true, Output: string(out)}, nil
}

// errorResult reports a domain failure to the model as a tool result.
func errorResult(err error) *provider.ToolResult {
	return &provider.ToolResult{Success: false, Error: err.Error()}
}

// intArg reads a JSON number argument as an int.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// WaiverWireTool lists the best available free agents.
type WaiverWireTool struct {
	source DataSource
}

// NewWaiverWireTool creates a WaiverWireTool backed by the data source.
func NewWaiverWireTool(source DataSource) *WaiverWireTool {
	return &WaiverWireTool{source: source}
}

// Name returns the tool's identifier.
func (t *WaiverWireTool) Name() string {
	return "get_waiver_wire"
}

// Description returns what the tool does.
func (t *WaiverWireTool) Description() string {
	return "Get top available players from the waiver wire, sorted by projected points (highest first), optionally filtered by position"
}

// Parameters returns the JSON Schema for the tool's input.
func (t *WaiverWireTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"position": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"QB", "RB", "WR", "TE", "K", "D/ST"},
				"description": "Position to filter by (optional)",
			},
			"size": map[string]interface{}{
				"type":        "integer",
				"default":     3,
				"minimum":     1,
				"maximum":     10,
				"description": "Number of players to return (default: 3, max: 8)",
			},
		},
	}
}

// Execute looks up the waiver wire.
func (t *WaiverWireTool) Execute(ctx context.Context, args map[string]interface{}) (*provider.ToolResult, error) {
	position, _ := args["position"].(string)
	size, ok := intArg(args, "size")
	if !ok {
		size = 3
	}

	result, err := t.source.WaiverWire(ctx, position, size)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(result)
}

// TeamDetailsTool returns any team's full lineup.
type TeamDetailsTool struct {
	source DataSource
}

// NewTeamDetailsTool creates a TeamDetailsTool backed by the data source.
func NewTeamDetailsTool(source DataSource) *TeamDetailsTool {
	return &TeamDetailsTool{source: source}
}

// Name returns the tool's identifier.
func (t *TeamDetailsTool) Name() string {
	return "get_team_details"
}

// Description returns what the tool does.
func (t *TeamDetailsTool) Description() string {
	return "Get roster information for a specific team including lineup structure with player IDs. Use team_id from league standings. Use get_player_stats tool with player_id for detailed individual player analysis."
}

// Parameters returns the JSON Schema for the tool's input.
func (t *TeamDetailsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"team_id": map[string]interface{}{
				"type":        "integer",
				"description": "The team_id from the league standings. Omit it to get your own team. Example: 123",
			},
		},
	}
}

// Execute looks up one team's details. An omitted team_id means the
// caller's own team; only a present-but-malformed value fails.
func (t *TeamDetailsTool) Execute(ctx context.Context, args map[string]interface{}) (*provider.ToolResult, error) {
	teamID, ok := intArg(args, "team_id")
	if !ok {
		if _, present := args["team_id"]; present {
			return &provider.ToolResult{
				Success: false,
				Error:   "invalid 'team_id' argument, expected an integer",
			}, nil
		}
		teamID = t.source.MyTeamID()
	}

	details, err := t.source.TeamDetails(teamID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(details)
}

// PlayerStatsTool returns one player's weekly breakdown.
type PlayerStatsTool struct {
	source DataSource
}

// NewPlayerStatsTool creates a PlayerStatsTool backed by the data source.
func NewPlayerStatsTool(source DataSource) *PlayerStatsTool {
	return &PlayerStatsTool{source: source}
}

// Name returns the tool's identifier.
func (t *PlayerStatsTool) Name() string {
	return "get_player_stats"
}

// Description returns what the tool does.
func (t *PlayerStatsTool) Description() string {
	return "Get detailed weekly breakdown stats for any player. Useful for analyzing usage trends, projections, and performance patterns. Use the player_id from roster data."
}

// Parameters returns the JSON Schema for the tool's input.
func (t *PlayerStatsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"player_id": map[string]interface{}{
				"type":        "integer",
				"description": "The player_id from roster data. Example: 4426515",
			},
		},
		"required": []string{"player_id"},
	}
}

// Execute looks up one player's stats.
func (t *PlayerStatsTool) Execute(ctx context.Context, args map[string]interface{}) (*provider.ToolResult, error) {
	playerID, ok := intArg(args, "player_id")
	if !ok {
		return &provider.ToolResult{
			Success: false,
			Error:   "missing or invalid 'player_id' argument",
		}, nil
	}

	stats, err := t.source.PlayerStats(playerID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(stats)
}
