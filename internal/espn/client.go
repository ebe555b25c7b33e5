// Package espn fetches and normalizes fantasy football league data
// from the ESPN fantasy v3 API.
package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"fantasy-advisor/internal/retry"
)

const (
	// DefaultBaseURL is the public fantasy API endpoint.
	DefaultBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultFreeAgentFetchSize is how many free agents one page asks for.
	DefaultFreeAgentFetchSize = 75
)

var (
	// ErrUnauthorized indicates the espn_s2/SWID cookies were rejected.
	ErrUnauthorized = errors.New("espn: credentials rejected")
	// ErrNotFound indicates the league or resource does not exist.
	ErrNotFound = errors.New("espn: not found")
	// ErrUnavailable indicates a transient upstream failure.
	ErrUnavailable = errors.New("espn: service unavailable")
)

// Client talks to the fantasy API for one league and season.
// Private leagues require the espn_s2 and SWID cookies.
type Client struct {
	leagueID int
	year     int
	espnS2   string
	swid     string
	client   *http.Client
	baseURL  string
	policy   retry.Policy
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithRetryPolicy overrides the retry schedule for API calls.
func WithRetryPolicy(p retry.Policy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// NewClient creates a client for one league. The cookies may be empty
// for public leagues.
func NewClient(leagueID, year int, espnS2, swid string, opts ...ClientOption) (*Client, error) {
	if leagueID <= 0 {
		return nil, errors.New("espn: league ID must be positive")
	}
	if year <= 0 {
		return nil, errors.New("espn: year must be positive")
	}

	c := &Client{
		leagueID: leagueID,
		year:     year,
		espnS2:   espnS2,
		swid:     swid,
		client:   &http.Client{Timeout: DefaultTimeout},
		baseURL:  DefaultBaseURL,
		policy:   retry.DefaultPolicy(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SWID returns the SWID cookie the client authenticates with.
func (c *Client) SWID() string {
	return c.swid
}

// FetchLeague retrieves and normalizes the full league snapshot:
// teams, rosters, the schedule, and league settings.
func (c *Client) FetchLeague(ctx context.Context) (*League, error) {
	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d?view=mTeam&view=mRoster&view=mMatchup&view=mSettings&view=mStatus",
		c.baseURL, c.year, c.leagueID)

	var raw leagueResponse
	if err := c.getJSON(ctx, url, "", &raw); err != nil {
		return nil, err
	}

	league := newLeague(&raw)
	slog.Debug("fetched league snapshot",
		"league", league.Name,
		"year", league.Year,
		"teams", len(league.Teams),
		"week", league.CurrentWeek,
	)
	return league, nil
}

// FetchFreeAgents retrieves unrostered players for the given scoring
// period, sorted by ownership. The size caps how many the API returns.
func (c *Client) FetchFreeAgents(ctx context.Context, week, size int) ([]Player, error) {
	if size <= 0 {
		size = DefaultFreeAgentFetchSize
	}

	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d?view=kona_player_info&scoringPeriodId=%d",
		c.baseURL, c.year, c.leagueID, week)

	filter := playerFilter{
		Players: playerFilterBody{
			FilterStatus:  filterValues{Value: []string{"FREEAGENT", "WAIVERS"}},
			Limit:         size,
			SortPercOwned: sortSpec{SortAsc: false, SortPriority: 1},
		},
	}
	filterJSON, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("espn: failed to marshal player filter: %w", err)
	}

	var raw freeAgentsResponse
	if err := c.getJSON(ctx, url, string(filterJSON), &raw); err != nil {
		return nil, err
	}

	players := make([]Player, 0, len(raw.Players))
	for _, entry := range raw.Players {
		players = append(players, newPlayer(entry.Player, slotBench))
	}
	return players, nil
}

// getJSON performs a retried GET and decodes the body into out.
// A non-empty filter is sent as the X-Fantasy-Filter header.
func (c *Client) getJSON(ctx context.Context, url, filter string, out interface{}) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("espn: failed to create HTTP request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if filter != "" {
			req.Header.Set("X-Fantasy-Filter", filter)
		}
		if c.espnS2 != "" {
			req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.espnS2})
		}
		if c.swid != "" {
			req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
		}

		if resp.StatusCode != http.StatusOK {
			return c.handleErrorResponse(resp.StatusCode, body)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("espn: failed to parse response: %w", err)
		}
		return nil
	}

	return c.policy.Do(ctx, op, IsRetryable)
}

// handleErrorResponse maps non-200 responses onto the package's
// sentinel errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrUnauthorized, statusCode)
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w (status %d)", ErrNotFound, statusCode)
	case statusCode == http.StatusTooManyRequests || statusCode >= 500:
		return fmt.Errorf("%w (status %d): %s", ErrUnavailable, statusCode, truncate(body, 200))
	default:
		return fmt.Errorf("espn: API error (status %d): %s", statusCode, truncate(body, 200))
	}
}

// IsRetryable reports whether an error from this package is a
// transient failure worth retrying.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "... (" + strconv.Itoa(len(b)) + " bytes)"
}
