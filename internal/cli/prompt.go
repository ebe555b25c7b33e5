package cli

import (
	"fmt"
	"strings"
	"time"

	"fantasy-advisor/internal/espn"
)

// Instructions is the system prompt that frames the model as a
// fantasy football analyst and governs its tool use and output.
const Instructions = `You are an expert fantasy football analyst with deep NFL knowledge. You combine statistical analysis with understanding of matchups, injuries, bye weeks, and game script to provide actionable fantasy advice.

IMPORTANT: The initial data provided is intentionally concise to optimize token usage. Use the available tools strategically to gather detailed information as needed:

- get_waiver_wire: Find top available players (use position filter for focused searches)
- get_team_details: Get full roster details for any team using team_id from standings
- get_player_stats: Get detailed weekly stats breakdown for any player using player_id

Start your analysis with the provided summary data, then use tools to drill down into areas that need deeper investigation. Focus on high-impact decisions and actionable recommendations.

CRITICAL OUTPUT FORMATTING RULES:
- NEVER include URLs, links, or web addresses in your output
- NEVER include citations, sources, or references like ([website.com]) or [website.com](url)
- NEVER include domain names or source attributions
- DO NOT add any form of citation such as "(Source: ...)" or "(via ...)" or "(from ...)"
- Present all information as YOUR expert analysis, not as sourced content
- Write with authority as the fantasy football expert providing original analysis

Example of INCORRECT output (DO NOT DO THIS):
"Justin Fields has rushing upside ([nypost.com](url))"
"According to ESPN, the player is injured"
"(Source: NFL.com)"

Example of CORRECT output (DO THIS):
"Justin Fields has rushing upside in this matchup"
"The player is dealing with an injury"
"Weather conditions favor the passing game"

Remember: You are THE expert providing analysis. All insights should be presented as your professional assessment without any citations or source references.`

// BuildPrompt assembles the initial analysis payload: compact roster,
// opponent, and standings summaries plus the requested report shape.
func BuildPrompt(svc *espn.Service, now time.Time) string {
	league := svc.League()
	myTeam := svc.MyTeam()

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this fantasy football team and provide actionable recommendations for Week %d.\n\n", league.CurrentWeek)
	fmt.Fprintf(&b, "%d SEASON - WEEK %d | %s\n", league.Year, league.CurrentWeek, now.Format("January 02, 2006"))
	fmt.Fprintf(&b, "Team: %s | Record: %d-%d | Points For: %.1f | Avg/Week: %.1f\n",
		myTeam.Name, myTeam.Wins, myTeam.Losses, myTeam.PointsFor, svc.AvgPointsPerWeek(myTeam))
	fmt.Fprintf(&b, "Projected Total (starters): %.1f\n\n", svc.ProjectedStarterTotal(myTeam))

	fmt.Fprintf(&b, "MY ROSTER:\n%s\n\n", svc.RosterSummary())
	fmt.Fprintf(&b, "OPPONENT:\n%s\n\n", svc.OpponentSummary())
	fmt.Fprintf(&b, "LEAGUE STANDINGS:\n%s\n\n", svc.StandingsSummary())

	fmt.Fprintf(&b, `Tools available for deeper analysis:
- get_waiver_wire: Find top available players, optionally filtered by position
- get_team_details: Analyze any team's roster using their team_id from standings above
- get_player_stats: Get detailed weekly breakdown stats for any player by player_id

Use these tools to enhance your analysis and identify opportunities.

Provide recommendations in these sections:

## EXECUTIVE SUMMARY
Key insights and most critical decisions for this week.

## STARTING LINEUP
Optimal lineup with brief reasoning for key decisions. Consider injuries, matchups, bye weeks, and recent performance.

## ROSTER MOVES
Use the get_waiver_wire tool to find available players, then provide specific add/drop recommendations. Consider upcoming bye weeks when evaluating long-term roster needs.

## MATCHUP STRATEGY
How to approach this specific opponent and maximize win probability.

## ACTION ITEMS
Prioritized list of moves to make immediately.

Be specific with player names and confident in recommendations. Focus on what matters most for winning this week.`)

	return b.String()
}
