package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/letterboxed/game/service"
	"github.com/wricardo/letterboxed/game/stats"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Letter Boxed",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Letter Boxed - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Twelve letters sit on the four sides of a square, three per side. Build a
chain of words until every letter has been used at least once.

RULES:
- Consecutive letters must come from different sides of the square.
- Each word after the first must start with the last letter of the
  previous word.
- Words must have at least 2 letters and be in the dictionary.

AVAILABLE TOOLS:
- daily_puzzle: Get today's letter square
- game_state: Get the current session state
- select_letter: Append a letter to the current word
- delete_letter: Remove the most recent letter
- submit_word: Complete the current word
- restart_game: Reset the session to a fresh state
- get_stats: Get solve history and streak
- game_instructions: Full rules and strategy notes

All game tools take an optional 'date' (YYYY-MM-DD); it defaults to
today's puzzle.`),
	)

	c.registerTools()
}

// dateProperty is shared by every session-scoped tool.
func dateProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Puzzle date (YYYY-MM-DD), defaults to today",
	}
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "daily_puzzle",
		Description: "Get the daily letter square",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": dateProperty(),
			},
		},
	}, c.handleDailyPuzzle)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": dateProperty(),
			},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_letter",
		Description: "Append a letter to the current word. Identify the letter by char, or by side and index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": dateProperty(),
				"char": map[string]interface{}{
					"type":        "string",
					"description": "Letter to select, e.g. \"A\"",
				},
				"side": map[string]interface{}{
					"type":        "integer",
					"description": "Side of the square (0=top, 1=right, 2=bottom, 3=left)",
				},
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Position on the side (0-2)",
				},
			},
		},
	}, c.handleSelectLetter)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_letter",
		Description: "Remove the most recent letter. When the current word is down to its chain letter, the previous word is reopened for editing.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": dateProperty(),
			},
		},
	}, c.handleDeleteLetter)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_word",
		Description: "Complete the current word. The word must be at least 2 letters and in the dictionary.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": dateProperty(),
			},
		},
	}, c.handleSubmitWord)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Reset the session to a fresh state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"date": dateProperty(),
			},
		},
	}, c.handleRestartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_stats",
		Description: "Get solve history, total wins and current streak",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGetStats)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full game rules and strategy notes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// 422 carries a PlayResult rejection body, not an error object
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnprocessableEntity {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func argsMap(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func dateArg(request mcp.CallToolRequest) string {
	date, _ := argsMap(request)["date"].(string)
	if date == "" {
		return "today"
	}
	return date
}

// Tool handlers

func (c *Client) handleDailyPuzzle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/daily"
	if date, _ := argsMap(request)["date"].(string); date != "" {
		path += "?date=" + date
	}

	var info service.PuzzleInfo
	if err := c.apiCall("GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPuzzle(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state service.StateInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", dateArg(request)), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handleSelectLetter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsMap(request)

	body := map[string]interface{}{}
	if char, ok := args["char"].(string); ok && char != "" {
		body["char"] = char
	}
	if side, ok := args["side"].(float64); ok {
		body["side"] = int(side)
	}
	if index, ok := args["index"].(float64); ok {
		body["index"] = int(index)
	}

	var result service.PlayResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/select", dateArg(request)), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlayResult(&result)), nil
}

func (c *Client) handleDeleteLetter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.PlayResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/delete", dateArg(request)), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlayResult(&result)), nil
}

func (c *Client) handleSubmitWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var result service.PlayResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/submit", dateArg(request)), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPlayResult(&result)), nil
}

func (c *Client) handleRestartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Message string             `json:"message"`
		State   *service.StateInfo `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/restart", dateArg(request)), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var userStats stats.UserStats
	if err := c.apiCall("GET", "/api/stats", nil, &userStats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStats(&userStats)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Letter Boxed - Complete Instructions

GAME OBJECTIVE:
Use every one of the twelve letters on the square at least once by
chaining words together.

THE SQUARE:
Twelve letters are arranged on the four sides of a square, three per
side. Sides are numbered 0 (top), 1 (right), 2 (bottom), 3 (left). A
letter is identified by its side and its position on that side (0-2).

BUILDING WORDS:
- Letters are selected one at a time with select_letter.
- Consecutive letters must come from DIFFERENT sides. You can return to
  a side later in the word, just never twice in a row.
- Letters may be reused within and across words.
- submit_word completes the word. It must be at least 2 letters long and
  present in the dictionary.
- After an accepted word, the next word starts with the accepted word's
  last letter. That chain letter is placed for you.

EDITING:
- delete_letter removes the most recent letter.
- Deleting past the chain letter reopens the previous word for editing;
  letters used only by that word become unused again.
- restart_game clears everything for a fresh attempt.

WINNING:
The game is won the moment an accepted word brings the count of used
letters to twelve. Fewer words is a better score; the daily puzzle is
always solvable in two.

STRATEGY NOTES:
- Aim for long words that cover rare letters first.
- Watch the chain: a word ending in a rare letter can strand you.
- The last letter of your word determines which side is blocked for the
  next word's first letter; plan one word ahead.

STATS:
A solve is recorded once per calendar day; replays never overwrite the
first solve. The streak counts consecutive solved days.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatters

func sideName(side int) string {
	switch side {
	case 0:
		return "top"
	case 1:
		return "right"
	case 2:
		return "bottom"
	case 3:
		return "left"
	}
	return fmt.Sprintf("side %d", side)
}

func formatSides(sides [4]string) string {
	var b strings.Builder
	for i, letters := range sides {
		fmt.Fprintf(&b, "  %s (%d): %s\n", sideName(i), i, strings.Join(strings.Split(letters, ""), " "))
	}
	return b.String()
}

func formatPuzzle(info *service.PuzzleInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle for %s:\n%s", info.Date, formatSides(info.Sides))
	if info.Solved {
		b.WriteString("Already solved today.\n")
	}
	return b.String()
}

func formatState(state *service.StateInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Puzzle %s:\n%s", state.Date, formatSides(state.Sides))

	if len(state.CompletedWords) > 0 {
		fmt.Fprintf(&b, "Completed words: %s\n", strings.Join(state.CompletedWords, " -> "))
	}
	fmt.Fprintf(&b, "Current word: %q\n", state.CurrentWord)
	fmt.Fprintf(&b, "Letters used: %d/12\n", state.LettersUsed)

	if state.Won {
		b.WriteString("Status: SOLVED\n")
	} else if state.LastWordEndSide >= 0 && state.CurrentWord == "" {
		fmt.Fprintf(&b, "Next letter may not come from the %s side.\n", sideName(state.LastWordEndSide))
	} else if state.SelectedSide >= 0 {
		fmt.Fprintf(&b, "Next letter may not come from the %s side.\n", sideName(state.SelectedSide))
	}
	return b.String()
}

func formatPlayResult(result *service.PlayResult) string {
	if !result.Success {
		return fmt.Sprintf("Rejected (%s): %s\n\n%s", result.Code, result.Message, formatState(result.State))
	}

	var b strings.Builder
	if result.Word != "" {
		fmt.Fprintf(&b, "Accepted %q.\n", result.Word)
	}
	if result.Won && result.Solve != nil {
		fmt.Fprintf(&b, "Solved in %d words (%ds). Streak: %d.\n",
			result.Solve.WordCount, result.Solve.SolveSeconds, result.Solve.Streak)
	}
	b.WriteString(formatState(result.State))
	return b.String()
}

func formatStats(s *stats.UserStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total wins: %d\nCurrent streak: %d\n", s.TotalWins, s.Streak)
	if s.LastPlayedDate != "" {
		fmt.Fprintf(&b, "Last played: %s\n", s.LastPlayedDate)
	}
	if len(s.Solves) > 0 {
		b.WriteString("\nRecent solves:\n")
		for date, rec := range s.Solves {
			fmt.Fprintf(&b, "  %s: %d words (%s)\n", date, rec.WordCount, strings.Join(rec.Words, ", "))
		}
	}
	return b.String()
}
