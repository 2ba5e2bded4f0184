package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/battleship-online/game/engine"
	"github.com/wricardo/battleship-online/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Battleship Online",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Battleship Online - MCP Interface

This is a thin, read-only client that proxies all requests to the REST API server.
Games are played by two websocket clients; these tools let you watch them.

AVAILABLE TOOLS:
- list_sessions: List active sessions with phase and players
- get_session: Get one session's roster, turn owner and shot counts
- game_rules: Show the active rules and the available presets
- fleet: Show the grid size and the ship catalog
- game_instructions: Explain how a game is played

Ship positions are never exposed.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sort": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"activity", "created"},
					"description": "Sort key (default activity)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of sessions to return",
				},
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Show the active rules and all available rule presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "fleet",
		Description: "Show the grid size and the ships each player places",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleFleet)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get instructions describing how a game is played",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiGet fetches path from the REST API and decodes the JSON response
func (c *Client) apiGet(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// Tool handlers

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	query := url.Values{}
	if sortBy, ok := args["sort"].(string); ok && sortBy != "" {
		query.Set("sort", sortBy)
	}
	if limit, ok := args["limit"].(float64); ok && limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}

	path := "/api/sessions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var response struct {
		Count    int                    `json:"count"`
		Total    int                    `json:"total"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}

	if err := c.apiGet(ctx, path, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionList(response.Sessions, response.Total)), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var info service.SessionInfo
	err := c.apiGet(ctx, "/api/sessions/"+url.PathEscape(sessionID), &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Active  *engine.Rules        `json:"active"`
		Presets []*service.RulesInfo `json:"presets"`
	}

	if err := c.apiGet(ctx, "/api/rules", &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRules(response.Active, response.Presets)), nil
}

func (c *Client) handleFleet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		GridSize int                `json:"grid_size"`
		Ships    []engine.ShipClass `json:"ships"`
	}

	if err := c.apiGet(ctx, "/api/fleet", &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatFleet(response.GridSize, response.Ships)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Battleship Online - Instructions

PAIRING:
- Connect a websocket to /ws and send JoinGame with a display name.
- The first two players to join share a session. A third player starts a new one.

PLACEMENT:
- Each player places the five ships of the fleet on a hidden 10x10 grid.
- Ships lie horizontally or vertically from an anchor cell, fully on the grid,
  and may not overlap your own ships.
- Placing a ship you already placed is acknowledged and ignored.
- AutoPlaceFleet places every ship you have not placed yet at a random legal position.

BATTLE:
- Once both fleets are placed the game starts and the first player to join fires first.
- Fire with MakeMove at a cell of the opponent's grid. You learn hit or miss,
  your opponent learns where you fired.
- Firing at a cell twice does nothing.
- Under the classic rules you keep shooting after a hit and the turn passes on a miss.
  The alternating preset passes the turn after every shot.

LEAVING:
- If your opponent leaves you keep your ships and wait for a new opponent.

Use game_rules to see which preset this server plays and fleet for ship sizes.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionList(sessions []*service.SessionInfo, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d of %d):\n\n", len(sessions), total)
	for _, s := range sessions {
		names := make([]string, 0, len(s.Players))
		for _, p := range s.Players {
			names = append(names, p.Name)
		}
		fmt.Fprintf(&b, "- %s [%s] players: %s (created %s)\n",
			s.ID, s.Phase, strings.Join(names, ", "), s.CreatedAt.Format("15:04:05"))
	}
	return b.String()
}

func formatSessionInfo(info *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nPhase: %s\nCreated: %s\nLast activity: %s\n\n",
		info.ID, info.Phase,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		info.LastActivityAt.Format("2006-01-02 15:04:05"))

	if len(info.Players) == 0 {
		b.WriteString("No players\n")
		return b.String()
	}

	b.WriteString("Players:\n")
	for _, p := range info.Players {
		turn := ""
		if p.Turn {
			turn = " <- to move"
		}
		fmt.Fprintf(&b, "- %s: %d/%d ships placed, %d hits, %d misses%s\n",
			p.Name, p.ShipCount, engine.FleetSize, p.Hits, p.Misses, turn)
	}
	return b.String()
}

func formatRules(active *engine.Rules, presets []*service.RulesInfo) string {
	var b strings.Builder
	if active != nil {
		fmt.Fprintf(&b, "Active rules: %s\n", active.Name)
		if active.Description != "" {
			fmt.Fprintf(&b, "%s\n", active.Description)
		}
		fmt.Fprintf(&b, "Turn passes: %s\n", describeTurnRule(string(active.TurnRule)))
		fmt.Fprintf(&b, "Game ends when a fleet is sunk: %t\n", active.EndWhenFleetSunk)
	}

	fmt.Fprintf(&b, "\nAvailable presets (%d):\n", len(presets))
	for _, p := range presets {
		fmt.Fprintf(&b, "- %s: turn passes %s", p.RulesID, describeTurnRule(p.TurnRule))
		if p.EndWhenFleetSunk {
			b.WriteString(", ends when a fleet is sunk")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func describeTurnRule(rule string) string {
	switch engine.TurnRule(rule) {
	case engine.TurnEvery:
		return "after every shot"
	case engine.TurnOnMiss:
		return "on a miss"
	default:
		return rule
	}
}

func formatFleet(gridSize int, ships []engine.ShipClass) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grid: %dx%d\nFleet (%d ships):\n", gridSize, gridSize, len(ships))
	for _, s := range ships {
		fmt.Fprintf(&b, "- %d %s: %d cells\n", s.ID, s.Name, s.Length)
	}
	return b.String()
}
