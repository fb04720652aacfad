package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
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
		"Rusty World",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Rusty World - MCP Interface

A shared grid world of tiles and robots. Every tool proxies to the REST API,
so changes made here show up in the terminal view and on the /ws feed.

COORDINATES:
x grows to the right, y grows downward. (0,0) is the top-left corner.
"forward" moves a robot down the screen (y+step), "backward" moves it up (y-1).

AVAILABLE TOOLS:
- add_robot: Place a new robot at (0,0)
- list_robots: List every robot with position and charge
- get_robot: Get the position of one robot
- move_robot: Move a robot forward(step 0..3)/backward/left/right
- add_tile: Place a Wall, ChargePad or Empty tile
- world_info: Dimensions, robot list and tile counts
- world_frame: The rendered frame, one text line per row
- save_world: Persist a snapshot now`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Robots
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_robot",
		Description: "Add a robot to the world. New robots start at (0,0) with a full charge.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Unique robot name",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleAddRobot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_robots",
		Description: "List all robots in the world",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRobots)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_robot",
		Description: "Get the current position of a robot",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Robot name",
				},
			},
			Required: []string{"name"},
		},
	}, c.handleGetRobot)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_robot",
		Description: "Move a robot. Forward accepts a step between 0 and 3; larger steps are rejected and the robot stays put.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Robot name",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"forward", "backward", "left", "right"},
					"description": "Direction to move",
				},
				"step": map[string]interface{}{
					"type":        "integer",
					"description": "Number of cells for forward moves (0-3)",
				},
			},
			Required: []string{"name", "direction"},
		},
	}, c.handleMoveRobot)

	// Tiles
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "add_tile",
		Description: "Place a tile at a position, replacing whatever tile was there",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tile": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(engine.Empty), string(engine.Wall), string(engine.ChargePad)},
					"description": "Tile kind",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row)",
				},
			},
			Required: []string{"tile", "x", "y"},
		},
	}, c.handleAddTile)

	// World
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "world_info",
		Description: "Get world dimensions, robots and tile counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleWorldInfo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "world_frame",
		Description: "Render the world as text. W is a wall, C a charge pad, R a robot.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleWorldFrame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_world",
		Description: "Persist a snapshot of the world immediately",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleSaveWorld)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single JSON-RPC messages posted to it
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
}

// apiCall makes an HTTP call to the REST API. A text result receives the raw
// response body.
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
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

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	switch out := result.(type) {
	case nil:
		return nil
	case *string:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*out = string(data)
		return nil
	default:
		return json.NewDecoder(resp.Body).Decode(result)
	}
}

func robotPath(name string, suffix string) string {
	return "/api/robots/" + url.PathEscape(name) + suffix
}

// arguments returns the tool call arguments, or an empty map when the call
// carried none
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// Tool handlers

func (c *Client) handleAddRobot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["name"].(string)

	var robot service.RobotInfo
	err := c.apiCall(ctx, "POST", "/api/robots", map[string]string{"name": name}, &robot)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added robot %s\n%s", robot.Name, formatRobot(robot))), nil
}

func (c *Client) handleListRobots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count  int                 `json:"count"`
		Robots []service.RobotInfo `json:"robots"`
	}

	err := c.apiCall(ctx, "GET", "/api/robots", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Robots (%d):\n\n", response.Count)
	for _, robot := range response.Robots {
		result += "- " + formatRobot(robot) + "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRobot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	var response struct {
		Name string `json:"name"`
		X    int32  `json:"x"`
		Y    int32  `json:"y"`
	}
	err := c.apiCall(ctx, "GET", robotPath(name, ""), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pos := engine.NewPosition(response.X, response.Y)
	return mcp.NewToolResultText(fmt.Sprintf("%s is at %s", response.Name, pos)), nil
}

func (c *Client) handleMoveRobot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	name, _ := args["name"].(string)
	direction, _ := args["direction"].(string)
	step, _ := args["step"].(float64)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	body := map[string]interface{}{
		"direction": direction,
		"step":      int(step),
	}

	var result service.MoveResult
	err := c.apiCall(ctx, "POST", robotPath(name, "/move"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleAddTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	tile, _ := args["tile"].(string)
	x, _ := args["x"].(float64)
	y, _ := args["y"].(float64)

	body := map[string]interface{}{
		"tile": tile,
		"x":    int32(x),
		"y":    int32(y),
	}

	var placed service.TileInfo
	err := c.apiCall(ctx, "POST", "/api/tiles", body, &placed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pos := engine.NewPosition(placed.X, placed.Y)
	return mcp.NewToolResultText(fmt.Sprintf("Placed %s at %s", placed.Tile, pos)), nil
}

func (c *Client) handleWorldInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var info service.WorldInfo
	err := c.apiCall(ctx, "GET", "/api/world", nil, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatWorldInfo(&info)), nil
}

func (c *Client) handleWorldFrame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var frame string
	err := c.apiCall(ctx, "GET", "/api/world/frame", nil, &frame)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(frame), nil
}

func (c *Client) handleSaveWorld(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response map[string]string
	err := c.apiCall(ctx, "POST", "/api/world/save", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response["message"]), nil
}

// Formatting helpers

func formatRobot(robot service.RobotInfo) string {
	pos := engine.NewPosition(robot.X, robot.Y)
	return fmt.Sprintf("%s at %s, charge %d/%d", robot.Name, pos, robot.Charge, engine.MaxCharge)
}

func formatMoveResult(result *service.MoveResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Moved %s %s\n", result.Robot.Name, result.Direction)
	fmt.Fprintf(&sb, "From: %s\n", result.From)
	fmt.Fprintf(&sb, "To:   %s\n", result.To)
	if result.From == result.To {
		sb.WriteString("Position unchanged\n")
	}

	return sb.String()
}

func formatWorldInfo(info *service.WorldInfo) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "World: %d rows x %d columns\n", info.Height, info.Width)
	fmt.Fprintf(&sb, "Tiles: %d\n", info.Tiles)

	kinds := make([]string, 0, len(info.TileCounts))
	for tile := range info.TileCounts {
		kinds = append(kinds, string(tile))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(&sb, "  %s: %d\n", kind, info.TileCounts[engine.Tile(kind)])
	}

	fmt.Fprintf(&sb, "Robots: %d\n", len(info.Robots))
	for _, robot := range info.Robots {
		sb.WriteString("  " + formatRobot(robot) + "\n")
	}

	return sb.String()
}
