// Package mcp exposes Battleship Online to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool calls the REST API and formats the
// JSON answer as text. It never touches game state directly, so it works the
// same against an in-process server or a remote one.
//
// MCP Tools:
//   - list_sessions: active sessions with phase and player names
//   - get_session: roster, turn owner and shot counts of one session
//   - game_rules: active rules and the available presets
//   - fleet: grid size and ship catalog
//   - game_instructions: how a game is played
//
// All tools are read-only and never reveal ship positions.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
