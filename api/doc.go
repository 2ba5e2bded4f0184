// Package api provides the HTTP surface for Battleship Online.
//
// Gameplay happens over the WebSocket at /ws. The REST endpoints are
// read-only introspection for dashboards, tests and the MCP client, and never
// expose ship positions.
//
// Endpoints:
//   - GET /api/health - Liveness check
//   - GET /api/sessions - List sessions (?sort=activity|created&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - One session: phase, players, ship counts, turn, hits and misses
//   - GET /api/rules - Active rules and available presets
//   - GET /api/fleet - Grid size and ship catalog
//   - /ws - WebSocket upgrade for game clients
//
// Extra handlers such as the /mcp proxy are mounted with Handle, and
// ServeStatic adds a catch-all file server for the browser client.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	server.Handle("/mcp", mcpHandler, "POST")
//	server.ServeStatic("./static/")
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with an appropriate HTTP status code:
//
//	{"error": "get session ffffffff: session not found"}
package api
