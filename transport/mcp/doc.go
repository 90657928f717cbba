// Package mcp exposes the 2048 game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request to the REST
// API, so agents, browsers and the terminal all see the same sessions. When
// the API requires authentication, pass a bearer token with WithToken.
//
// MCP Tools:
//   - create_session, list_sessions, get_session, delete_session
//   - game_state: board, score and status as text
//   - preview_moves: per-direction outcome computed locally with engine.Preview
//   - move, bulk_move: play one or many moves
//   - reset_game: start a new game in the same session
//   - move_history: paginated board-changing moves
//   - game_instructions: rules and strategy notes
//
// Transport Modes:
//
//	// Stdio
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP, one JSON-RPC message per POST
//	router.Handle("/mcp", client.Handler())
package mcp
