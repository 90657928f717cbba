// Package service provides the business logic layer for the 2048 server.
//
// The service package implements:
//   - Multi-session game management
//   - Move processing and direction parsing
//   - Per-round move history with pagination
//   - Win announcement exactly once per round
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// MetricsRecorder receives gameplay counters when metrics are enabled.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine; the service adds the
// round identity (a UUID regenerated on every reset), the move history and the
// "won" latch. The engine reports IsWon on every call while a 2048 tile is on
// the board, so the service remembers whether the current round already
// emitted its won event.
//
// Usage:
//
//	sessionMgr := session.NewManager(factory)
//	gameService := service.NewGameService(sessionMgr, service.WithMetrics(recorder))
//
//	info, err := gameService.CreateSession(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "left", false)
//
// Events:
//
// Moves report "move" or "no_move", followed by "won" on the first move of a
// round that creates a 2048 tile and "game_over" when no move remains.
// Resets report "reset".
package service
