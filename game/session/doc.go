// Package session provides session management for the 2048 server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Expiration of idle sessions
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine, built by the EngineFactory given
// to NewManager, so every session shares the configured best-score store
// while keeping an independent board.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive and generated IDs are retried on collision.
//
// Usage:
//
//	manager := session.NewManager(func() *engine.GameEngine {
//		return engine.NewEngine(store, engine.NewRand())
//	})
//
//	sess, err := manager.Create("")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	removed := manager.CleanupExpiredSessions(time.Hour)
//
// Sessions live in memory only; a restart starts with no sessions.
package session
