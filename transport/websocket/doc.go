// Package websocket pushes live 2048 game updates to browser clients.
//
// The package uses a hub-and-spoke model where a central Hub tracks every
// connection by session ID. Each connection gets a read goroutine that keeps
// it alive and a write goroutine that drains its send queue.
//
// Message Protocol:
//
// Connections are receive-only. Every outgoing frame is one JSON document:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//
// The event is "state_update" after a move or reset, and "won" or
// "game_over" when the game reaches those states. Clients select a session
// with the ?session=ab12 query parameter.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Concurrency:
//
// Broadcasts never block the caller. Messages are queued for the Run loop and
// dropped with a warning when the queue is full. A client whose own send
// buffer is full is disconnected.
package websocket
