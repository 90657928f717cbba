// Package api provides the HTTP REST API for 2048 game sessions.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions             create a session with a new game
//   - GET    /api/sessions             list sessions (?sort=accessed|created|score&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}        session details
//   - DELETE /api/sessions/{id}        remove a session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state      current board and score
//   - POST /api/sessions/{id}/move       {"direction": "left", "reset": false}
//   - POST /api/sessions/{id}/bulk-move  {"directions": ["left", "up"], "reset": false}
//   - POST /api/sessions/{id}/reset      new game, best score kept
//   - GET  /api/sessions/{id}/history    ?page=1&limit=20&order=desc
//
// Other:
//   - GET  /api/health
//   - GET  /ws?session={id}   WebSocket state updates
//   - POST /mcp               MCP JSON-RPC, when a handler is mounted
//   - GET  /metrics           Prometheus, when a path is configured
//
// Error Handling:
//
// Errors are returned as {"error": "message"}. An invalid direction is 400,
// an unknown session is 404, anything else is 500.
//
// Authentication:
//
// With WithAuth every /api route except /api/health, and /mcp, requires
// "Authorization: Bearer <token>". The WebSocket endpoint takes the token as
// ?token= because browsers cannot set headers on the upgrade request.
package api
