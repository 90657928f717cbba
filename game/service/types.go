package service

import (
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// Event types emitted by game operations
const (
	EventMove     = "move"
	EventNoMove   = "no_move"
	EventWon      = "won"
	EventGameOver = "game_over"
	EventReset    = "reset"
)

// Stop reason codes for bulk moves
const (
	StopInvalidDirection = "invalid_direction"
	StopGameOver         = "game_over"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	GameID         string            `json:"game_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	MoveCount      int               `json:"move_count"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"` // the board changed
	Direction string            `json:"direction"`
	Gain      int               `json:"gain"`
	Spawned   *engine.Tile      `json:"spawned,omitempty"`
	GameID    string            `json:"game_id"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`  // moves that changed the board
	MovesAttempted int               `json:"moves_attempted"` // moves processed before stopping
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameID         string            `json:"game_id"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	ScoreDelta     int               `json:"score_delta"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"` // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "move", "no_move", "won", "game_over", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// MoveHistoryEntry records one board-changing move
type MoveHistoryEntry struct {
	MoveNumber int          `json:"move_number"`
	Direction  string       `json:"direction"`
	Gain       int          `json:"gain"`
	ScoreAfter int          `json:"score_after"`
	MaxTile    int          `json:"max_tile"`
	Spawned    *engine.Tile `json:"spawned,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	GameID      string             `json:"game_id"`
	Moves       []MoveHistoryEntry `json:"moves"`
	TotalMoves  int                `json:"total_moves"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	HasNext     bool               `json:"has_next"`
	HasPrevious bool               `json:"has_previous"`
}
