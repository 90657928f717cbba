package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Count() int
}

// MetricsRecorder receives gameplay counters. A nil recorder disables metrics.
type MetricsRecorder interface {
	MoveApplied(direction string, moved bool, gain int)
	GameWon()
	GameOver()
	SessionsActive(n int)
}

// Session represents an active game session.
// History, GameID and the win latch are owned by the service and guarded by
// its lock; LastAccessedAt is written only through SessionManager.
type Session struct {
	ID             string
	GameID         string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time

	history      []MoveHistoryEntry
	winAnnounced bool
}

// NewSession wraps an engine in a fresh session starting its first round
func NewSession(id string, eng *engine.GameEngine) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		GameID:         uuid.NewString(),
		Engine:         eng,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// newRound starts a new game in the session: new game ID, empty history, win latch cleared
func (s *Session) newRound() {
	s.GameID = uuid.NewString()
	s.history = nil
	s.winAnnounced = false
}

// MoveCount returns the number of board-changing moves in the current round
func (s *Session) MoveCount() int {
	return len(s.history)
}
