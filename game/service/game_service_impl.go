package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

// MaxBulkMoves caps the number of moves processed by one BulkMove call
const MaxBulkMoves = 100

// Option configures the game service
type Option func(*gameServiceImpl)

// WithMetrics records gameplay counters through m
func WithMetrics(m MetricsRecorder) Option {
	return func(s *gameServiceImpl) {
		s.metrics = m
	}
}

// WithLogger sets the logger used for move and lifecycle logs
func WithLogger(l *slog.Logger) Option {
	return func(s *gameServiceImpl) {
		if l != nil {
			s.logger = l
		}
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	metrics  MetricsRecorder
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		GameID:         sess.GameID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		MoveCount:      sess.MoveCount(),
		GameState:      sess.Engine.GetState(),
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Let session manager generate the ID
	session, err := s.sessions.Create("")
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created", "session", session.ID, "game_id", session.GameID)
	if s.metrics != nil {
		s.metrics.SessionsActive(s.sessions.Count())
	}

	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}

	s.logger.Info("session deleted", "session", sessionID)
	if s.metrics != nil {
		s.metrics.SessionsActive(s.sessions.Count())
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		events = append(events, s.resetLocked(sess))
	}

	moveResult, moveEvents, err := s.applyMove(sess, dir)
	if err != nil {
		return nil, err
	}
	events = append(events, moveEvents...)
	state := sess.Engine.GetState()

	return &MoveResult{
		Success:   moveResult.Moved,
		Direction: string(dir),
		Gain:      moveResult.Gain,
		Spawned:   moveResult.Spawned,
		GameID:    sess.GameID,
		GameState: state,
		Message:   describeMove(dir, moveResult, state),
		Events:    events,
	}, nil
}

// BulkMove executes moves in order, stopping at the first invalid direction
// or when the game is over
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		result.Events = append(result.Events, s.resetLocked(sess))
	}
	startScore := sess.Engine.GetScore()

	// Limit moves to prevent abuse
	if len(moves) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		moves = moves[:MaxBulkMoves]
	}

	for i, move := range moves {
		if sess.Engine.IsOver() {
			result.StopReasonCode = StopGameOver
			result.StoppedReason = "game is over, no move can change the board"
			result.StoppedOnMove = i + 1
			break
		}

		dir, err := engine.ParseDirection(move)
		if err != nil {
			result.Success = false
			result.StopReasonCode = StopInvalidDirection
			result.StoppedReason = err.Error()
			result.StoppedOnMove = i + 1
			break
		}

		moveResult, moveEvents, err := s.applyMove(sess, dir)
		if err != nil {
			return nil, err
		}
		result.MovesAttempted++
		if moveResult.Moved {
			result.MovesExecuted++
		}
		result.Events = append(result.Events, moveEvents...)
	}

	result.GameID = sess.GameID
	result.GameState = sess.Engine.GetState()
	result.ScoreDelta = result.GameState.Score - startScore

	s.logger.Debug("bulk move",
		"session", sessionID,
		"executed", result.MovesExecuted,
		"requested", result.RequestedMoves,
		"stop", result.StopReasonCode,
		"score", result.GameState.Score,
	)

	return result, nil
}

// applyMove runs one move against the session engine and derives its events.
// Caller holds s.mu.
func (s *gameServiceImpl) applyMove(sess *Session, dir engine.Direction) (engine.MoveResult, []GameEvent, error) {
	result, err := sess.Engine.Move(dir)
	if err != nil {
		return result, nil, err
	}
	if s.metrics != nil {
		s.metrics.MoveApplied(string(dir), result.Moved, result.Gain)
	}

	now := time.Now()
	if !result.Moved {
		return result, []GameEvent{{
			Type:      EventNoMove,
			Message:   fmt.Sprintf("Nothing moves %s", dir),
			Timestamp: now,
		}}, nil
	}

	state := sess.Engine.GetState()
	sess.history = append(sess.history, MoveHistoryEntry{
		MoveNumber: len(sess.history) + 1,
		Direction:  string(dir),
		Gain:       result.Gain,
		ScoreAfter: state.Score,
		MaxTile:    state.MaxTile,
		Spawned:    result.Spawned,
		Timestamp:  now,
	})

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Moved %s (+%d)", dir, result.Gain),
		Timestamp: now,
	}}

	// IsWon has no memory, so the first winning move of a round is latched here
	if state.Won && !sess.winAnnounced {
		sess.winAnnounced = true
		events = append(events, GameEvent{
			Type:      EventWon,
			Message:   fmt.Sprintf("Reached %d!", engine.WinningTile),
			Timestamp: now,
		})
		s.logger.Info("game won", "session", sess.ID, "game_id", sess.GameID, "score", state.Score)
		if s.metrics != nil {
			s.metrics.GameWon()
		}
	}

	if state.Over {
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   fmt.Sprintf("Game over with score %d", state.Score),
			Timestamp: now,
		})
		s.logger.Info("game over", "session", sess.ID, "game_id", sess.GameID, "score", state.Score, "max_tile", state.MaxTile)
		if s.metrics != nil {
			s.metrics.GameOver()
		}
	}

	return result, events, nil
}

// resetLocked starts a new round. Caller holds s.mu.
func (s *gameServiceImpl) resetLocked(sess *Session) GameEvent {
	sess.Engine.Reset()
	sess.newRound()
	s.logger.Debug("game reset", "session", sess.ID, "game_id", sess.GameID)
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}

// Reset resets the game to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	s.resetLocked(sess)
	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history of the current round
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.history
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	// Pages past the end are empty; checking before multiplying keeps huge pages from overflowing
	moves := []MoveHistoryEntry{}
	if opts.Page <= totalPages {
		start := (opts.Page - 1) * opts.Limit
		end := start + opts.Limit
		if end > total {
			end = total
		}

		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		GameID:      sess.GameID,
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

func describeMove(dir engine.Direction, result engine.MoveResult, state *engine.GameState) string {
	switch {
	case !result.Moved:
		return fmt.Sprintf("Nothing moves %s", dir)
	case state.Over:
		return fmt.Sprintf("Game over! Final score %d", state.Score)
	case state.Won:
		return fmt.Sprintf("Moved %s, score %d (%d reached)", dir, state.Score, engine.WinningTile)
	default:
		return fmt.Sprintf("Moved %s, score %d", dir, state.Score)
	}
}
