package engine

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidGrid      = errors.New("invalid grid")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	Reset()
	GetBoard() Grid
	GetScore() int
	GetBestScore() int
	GetState() *GameState
	SetState(state *GameState) error

	// Terminal conditions
	IsWon() bool
	IsOver() bool

	// Movement
	Move(direction Direction) (MoveResult, error)
}

// GameEngine implements the Engine interface.
// All methods are safe for concurrent use; Move and Reset apply atomically.
type GameEngine struct {
	mu    sync.Mutex
	board Grid
	score int
	best  int

	store BestScoreStore
	rng   Rand
}

// NewEngine creates an engine that loads its best score from store and
// draws spawns from rng. A nil store keeps the best score in memory, a nil
// rng uses a randomly seeded source.
func NewEngine(store BestScoreStore, rng Rand) *GameEngine {
	if store == nil {
		store = NewMemoryBestScore(0)
	}
	if rng == nil {
		rng = NewRand()
	}

	best := store.Load()
	if best < 0 {
		best = 0
	}

	e := &GameEngine{
		best:  best,
		store: store,
		rng:   rng,
	}
	e.resetLocked()
	return e
}

// NewEngineWithDefaults creates an engine with in-memory best score and random spawns
func NewEngineWithDefaults() *GameEngine {
	return NewEngine(nil, nil)
}

// Reset clears the board and score and spawns the opening tiles.
// The best score is kept.
func (e *GameEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *GameEngine) resetLocked() {
	e.board = Grid{}
	e.score = 0
	for i := 0; i < InitialTiles; i++ {
		spawnTile(&e.board, e.rng)
	}
}

// GetBoard returns a copy of the board
func (e *GameEngine) GetBoard() Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// GetBestScore returns the best score seen by this engine
func (e *GameEngine) GetBestScore() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.best
}

// IsWon reports whether any tile has reached WinningTile.
// It has no memory: callers that announce a win once keep their own flag.
func (e *GameEngine) IsWon() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.HasWinningTile()
}

// IsOver reports whether no move can change the current board
func (e *GameEngine) IsOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.NoMovesLeft()
}

// GetState returns a snapshot of the engine
func (e *GameEngine) GetState() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return &GameState{
		Board:      e.board,
		Score:      e.score,
		BestScore:  e.best,
		Won:        e.board.HasWinningTile(),
		Over:       e.board.NoMovesLeft(),
		MaxTile:    MaxTile(e.board),
		EmptyCells: CountEmpty(e.board),
	}
}

// SetState replaces board and score (used to restore or stage a position).
// A higher best score in state is adopted and saved.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if err := ValidateGrid(state.Board); err != nil {
		return err
	}
	if state.Score < 0 {
		return fmt.Errorf("score cannot be negative: %d", state.Score)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.board = state.Board
	e.score = state.Score
	best := state.BestScore
	if e.score > best {
		best = e.score
	}
	if best > e.best {
		e.best = best
		e.store.Save(e.best)
	}
	return nil
}

// Move slides the board in direction, merging equal tiles.
// When the board changes the gain is added to the score and one tile is
// spawned; otherwise nothing changes.
func (e *GameEngine) Move(direction Direction) (MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, gain, err := slide(e.board, direction)
	if err != nil {
		return MoveResult{}, err
	}

	if next == e.board {
		return MoveResult{}, nil
	}

	e.board = next
	e.score += gain
	if e.score > e.best {
		e.best = e.score
		e.store.Save(e.best)
	}

	return MoveResult{
		Moved:   true,
		Spawned: spawnTile(&e.board, e.rng),
		Gain:    gain,
	}, nil
}
