package engine

import "sync"

// BestScoreStore persists the best score between games and processes.
// Load returns 0 when nothing usable is stored. Save is best-effort and
// must not fail the move that triggered it.
type BestScoreStore interface {
	Load() int
	Save(score int)
}

// MemoryBestScore keeps the best score in process memory
type MemoryBestScore struct {
	mu    sync.Mutex
	score int
}

// NewMemoryBestScore creates an in-memory store starting at score
func NewMemoryBestScore(score int) *MemoryBestScore {
	return &MemoryBestScore{score: score}
}

// Load returns the stored score
func (m *MemoryBestScore) Load() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score
}

// Save records score if it beats the stored one
func (m *MemoryBestScore) Save(score int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if score > m.score {
		m.score = score
	}
}
