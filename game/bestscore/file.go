package bestscore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

var _ engine.BestScoreStore = (*FileStore)(nil)

// FileStore persists the best score as decimal text in a single file
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewFileStore creates a file-based store under dir. An empty key uses DefaultKey.
func NewFileStore(dir, key string, logger *slog.Logger) (*FileStore, error) {
	if key == "" {
		key = DefaultKey
	}
	if strings.ContainsAny(key, `/\`) {
		return nil, fmt.Errorf("invalid best score key %q", key)
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create best score directory: %w", err)
	}

	return &FileStore{
		path:   filepath.Join(dir, key),
		logger: logger,
	}, nil
}

// Path returns the file holding the score
func (fs *FileStore) Path() string {
	return fs.path
}

// Load reads the stored score, returning 0 when the file is missing or corrupt
func (fs *FileStore) Load() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.readLocked()
}

func (fs *FileStore) readLocked() int {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fs.logger.Warn("failed to read best score", "path", fs.path, "error", err)
		}
		return 0
	}

	score, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || score < 0 {
		fs.logger.Warn("ignoring unparsable best score", "path", fs.path, "value", string(data))
		return 0
	}
	return score
}

// Save writes score unless the file already holds a higher value
func (fs *FileStore) Save(score int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if score <= fs.readLocked() {
		return
	}

	// Write to a temp file first so a crash never leaves a truncated score
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(score)), 0644); err != nil {
		fs.logger.Warn("failed to write best score", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		fs.logger.Warn("failed to replace best score file", "path", fs.path, "error", err)
		_ = os.Remove(tmp)
	}
}
