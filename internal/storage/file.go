package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/moby/sys/atomicwriter"
	"go.uber.org/zap"

	"github.com/zrxcoding/Gaming/internal/models"
)

// FileStore keeps every saved profile in one JSON document keyed by user id.
// Saves rewrite the whole document through a temp file and rename, so a
// reader never sees a half-written file.
type FileStore struct {
	path   string
	logger *zap.Logger

	// mu covers the read-modify-write of the whole document
	mu sync.Mutex
}

type fileRecord struct {
	Device string        `json:"device"`
	Game   models.GameID `json:"game"`
}

// NewFileStore creates a profile store backed by the JSON file at path.
// The file does not need to exist yet.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create profiles directory: %w", err)
		}
	}
	return &FileStore{
		path:   path,
		logger: logger.Named("FileStore"),
	}, nil
}

// readAll loads the document. A missing, empty or corrupt file is an empty
// store; corruption is logged and otherwise ignored. Any other read failure
// is returned so a save never replaces a document it could not read.
func (f *FileStore) readAll() (map[string]fileRecord, error) {
	records := make(map[string]fileRecord)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		f.logger.Warn("Corrupt profiles file, treating as empty", zap.String("path", f.path), zap.Error(err))
		return make(map[string]fileRecord), nil
	}
	return records, nil
}

func (f *FileStore) SaveProfile(ctx context.Context, userID, device string, game models.GameID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll()
	if err != nil {
		return err
	}
	records[userID] = fileRecord{Device: device, Game: game}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := atomicwriter.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write profiles file: %w", err)
	}

	f.logger.Debug("Profile saved", zap.String("user_id", userID), zap.String("device", device), zap.String("game", string(game)))
	return nil
}

func (f *FileStore) GetProfile(ctx context.Context, userID string) (*models.SavedProfile, error) {
	f.mu.Lock()
	records, err := f.readAll()
	f.mu.Unlock()
	if err != nil {
		f.logger.Warn("Failed to read profiles file, treating as empty", zap.String("path", f.path), zap.Error(err))
		return nil, ErrProfileNotFound
	}

	rec, exists := records[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}
	return &models.SavedProfile{
		UserID: userID,
		Device: rec.Device,
		Game:   rec.Game,
	}, nil
}

func (f *FileStore) Close() error {
	return nil
}
