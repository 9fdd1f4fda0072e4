package filestate

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileOffsets maps an absolute log file path to the byte offset up to which
// its content has already been collected.
type FileOffsets map[string]int64

// Manager persists collection offsets across process restarts so an ingest
// sweep never re-publishes bytes it already shipped.
type Manager interface {
	LoadState() (FileOffsets, error)
	SaveState(state FileOffsets) error
	GetStateFilePath() string
}

type fileStateManager struct {
	filePath string
	mu       sync.RWMutex
}

func NewManager(filePath string) Manager {
	return &fileStateManager{
		filePath: filePath,
	}
}

func (m *fileStateManager) LoadState() (FileOffsets, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("file", m.filePath).Msg("State file not found, starting fresh.")
			return make(FileOffsets), nil
		}
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to read state file")
		return nil, err
	}

	if len(data) == 0 {
		log.Warn().Str("file", m.filePath).Msg("State file is empty, starting fresh.")
		return make(FileOffsets), nil
	}
	var state FileOffsets
	if err := json.Unmarshal(data, &state); err != nil {
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to unmarshal state file")
		return nil, err
	}

	log.Debug().Str("file", m.filePath).Int("files_tracked", len(state)).Msg("Loaded file state")
	return state, nil
}

// SaveState writes through a temp file and renames, so a crash mid-write
// never leaves a corrupt state file behind.
func (m *fileStateManager) SaveState(state FileOffsets) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal state")
		return err
	}

	tempFilePath := m.filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		log.Error().Err(err).Str("file", tempFilePath).Msg("Failed to write temporary state file")
		return err
	}

	if err := os.Rename(tempFilePath, m.filePath); err != nil {
		log.Error().Err(err).Str("from", tempFilePath).Str("to", m.filePath).Msg("Failed to rename state file")
		_ = os.Remove(tempFilePath)
		return err
	}
	log.Debug().Str("file", m.filePath).Int("files_tracked", len(state)).Msg("Saved file state")
	return nil
}

func (m *fileStateManager) GetStateFilePath() string {
	return m.filePath
}
