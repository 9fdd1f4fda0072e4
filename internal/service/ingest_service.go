package service

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"logsieve/config"
	"logsieve/internal/filestate"
	"logsieve/internal/kafka"
	"logsieve/internal/model"
)

// IngestService sweeps the configured log directory and publishes whatever
// bytes each file gained since the last sweep to the raw log topic. Parsing
// happens downstream in the consumer, so a sweep stays cheap even when the
// pipeline is busy.
type IngestService interface {
	CollectLogs(ctx context.Context) error
}

type ingestService struct {
	cfg         *config.IngestConfig
	stateMgr    filestate.Manager
	producer    kafka.RawLogProducer
	processLock sync.Mutex
}

func NewIngestService(
	cfg *config.Config,
	stateMgr filestate.Manager,
	producer kafka.RawLogProducer,
) IngestService {
	return &ingestService{
		cfg:      &cfg.Ingest,
		stateMgr: stateMgr,
		producer: producer,
	}
}

func (s *ingestService) CollectLogs(ctx context.Context) error {
	if !s.processLock.TryLock() {
		log.Warn().Msg("Log collection already in progress, skipping run.")
		return nil
	}
	defer s.processLock.Unlock()

	log.Info().Msg("Starting log collection cycle...")
	startTime := time.Now()

	currentState, err := s.stateMgr.LoadState()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Msg("Failed to load initial file state")
			return fmt.Errorf("failed to load file state: %w", err)
		}
		log.Warn().Str("file", s.stateMgr.GetStateFilePath()).Msg("State file not found, starting fresh.")
		currentState = make(filestate.FileOffsets)
	}

	newState := make(filestate.FileOffsets, len(currentState))
	for k, v := range currentState {
		newState[k] = v
	}

	logFiles, err := s.findLogFiles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to find log files")
		return fmt.Errorf("failed to find log files: %w", err)
	}
	log.Debug().Int("file_count", len(logFiles)).Msg("Found log files to collect")

	var payloads []model.RawLog
	var totalBytes int64
	for _, filePath := range logFiles {
		content, newOffset, err := s.readNewContent(filePath, currentState[filePath])
		if err != nil {
			log.Error().Err(err).Str("file", filePath).Msg("Failed to read file")
			newState[filePath] = currentState[filePath]
			continue
		}
		newState[filePath] = newOffset
		if content == "" {
			continue
		}
		totalBytes += int64(len(content))
		payloads = append(payloads, model.RawLog{
			Path:        filePath,
			Content:     content,
			CollectedAt: time.Now().UTC(),
		})
	}

	if err := s.producer.Produce(ctx, payloads); err != nil {
		log.Error().Err(err).Msg("Failed to publish collected logs")
		return fmt.Errorf("failed to publish collected logs: %w", err)
	}

	if err := s.stateMgr.SaveState(newState); err != nil {
		log.Error().Err(err).Msg("Failed to save final file state")
		return fmt.Errorf("failed to save final file state: %w", err)
	}

	log.Info().
		Int("files_scanned", len(logFiles)).
		Int("files_published", len(payloads)).
		Int64("bytes_published", totalBytes).
		Dur("duration", time.Since(startTime)).
		Msg("Finished log collection cycle.")
	return nil
}

func (s *ingestService) findLogFiles() ([]string, error) {
	var logFiles []string
	err := filepath.WalkDir(s.cfg.LogDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read directory entry")
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".log") {
			logFiles = append(logFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk log directory: %w", err)
	}
	return logFiles, nil
}

// readNewContent returns the bytes appended to the file since lastOffset and
// the offset to persist. A file smaller than its recorded offset was rotated
// or truncated, so reading restarts from the beginning.
func (s *ingestService) readNewContent(filePath string, lastOffset int64) (string, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", lastOffset, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", lastOffset, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}
	currentSize := info.Size()

	if currentSize < lastOffset {
		log.Warn().Str("file", filePath).Int64("last_offset", lastOffset).Int64("current_size", currentSize).Msg("File truncated or rotated? Resetting offset.")
		lastOffset = 0
	}
	if currentSize == lastOffset {
		return "", lastOffset, nil
	}

	if _, err := file.Seek(lastOffset, io.SeekStart); err != nil {
		return "", lastOffset, fmt.Errorf("failed to seek file %s to offset %d: %w", filePath, lastOffset, err)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return "", lastOffset, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return string(content), lastOffset + int64(len(content)), nil
}
