package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"logsieve/internal/dto"
	"logsieve/internal/model"
	"logsieve/internal/pipeline"
)

type ParseService interface {
	Parse(ctx context.Context, req dto.ParseRequest) (*dto.ParseResponse, error)
	ListChains() *dto.ChainListResponse
}

type parseService struct {
	manager *pipeline.Manager
}

func NewParseService(manager *pipeline.Manager) ParseService {
	return &parseService{
		manager: manager,
	}
}

func (s *parseService) Parse(_ context.Context, req dto.ParseRequest) (*dto.ParseResponse, error) {
	if req.Content == "" {
		return nil, errors.New("content is required")
	}

	start := time.Now()
	result, err := s.manager.Process(&model.ParseRequest{
		Content:   req.Content,
		FilePath:  req.FilePath,
		Plugin:    req.Plugin,
		ChunkSize: req.ChunkSize,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("detected_format", result.DetectedFormat).
		Int("total_lines", result.TotalLines).
		Int("records", len(result.Lines)).
		Int("errors", len(result.ParsingErrors)).
		Dur("duration", time.Since(start)).
		Msg("Parsed log content")

	return &dto.ParseResponse{
		Lines:          result.Lines,
		TotalLines:     result.TotalLines,
		DetectedFormat: result.DetectedFormat,
		ParsingErrors:  result.ParsingErrors,
	}, nil
}

func (s *parseService) ListChains() *dto.ChainListResponse {
	resp := &dto.ChainListResponse{}
	for _, name := range s.manager.ChainNames() {
		chain, _ := s.manager.Chain(name)
		resp.Chains = append(resp.Chains, dto.ChainSummary{
			Name:    name,
			Enabled: chain.Enabled(),
			Default: name == s.manager.DefaultChain(),
			Filters: chain.FilterNames(),
		})
	}
	return resp
}
