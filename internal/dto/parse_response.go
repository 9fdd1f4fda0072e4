package dto

import "logsieve/internal/model"

type ParseResponse struct {
	Lines          []*model.LogLine `json:"lines"`
	TotalLines     int              `json:"total_lines"`
	DetectedFormat string           `json:"detected_format,omitempty"`
	ParsingErrors  []string         `json:"parsing_errors,omitempty"`
}

type ChainSummary struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Default bool     `json:"default"`
	Filters []string `json:"filters"`
}

type ChainListResponse struct {
	Chains []ChainSummary `json:"chains"`
}
