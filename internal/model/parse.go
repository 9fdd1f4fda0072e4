package model

// ParseRequest is the unit of work handed to the pipeline. Content must be
// already-decoded UTF-8 text; encoding detection happens upstream.
type ParseRequest struct {
	Content string `json:"content"`
	// FilePath is an optional hint for chain selection (path substring
	// matching); it is never opened by the pipeline.
	FilePath string `json:"file_path,omitempty"`
	// Plugin forces a specific chain by name, bypassing selection.
	Plugin string `json:"plugin,omitempty"`
	// ChunkSize is carried for the external chunk loader; the core parses
	// whatever Content it is given in one piece.
	ChunkSize int `json:"chunk_size,omitempty"`
}

// ParseResult is the structured output of one pipeline run. TotalLines is
// the non-empty line count of the raw input, independent of how many
// LogLines remain after aggregation, so callers can compute a merge ratio.
type ParseResult struct {
	Lines          []*LogLine `json:"lines"`
	TotalLines     int        `json:"total_lines"`
	DetectedFormat string     `json:"detected_format,omitempty"`
	ParsingErrors  []string   `json:"parsing_errors,omitempty"`
}
