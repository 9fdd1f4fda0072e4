package model

// Log level constants as produced by the pipeline. Unrecognized levels are
// normalized by pipeline.NormalizeLevel before they reach a LogLine.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogLine is one structured line produced by a pipeline run. LineNumber is
// assigned once at ingestion and survives aggregation: a merged record keeps
// the number of its first constituent line.
type LogLine struct {
	LineNumber       int               `json:"line_number"`
	Content          string            `json:"content"`
	Level            string            `json:"level,omitempty"`
	Timestamp        string            `json:"timestamp,omitempty"`
	FormattedContent string            `json:"formatted_content,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	ProcessedBy      []string          `json:"processed_by,omitempty"`
}

// NewLogLine creates a LogLine with an initialized metadata map.
func NewLogLine(number int, content string) *LogLine {
	return &LogLine{
		LineNumber: number,
		Content:    content,
		Metadata:   make(map[string]string),
	}
}

// AddMetadata sets a metadata key, allocating the map on first use so lines
// decoded from JSON can be enriched safely.
func (l *LogLine) AddMetadata(key, value string) {
	if l.Metadata == nil {
		l.Metadata = make(map[string]string)
	}
	l.Metadata[key] = value
}

// MarkProcessed appends a filter name to the audit trail. Order reflects
// execution order, not priority.
func (l *LogLine) MarkProcessed(filterName string) {
	l.ProcessedBy = append(l.ProcessedBy, filterName)
}

// IsProcessedBy reports whether the named filter already ran on this line.
func (l *LogLine) IsProcessedBy(filterName string) bool {
	for _, name := range l.ProcessedBy {
		if name == filterName {
			return true
		}
	}
	return false
}
