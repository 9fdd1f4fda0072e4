package pipeline

import (
	"strings"

	"logsieve/internal/model"
)

// Statement markers as they appear in ORM trace output. Matching is
// case-insensitive on the marker word itself.
const (
	markerPreparing  = "preparing:"
	markerParameters = "parameters:"
	markerResult     = "==>"
	markerTotal      = "total:"
)

func hasStatementMarker(content string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, markerPreparing) ||
		strings.Contains(lower, markerParameters) ||
		strings.Contains(lower, markerTotal) ||
		strings.Contains(lower, markerResult)
}

func statementShouldProcess(ctx *Context) bool {
	for _, line := range ctx.Lines {
		if hasStatementMarker(line.Content) {
			return true
		}
	}
	return false
}

func statementCanHandle(sample, pathHint string) bool {
	lower := strings.ToLower(sample + " " + pathHint)
	for _, kw := range []string{markerPreparing, markerParameters, markerResult, markerTotal} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// statementProcess classifies statement-trace lines and lifts the SQL text
// and parameter list into metadata. The heavy lifting of merging a statement
// with its parameter line happens before the chain runs; this filter only
// annotates whatever records are left.
func statementProcess(ctx *Context) error {
	for _, line := range ctx.Lines {
		lower := strings.ToLower(line.Content)
		switch {
		case strings.Contains(lower, markerPreparing):
			line.Level = model.LevelDebug
			line.AddMetadata("sql_type", "preparing")
			if sql := textAfterMarker(line.Content, markerPreparing); sql != "" {
				line.AddMetadata("sql_statement", sql)
			}
		case strings.Contains(lower, markerParameters):
			line.Level = model.LevelDebug
			line.AddMetadata("sql_type", "parameters")
			if params := textAfterMarker(line.Content, markerParameters); params != "" {
				line.AddMetadata("sql_parameters", params)
			}
		case strings.Contains(lower, markerTotal), strings.Contains(lower, markerResult):
			line.Level = model.LevelInfo
			line.AddMetadata("sql_type", "result")
		default:
			continue
		}
		line.MarkProcessed(KindStatement.Name())
	}
	return nil
}

// textAfterMarker returns the trimmed remainder of content after the first
// case-insensitive occurrence of marker, or "" when absent.
func textAfterMarker(content, marker string) string {
	lower := strings.ToLower(content)
	i := strings.Index(lower, marker)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(content[i+len(marker):])
}
