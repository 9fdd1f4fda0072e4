package pipeline

import (
	"regexp"
	"strings"

	"logsieve/internal/util"
)

// Display budgets, in runes. Over-budget content is cut with a "..." tail.
const (
	maxDisplaySQL    = 100
	maxDisplayParams = 50
	maxDisplayJSON   = 80
	maxDisplayPrefix = 10
	maxDisplayLogger = 8
	shortLoggerRunes = 5
)

var sqlKeywordPattern = regexp.MustCompile(`(?i)\b(select|from|where|insert into|insert|into|values|update|set|delete from|delete|join|order by|group by|limit)\b`)

// normalizerProcess renders a single-line display form for every record that
// does not already carry one: "LEVEL time prefix body", space joined. It runs
// last in every chain and never rewrites content, level or metadata.
func normalizerProcess(ctx *Context) error {
	for _, line := range ctx.Lines {
		if line.FormattedContent == "" {
			parts := make([]string, 0, 4)
			if line.Level != "" {
				parts = append(parts, line.Level)
			}
			if line.Timestamp != "" {
				parts = append(parts, util.SimplifyTimestamp(line.Timestamp))
			}
			if prefix := displayPrefix(line.Metadata); prefix != "" {
				parts = append(parts, prefix)
			}
			parts = append(parts, displayBody(line.Content, line.Metadata))
			line.FormattedContent = strings.Join(parts, " ")
		}
		line.MarkProcessed(KindNormalizer.Name())
	}
	ctx.SetChainMetadata("normalized", "true")
	return nil
}

// displayPrefix condenses thread, logger and record-type markers into a short
// pipe-joined prefix.
func displayPrefix(metadata map[string]string) string {
	var parts []string

	if thread := metadata["thread"]; thread != "" && thread != "main" && len([]rune(thread)) <= maxDisplayLogger {
		parts = append(parts, thread)
	}
	if logger := metadata["logger"]; logger != "" {
		if len([]rune(logger)) > maxDisplayLogger {
			parts = append(parts, string([]rune(logger)[:shortLoggerRunes])+"...")
		} else {
			parts = append(parts, logger)
		}
	}
	if sqlType, ok := metadata["sql_type"]; ok {
		switch sqlType {
		case "parameters":
			parts = append(parts, "PARAM")
		case "result":
			parts = append(parts, "RESULT")
		default:
			parts = append(parts, "SQL")
		}
	}
	if strings.Contains(metadata["log_type"], "runtime") {
		parts = append(parts, "RT")
	}

	combined := strings.Join(parts, "|")
	return util.Truncate(combined, maxDisplayPrefix)
}

// displayBody renders the message body, giving statement-trace and JSON
// content a labeled, budgeted form. Aggregated stacks are shown as-is.
func displayBody(content string, metadata map[string]string) string {
	if metadata["aggregated"] == "true" {
		return content
	}
	if sqlType, ok := metadata["sql_type"]; ok {
		return displaySQL(content, sqlType)
	}
	trimmed := strings.TrimSpace(content)
	if isJSONContent(trimmed) {
		return "JSON: " + util.Truncate(trimmed, maxDisplayJSON)
	}
	return content
}

func displaySQL(content, sqlType string) string {
	switch sqlType {
	case "preparing":
		sql := textAfterMarker(content, markerPreparing)
		if sql == "" {
			sql = strings.TrimSpace(content)
		}
		return "SQL: " + util.Truncate(upperSQLKeywords(sql), maxDisplaySQL)
	case "parameters":
		params := textAfterMarker(content, markerParameters)
		if params == "" {
			params = strings.TrimSpace(content)
		}
		return "PARAMS: " + util.Truncate(params, maxDisplayParams)
	case "result":
		result := textAfterMarker(content, markerResult)
		if result == "" {
			result = strings.TrimSpace(content)
		}
		return "RESULT: " + result
	default:
		return content
	}
}

func upperSQLKeywords(sql string) string {
	return sqlKeywordPattern.ReplaceAllStringFunc(sql, strings.ToUpper)
}

func isJSONContent(trimmed string) bool {
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}
