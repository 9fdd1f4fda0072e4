package pipeline

import (
	"strings"

	"logsieve/internal/model"
)

// NormalizeLevel maps the level synonyms found across log dialects onto the
// canonical set. Unknown tokens are uppercased and passed through so nothing
// is silently discarded.
func NormalizeLevel(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ERROR", "ERR", "FATAL", "SEVERE":
		return model.LevelError
	case "WARN", "WARNING", "ALERT":
		return model.LevelWarn
	case "INFO", "INFORMATION", "NOTE":
		return model.LevelInfo
	case "DEBUG", "TRACE", "VERBOSE":
		return model.LevelDebug
	default:
		return strings.ToUpper(strings.TrimSpace(raw))
	}
}

// GuessLevel derives a level for a line no structured pattern matched, by
// keyword sniffing. The fallback is DEBUG rather than INFO so unparsed noise
// sorts below real traffic.
func GuessLevel(content string) string {
	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "error"):
		return model.LevelError
	case strings.Contains(lower, "warn"):
		return model.LevelWarn
	case strings.Contains(lower, "info"):
		return model.LevelInfo
	default:
		return model.LevelDebug
	}
}

// streamForLevel reports the output stream a level conventionally maps to.
func streamForLevel(level string) string {
	if level == model.LevelError {
		return "stderr"
	}
	return "stdout"
}
