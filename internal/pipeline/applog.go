package pipeline

import (
	"regexp"
	"strings"

	"logsieve/internal/util"
)

// appLogPattern matches the common application log layout:
//
//	2025-01-15 10:30:45.123  INFO 1234 --- [   main] c.e.d.DemoApplication : Started
//
// The process-id/"---" column, the bracketed thread and the logger segment
// are all optional so both full and abbreviated layouts parse.
var appLogPattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}[.,]\d{3}Z?)\s+([A-Z]+)\s+(?:\d+\s+---\s+)?(?:\[\s*([^\]]+?)\s*\]\s*)?(?:([^\s:]+)\s*:)?\s*(.*)$`)

var appLogKeywords = []string{"spring", "hibernate", "tomcat", "--- ["}

func appLogShouldProcess(ctx *Context) bool {
	for _, line := range ctx.Lines {
		if appLogPattern.MatchString(line.Content) {
			return true
		}
	}
	return false
}

func appLogCanHandle(sample, pathHint string) bool {
	if looksLikeEnvelope(sample) {
		return false
	}
	lower := strings.ToLower(sample + " " + pathHint)
	for _, kw := range appLogKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, line := range strings.Split(sample, "\n") {
		if appLogPattern.MatchString(line) {
			return true
		}
	}
	return false
}

// appLogProcess extracts timestamp, level, thread, logger and message from
// application-format lines. Lines the pattern rejects get a keyword-guessed
// level and an "unparsed" tag instead, so every record leaves here with a
// level.
func appLogProcess(ctx *Context) error {
	for _, line := range ctx.Lines {
		if line.Metadata["aggregated"] == "true" || line.Metadata["merged"] == "true" {
			continue
		}

		m := appLogPattern.FindStringSubmatch(line.Content)
		if m == nil {
			// Leave lines owned by later structural filters alone; tagging
			// them unparsed here would stick even after they are parsed.
			if runtimeDiagPattern.MatchString(line.Content) || hasStatementMarker(line.Content) {
				continue
			}
			if line.Level == "" {
				line.Level = GuessLevel(line.Content)
				line.AddMetadata("type", "unparsed")
			}
			if _, ok := line.Metadata["stream"]; !ok {
				line.AddMetadata("stream", streamForLevel(line.Level))
			}
			continue
		}

		ts, lossy := util.NormalizeTimestamp(m[1])
		line.Timestamp = ts
		if lossy {
			line.AddMetadata("original_time", m[1])
		}
		line.Level = NormalizeLevel(m[2])
		if m[3] != "" {
			line.AddMetadata("thread", m[3])
		}
		if m[4] != "" {
			line.AddMetadata("logger", m[4])
		}
		if _, ok := line.Metadata["stream"]; !ok {
			line.AddMetadata("stream", streamForLevel(line.Level))
		}
		line.Content = strings.TrimSpace(m[5])
		line.MarkProcessed(KindAppLog.Name())
	}
	return nil
}
