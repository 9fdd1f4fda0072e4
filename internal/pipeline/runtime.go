package pipeline

import (
	"regexp"
	"strings"

	"logsieve/internal/model"
)

// runtimeDiagPattern matches bracket-delimited runtime diagnostics such as
// GC and JIT output:
//
//	[2025-01-15T10:30:45.123+0000][info][gc] GC(42) Pause Young 12.3ms
//
// The third bracket group (the subsystem tag) is optional.
var runtimeDiagPattern = regexp.MustCompile(`^\[([^\]]*)\]\[\s*([^\]]*?)\s*\](?:\[([^\]]*)\])?\s*(.*)$`)

func runtimeDiagShouldProcess(ctx *Context) bool {
	for _, line := range ctx.Lines {
		if runtimeDiagPattern.MatchString(line.Content) {
			return true
		}
	}
	return false
}

func runtimeDiagCanHandle(sample, pathHint string) bool {
	lower := strings.ToLower(sample + " " + pathHint)
	for _, kw := range []string{"[gc", "][info]", "][warning]", "][error]", "][debug]", "g1 evacuation", "heap"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, line := range strings.Split(sample, "\n") {
		if runtimeDiagPattern.MatchString(line) {
			return true
		}
	}
	return false
}

// runtimeDiagLevel maps runtime diagnostic level tokens, which arrive
// lowercased, onto canonical levels.
func runtimeDiagLevel(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "warning":
		return model.LevelWarn
	case "info":
		return model.LevelInfo
	case "error":
		return model.LevelError
	case "debug", "trace":
		return model.LevelDebug
	default:
		return NormalizeLevel(raw)
	}
}

// runtimeDiagProcess parses bracket-delimited diagnostic lines, lifting the
// timestamp, level and subsystem tag out of the prefix and leaving the bare
// message as content.
func runtimeDiagProcess(ctx *Context) error {
	for _, line := range ctx.Lines {
		if line.Metadata["aggregated"] == "true" {
			continue
		}
		m := runtimeDiagPattern.FindStringSubmatch(line.Content)
		if m == nil {
			continue
		}

		if m[1] != "" && line.Timestamp == "" {
			line.Timestamp = m[1]
		}
		line.Level = runtimeDiagLevel(m[2])
		if m[3] != "" {
			line.AddMetadata("tag", m[3])
		}
		line.AddMetadata("log_type", "runtime")
		if _, ok := line.Metadata["stream"]; !ok {
			line.AddMetadata("stream", streamForLevel(line.Level))
		}
		line.Content = strings.TrimSpace(m[4])
		line.MarkProcessed(KindRuntimeDiag.Name())
	}
	return nil
}
