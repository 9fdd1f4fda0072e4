package pipeline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"logsieve/internal/util"
)

// containerEnvelope is the JSON wrapper container runtimes put around each
// captured line of process output.
type containerEnvelope struct {
	Log    string `json:"log"`
	Stream string `json:"stream"`
	Time   string `json:"time"`
}

var diagPrefixPattern = regexp.MustCompile(`^\[[^\]]*\]\[\s*([^\]]*?)\s*\]`)

// looksLikeEnvelope reports whether a line is plausibly a container JSON
// envelope, cheaply and without unmarshalling.
func looksLikeEnvelope(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	return strings.Contains(trimmed, `"log"`) || strings.Contains(trimmed, `"stream"`)
}

func envelopeShouldProcess(ctx *Context) bool {
	for _, line := range ctx.Lines {
		if looksLikeEnvelope(line.Content) {
			return true
		}
	}
	return false
}

func envelopeCanHandle(sample, pathHint string) bool {
	lowerPath := strings.ToLower(pathHint)
	if strings.Contains(lowerPath, "docker") || strings.Contains(lowerPath, "container") {
		return true
	}
	for _, line := range strings.Split(sample, "\n") {
		if looksLikeEnvelope(line) {
			return true
		}
	}
	return false
}

// envelopeProcess unwraps container JSON envelopes in place: the inner log
// payload becomes the line content, and the wrapper's stream and timestamp
// move into metadata and the Timestamp field. Lines that are not envelopes
// pass through untouched; envelopes that fail to decode are tagged and
// reported but never dropped.
func envelopeProcess(ctx *Context) error {
	for _, line := range ctx.Lines {
		if !looksLikeEnvelope(line.Content) {
			continue
		}
		var env containerEnvelope
		if err := json.Unmarshal([]byte(strings.TrimSpace(line.Content)), &env); err != nil {
			line.AddMetadata("parse_error", err.Error())
			ctx.AddError(fmt.Sprintf("line %d: invalid container envelope: %v", line.LineNumber, err))
			continue
		}

		if env.Stream != "" {
			line.AddMetadata("stream", env.Stream)
		}
		if env.Time != "" {
			if t, err := util.ParseTimeFlexible(env.Time); err == nil {
				canonical := t.UTC().Format(util.CanonicalTimeLayout)
				line.Timestamp = canonical
				if canonical != env.Time {
					line.AddMetadata("original_time", env.Time)
				}
			} else {
				ts, lossy := util.NormalizeTimestamp(env.Time)
				line.Timestamp = ts
				if lossy {
					line.AddMetadata("original_time", env.Time)
				}
			}
		}

		inner := strings.TrimRight(env.Log, "\n")
		line.Content = inner

		// Runtime diagnostics keep their bracketed level even inside the
		// envelope; pick it up here so the level survives even when the
		// runtime filter is not part of the chain.
		if m := diagPrefixPattern.FindStringSubmatch(inner); m != nil {
			line.Level = NormalizeLevel(m[1])
			if line.FormattedContent == "" {
				line.FormattedContent = strings.TrimSpace(diagPrefixPattern.ReplaceAllString(inner, ""))
			}
		}

		line.MarkProcessed(KindEnvelope.Name())
	}
	return nil
}
