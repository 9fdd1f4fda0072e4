package pipeline

import (
	"strings"

	"logsieve/internal/model"
)

func enhancerShouldProcess(ctx *Context) bool {
	for _, line := range ctx.Lines {
		if strings.Contains(line.Content, "http://") ||
			strings.Contains(line.Content, "https://") ||
			strings.Contains(line.Content, "@") ||
			line.Level == model.LevelError {
			return true
		}
	}
	return false
}

// enhancerProcess tags lines carrying content worth surfacing in a UI:
// URLs, email-like tokens and error records. It only ever adds metadata.
func enhancerProcess(ctx *Context) error {
	for _, line := range ctx.Lines {
		enhanced := false
		if strings.Contains(line.Content, "http://") || strings.Contains(line.Content, "https://") {
			line.AddMetadata("has_url", "true")
			enhanced = true
		}
		if strings.Contains(line.Content, "@") {
			line.AddMetadata("has_email", "true")
			enhanced = true
		}
		if line.Level == model.LevelError {
			line.AddMetadata("is_error", "true")
			enhanced = true
		}
		if enhanced {
			line.MarkProcessed(KindEnhancer.Name())
		}
	}
	return nil
}
