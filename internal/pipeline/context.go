package pipeline

import (
	"strings"

	"logsieve/internal/model"
)

// Context is the shared mutable state threaded through one chain execution.
// It is created per parse request, never shared across requests, and carries
// no handle back to the Manager.
type Context struct {
	// OriginalText is an immutable reference copy, used only for
	// diagnostics. Filters mutate Lines, never this.
	OriginalText string

	// Lines is the working list of records; the only field most filters
	// touch.
	Lines []*model.LogLine

	// ProcessingChain lists the filters that ran, in execution order.
	ProcessingChain []string

	// ChainMetadata holds chain-level key/value data shared across filters.
	ChainMetadata map[string]string

	// ShouldContinue lets any filter short-circuit the remaining chain.
	ShouldContinue bool

	// Errors collects non-fatal per-filter and per-line failures.
	Errors []string
}

// NewContext seeds a context from raw content. Blank lines are dropped but
// line numbers keep their original 1-based position, so merges and drops
// later in the pipeline never renumber anything.
func NewContext(content string) *Context {
	ctx := &Context{
		OriginalText:   content,
		ChainMetadata:  make(map[string]string),
		ShouldContinue: true,
	}
	for i, raw := range strings.Split(content, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		ctx.Lines = append(ctx.Lines, model.NewLogLine(i+1, raw))
	}
	return ctx
}

// AddError records a non-fatal processing error.
func (c *Context) AddError(msg string) {
	c.Errors = append(c.Errors, msg)
}

// SetChainMetadata sets a chain-level metadata entry.
func (c *Context) SetChainMetadata(key, value string) {
	c.ChainMetadata[key] = value
}

// StopChain prevents the remaining filters in the chain from running.
func (c *Context) StopChain() {
	c.ShouldContinue = false
}

// CountInputLines returns the non-empty line count of raw input. The parse
// result reports this figure regardless of how many records aggregation
// merged away, so callers can compute a merge ratio.
func CountInputLines(content string) int {
	count := 0
	for _, raw := range strings.Split(content, "\n") {
		if strings.TrimSpace(raw) != "" {
			count++
		}
	}
	return count
}
