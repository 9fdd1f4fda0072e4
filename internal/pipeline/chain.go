package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"logsieve/internal/model"
)

// Activation gates a chain on cheap substring features of the input. All
// matching is case-insensitive containment; file patterns apply only when a
// path hint is supplied.
type Activation struct {
	FilePatterns    []string
	ContentPatterns []string
	MinConfidence   float64
}

// Matches reports whether content (and the optional path hint) satisfies the
// activation: at least one file pattern when a path is given, and at least
// one content pattern.
func (a *Activation) Matches(content, pathHint string) bool {
	if pathHint != "" && len(a.FilePatterns) > 0 {
		pathLower := strings.ToLower(pathHint)
		found := false
		for _, p := range a.FilePatterns {
			if strings.Contains(pathLower, strings.ToLower(p)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(a.ContentPatterns) > 0 {
		contentLower := strings.ToLower(content)
		found := false
		for _, p := range a.ContentPatterns {
			if strings.Contains(contentLower, strings.ToLower(p)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Chain is an immutable, ordered filter sequence with an optional activation
// gate. Chains are built once at startup and shared read-only across
// invocations; all per-run state lives in the Context.
type Chain struct {
	name       string
	filters    []Kind
	enabled    bool
	activation *Activation
}

func (c *Chain) Name() string { return c.name }

func (c *Chain) Enabled() bool { return c.enabled }

func (c *Chain) Activation() *Activation { return c.activation }

// FilterNames returns the filter names in execution order.
func (c *Chain) FilterNames() []string {
	names := make([]string, len(c.filters))
	for i, k := range c.filters {
		names[i] = k.Name()
	}
	return names
}

// ChainBuilder assembles a Chain. Build sorts filters by priority with a
// stable sort, so two filters with equal priority keep registration order.
type ChainBuilder struct {
	chain Chain
}

func NewChainBuilder(name string) *ChainBuilder {
	return &ChainBuilder{chain: Chain{name: name, enabled: true}}
}

func (b *ChainBuilder) WithFilter(k Kind) *ChainBuilder {
	b.chain.filters = append(b.chain.filters, k)
	return b
}

func (b *ChainBuilder) WithActivation(a Activation) *ChainBuilder {
	b.chain.activation = &a
	return b
}

func (b *ChainBuilder) Disabled() *ChainBuilder {
	b.chain.enabled = false
	return b
}

func (b *ChainBuilder) Build() *Chain {
	sort.SliceStable(b.chain.filters, func(i, j int) bool {
		return b.chain.filters[i].Priority() < b.chain.filters[j].Priority()
	})
	return &b.chain
}

// Run executes the chain against one parse unit. The two aggregation passes
// run first, exception grouping before statement merging, then each filter in
// priority order. A filter error is recorded and execution continues; only a
// disabled chain or failed activation rejects the run outright.
func (c *Chain) Run(req *model.ParseRequest) (*model.ParseResult, error) {
	if !c.enabled {
		return nil, fmt.Errorf("chain %q is disabled", c.name)
	}
	if c.activation != nil && !c.activation.Matches(req.Content, req.FilePath) {
		return nil, fmt.Errorf("chain %q activation rejected the input", c.name)
	}

	ctx := NewContext(req.Content)
	ctx.Lines = AggregateExceptions(ctx.Lines)
	ctx.Lines = MergeStatements(ctx.Lines)

	for _, k := range c.filters {
		if !ctx.ShouldContinue {
			break
		}
		if !k.ShouldProcess(ctx) {
			continue
		}
		if err := k.Process(ctx, req); err != nil {
			ctx.AddError(fmt.Sprintf("filter %s: %v", k.Name(), err))
			continue
		}
		ctx.ProcessingChain = append(ctx.ProcessingChain, k.Name())
	}

	return &model.ParseResult{
		Lines:          ctx.Lines,
		TotalLines:     CountInputLines(req.Content),
		DetectedFormat: c.name,
		ParsingErrors:  ctx.Errors,
	}, nil
}
