package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"logsieve/internal/model"
)

// Selection scoring. A chain's base score is the fraction of its filters
// whose CanHandle accepts the input; the adjustments below keep chains with
// a matching activation ahead of the catch-all.
const (
	activationMatchBonus = 0.4
	activationMissScale  = 0.3
	noActivationScale    = 0.9
	pathRelevanceBonus   = 0.1
	minSelectionScore    = 0.3
)

// Manager owns the chain registry. It is populated once at startup and
// treated as read-only afterwards, so concurrent Process calls need no
// locking.
type Manager struct {
	chains       map[string]*Chain
	defaultChain string
}

// NewManager returns a manager holding the given chains. defaultChain names
// the fallback used when no chain scores above the selection threshold; it
// may be empty, in which case low-score selection fails.
func NewManager(defaultChain string, chains ...*Chain) *Manager {
	m := &Manager{chains: make(map[string]*Chain), defaultChain: defaultChain}
	for _, c := range chains {
		m.chains[c.Name()] = c
	}
	return m
}

// Chain returns a registered chain by name.
func (m *Manager) Chain(name string) (*Chain, bool) {
	c, ok := m.chains[name]
	return c, ok
}

// ChainNames returns all registered chain names, sorted.
func (m *Manager) ChainNames() []string {
	names := make([]string, 0, len(m.chains))
	for name := range m.chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultChain returns the configured fallback chain name.
func (m *Manager) DefaultChain() string { return m.defaultChain }

// Select picks the best chain for the input. Container envelope JSON skips
// scoring entirely. Otherwise each enabled chain is scored and the best one
// wins; ties go to a chain whose activation matched, so the catch-all never
// shadows a specifically-matching chain. Scores below the threshold fall
// back to the default chain. Returns nil when nothing applies.
func (m *Manager) Select(content, pathHint string) *Chain {
	if isEnvelopeSample(content) {
		if c, ok := m.chains["container"]; ok && c.Enabled() {
			return c
		}
	}

	var best *Chain
	bestScore := 0.0
	bestMatched := false
	for _, name := range m.ChainNames() {
		c := m.chains[name]
		if !c.Enabled() {
			continue
		}
		score, matched := m.score(c, content, pathHint)
		log.Debug().Str("chain", name).Float64("score", score).Msg("chain scored")
		if score > bestScore || (score == bestScore && matched && !bestMatched) {
			best = c
			bestScore = score
			bestMatched = matched
		}
	}

	if bestScore < minSelectionScore {
		if c, ok := m.chains[m.defaultChain]; ok && c.Enabled() {
			return c
		}
	}
	return best
}

// isEnvelopeSample reports whether the sample is unambiguously container
// envelope JSON: it must start with "{" after trimming and carry all three
// wrapper keys. A prose line that merely mentions a key or two keeps going
// through scoring.
func isEnvelopeSample(content string) bool {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return false
	}
	lower := strings.ToLower(trimmed)
	return strings.Contains(lower, `"log"`) &&
		strings.Contains(lower, `"stream"`) &&
		strings.Contains(lower, `"time"`)
}

// score rates how well a chain fits the input on a 0..1 scale and reports
// whether the chain's activation matched.
func (m *Manager) score(c *Chain, content, pathHint string) (float64, bool) {
	if len(c.filters) == 0 {
		return 0, false
	}

	canHandle := 0
	for _, k := range c.filters {
		if k.CanHandle(content, pathHint) {
			canHandle++
		}
	}
	score := float64(canHandle) / float64(len(c.filters))

	matched := false
	if c.activation != nil {
		if c.activation.Matches(content, pathHint) {
			score += activationMatchBonus
			matched = true
		} else {
			score *= activationMissScale
		}
	} else {
		score *= noActivationScale
	}

	if pathHint != "" && canHandle > 0 {
		score += pathRelevanceBonus
	}

	if score > 1 {
		score = 1
	}
	return score, matched
}

// Process parses one request end to end. An explicit Plugin override skips
// selection; otherwise the best-scoring chain runs.
func (m *Manager) Process(req *model.ParseRequest) (*model.ParseResult, error) {
	var chain *Chain
	if req.Plugin != "" {
		c, ok := m.chains[req.Plugin]
		if !ok {
			return nil, fmt.Errorf("unknown chain %q", req.Plugin)
		}
		chain = c
	} else {
		chain = m.Select(req.Content, req.FilePath)
		if chain == nil {
			return nil, fmt.Errorf("no chain matches the input and no default chain is configured")
		}
	}

	log.Debug().
		Str("chain", chain.Name()).
		Int("content_bytes", len(req.Content)).
		Msg("processing parse request")
	return chain.Run(req)
}
