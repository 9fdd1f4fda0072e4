package pipeline

import (
	"fmt"

	"logsieve/internal/model"
)

// Kind enumerates the built-in filters. The set is closed on purpose: every
// filter the engine can run is listed here and dispatched by switch, which
// keeps chain composition a pure data concern (presets are just ordered Kind
// slices) and makes an unhandled filter a compile-visible gap instead of a
// runtime surprise.
type Kind int

const (
	KindEnvelope Kind = iota
	KindAppLog
	KindRuntimeDiag
	KindStatement
	KindEnhancer
	KindNormalizer
)

// Name returns the stable identifier recorded in processing chains and
// accepted as a chain-definition entry.
func (k Kind) Name() string {
	switch k {
	case KindEnvelope:
		return "envelope"
	case KindAppLog:
		return "applog"
	case KindRuntimeDiag:
		return "runtimediag"
	case KindStatement:
		return "statement"
	case KindEnhancer:
		return "enhancer"
	case KindNormalizer:
		return "normalizer"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Priority orders filters within a chain; lower runs first. Unwrapping must
// precede format parsing, and display rendering must come last so it sees
// every upstream annotation.
func (k Kind) Priority() int {
	switch k {
	case KindEnvelope:
		return 10
	case KindAppLog:
		return 20
	case KindRuntimeDiag:
		return 25
	case KindStatement:
		return 30
	case KindEnhancer:
		return 80
	case KindNormalizer:
		return 90
	default:
		return 100
	}
}

// ShouldProcess reports whether the filter has anything to do for the current
// context. A false return skips the filter without recording it in the
// processing chain.
func (k Kind) ShouldProcess(ctx *Context) bool {
	switch k {
	case KindEnvelope:
		return envelopeShouldProcess(ctx)
	case KindAppLog:
		return appLogShouldProcess(ctx)
	case KindRuntimeDiag:
		return runtimeDiagShouldProcess(ctx)
	case KindStatement:
		return statementShouldProcess(ctx)
	case KindEnhancer:
		return enhancerShouldProcess(ctx)
	case KindNormalizer:
		return len(ctx.Lines) > 0
	default:
		return false
	}
}

// CanHandle is the selection-time affinity check: does a content sample (and
// optional path hint) look like something this filter parses? It must not
// mutate anything.
func (k Kind) CanHandle(sample, pathHint string) bool {
	switch k {
	case KindEnvelope:
		return envelopeCanHandle(sample, pathHint)
	case KindAppLog:
		return appLogCanHandle(sample, pathHint)
	case KindRuntimeDiag:
		return runtimeDiagCanHandle(sample, pathHint)
	case KindStatement:
		return statementCanHandle(sample, pathHint)
	case KindEnhancer, KindNormalizer:
		return true
	default:
		return false
	}
}

// Process runs the filter against the context. Errors are non-fatal to the
// chain; the engine records them and keeps going.
func (k Kind) Process(ctx *Context, req *model.ParseRequest) error {
	switch k {
	case KindEnvelope:
		return envelopeProcess(ctx)
	case KindAppLog:
		return appLogProcess(ctx)
	case KindRuntimeDiag:
		return runtimeDiagProcess(ctx)
	case KindStatement:
		return statementProcess(ctx)
	case KindEnhancer:
		return enhancerProcess(ctx)
	case KindNormalizer:
		return normalizerProcess(ctx)
	default:
		return fmt.Errorf("unknown filter kind %d", int(k))
	}
}
