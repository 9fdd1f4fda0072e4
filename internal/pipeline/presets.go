package pipeline

import (
	"github.com/rs/zerolog/log"

	"logsieve/config"
)

// DefaultChainName is the catch-all chain used when selection scores too low
// and no override is configured.
const DefaultChainName = "generic"

// NewManagerFromConfig builds the preset chain registry, then applies the
// configured overrides: disabling chains by name and replacing the fallback
// chain. The registry is fixed after this point.
func NewManagerFromConfig(cfg *config.Config) *Manager {
	disabled := make(map[string]bool, len(cfg.Pipeline.DisabledChains))
	for _, name := range cfg.Pipeline.DisabledChains {
		disabled[name] = true
	}

	defaultChain := cfg.Pipeline.DefaultChain
	if defaultChain == "" {
		defaultChain = DefaultChainName
	}

	chains := []*Chain{
		containerChain(disabled["container"]),
		applicationChain(disabled["application"]),
		microserviceChain(disabled["microservice"]),
		databaseChain(disabled["database"]),
		genericChain(disabled[DefaultChainName]),
	}

	m := NewManager(defaultChain, chains...)
	log.Info().
		Strs("chains", m.ChainNames()).
		Str("default_chain", defaultChain).
		Msg("chain registry initialized")
	return m
}

// containerChain handles container-runtime JSON envelope logs; the full
// filter set runs because any format can hide inside the envelope.
func containerChain(disabled bool) *Chain {
	b := NewChainBuilder("container").
		WithActivation(Activation{
			FilePatterns:    []string{"docker", "container"},
			ContentPatterns: []string{`"log"`, `"stream"`, `"time"`},
			MinConfidence:   0.7,
		}).
		WithFilter(KindEnvelope).
		WithFilter(KindAppLog).
		WithFilter(KindRuntimeDiag).
		WithFilter(KindStatement).
		WithFilter(KindEnhancer).
		WithFilter(KindNormalizer)
	if disabled {
		b.Disabled()
	}
	return b.Build()
}

// applicationChain handles plain application framework logs.
func applicationChain(disabled bool) *Chain {
	b := NewChainBuilder("application").
		WithActivation(Activation{
			ContentPatterns: []string{"spring", "application.start", "INFO", "ERROR"},
			MinConfidence:   0.5,
		}).
		WithFilter(KindAppLog).
		WithFilter(KindRuntimeDiag).
		WithFilter(KindStatement).
		WithFilter(KindEnhancer).
		WithFilter(KindNormalizer)
	if disabled {
		b.Disabled()
	}
	return b.Build()
}

// microserviceChain targets request/trace-oriented service logs.
func microserviceChain(disabled bool) *Chain {
	b := NewChainBuilder("microservice").
		WithActivation(Activation{
			ContentPatterns: []string{"trace", "span", "request", "service"},
			MinConfidence:   0.4,
		}).
		WithFilter(KindAppLog).
		WithFilter(KindRuntimeDiag).
		WithFilter(KindStatement).
		WithFilter(KindEnhancer).
		WithFilter(KindNormalizer)
	if disabled {
		b.Disabled()
	}
	return b.Build()
}

// databaseChain targets ORM statement traces.
func databaseChain(disabled bool) *Chain {
	b := NewChainBuilder("database").
		WithActivation(Activation{
			ContentPatterns: []string{"preparing", "parameters", "==>", "sql"},
			MinConfidence:   0.7,
		}).
		WithFilter(KindStatement).
		WithFilter(KindAppLog).
		WithFilter(KindRuntimeDiag).
		WithFilter(KindEnhancer).
		WithFilter(KindNormalizer)
	if disabled {
		b.Disabled()
	}
	return b.Build()
}

// genericChain is the unconditional fallback.
func genericChain(disabled bool) *Chain {
	b := NewChainBuilder(DefaultChainName).
		WithFilter(KindRuntimeDiag).
		WithFilter(KindEnhancer).
		WithFilter(KindNormalizer)
	if disabled {
		b.Disabled()
	}
	return b.Build()
}
