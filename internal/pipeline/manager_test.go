package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logsieve/config"
	"logsieve/internal/model"
	"logsieve/internal/pipeline"
)

func presetManager(t *testing.T) *pipeline.Manager {
	t.Helper()
	return pipeline.NewManagerFromConfig(&config.Config{})
}

func TestSelectEnvelopeFastPath(t *testing.T) {
	m := presetManager(t)

	content := `{"log":"Hello world\n","stream":"stdout","time":"2025-01-15T10:30:45.123456789Z"}`
	for _, pathHint := range []string{"", "/var/log/app/whatever.txt"} {
		chain := m.Select(content, pathHint)
		require.NotNil(t, chain)
		assert.Equal(t, "container", chain.Name())
	}
}

func TestSelectEnvelopeFastPathRequiresJSONShape(t *testing.T) {
	m := presetManager(t)

	// Prose that merely mentions the wrapper keys must go through scoring,
	// not the fast path.
	content := `2025-01-15 10:30:45.123 ERROR 1 --- [main] c.e.App : malformed "log" payload on "stream" handler, brace { unbalanced`
	chain := m.Select(content, "")
	require.NotNil(t, chain)
	assert.NotEqual(t, "container", chain.Name())
	assert.Equal(t, "application", chain.Name())

	// An envelope missing the "time" key skips the fast path but still lands
	// on the container chain through scoring.
	noTime := `{"log":"hello\n","stream":"stdout"}`
	chain = m.Select(noTime, "")
	require.NotNil(t, chain)
	assert.Equal(t, "container", chain.Name())
}

func TestSelectPrefersMatchingActivationOnTie(t *testing.T) {
	// "special" has 50% filter coverage plus a matching activation (0.9);
	// "fallback" has full coverage and no activation (0.9). The tie must go
	// to the chain whose activation matched.
	special := pipeline.NewChainBuilder("special").
		WithActivation(pipeline.Activation{ContentPatterns: []string{"preparing"}}).
		WithFilter(pipeline.KindStatement).
		WithFilter(pipeline.KindRuntimeDiag).
		Build()
	fallback := pipeline.NewChainBuilder("fallback").
		WithFilter(pipeline.KindEnhancer).
		WithFilter(pipeline.KindNormalizer).
		Build()

	m := pipeline.NewManager("fallback", special, fallback)
	chain := m.Select("Preparing: SELECT 1", "")
	require.NotNil(t, chain)
	assert.Equal(t, "special", chain.Name())
}

func TestSelectFallsBackToDefaultOnLowScore(t *testing.T) {
	special := pipeline.NewChainBuilder("special").
		WithActivation(pipeline.Activation{ContentPatterns: []string{"docker"}}).
		WithFilter(pipeline.KindStatement).
		Build()
	safety := pipeline.NewChainBuilder("safety").
		WithFilter(pipeline.KindEnvelope).
		Build()

	m := pipeline.NewManager("safety", special, safety)
	chain := m.Select("plain text with no recognizable format", "")
	require.NotNil(t, chain)
	assert.Equal(t, "safety", chain.Name())
}

func TestSelectSkipsDisabledChains(t *testing.T) {
	m := pipeline.NewManagerFromConfig(&config.Config{
		Pipeline: config.PipelineConfig{DisabledChains: []string{"container"}},
	})

	content := `{"log":"x\n","stream":"stdout","time":"2025-01-15T10:30:45Z"}`
	chain := m.Select(content, "")
	require.NotNil(t, chain)
	assert.NotEqual(t, "container", chain.Name())
}

func TestProcessWithPluginOverride(t *testing.T) {
	m := presetManager(t)

	result, err := m.Process(&model.ParseRequest{
		Content: "some ordinary text",
		Plugin:  pipeline.DefaultChainName,
	})
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultChainName, result.DetectedFormat)
}

func TestProcessUnknownPluginFails(t *testing.T) {
	m := presetManager(t)

	_, err := m.Process(&model.ParseRequest{
		Content: "whatever",
		Plugin:  "does-not-exist",
	})
	assert.Error(t, err)
}

func TestProcessEndToEndEnvelope(t *testing.T) {
	m := presetManager(t)

	content := `{"log":"2025-01-15 10:30:45.123  INFO 1 --- [main] c.e.App : Started\n","stream":"stdout","time":"2025-01-15T10:30:45.200Z"}` + "\n" +
		`{"log":"broken json`

	result, err := m.Process(&model.ParseRequest{Content: content})
	require.NoError(t, err)
	assert.Equal(t, "container", result.DetectedFormat)
	assert.Equal(t, 2, result.TotalLines)
	require.Len(t, result.Lines, 2)

	first := result.Lines[0]
	assert.Equal(t, model.LevelInfo, first.Level)
	assert.Equal(t, "stdout", first.Metadata["stream"])
	assert.Equal(t, "Started", first.Content)
	assert.Equal(t, "c.e.App", first.Metadata["logger"])

	// The second envelope is malformed: reported, never dropped.
	assert.NotEmpty(t, result.ParsingErrors)
}
