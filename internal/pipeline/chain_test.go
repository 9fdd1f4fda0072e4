package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logsieve/internal/model"
	"logsieve/internal/pipeline"
)

func TestChainBuilderSortsByPriority(t *testing.T) {
	chain := pipeline.NewChainBuilder("out-of-order").
		WithFilter(pipeline.KindNormalizer).
		WithFilter(pipeline.KindStatement).
		WithFilter(pipeline.KindEnvelope).
		WithFilter(pipeline.KindAppLog).
		Build()

	assert.Equal(t, []string{"envelope", "applog", "statement", "normalizer"}, chain.FilterNames())
}

func TestChainRunRejectsDisabled(t *testing.T) {
	chain := pipeline.NewChainBuilder("off").
		WithFilter(pipeline.KindNormalizer).
		Disabled().
		Build()

	_, err := chain.Run(&model.ParseRequest{Content: "anything"})
	assert.Error(t, err)
}

func TestChainRunRejectsActivationMismatch(t *testing.T) {
	chain := pipeline.NewChainBuilder("picky").
		WithActivation(pipeline.Activation{ContentPatterns: []string{"needle"}}).
		WithFilter(pipeline.KindNormalizer).
		Build()

	_, err := chain.Run(&model.ParseRequest{Content: "haystack only"})
	require.Error(t, err)

	result, err := chain.Run(&model.ParseRequest{Content: "needle in haystack"})
	require.NoError(t, err)
	assert.Equal(t, "picky", result.DetectedFormat)
}

func TestChainRunCountsRawNonEmptyLines(t *testing.T) {
	content := "first\n\nsecond\n\n\nthird\n"
	chain := pipeline.NewChainBuilder("count").
		WithFilter(pipeline.KindNormalizer).
		Build()

	result, err := chain.Run(&model.ParseRequest{Content: content})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalLines)
	require.Len(t, result.Lines, 3)
	// Blank lines are dropped, but original positions survive.
	assert.Equal(t, 1, result.Lines[0].LineNumber)
	assert.Equal(t, 3, result.Lines[1].LineNumber)
	assert.Equal(t, 6, result.Lines[2].LineNumber)
}

func TestChainRunTotalLinesImmuneToAggregation(t *testing.T) {
	content := "java.lang.IllegalStateException: bad state\n" +
		"\tat com.example.A.a(A.java:1)\n" +
		"\tat com.example.B.b(B.java:2)\n"
	chain := pipeline.NewChainBuilder("agg").
		WithFilter(pipeline.KindNormalizer).
		Build()

	result, err := chain.Run(&model.ParseRequest{Content: content})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalLines)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "3", result.Lines[0].Metadata["stack_lines"])
}

func TestChainRunRecordsProcessedFilters(t *testing.T) {
	chain := pipeline.NewChainBuilder("trace").
		WithFilter(pipeline.KindEnvelope).
		WithFilter(pipeline.KindNormalizer).
		Build()

	result, err := chain.Run(&model.ParseRequest{
		Content: `{"log":"hello\n","stream":"stdout","time":"2025-01-15T10:30:45Z"}`,
	})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.True(t, line.IsProcessedBy("envelope"))
	assert.True(t, line.IsProcessedBy("normalizer"))
	assert.Equal(t, "hello", line.Content)
}

func TestContextStopChainHaltsExecution(t *testing.T) {
	ctx := pipeline.NewContext("one line")
	require.True(t, ctx.ShouldContinue)

	ctx.StopChain()
	assert.False(t, ctx.ShouldContinue)
}
