package pipeline_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logsieve/internal/model"
	"logsieve/internal/pipeline"
)

func runSingleFilter(t *testing.T, k pipeline.Kind, content string) *model.ParseResult {
	t.Helper()
	chain := pipeline.NewChainBuilder("single").WithFilter(k).Build()
	result, err := chain.Run(&model.ParseRequest{Content: content})
	require.NoError(t, err)
	return result
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ERROR", model.LevelError},
		{"err", model.LevelError},
		{"FATAL", model.LevelError},
		{"SEVERE", model.LevelError},
		{"WARN", model.LevelWarn},
		{"warning", model.LevelWarn},
		{"ALERT", model.LevelWarn},
		{"INFO", model.LevelInfo},
		{"Information", model.LevelInfo},
		{"NOTE", model.LevelInfo},
		{"DEBUG", model.LevelDebug},
		{"trace", model.LevelDebug},
		{"VERBOSE", model.LevelDebug},
		{"CUSTOM", "CUSTOM"},
		{"notice", "NOTICE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, pipeline.NormalizeLevel(tt.input))
		})
	}
}

func TestGuessLevel(t *testing.T) {
	assert.Equal(t, model.LevelError, pipeline.GuessLevel("something error happened"))
	assert.Equal(t, model.LevelWarn, pipeline.GuessLevel("warning: low disk"))
	assert.Equal(t, model.LevelInfo, pipeline.GuessLevel("info banner"))
	assert.Equal(t, model.LevelDebug, pipeline.GuessLevel("nothing special"))
}

func TestEnvelopeFilterCanonicalizesWrapperTime(t *testing.T) {
	content := `{"log":"hello\n","stream":"stdout","time":"2025-01-15T10:30:45.123456789Z"}`
	result := runSingleFilter(t, pipeline.KindEnvelope, content)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, "hello", line.Content)
	assert.Equal(t, "stdout", line.Metadata["stream"])
	assert.Equal(t, "2025-01-15T10:30:45", line.Timestamp)
	assert.Equal(t, "2025-01-15T10:30:45.123456789Z", line.Metadata["original_time"])
}

func TestEnvelopeFilterLosslessTimeKeepsNoOriginal(t *testing.T) {
	content := `{"log":"hello\n","stream":"stdout","time":"2025-01-15T10:30:45"}`
	result := runSingleFilter(t, pipeline.KindEnvelope, content)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, "2025-01-15T10:30:45", line.Timestamp)
	assert.NotContains(t, line.Metadata, "original_time")
}

func TestAppLogFilterExtraction(t *testing.T) {
	content := "2025-01-15 10:30:45.123  INFO 1234 --- [           main] c.e.demo.DemoApplication    : Started DemoApplication in 2.5 seconds"
	result := runSingleFilter(t, pipeline.KindAppLog, content)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, model.LevelInfo, line.Level)
	assert.Equal(t, "2025-01-15T10:30:45", line.Timestamp)
	assert.Equal(t, "2025-01-15 10:30:45.123", line.Metadata["original_time"])
	assert.Equal(t, "main", line.Metadata["thread"])
	assert.Equal(t, "c.e.demo.DemoApplication", line.Metadata["logger"])
	assert.Equal(t, "stdout", line.Metadata["stream"])
	assert.Equal(t, "Started DemoApplication in 2.5 seconds", line.Content)
}

func TestAppLogFilterWithoutThreadOrLogger(t *testing.T) {
	content := "2025-01-15 10:30:45.123 ERROR Connection refused"
	result := runSingleFilter(t, pipeline.KindAppLog, content)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, model.LevelError, line.Level)
	assert.Equal(t, "Connection refused", line.Content)
	assert.Equal(t, "stderr", line.Metadata["stream"])
}

func TestAppLogFilterUnparsedFallback(t *testing.T) {
	content := "2025-01-15 10:30:45.123 INFO [main] app : structured\ncompletely freeform error text"
	result := runSingleFilter(t, pipeline.KindAppLog, content)

	require.Len(t, result.Lines, 2)
	unparsed := result.Lines[1]
	assert.Equal(t, model.LevelError, unparsed.Level)
	assert.Equal(t, "unparsed", unparsed.Metadata["type"])
	assert.Equal(t, "stderr", unparsed.Metadata["stream"])
}

func TestRuntimeDiagFilter(t *testing.T) {
	content := "[0.123s][warning][gc] -XX:+PrintGCDetails is deprecated"
	result := runSingleFilter(t, pipeline.KindRuntimeDiag, content)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, model.LevelWarn, line.Level)
	assert.Equal(t, "0.123s", line.Timestamp)
	assert.Equal(t, "gc", line.Metadata["tag"])
	assert.Equal(t, "runtime", line.Metadata["log_type"])
	assert.Equal(t, "-XX:+PrintGCDetails is deprecated", line.Content)
}

func TestStatementFilterAnnotatesResultLines(t *testing.T) {
	content := "DEBUG - <==      Total: 1"
	result := runSingleFilter(t, pipeline.KindStatement, content)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, "result", line.Metadata["sql_type"])
	assert.Equal(t, model.LevelInfo, line.Level)
}

func TestEnhancerFilter(t *testing.T) {
	content := "visit https://example.com or mail admin@example.com"
	result := runSingleFilter(t, pipeline.KindEnhancer, content)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	assert.Equal(t, "true", line.Metadata["has_url"])
	assert.Equal(t, "true", line.Metadata["has_email"])
	assert.Empty(t, line.Metadata["is_error"])
}

func TestNormalizerBuildsDisplayString(t *testing.T) {
	chain := pipeline.NewChainBuilder("display").
		WithFilter(pipeline.KindAppLog).
		WithFilter(pipeline.KindNormalizer).
		Build()
	result, err := chain.Run(&model.ParseRequest{
		Content: "2025-01-15 10:30:45.123 INFO [main] c.e.OrderService : order placed",
	})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	formatted := result.Lines[0].FormattedContent
	assert.True(t, strings.HasPrefix(formatted, "INFO 10:30:45 "), formatted)
	assert.Contains(t, formatted, "order placed")
	// Logger abbreviated to its budget.
	assert.Contains(t, formatted, "c.e.O...")
}

func TestNormalizerJSONBody(t *testing.T) {
	longJSON := `{"key":"` + strings.Repeat("v", 100) + `"}`
	result := runSingleFilter(t, pipeline.KindNormalizer, longJSON)

	require.Len(t, result.Lines, 1)
	formatted := result.Lines[0].FormattedContent
	assert.True(t, strings.HasPrefix(formatted, "JSON: "), formatted)
	assert.True(t, strings.HasSuffix(formatted, "..."), formatted)
}

func TestFormattedContentIsIdempotent(t *testing.T) {
	chain := pipeline.NewChainBuilder("container-like").
		WithFilter(pipeline.KindEnvelope).
		WithFilter(pipeline.KindRuntimeDiag).
		WithFilter(pipeline.KindNormalizer).
		Build()

	content := `{"log":"[0.200s][info][gc] GC(1) Pause Young 4.2ms\n","stream":"stdout","time":"2025-01-15T10:30:45Z"}`
	result, err := chain.Run(&model.ParseRequest{Content: content})
	require.NoError(t, err)

	require.Len(t, result.Lines, 1)
	line := result.Lines[0]
	// The envelope filter set the display form first; later filters must not
	// replace it.
	assert.Equal(t, "[gc] GC(1) Pause Young 4.2ms", line.FormattedContent)
	assert.Equal(t, model.LevelInfo, line.Level)
	assert.Equal(t, "gc", line.Metadata["tag"])
	assert.Equal(t, "GC(1) Pause Young 4.2ms", line.Content)
}
