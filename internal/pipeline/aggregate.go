package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"logsieve/internal/model"
	"logsieve/internal/util"
)

// maxStackLines bounds a single aggregated exception record so a pathological
// input cannot fold an entire file into one line.
const maxStackLines = 50

var fqnPrefixPattern = regexp.MustCompile(`^(?:[a-z][a-zA-Z0-9_]*\.){2,}[A-Za-z][\w$]*`)

// isExceptionStart reports whether a line opens an exception block. Container
// envelope JSON can mention "Error:" inside its payload, so envelopes never
// start a block; they have to be unwrapped first.
func isExceptionStart(content string) bool {
	if looksLikeEnvelope(content) {
		return false
	}
	return strings.Contains(content, "Exception:") ||
		strings.Contains(content, "Error:") ||
		fqnPrefixPattern.MatchString(strings.TrimSpace(content))
}

// isStackContinuation reports whether a line belongs to the exception block
// opened above it.
func isStackContinuation(content string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "at ") ||
		strings.HasPrefix(trimmed, "Caused by:") ||
		strings.HasPrefix(trimmed, "Suppressed:") {
		return true
	}
	// Indented frame-like lines, e.g. "    (ReflectiveCallable.java:12)".
	if content != trimmed && strings.Contains(trimmed, "(") && strings.Contains(trimmed, ")") {
		return true
	}
	return false
}

// AggregateExceptions folds an exception line plus its stack-trace
// continuations into one composite record. The composite keeps the start
// line's number and is forced to ERROR/stderr; the first non-continuation
// line ends the block and is processed independently.
func AggregateExceptions(lines []*model.LogLine) []*model.LogLine {
	out := make([]*model.LogLine, 0, len(lines))

	for i := 0; i < len(lines); {
		start := lines[i]
		if !isExceptionStart(start.Content) {
			out = append(out, start)
			i++
			continue
		}

		group := []string{start.Content}
		j := i + 1
		for j < len(lines) && len(group) < maxStackLines && isStackContinuation(lines[j].Content) {
			group = append(group, lines[j].Content)
			j++
		}

		composite := model.NewLogLine(start.LineNumber, strings.Join(group, "\n"))
		composite.Level = model.LevelError
		composite.Metadata = start.Metadata
		composite.AddMetadata("aggregated", "true")
		composite.AddMetadata("stack_lines", strconv.Itoa(len(group)))
		composite.AddMetadata("stream", "stderr")
		out = append(out, composite)
		i = j
	}
	return out
}

// MergeStatements joins a "preparing" line with an immediately following
// "parameters" line into one record whose content carries the substituted
// statement. A preparing line with anything else after it is emitted as-is,
// and the lookahead line is processed from its own position; orphaned
// parameter or result lines are left alone for the statement filter.
func MergeStatements(lines []*model.LogLine) []*model.LogLine {
	out := make([]*model.LogLine, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		cur := lines[i]
		lower := strings.ToLower(cur.Content)
		if !strings.Contains(lower, markerPreparing) {
			out = append(out, cur)
			continue
		}

		stmt := tightenStatement(textAfterMarker(cur.Content, markerPreparing))
		if i+1 < len(lines) && strings.Contains(strings.ToLower(lines[i+1].Content), markerParameters) {
			params := textAfterMarker(lines[i+1].Content, markerParameters)
			merged := substituteParams(stmt, params)

			cur.Content = "Preparing: " + merged
			cur.FormattedContent = "SQL: " + util.Truncate(merged, maxDisplaySQL)
			cur.AddMetadata("merged", "true")
			cur.AddMetadata("sql_with_params", "true")
			out = append(out, cur)
			i++ // parameters line consumed
			continue
		}

		cur.Content = "Preparing: " + stmt
		cur.AddMetadata("merged", "true")
		cur.AddMetadata("sql_only", "true")
		out = append(out, cur)
	}
	return out
}

// substituteParams replaces each "?" placeholder positionally with the next
// parameter. Type suffixes like "(Integer)" are stripped; numeric values go
// in bare, everything else single-quoted. Placeholders beyond the parameter
// list stay as "?". A trailing semicolon marks the statement executable.
func substituteParams(stmt, rawParams string) string {
	params := splitParams(rawParams)

	var b strings.Builder
	next := 0
	for _, r := range stmt {
		if r == '?' && next < len(params) {
			b.WriteString(renderParam(params[next]))
			next++
			continue
		}
		b.WriteRune(r)
	}

	result := b.String()
	if !strings.HasSuffix(result, ";") {
		result += ";"
	}
	return result
}

func splitParams(raw string) []string {
	var params []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			params = append(params, p)
		}
	}
	return params
}

// renderParam strips the "(Type)" suffix and quotes non-numeric values.
func renderParam(p string) string {
	if i := strings.Index(p, "("); i >= 0 {
		p = strings.TrimSpace(p[:i])
	}
	if p == "" {
		return "''"
	}
	if _, err := strconv.ParseFloat(p, 64); err == nil {
		return p
	}
	return "'" + p + "'"
}

// statementTightenings collapses the spacing a wrapped ORM trace introduces
// around operators, so the merged statement reads as one executable line.
var statementTightenings = [][2]string{
	{"  ", " "},
	{" ,", ","},
	{"( ", "("},
	{" )", ")"},
	{" = ", "="},
	{" < ", "<"},
	{" > ", ">"},
	{" != ", "!="},
	{" <= ", "<="},
	{" >= ", ">="},
}

func tightenStatement(sql string) string {
	sql = strings.Join(strings.Fields(sql), " ")
	for _, t := range statementTightenings {
		sql = strings.ReplaceAll(sql, t[0], t[1])
	}
	return sql
}
