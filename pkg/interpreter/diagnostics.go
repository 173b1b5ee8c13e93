package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"zapush/interpreter-go/pkg/parser"
)

// DiagnosticLocation references a source span for diagnostics.
type DiagnosticLocation struct {
	Path      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Diagnostic is the CLI-facing description of a parse or runtime failure.
type Diagnostic struct {
	Kind       string
	Message    string
	Location   DiagnosticLocation
	Suggestion string
}

// BuildDiagnostic extracts kind and location from parser and interpreter
// errors. Other errors keep only their message.
func BuildDiagnostic(err error, path string) Diagnostic {
	diag := Diagnostic{Location: DiagnosticLocation{Path: path}}
	if err == nil {
		return diag
	}
	diag.Message = err.Error()

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		diag.Kind = "ParseError"
		diag.Message = strings.TrimSpace(strings.TrimPrefix(parseErr.Message, "parser:"))
		diag.Location.Line = parseErr.Location.Line
		diag.Location.Column = parseErr.Location.Column
		diag.Location.EndLine = parseErr.Location.EndLine
		diag.Location.EndColumn = parseErr.Location.EndColumn
	}

	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		diag.Kind = string(rtErr.Kind)
		diag.Message = rtErr.Message
		diag.Suggestion = rtErr.Suggestion
		if !rtErr.Span.IsZero() {
			diag.Location.Line = rtErr.Span.Start.Line
			diag.Location.Column = rtErr.Span.Start.Column
			diag.Location.EndLine = rtErr.Span.End.Line
			diag.Location.EndColumn = rtErr.Span.End.Column
		}
	}
	return diag
}

// DescribeDiagnostic renders `path:line:col: Kind: message`, followed by the
// offending source line and a caret marker when source is available.
func DescribeDiagnostic(diag Diagnostic, source []byte) string {
	var b strings.Builder
	if location := formatDiagnosticLocation(diag.Location); location != "" {
		b.WriteString(location)
		b.WriteString(": ")
	}
	if diag.Kind != "" {
		b.WriteString(diag.Kind)
		b.WriteString(": ")
	}
	b.WriteString(diag.Message)
	if diag.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", diag.Suggestion)
	}
	if snippet := sourceSnippet(diag.Location, source); snippet != "" {
		b.WriteString("\n")
		b.WriteString(snippet)
	}
	return b.String()
}

// FormatDiagnostic is BuildDiagnostic followed by DescribeDiagnostic.
func FormatDiagnostic(err error, path string, source []byte) string {
	return DescribeDiagnostic(BuildDiagnostic(err, path), source)
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	switch {
	case path != "" && loc.Line > 0 && loc.Column > 0:
		return fmt.Sprintf("%s:%d:%d", path, loc.Line, loc.Column)
	case path != "" && loc.Line > 0:
		return fmt.Sprintf("%s:%d", path, loc.Line)
	case path != "":
		return path
	case loc.Line > 0 && loc.Column > 0:
		return fmt.Sprintf("line %d, column %d", loc.Line, loc.Column)
	default:
		return ""
	}
}

func sourceSnippet(loc DiagnosticLocation, source []byte) string {
	if loc.Line <= 0 || len(source) == 0 {
		return ""
	}
	lines := strings.Split(string(source), "\n")
	if loc.Line > len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[loc.Line-1], "\r")
	column := loc.Column
	if column < 1 {
		column = 1
	}
	width := 1
	if loc.EndLine == loc.Line && loc.EndColumn > column {
		width = loc.EndColumn - column
	}
	if column-1 > len(line) {
		column = len(line) + 1
	}
	if column-1+width > len(line) {
		width = max(1, len(line)-(column-1))
	}
	gutter := fmt.Sprintf("%4d | ", loc.Line)
	var prefix strings.Builder
	for _, ch := range line[:column-1] {
		if ch == '\t' {
			prefix.WriteByte('\t')
		} else {
			prefix.WriteByte(' ')
		}
	}
	return fmt.Sprintf("%s%s\n%s%s%s", gutter, line, strings.Repeat(" ", len(gutter)), prefix.String(), strings.Repeat("^", width))
}
