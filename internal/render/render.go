// Package render turns diagnostic events produced by the checker core into
// human-readable text using fasttemplate to stitch field values into a
// message skeleton: here the "template" is a message skeleton and the
// "values" are a diagnostic event's fields.
package render

import (
	"fmt"

	"github.com/projectdiscovery/fasttemplate"
)

const (
	parenOpen  = "{{"
	parenClose = "}}"
)

// DiagnosticEvent mirrors checkfile.DiagnosticEvent's exported fields. It is
// redeclared here, rather than importing the core package, so that this
// renderer can be reused by any future presentation layer without pulling
// in the matching engine itself.
type DiagnosticEvent struct {
	DirectiveKind string
	Prefix        string
	CheckLine     int
	CheckCol      int
	MatchKind     string
	InputLine     int
	InputCol      int
	Message       string
	FuzzyScore    float64
}

// Templates maps each match kind to its default message skeleton. Callers
// may override any entry before calling Render.
var Templates = map[string]string{
	"found-and-expected":  "{{prefix}}:{{checkline}}:{{checkcol}}: {{kind}} matched at {{inputline}}:{{inputcol}}",
	"found-but-excluded":  "{{prefix}}:{{checkline}}:{{checkcol}}: {{kind}} found excluded text at {{inputline}}:{{inputcol}}",
	"found-but-wrong-line": "{{prefix}}:{{checkline}}:{{checkcol}}: {{kind}} matched on the wrong line ({{message}})",
	"found-but-discarded": "{{prefix}}:{{checkline}}:{{checkcol}}: {{kind}} match discarded, overlaps an earlier CHECK-DAG match",
	"none-and-excluded":   "{{prefix}}:{{checkline}}:{{checkcol}}: {{kind}} correctly absent",
	"none-but-expected":   "{{prefix}}:{{checkline}}:{{checkcol}}: {{kind}} expected but not found ({{message}})",
	"fuzzy":               "{{prefix}}:{{checkline}}:{{checkcol}}: possible intended match at {{inputline}}:{{inputcol}} (score {{score}})",
}

// Render expands ev against its MatchKind's template (or a generic fallback
// if the kind is unrecognized).
func Render(ev DiagnosticEvent) string {
	tpl, ok := Templates[ev.MatchKind]
	if !ok {
		tpl = "{{prefix}}:{{checkline}}:{{checkcol}}: {{kind}} [{{matchkind}}] {{message}}"
	}

	values := map[string]interface{}{
		"prefix":    ev.Prefix,
		"kind":      ev.DirectiveKind,
		"matchkind": ev.MatchKind,
		"checkline": ev.CheckLine,
		"checkcol":  ev.CheckCol,
		"inputline": ev.InputLine,
		"inputcol":  ev.InputCol,
		"message":   ev.Message,
		"score":     fmt.Sprintf("%.1f", ev.FuzzyScore),
	}
	strValues := make(map[string]interface{}, len(values))
	for k, v := range values {
		strValues[k] = fmt.Sprint(v)
	}
	return fasttemplate.ExecuteStringStd(tpl, parenOpen, parenClose, strValues)
}

// RenderAll expands a whole run's worth of events in order, one line each.
func RenderAll(events []DiagnosticEvent) []string {
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = Render(ev)
	}
	return lines
}
