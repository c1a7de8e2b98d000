package cargo

import (
	"strings"

	"reef/internal/diag"
)

// Extractor normalizes compiler-message records into diag.Diagnostic
// values. It also watches the artifact records interleaved with messages:
// cargo emits per-target artifact records whose package identity helps
// resolve which target produced a later message, so the Extractor carries
// that mapping explicitly, scoped to one invocation.
type Extractor struct {
	targets map[string]string
}

func NewExtractor() *Extractor {
	return &Extractor{
		targets: make(map[string]string),
	}
}

// Extract consumes one decoded Record. It returns ok=false for records
// that carry no diagnostic (artifacts, build-script events, unknown kinds);
// those still feed the target cache when they carry target identity.
// A compiler-message without level or message text is malformed and
// reported as an error without stopping the pipeline.
func (x *Extractor) Extract(rec *Record) (diag.Diagnostic, bool, error) {
	if rec == nil {
		return diag.Diagnostic{}, false, nil
	}

	if rec.Reason != ReasonCompilerMessage {
		if rec.PackageID != "" && rec.Target != nil && rec.Target.Name != "" {
			x.targets[rec.PackageID] = rec.Target.Name
		}
		return diag.Diagnostic{}, false, nil
	}

	m := rec.Message
	if m == nil || m.Level == "" {
		return diag.Diagnostic{}, false, ErrNoLevel
	}
	if m.Message == "" {
		return diag.Diagnostic{}, false, ErrNoText
	}

	d := diag.Diagnostic{
		Severity: severityOf(m.Level),
		Message:  m.Message,
		Target:   x.originTarget(rec),
	}
	if m.Code != nil {
		d.Code = m.Code.Code
	}

	primary, rest, ok := splitSpans(m.Spans)
	if ok {
		d.Primary = convertSpan(primary)
		d.HasPrimary = true
		for _, s := range rest {
			d.Secondary = append(d.Secondary, convertSpan(s))
		}
	}

	for _, c := range m.Children {
		d.Children = append(d.Children, convertChild(c, 0))
		// The external schema never nests deeper than this in practice;
		// anything below is flattened with a demoted depth marker.
		for _, gc := range c.Children {
			d.Children = append(d.Children, convertChild(gc, 1))
		}
	}

	return d, true, nil
}

func (x *Extractor) originTarget(rec *Record) string {
	if rec.Target != nil && rec.Target.Name != "" {
		return rec.Target.Name
	}
	if name, ok := x.targets[rec.PackageID]; ok {
		return name
	}
	return ""
}

// splitSpans picks the primary span and returns the remaining spans in
// source order. The first span flagged is_primary wins; when none is
// flagged the list's first entry stands in; an empty list yields ok=false.
func splitSpans(spans []Span) (primary Span, rest []Span, ok bool) {
	if len(spans) == 0 {
		return Span{}, nil, false
	}
	idx := 0
	for i := range spans {
		if spans[i].IsPrimary {
			idx = i
			break
		}
	}
	rest = make([]Span, 0, len(spans)-1)
	for i := range spans {
		if i != idx {
			rest = append(rest, spans[i])
		}
	}
	return spans[idx], rest, true
}

func convertSpan(s Span) diag.Span {
	out := diag.Span{
		File:        s.FileName,
		LineStart:   s.LineStart,
		ColumnStart: s.ColumnStart,
		LineEnd:     s.LineEnd,
		ColumnEnd:   s.ColumnEnd,
	}
	if s.SuggestedReplacement != nil {
		out.Replacement = *s.SuggestedReplacement
		out.HasReplacement = true
	}
	return out
}

func convertChild(m Message, depth uint8) diag.Child {
	c := diag.Child{
		Severity: severityOf(m.Level),
		Message:  m.Message,
		Depth:    depth,
	}
	if primary, _, ok := splitSpans(m.Spans); ok {
		c.Span = convertSpan(primary)
		c.HasSpan = true
	}
	return c
}

// severityOf maps the compiler's level strings onto the closed vocabulary.
// Unrecognised levels fail soft to SevUnknown so no output is ever lost to
// a schema bump.
func severityOf(level string) diag.Severity {
	switch level {
	case "error":
		return diag.SevError
	case "warning":
		return diag.SevWarning
	case "note", "failure-note":
		return diag.SevNote
	case "help":
		return diag.SevHelp
	}
	if strings.HasPrefix(level, "error: internal compiler error") || level == "ice" {
		return diag.SevICE
	}
	return diag.SevUnknown
}
