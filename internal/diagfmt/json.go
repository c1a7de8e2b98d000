package diagfmt

import (
	"encoding/json"
	"io"

	"reef/internal/diag"
)

// LocationJSON is a source range in JSON output.
type LocationJSON struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// ChildJSON is a nested note/help message in JSON output.
type ChildJSON struct {
	Severity string        `json:"severity"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Depth    uint8         `json:"depth,omitempty"`
}

// GroupJSON is one deduplicated diagnostic in JSON output.
type GroupJSON struct {
	Severity    string        `json:"severity"`
	Code        string        `json:"code,omitempty"`
	Message     string        `json:"message"`
	Location    *LocationJSON `json:"location,omitempty"`
	Targets     []string      `json:"targets,omitempty"`
	Count       int           `json:"count"`
	Children    []ChildJSON   `json:"children,omitempty"`
	Replacement string        `json:"replacement,omitempty"`
}

// ReportJSON is the root structure of JSON output.
type ReportJSON struct {
	Diagnostics []GroupJSON `json:"diagnostics"`
	Count       int         `json:"count"`
	Errors      int         `json:"errors"`
	Warnings    int         `json:"warnings"`
	Unparsable  int         `json:"unparsable,omitempty"`
	Interrupted bool        `json:"interrupted,omitempty"`
	BuildOK     bool        `json:"build_ok"`
}

func makeLocation(span diag.Span) *LocationJSON {
	return &LocationJSON{
		File:      span.File,
		StartLine: span.LineStart,
		StartCol:  span.ColumnStart,
		EndLine:   span.LineEnd,
		EndCol:    span.ColumnEnd,
	}
}

// BuildReportJSON assembles the JSON output structure without serialising.
func BuildReportJSON(rep *diag.Report, opts JSONOpts) ReportJSON {
	maxItems := len(rep.Groups)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	groups := make([]GroupJSON, 0, maxItems)
	for _, grp := range rep.Groups[:maxItems] {
		d := &grp.Rep
		gj := GroupJSON{
			Severity: d.Severity.String(),
			Code:     d.Code,
			Message:  d.Message,
			Targets:  grp.Targets,
			Count:    grp.Count,
		}
		if d.HasPrimary {
			gj.Location = makeLocation(d.Primary)
		}
		if opts.IncludeChildren {
			for _, c := range d.Children {
				cj := ChildJSON{
					Severity: c.Severity.String(),
					Message:  c.Message,
					Depth:    c.Depth,
				}
				if c.HasSpan {
					cj.Location = makeLocation(c.Span)
				}
				gj.Children = append(gj.Children, cj)
			}
		}
		if opts.IncludeReplacements && d.Primary.HasReplacement {
			gj.Replacement = d.Primary.Replacement
		}
		groups = append(groups, gj)
	}

	return ReportJSON{
		Diagnostics: groups,
		Count:       len(groups),
		Errors:      rep.Counts.Errors,
		Warnings:    rep.Counts.Warnings,
		Unparsable:  rep.Unparsable,
		Interrupted: rep.Interrupted,
		BuildOK:     rep.BuildOK,
	}
}

// JSON re-emits the deduplicated report as machine-readable JSON.
func JSON(w io.Writer, rep *diag.Report, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildReportJSON(rep, opts))
}
