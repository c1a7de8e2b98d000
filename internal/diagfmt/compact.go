// Package diagfmt renders diag.Report values for humans and machines.
// Compact output is the point of the tool: one line per deduplicated
// diagnostic, truncated to the terminal width, never wrapped.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"reef/internal/diag"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	iceColor  = color.New(color.FgMagenta, color.Bold)
	warnColor = color.New(color.FgYellow)
	noteColor = color.New(color.FgCyan)
	helpColor = color.New(color.FgGreen)
	locColor  = color.New(color.FgHiCyan)
	dimColor  = color.New(color.Faint)
)

// Compact writes the report as one summary line per group, children
// indented beneath, followed by the per-severity totals. Output is
// byte-identical for identical input: no clocks, no map iteration.
func Compact(w io.Writer, rep *diag.Report, opts CompactOpts) {
	width := int(opts.Width)
	if width == 0 {
		width = int(DefaultWidth)
	}

	if opts.Verbose && len(rep.Groups) > 0 {
		header := "  location: message"
		if opts.Color {
			header = dimColor.Sprint(header)
		}
		fmt.Fprintln(w, header)
	}

	for _, grp := range rep.Groups {
		if opts.HideWarnings && grp.Rep.Severity == diag.SevWarning {
			continue
		}
		writeGroup(w, grp, width, opts)
	}

	if rep.Interrupted {
		fmt.Fprintln(w, "stream interrupted; report may be incomplete")
	}
	fmt.Fprintln(w, summaryLine(rep))
	if opts.Verbose {
		for _, sample := range rep.Samples {
			line := "  unparsable " + fitWidth(sample, width-14)
			if opts.Color {
				line = dimColor.Sprint(line)
			}
			fmt.Fprintln(w, line)
		}
		if rep.BuildOK {
			fmt.Fprintln(w, "build succeeded")
		} else {
			fmt.Fprintln(w, "build failed")
		}
	}
}

func writeGroup(w io.Writer, grp *diag.Group, width int, opts CompactOpts) {
	d := &grp.Rep

	loc := locationOf(d)
	prefix := severityGlyph(d.Severity) + " " + loc + ": "
	msg := d.Message
	if !opts.Verbose {
		msg = d.FirstLine()
	}
	msg = fitWidth(msg, width-runewidth.StringWidth(prefix))

	if opts.Color {
		fmt.Fprintf(w, "%s %s: %s\n",
			severityColor(d.Severity).Sprint(severityGlyph(d.Severity)),
			locColor.Sprint(loc),
			msg)
	} else {
		fmt.Fprintf(w, "%s %s: %s\n", severityGlyph(d.Severity), loc, msg)
	}

	if opts.Verbose && len(grp.Targets) > 1 {
		line := fmt.Sprintf("    in %d targets: %s", len(grp.Targets), strings.Join(grp.Targets, ", "))
		if opts.Color {
			line = dimColor.Sprint(line)
		}
		fmt.Fprintln(w, line)
	}

	for i := range d.Children {
		writeChild(w, &d.Children[i], width, opts)
	}

	if opts.Verbose && d.Primary.HasReplacement {
		fmt.Fprintf(w, "    suggestion: %s\n", fitWidth(d.Primary.Replacement, width-16))
	}
}

func writeChild(w io.Writer, c *diag.Child, width int, opts CompactOpts) {
	indent := strings.Repeat("  ", 2+int(c.Depth))
	label := childLabel(c.Severity)
	body := fitWidth(firstLine(c.Message), width-runewidth.StringWidth(indent+label+": "))

	if opts.Color {
		fmt.Fprintf(w, "%s%s: %s\n", indent, severityColor(c.Severity).Sprint(label), body)
	} else {
		fmt.Fprintf(w, "%s%s: %s\n", indent, label, body)
	}
}

// summaryLine builds the single aggregate line every run ends with.
func summaryLine(rep *diag.Report) string {
	c := rep.Counts
	line := fmt.Sprintf("%s, %s", plural(c.Errors, "error"), plural(c.Warnings, "warning"))
	if rep.Unparsable > 0 {
		line += fmt.Sprintf(", %s unparsable", plural(rep.Unparsable, "line"))
	}
	return line
}

func locationOf(d *diag.Diagnostic) string {
	if d.HasPrimary {
		return fmt.Sprintf("%s:%d:%d", d.Primary.File, d.Primary.LineStart, d.Primary.ColumnStart)
	}
	// Crate-level diagnostics have no source anchor; fall back to the
	// emitting target so the line still says where it came from.
	if d.Target != "" {
		return d.Target
	}
	return "—"
}

func severityGlyph(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "✗"
	case diag.SevICE:
		return "‼"
	case diag.SevWarning:
		return "▲"
	case diag.SevNote:
		return "•"
	case diag.SevHelp:
		return "◦"
	}
	return "·"
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevICE:
		return iceColor
	case diag.SevWarning:
		return warnColor
	case diag.SevNote:
		return noteColor
	case diag.SevHelp:
		return helpColor
	}
	return dimColor
}

func childLabel(s diag.Severity) string {
	switch s {
	case diag.SevNote, diag.SevHelp, diag.SevWarning, diag.SevError, diag.SevICE:
		return s.String()
	}
	return "info"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// fitWidth cuts value to width display cells with an ellipsis marker.
// Messages are never wrapped; compactness is the whole value proposition.
func fitWidth(value string, width int) string {
	value = firstLineOrJoined(value)
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// Truncate reserves the tail's width inside the budget.
	return runewidth.Truncate(value, width, "...")
}

// firstLineOrJoined collapses embedded newlines so a multi-line message
// can never break the one-line-per-diagnostic contract.
func firstLineOrJoined(s string) string {
	if !strings.ContainsRune(s, '\n') {
		return s
	}
	return strings.Join(strings.Split(s, "\n"), " ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
