package diag

// Span is a source location range attached to a diagnostic.
// Line and column numbers are 1-based, matching the compiler's own output.
type Span struct {
	File        string
	LineStart   uint32
	ColumnStart uint32
	LineEnd     uint32
	ColumnEnd   uint32
	// Replacement carries a suggested fix for this span when the compiler
	// provided one. Rendered only by patch-style output, never by compact.
	Replacement    string
	HasReplacement bool
}

// Child is a note/help message nested under a parent diagnostic.
// The compiler's hierarchy is at most two levels deep in practice, so
// grandchildren are flattened into the same list with Depth set to 1.
type Child struct {
	Severity Severity
	Message  string
	Span     Span
	HasSpan  bool
	Depth    uint8
}

// Diagnostic is one compiler-emitted error/warning/note/help item.
type Diagnostic struct {
	Severity Severity
	// Code is the lint or error code ("E0308", "unused_variables"), empty
	// when the compiler attached none.
	Code    string
	Message string
	Primary Span
	// HasPrimary is false for diagnostics with no source anchor, such as
	// crate-level lint summaries.
	HasPrimary bool
	Secondary  []Span
	Children   []Child
	// Target names the build target (lib/bin/test) that emitted the record.
	// Used for grouping attribution only; never part of the dedup identity.
	Target string
}

// FirstLine returns the first line of the message, the part compact
// rendering shows.
func (d *Diagnostic) FirstLine() string {
	for i := 0; i < len(d.Message); i++ {
		if d.Message[i] == '\n' {
			return d.Message[:i]
		}
	}
	return d.Message
}
