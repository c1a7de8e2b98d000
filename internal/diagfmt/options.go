package diagfmt

// DefaultWidth is the assumed terminal width when none can be detected.
const DefaultWidth uint16 = 100

// CompactOpts configures compact rendering of a report.
type CompactOpts struct {
	Color bool
	// Width is the total display width in cells; 0 means DefaultWidth.
	Width uint16
	// Verbose adds target attribution, the full message text and
	// suggested replacements to each group.
	Verbose bool
	// HideWarnings drops warning groups from the listing. The trailing
	// summary still counts them so nothing is silently lost.
	HideWarnings bool
}

// JSONOpts configures JSON re-emission of a report.
type JSONOpts struct {
	IncludeChildren     bool
	IncludeReplacements bool
	// Max truncates the emitted diagnostics list, not the report itself.
	Max int
}
