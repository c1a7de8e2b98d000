package diag

// Report is the finished result of one cargo invocation: the deduplicated
// groups plus the bookkeeping the renderer needs for its trailing summary.
type Report struct {
	Groups []*Group
	Counts Counts
	// Unparsable counts input lines that failed to decode or lacked
	// required fields. Non-zero values surface in the summary so data loss
	// is never silent.
	Unparsable int
	// Samples holds the first few unparsable-line descriptions, shown in
	// verbose output so the summary count can be chased down.
	Samples []string
	// Interrupted is set when the stream ended abnormally (process killed,
	// pipe closed). The report still carries everything collected so far.
	Interrupted bool
	// BuildOK reflects the build-finished record when one was seen,
	// otherwise the process exit status.
	BuildOK bool
}

// HasErrors reports whether the report contains any error-grade group.
func (r *Report) HasErrors() bool {
	for _, grp := range r.Groups {
		if grp.Rep.Severity.IsError() {
			return true
		}
	}
	return false
}
