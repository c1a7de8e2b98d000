package diag

type groupKey struct {
	sev     Severity
	code    string
	file    string
	line    uint32
	col     uint32
	endLine uint32
	endCol  uint32
	hasSpan bool
	msg     string
}

func keyOf(d *Diagnostic) groupKey {
	k := groupKey{
		sev:     d.Severity,
		code:    d.Code,
		hasSpan: d.HasPrimary,
		msg:     d.Message,
	}
	if d.HasPrimary {
		k.file = d.Primary.File
		k.line = d.Primary.LineStart
		k.col = d.Primary.ColumnStart
		k.endLine = d.Primary.LineEnd
		k.endCol = d.Primary.ColumnEnd
	}
	return k
}

// Group is a deduplicated cluster of structurally equal Diagnostics that
// differ only by the target that emitted them. Rep is the first-seen
// Diagnostic; its children stand in for the whole group, consistent with
// the compiler re-emitting identical diagnostics per target.
type Group struct {
	Rep Diagnostic
	// Targets is the ordered, first-seen union of emitting targets.
	Targets []string
	// Count is the number of raw Diagnostics merged into this group.
	Count int
}

// Counts aggregates per-severity group totals for the trailing summary.
type Counts struct {
	Errors   int
	Warnings int
	Notes    int
	Helps    int
	Unknown  int
}

// Grouper collapses duplicate diagnostics across build targets and keeps
// groups in first-seen order. It is a whole-invocation accumulator: groups
// must not be read until every diagnostic has been added.
type Grouper struct {
	groups []*Group
	index  map[groupKey]int
}

func NewGrouper() *Grouper {
	return &Grouper{
		index: make(map[groupKey]int),
	}
}

// Add merges d into an existing group with the same identity or starts a
// new one. Diagnostics are never mutated after their group is decided.
func (g *Grouper) Add(d Diagnostic) {
	key := keyOf(&d)
	if idx, ok := g.index[key]; ok {
		grp := g.groups[idx]
		grp.Count++
		if d.Target != "" && !containsTarget(grp.Targets, d.Target) {
			grp.Targets = append(grp.Targets, d.Target)
		}
		return
	}
	grp := &Group{Rep: d, Count: 1}
	if d.Target != "" {
		grp.Targets = []string{d.Target}
	}
	g.index[key] = len(g.groups)
	g.groups = append(g.groups, grp)
}

// Groups returns the accumulated groups in first-seen order.
// The returned slice points at the Grouper's internal state.
func (g *Grouper) Groups() []*Group {
	return g.groups
}

func (g *Grouper) Len() int {
	return len(g.groups)
}

// HasErrors reports whether any group carries an error-grade severity.
func (g *Grouper) HasErrors() bool {
	for _, grp := range g.groups {
		if grp.Rep.Severity.IsError() {
			return true
		}
	}
	return false
}

// Counts tallies groups per severity. Duplicates collapsed by dedup count
// once: a user with the same error across lib and test targets sees 1 error.
func (g *Grouper) Counts() Counts {
	var c Counts
	for _, grp := range g.groups {
		switch grp.Rep.Severity {
		case SevError, SevICE:
			c.Errors++
		case SevWarning:
			c.Warnings++
		case SevNote:
			c.Notes++
		case SevHelp:
			c.Helps++
		default:
			c.Unknown++
		}
	}
	return c
}

func containsTarget(targets []string, name string) bool {
	for _, t := range targets {
		if t == name {
			return true
		}
	}
	return false
}
