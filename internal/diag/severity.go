package diag

// Severity defines the importance of a diagnostic.
//
// The order is meaningful: SevUnknown is the lowest-priority bucket for
// levels this tool does not recognise, SevICE the highest.
type Severity uint8

const (
	// SevUnknown is the fail-soft bucket for unrecognised compiler levels.
	SevUnknown Severity = iota
	// SevNote is for secondary explanatory diagnostics.
	SevNote
	// SevHelp is for actionable suggestions.
	SevHelp
	SevWarning
	SevError
	// SevICE marks an internal compiler error.
	SevICE
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "note"
	case SevHelp:
		return "help"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevICE:
		return "ice"
	}
	return "unknown"
}

// IsError reports whether the severity counts towards build failure.
func (s Severity) IsError() bool {
	return s >= SevError
}
