// Package cargo decodes the newline-delimited JSON stream emitted by
// `cargo check --message-format json` and extracts diag.Diagnostic values
// from it. Schema-drift tolerance is confined to this package: unmodeled
// fields are ignored, unknown record kinds map to ReasonUnknown, and only
// the explicit errors in errors.go are ever reported upstream.
package cargo

// Reason discriminates the top-level record kinds cargo emits.
type Reason uint8

const (
	// ReasonUnknown tags records whose reason this tool does not model.
	// They are tolerated and skipped, never a decode failure.
	ReasonUnknown Reason = iota
	ReasonCompilerMessage
	ReasonCompilerArtifact
	ReasonBuildScriptExecuted
	ReasonBuildFinished
)

func (r Reason) String() string {
	switch r {
	case ReasonCompilerMessage:
		return "compiler-message"
	case ReasonCompilerArtifact:
		return "compiler-artifact"
	case ReasonBuildScriptExecuted:
		return "build-script-executed"
	case ReasonBuildFinished:
		return "build-finished"
	}
	return "unknown"
}

func reasonOf(s string) Reason {
	switch s {
	case "compiler-message":
		return ReasonCompilerMessage
	case "compiler-artifact":
		return ReasonCompilerArtifact
	case "build-script-executed":
		return ReasonBuildScriptExecuted
	case "build-finished":
		return ReasonBuildFinished
	}
	return ReasonUnknown
}

// Record is one decoded line of the message stream. It lives only for the
// decode-to-extract handoff; nothing retains Records across lines.
type Record struct {
	Reason    Reason
	PackageID string
	Target    *Target
	Message   *Message
	// Success is set on build-finished records.
	Success *bool
}

// Target identifies the build target (lib/bin/test/example) a record
// belongs to.
type Target struct {
	Kind       []string `json:"kind"`
	CrateTypes []string `json:"crate_types"`
	Name       string   `json:"name"`
	SrcPath    string   `json:"src_path"`
	Edition    string   `json:"edition"`
}

// Message is the nested compiler message carried by compiler-message
// records. Children are message-like objects without their own spans/code
// requirements; the compiler nests them at most one practical level deep.
type Message struct {
	Message  string    `json:"message"`
	Code     *Code     `json:"code"`
	Level    string    `json:"level"`
	Spans    []Span    `json:"spans"`
	Children []Message `json:"children"`
	Rendered string    `json:"rendered"`
}

// Code is the compiler's short diagnostic identifier.
type Code struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Span is one source range attached to a message. Lines and columns are
// 1-based.
type Span struct {
	FileName             string  `json:"file_name"`
	ByteStart            uint32  `json:"byte_start"`
	ByteEnd              uint32  `json:"byte_end"`
	LineStart            uint32  `json:"line_start"`
	LineEnd              uint32  `json:"line_end"`
	ColumnStart          uint32  `json:"column_start"`
	ColumnEnd            uint32  `json:"column_end"`
	IsPrimary            bool    `json:"is_primary"`
	Label                string  `json:"label"`
	SuggestedReplacement *string `json:"suggested_replacement"`
}
