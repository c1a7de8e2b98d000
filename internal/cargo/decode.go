package cargo

import (
	"encoding/json"
	"fmt"
	"strings"
)

type rawRecord struct {
	Reason    *string  `json:"reason"`
	PackageID string   `json:"package_id"`
	Target    *Target  `json:"target"`
	Message   *Message `json:"message"`
	Success   *bool    `json:"success"`
}

// DecodeLine decodes one line of the message stream into a Record.
//
// A nil Record with a nil error means the line was blank and should be
// skipped silently. Malformed JSON and the absence of the reason field are
// the only decode failures; both are non-fatal to the pipeline and the
// caller is expected to collect them and move on. Unknown reason values
// and unmodeled fields are tolerated.
func DecodeLine(line []byte) (*Record, error) {
	if len(strings.TrimSpace(string(line))) == 0 {
		return nil, nil
	}

	var raw rawRecord
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, fmt.Errorf("malformed JSON: %w", err)
	}
	if raw.Reason == nil {
		return nil, ErrMissingReason
	}

	return &Record{
		Reason:    reasonOf(*raw.Reason),
		PackageID: raw.PackageID,
		Target:    raw.Target,
		Message:   raw.Message,
		Success:   raw.Success,
	}, nil
}
