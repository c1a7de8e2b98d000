package cargo

import "errors"

var (
	// ErrMissingReason marks valid JSON that lacks the reason discriminant.
	ErrMissingReason = errors.New("record has no reason field")
	// ErrNoLevel marks a compiler-message whose message carries no level.
	ErrNoLevel = errors.New("compiler-message has no level")
	// ErrNoText marks a compiler-message whose message carries no text.
	ErrNoText = errors.New("compiler-message has no message text")
)
