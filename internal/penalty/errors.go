package penalty

import "errors"

// Error kinds returned by the engine. Callers match them with errors.Is;
// the wrapped message carries the offending value.
var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrUnknownRuleKey = errors.New("unknown rule key")
)
