package achievement

import "errors"

var (
	// ErrInvalidRequirement means a spec carries a requirement type the
	// registry does not know, or a malformed parameter. Fatal at catalog
	// seeding, recovered per-record during backfill.
	ErrInvalidRequirement = errors.New("invalid achievement requirement")

	// ErrUnknownDefinition means an evaluation tick referenced a definition
	// that no longer exists. The tick is skipped, never fatal to the
	// activity write that triggered it.
	ErrUnknownDefinition = errors.New("unknown achievement definition")

	// ErrCompletionConflict means another tick won the completed transition
	// first. Expected under concurrent evaluation, not an error condition.
	ErrCompletionConflict = errors.New("achievement already completed by concurrent evaluation")
)
