package guardrail

import "fmt"

// ValidationError reports structurally corrupt product or proposal data.
// It is fatal: the pipeline aborts before any side effect. A normal clamp is
// never a ValidationError; clamps are recorded as violations instead.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
