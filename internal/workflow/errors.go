package workflow

import (
	"fmt"

	"github.com/pricewise/pricecore/pkg/types"
)

// AuthorityError reports a decide attempt below the required rank. The
// request is left unchanged; the caller may retry with a higher-ranked actor.
type AuthorityError struct {
	RequestID string
	Actor     types.AuthorityRole
	Required  types.AuthorityRole
}

func (e *AuthorityError) Error() string {
	return fmt.Sprintf("request %s requires %s authority; %s is insufficient", e.RequestID, e.Required, e.Actor)
}

// InvalidStateError reports a decide attempt on an already-terminal request.
// The request is unchanged and no duplicate audit entry is written.
type InvalidStateError struct {
	RequestID string
	Status    types.ApprovalStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("request %s is already %s and cannot be decided again", e.RequestID, e.Status)
}
