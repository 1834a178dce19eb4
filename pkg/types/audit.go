package types

import "time"

// AuditEntry is the self-contained snapshot appended exactly once per decided
// request. It denormalizes everything needed to reconstruct the decision:
// historical reads must never depend on current product or configuration data.
type AuditEntry struct {
	AuditID        string                  `json:"audit_id"`
	RequestID      string                  `json:"request_id"`
	Proposal       PriceProposal           `json:"proposal"`
	Recommendation ValidatedRecommendation `json:"recommendation"`
	Decision       ApprovalDecision        `json:"decision"`
	CreatedAt      time.Time               `json:"created_at"`
}
