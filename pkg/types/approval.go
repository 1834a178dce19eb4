package types

import "time"

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s ApprovalStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ApprovalRequest gates a validated recommendation behind human sign-off.
// ExpiresAt is caller-defined and informational: a pending request is never
// transitioned by the passage of time alone.
type ApprovalRequest struct {
	RequestID         string         `json:"request_id"`
	Proposal          PriceProposal  `json:"proposal"`
	AdjustedPrice     float64        `json:"adjusted_price"`
	RiskTier          RiskTier       `json:"risk_tier"`
	RequiredAuthority AuthorityRole  `json:"required_authority"`
	Status            ApprovalStatus `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	ExpiresAt         *time.Time     `json:"expires_at,omitempty"`
}

// ApprovalDecision is the write-once record of who decided a request and how.
type ApprovalDecision struct {
	RequestID string        `json:"request_id"`
	DecidedBy string        `json:"decided_by"`
	Role      AuthorityRole `json:"role"`
	Decision  Decision      `json:"decision"`
	Notes     string        `json:"notes,omitempty"`
	DecidedAt time.Time     `json:"decided_at"`
}
