package types

import "time"

// PriceProposal is an incoming request to change a SKU's price. The proposed
// price is untrusted input: zero and negative values reach the guardrail
// engine and are clamped there, never assumed valid.
type PriceProposal struct {
	SKU           string    `json:"sku"`
	ProposedPrice float64   `json:"proposed_price"`
	SubmittedBy   string    `json:"submitted_by"`
	Notes         string    `json:"notes,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
