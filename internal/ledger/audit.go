package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/pricewise/pricecore/pkg/types"
)

// BuildRequestRecord flattens an approval request plus its recommendation
// snapshot into the stored shape.
func BuildRequestRecord(req types.ApprovalRequest, rec types.ValidatedRecommendation) (RequestRecord, error) {
	body, err := json.Marshal(requestBody{Proposal: req.Proposal, Recommendation: rec})
	if err != nil {
		return RequestRecord{}, err
	}

	stored := RequestRecord{
		RequestID:         req.RequestID,
		SKU:               req.Proposal.SKU,
		ProposedPrice:     req.Proposal.ProposedPrice,
		AdjustedPrice:     req.AdjustedPrice,
		SubmittedBy:       req.Proposal.SubmittedBy,
		RiskTier:          string(req.RiskTier),
		RequiredAuthority: string(req.RequiredAuthority),
		Status:            string(req.Status),
		BodyJSON:          body,
		CreatedAt:         formatTime(req.CreatedAt),
	}
	if req.ExpiresAt != nil {
		expires := formatTime(*req.ExpiresAt)
		stored.ExpiresAt = &expires
	}
	return stored, nil
}

type requestBody struct {
	Proposal       types.PriceProposal           `json:"proposal"`
	Recommendation types.ValidatedRecommendation `json:"recommendation"`
}

// DecodeRequest rebuilds the domain request from a stored record.
func DecodeRequest(rec RequestRecord) (types.ApprovalRequest, types.ValidatedRecommendation, error) {
	var body requestBody
	if err := json.Unmarshal(rec.BodyJSON, &body); err != nil {
		return types.ApprovalRequest{}, types.ValidatedRecommendation{}, err
	}

	req := types.ApprovalRequest{
		RequestID:         rec.RequestID,
		Proposal:          body.Proposal,
		AdjustedPrice:     rec.AdjustedPrice,
		RiskTier:          types.RiskTier(rec.RiskTier),
		RequiredAuthority: types.AuthorityRole(rec.RequiredAuthority),
		Status:            types.ApprovalStatus(rec.Status),
	}
	if t, err := parseTime(rec.CreatedAt); err == nil {
		req.CreatedAt = t
	}
	if rec.ExpiresAt != nil {
		if t, err := parseTime(*rec.ExpiresAt); err == nil {
			req.ExpiresAt = &t
		}
	}
	return req, body.Recommendation, nil
}

// BuildAuditRecord serializes a self-contained audit entry and stamps it with
// a sha256 digest of the body for tamper evidence.
func BuildAuditRecord(entry types.AuditEntry) (AuditRecord, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return AuditRecord{}, err
	}

	return AuditRecord{
		AuditID:    entry.AuditID,
		RequestID:  entry.RequestID,
		SKU:        entry.Proposal.SKU,
		Decision:   string(entry.Decision.Decision),
		DecidedBy:  entry.Decision.DecidedBy,
		RiskTier:   string(entry.Recommendation.Risk.Tier),
		BodyJSON:   body,
		BodyDigest: digest(body),
		CreatedAt:  formatTime(entry.CreatedAt),
	}, nil
}

// DecodeAudit rebuilds the domain entry from a stored row.
func DecodeAudit(rec AuditRecord) (types.AuditEntry, error) {
	var entry types.AuditEntry
	if err := json.Unmarshal(rec.BodyJSON, &entry); err != nil {
		return types.AuditEntry{}, err
	}
	return entry, nil
}

// VerifyAudit recomputes the body digest and reports whether it matches.
func VerifyAudit(rec AuditRecord) bool {
	return digest(rec.BodyJSON) == rec.BodyDigest
}

func digest(body []byte) string {
	sum := sha256.Sum256(body)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
