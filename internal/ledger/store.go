// Package ledger persists approval requests and the append-only audit trail.
// Audit rows are denormalized snapshots: reconstruction of a past decision
// never depends on current product or configuration data.
package ledger

import "errors"

var (
	ErrDuplicateAudit  = errors.New("audit entry already exists for request")
	ErrRequestNotFound = errors.New("approval request not found")
)

type Store interface {
	WithTx(fn func(Tx) error) error

	PutRequest(rec RequestRecord) error
	GetRequest(requestID string) (RequestRecord, bool)
	MarkRequestDecided(stamp DecisionStamp) (bool, error)

	AppendAudit(rec AuditRecord) error
	GetAuditByRequest(requestID string) (AuditRecord, bool)
	ListAudit(filter AuditFilter) ([]AuditRecord, error)
}

type Tx interface {
	PutRequest(rec RequestRecord) error
	GetRequest(requestID string) (RequestRecord, bool)
	MarkRequestDecided(stamp DecisionStamp) (bool, error)

	AppendAudit(rec AuditRecord) error
	GetAuditByRequest(requestID string) (AuditRecord, bool)
	ListAudit(filter AuditFilter) ([]AuditRecord, error)
}

// RequestRecord is the stored shape of an approval request. Timestamps are
// RFC3339 UTC strings. BodyJSON carries the full proposal + recommendation
// snapshot taken at creation.
type RequestRecord struct {
	RequestID         string
	SKU               string
	ProposedPrice     float64
	AdjustedPrice     float64
	SubmittedBy       string
	RiskTier          string
	RequiredAuthority string
	Status            string
	BodyJSON          []byte
	CreatedAt         string
	ExpiresAt         *string
	DecidedBy         *string
	DecidedRole       *string
	Decision          *string
	DecisionNotes     *string
	DecidedAt         *string
}

// DecisionStamp is the compare-and-set payload for deciding a request: the
// update only applies while the stored status is still pending.
type DecisionStamp struct {
	RequestID   string
	Status      string
	Decision    string
	DecidedBy   string
	DecidedRole string
	Notes       string
	DecidedAt   string
}

// AuditRecord is one row of the append-only ledger. RequestID is unique:
// backends must reject a second append for the same request.
type AuditRecord struct {
	AuditID    string
	RequestID  string
	SKU        string
	Decision   string
	DecidedBy  string
	RiskTier   string
	BodyJSON   []byte
	BodyDigest string
	CreatedAt  string
}

// AuditFilter narrows a ledger query. Zero values mean "any"; From and To
// compare against created_at and are inclusive.
type AuditFilter struct {
	SKU       string
	DecidedBy string
	From      string
	To        string
	Limit     int
}

func (f AuditFilter) matches(rec AuditRecord) bool {
	if f.SKU != "" && rec.SKU != f.SKU {
		return false
	}
	if f.DecidedBy != "" && rec.DecidedBy != f.DecidedBy {
		return false
	}
	if f.From != "" && rec.CreatedAt < f.From {
		return false
	}
	if f.To != "" && rec.CreatedAt > f.To {
		return false
	}
	return true
}
