// Package workflow manages the approval lifecycle: request creation, the
// pending -> approved/rejected state machine, authority checks, and the
// exactly-once audit append that makes a decision final.
package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pricewise/pricecore/internal/config"
	"github.com/pricewise/pricecore/internal/ledger"
	"github.com/pricewise/pricecore/internal/risk"
	"github.com/pricewise/pricecore/internal/telemetry"
	"github.com/pricewise/pricecore/pkg/types"
)

type Manager struct {
	store     ledger.Store
	authority config.AuthorityConfig
	policy    config.WorkflowConfig
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger

	// locks holds one mutex per request id. Contention is scoped to a single
	// request; distinct proposals never block each other.
	locks sync.Map
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func NewManager(store ledger.Store, authority config.AuthorityConfig, policy config.WorkflowConfig, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		authority: authority,
		policy:    policy,
		now:       time.Now,
		newID:     uuid.NewString,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a pending approval request for a validated recommendation.
// When the auto-approval policy is enabled, a LOW-tier recommendation with
// non-negative revenue delta is decided immediately by the system actor;
// everything else waits for a human.
func (m *Manager) Create(proposal types.PriceProposal, rec types.ValidatedRecommendation, expiresAt *time.Time) (types.ApprovalRequest, error) {
	req := types.ApprovalRequest{
		RequestID:         m.newID(),
		Proposal:          proposal,
		AdjustedPrice:     rec.AdjustedPrice,
		RiskTier:          rec.Risk.Tier,
		RequiredAuthority: rec.RequiredAuthority,
		Status:            types.StatusPending,
		CreatedAt:         m.now().UTC(),
		ExpiresAt:         expiresAt,
	}

	stored, err := ledger.BuildRequestRecord(req, rec)
	if err != nil {
		return types.ApprovalRequest{}, err
	}
	if err := m.store.PutRequest(stored); err != nil {
		return types.ApprovalRequest{}, err
	}

	m.log.Info().
		Str("request_id", req.RequestID).
		Str("sku", proposal.SKU).
		Str("tier", string(rec.Risk.Tier)).
		Str("required_authority", string(rec.RequiredAuthority)).
		Msg("approval request created")

	if m.policy.AutoApproveLow && rec.Risk.Tier == types.TierLow && rec.Impact.RevenueDelta >= 0 {
		return m.Decide(req.RequestID, m.policy.SystemActor, rec.RequiredAuthority, types.DecisionApprove, "auto-approved: low risk, non-negative revenue impact")
	}

	return req, nil
}

// Get returns the request with its live status.
func (m *Manager) Get(requestID string) (types.ApprovalRequest, error) {
	stored, ok := m.store.GetRequest(requestID)
	if !ok {
		return types.ApprovalRequest{}, ledger.ErrRequestNotFound
	}
	req, _, err := ledger.DecodeRequest(stored)
	return req, err
}

// Decide transitions a pending request to a terminal status. The transition
// and its audit append commit in one store transaction: the audit write is
// durable before any caller can observe the terminal status. A second call
// on the same request fails with InvalidStateError and writes nothing.
func (m *Manager) Decide(requestID, actor string, role types.AuthorityRole, decision types.Decision, notes string) (types.ApprovalRequest, error) {
	if decision != types.DecisionApprove && decision != types.DecisionReject {
		return types.ApprovalRequest{}, fmt.Errorf("unknown decision %q", decision)
	}

	mu := m.lockFor(requestID)
	mu.Lock()
	defer mu.Unlock()

	stored, ok := m.store.GetRequest(requestID)
	if !ok {
		return types.ApprovalRequest{}, ledger.ErrRequestNotFound
	}
	req, rec, err := ledger.DecodeRequest(stored)
	if err != nil {
		return types.ApprovalRequest{}, err
	}

	if req.Status.Terminal() {
		telemetry.InvalidStateTotal.Inc()
		return types.ApprovalRequest{}, &InvalidStateError{RequestID: requestID, Status: req.Status}
	}
	if !risk.Outranks(role, req.RequiredAuthority, m.authority) {
		telemetry.AuthorityDeniedTotal.Inc()
		return types.ApprovalRequest{}, &AuthorityError{RequestID: requestID, Actor: role, Required: req.RequiredAuthority}
	}

	decidedAt := m.now().UTC()
	status := types.StatusApproved
	if decision == types.DecisionReject {
		status = types.StatusRejected
	}

	entry := types.AuditEntry{
		AuditID:        m.newID(),
		RequestID:      requestID,
		Proposal:       req.Proposal,
		Recommendation: rec,
		Decision: types.ApprovalDecision{
			RequestID: requestID,
			DecidedBy: actor,
			Role:      role,
			Decision:  decision,
			Notes:     notes,
			DecidedAt: decidedAt,
		},
		CreatedAt: decidedAt,
	}
	auditRec, err := ledger.BuildAuditRecord(entry)
	if err != nil {
		return types.ApprovalRequest{}, err
	}

	err = m.store.WithTx(func(tx ledger.Tx) error {
		decided, err := tx.MarkRequestDecided(ledger.DecisionStamp{
			RequestID:   requestID,
			Status:      string(status),
			Decision:    string(decision),
			DecidedBy:   actor,
			DecidedRole: string(role),
			Notes:       notes,
			DecidedAt:   decidedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return err
		}
		if !decided {
			return &InvalidStateError{RequestID: requestID, Status: req.Status}
		}
		return tx.AppendAudit(auditRec)
	})
	if err != nil {
		return types.ApprovalRequest{}, err
	}

	telemetry.DecisionsTotal.WithLabelValues(string(decision)).Inc()
	telemetry.AuditAppendsTotal.Inc()
	m.log.Info().
		Str("request_id", requestID).
		Str("decided_by", actor).
		Str("role", string(role)).
		Str("decision", string(decision)).
		Msg("approval request decided")

	req.Status = status
	return req, nil
}

// Audit returns decoded audit entries matching the filter, oldest first.
func (m *Manager) Audit(filter ledger.AuditFilter) ([]types.AuditEntry, error) {
	records, err := m.store.ListAudit(filter)
	if err != nil {
		return nil, err
	}
	entries := make([]types.AuditEntry, 0, len(records))
	for _, rec := range records {
		entry, err := ledger.DecodeAudit(rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (m *Manager) lockFor(requestID string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(requestID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
