package ledger

import (
	"sort"
	"sync"
)

// InMemoryStore is the embedding-friendly backend: a single mutex guards all
// state, so WithTx gives the same atomicity the SQL backends do.
type InMemoryStore struct {
	mu sync.Mutex

	requests map[string]RequestRecord
	audits   map[string]AuditRecord // keyed by request ID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		requests: make(map[string]RequestRecord),
		audits:   make(map[string]AuditRecord),
	}
}

func (s *InMemoryStore) WithTx(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Run against a copy so a failed fn leaves no partial writes.
	shadow := &memTx{
		requests: make(map[string]RequestRecord, len(s.requests)),
		audits:   make(map[string]AuditRecord, len(s.audits)),
	}
	for k, v := range s.requests {
		shadow.requests[k] = v
	}
	for k, v := range s.audits {
		shadow.audits[k] = v
	}

	if err := fn(shadow); err != nil {
		return err
	}

	s.requests = shadow.requests
	s.audits = shadow.audits
	return nil
}

func (s *InMemoryStore) PutRequest(rec RequestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[rec.RequestID] = rec
	return nil
}

func (s *InMemoryStore) GetRequest(requestID string) (RequestRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.requests[requestID]
	return rec, ok
}

func (s *InMemoryStore) MarkRequestDecided(stamp DecisionStamp) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return markDecided(s.requests, stamp)
}

func (s *InMemoryStore) AppendAudit(rec AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendAudit(s.audits, rec)
}

func (s *InMemoryStore) GetAuditByRequest(requestID string) (AuditRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.audits[requestID]
	return rec, ok
}

func (s *InMemoryStore) ListAudit(filter AuditFilter) ([]AuditRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listAudit(s.audits, filter)
}

type memTx struct {
	requests map[string]RequestRecord
	audits   map[string]AuditRecord
}

func (t *memTx) PutRequest(rec RequestRecord) error {
	t.requests[rec.RequestID] = rec
	return nil
}

func (t *memTx) GetRequest(requestID string) (RequestRecord, bool) {
	rec, ok := t.requests[requestID]
	return rec, ok
}

func (t *memTx) MarkRequestDecided(stamp DecisionStamp) (bool, error) {
	return markDecided(t.requests, stamp)
}

func (t *memTx) AppendAudit(rec AuditRecord) error {
	return appendAudit(t.audits, rec)
}

func (t *memTx) GetAuditByRequest(requestID string) (AuditRecord, bool) {
	rec, ok := t.audits[requestID]
	return rec, ok
}

func (t *memTx) ListAudit(filter AuditFilter) ([]AuditRecord, error) {
	return listAudit(t.audits, filter)
}

func markDecided(requests map[string]RequestRecord, stamp DecisionStamp) (bool, error) {
	rec, ok := requests[stamp.RequestID]
	if !ok {
		return false, ErrRequestNotFound
	}
	if rec.Status != "pending" {
		return false, nil
	}

	rec.Status = stamp.Status
	rec.Decision = &stamp.Decision
	rec.DecidedBy = &stamp.DecidedBy
	rec.DecidedRole = &stamp.DecidedRole
	rec.DecisionNotes = &stamp.Notes
	rec.DecidedAt = &stamp.DecidedAt
	requests[stamp.RequestID] = rec
	return true, nil
}

func appendAudit(audits map[string]AuditRecord, rec AuditRecord) error {
	if _, exists := audits[rec.RequestID]; exists {
		return ErrDuplicateAudit
	}
	audits[rec.RequestID] = rec
	return nil
}

func listAudit(audits map[string]AuditRecord, filter AuditFilter) ([]AuditRecord, error) {
	out := []AuditRecord{}
	for _, rec := range audits {
		if filter.matches(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
