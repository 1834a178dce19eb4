package sqlstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/pricewise/pricecore/internal/ledger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func request(id, sku, createdAt string) ledger.RequestRecord {
	return ledger.RequestRecord{
		RequestID:         id,
		SKU:               sku,
		ProposedPrice:     80.99,
		AdjustedPrice:     80.99,
		SubmittedBy:       "jordan",
		RiskTier:          "MEDIUM",
		RequiredAuthority: "SENIOR_ANALYST",
		Status:            "pending",
		BodyJSON:          []byte(`{}`),
		CreatedAt:         createdAt,
	}
}

func audit(requestID, sku, decidedBy, createdAt string) ledger.AuditRecord {
	return ledger.AuditRecord{
		AuditID:    "audit-" + requestID,
		RequestID:  requestID,
		SKU:        sku,
		Decision:   "approve",
		DecidedBy:  decidedBy,
		RiskTier:   "MEDIUM",
		BodyJSON:   []byte(`{}`),
		BodyDigest: "sha256:deadbeef",
		CreatedAt:  createdAt,
	}
}

func TestRequestLifecycle(t *testing.T) {
	store := openTestStore(t)

	if err := store.PutRequest(request("req-1", "SKU1", "2026-03-10T09:00:00Z")); err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, ok := store.GetRequest("req-1")
	if !ok {
		t.Fatalf("request not found after put")
	}
	if rec.Status != "pending" || rec.SKU != "SKU1" || rec.SubmittedBy != "jordan" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.DecidedBy != nil || rec.DecidedAt != nil {
		t.Fatalf("pending record must have no decision columns: %+v", rec)
	}

	stamp := ledger.DecisionStamp{
		RequestID:   "req-1",
		Status:      "approved",
		Decision:    "approve",
		DecidedBy:   "casey",
		DecidedRole: "MANAGER",
		Notes:       "ok",
		DecidedAt:   "2026-03-10T10:00:00Z",
	}
	decided, err := store.MarkRequestDecided(stamp)
	if err != nil || !decided {
		t.Fatalf("decide: decided=%v err=%v", decided, err)
	}

	rec, _ = store.GetRequest("req-1")
	if rec.Status != "approved" {
		t.Fatalf("status not persisted: %s", rec.Status)
	}
	if rec.DecidedBy == nil || *rec.DecidedBy != "casey" || rec.DecidedRole == nil || *rec.DecidedRole != "MANAGER" {
		t.Fatalf("decision columns not persisted: %+v", rec)
	}

	// Compare-and-set: the second attempt finds no pending row.
	decided, err = store.MarkRequestDecided(stamp)
	if err != nil {
		t.Fatalf("second decide: %v", err)
	}
	if decided {
		t.Fatalf("second decide must not apply")
	}

	if _, err := store.MarkRequestDecided(ledger.DecisionStamp{RequestID: "absent", Status: "approved"}); !errors.Is(err, ledger.ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}

	if _, ok := store.GetRequest("absent"); ok {
		t.Fatalf("absent request must not resolve")
	}
}

func TestAppendAuditUnique(t *testing.T) {
	store := openTestStore(t)

	if err := store.PutRequest(request("req-1", "SKU1", "2026-03-10T09:00:00Z")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.AppendAudit(audit("req-1", "SKU1", "casey", "2026-03-10T10:00:00Z")); err != nil {
		t.Fatalf("append: %v", err)
	}

	dup := audit("req-1", "SKU1", "casey", "2026-03-10T11:00:00Z")
	dup.AuditID = "audit-other"
	if err := store.AppendAudit(dup); !errors.Is(err, ledger.ErrDuplicateAudit) {
		t.Fatalf("expected ErrDuplicateAudit, got %v", err)
	}

	rec, ok := store.GetAuditByRequest("req-1")
	if !ok || rec.CreatedAt != "2026-03-10T10:00:00Z" {
		t.Fatalf("first append must win: %+v", rec)
	}
}

func TestWithTxAtomicity(t *testing.T) {
	store := openTestStore(t)
	if err := store.PutRequest(request("req-1", "SKU1", "2026-03-10T09:00:00Z")); err != nil {
		t.Fatalf("put: %v", err)
	}

	boom := errors.New("boom")
	err := store.WithTx(func(tx ledger.Tx) error {
		decided, err := tx.MarkRequestDecided(ledger.DecisionStamp{
			RequestID: "req-1", Status: "approved", Decision: "approve",
			DecidedBy: "casey", DecidedRole: "MANAGER", DecidedAt: "2026-03-10T10:00:00Z",
		})
		if err != nil || !decided {
			t.Fatalf("tx decide: decided=%v err=%v", decided, err)
		}
		if err := tx.AppendAudit(audit("req-1", "SKU1", "casey", "2026-03-10T10:00:00Z")); err != nil {
			t.Fatalf("tx append: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	rec, _ := store.GetRequest("req-1")
	if rec.Status != "pending" {
		t.Fatalf("rolled-back tx must leave the request pending, got %s", rec.Status)
	}
	if _, ok := store.GetAuditByRequest("req-1"); ok {
		t.Fatalf("rolled-back tx must leave no audit row")
	}
}

func TestListAuditFilters(t *testing.T) {
	store := openTestStore(t)

	seed := []struct {
		id, sku, decidedBy, createdAt string
	}{
		{"req-1", "SKU1", "casey", "2026-03-10T10:00:00Z"},
		{"req-2", "SKU2", "jordan", "2026-03-11T10:00:00Z"},
		{"req-3", "SKU1", "casey", "2026-03-12T10:00:00Z"},
	}
	for _, s := range seed {
		if err := store.PutRequest(request(s.id, s.sku, s.createdAt)); err != nil {
			t.Fatalf("put %s: %v", s.id, err)
		}
		if err := store.AppendAudit(audit(s.id, s.sku, s.decidedBy, s.createdAt)); err != nil {
			t.Fatalf("append %s: %v", s.id, err)
		}
	}

	all, err := store.ListAudit(ledger.AuditFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: got %d rows, err=%v", len(all), err)
	}
	if all[0].RequestID != "req-1" || all[2].RequestID != "req-3" {
		t.Fatalf("rows not in chronological order: %+v", all)
	}

	bySKU, err := store.ListAudit(ledger.AuditFilter{SKU: "SKU1"})
	if err != nil || len(bySKU) != 2 {
		t.Fatalf("sku filter: got %d rows, err=%v", len(bySKU), err)
	}

	combined, err := store.ListAudit(ledger.AuditFilter{
		SKU:       "SKU1",
		DecidedBy: "casey",
		From:      "2026-03-11T00:00:00Z",
		To:        "2026-03-13T00:00:00Z",
		Limit:     5,
	})
	if err != nil || len(combined) != 1 || combined[0].RequestID != "req-3" {
		t.Fatalf("combined filter: %+v err=%v", combined, err)
	}

	limited, err := store.ListAudit(ledger.AuditFilter{Limit: 1})
	if err != nil || len(limited) != 1 || limited[0].RequestID != "req-1" {
		t.Fatalf("limit must keep the oldest row: %+v err=%v", limited, err)
	}
}
