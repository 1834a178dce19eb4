// Package sqlstore is the SQLite-backed ledger, suitable for single-node
// deployments and tests.
package sqlstore

import (
	"context"
	"database/sql"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pricewise/pricecore/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func OpenSQLite(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Migrate applies the embedded SQLite schema.
func (s *Store) Migrate() error {
	return ledger.Migrate(s.db, ledger.DBSQLite)
}

func (s *Store) WithTx(fn func(ledger.Tx) error) error {
	tx, err := s.db.BeginTx(context.Background(), &sql.TxOptions{})
	if err != nil {
		return err
	}
	if _, err := tx.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = tx.Rollback()
		return err
	}
	wrapped := &Tx{q: tx}
	if err := fn(wrapped); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) PutRequest(rec ledger.RequestRecord) error {
	return s.WithTx(func(tx ledger.Tx) error { return tx.PutRequest(rec) })
}

func (s *Store) GetRequest(requestID string) (ledger.RequestRecord, bool) {
	return getRequest(s.db, requestID)
}

func (s *Store) MarkRequestDecided(stamp ledger.DecisionStamp) (bool, error) {
	var decided bool
	err := s.WithTx(func(tx ledger.Tx) error {
		ok, err := tx.MarkRequestDecided(stamp)
		decided = ok
		return err
	})
	return decided, err
}

func (s *Store) AppendAudit(rec ledger.AuditRecord) error {
	return s.WithTx(func(tx ledger.Tx) error { return tx.AppendAudit(rec) })
}

func (s *Store) GetAuditByRequest(requestID string) (ledger.AuditRecord, bool) {
	return getAuditByRequest(s.db, requestID)
}

func (s *Store) ListAudit(filter ledger.AuditFilter) ([]ledger.AuditRecord, error) {
	return listAudit(s.db, filter)
}

type Tx struct {
	q querier
}

func (t *Tx) PutRequest(rec ledger.RequestRecord) error {
	_, err := t.q.Exec(`INSERT INTO approval_requests (
  request_id, sku, proposed_price, adjusted_price, submitted_by,
  risk_tier, required_authority, status, body_json, created_at, expires_at,
  decided_by, decided_role, decision, decision_notes, decided_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (request_id) DO UPDATE SET
  status = excluded.status,
  decided_by = excluded.decided_by,
  decided_role = excluded.decided_role,
  decision = excluded.decision,
  decision_notes = excluded.decision_notes,
  decided_at = excluded.decided_at`,
		rec.RequestID, rec.SKU, rec.ProposedPrice, rec.AdjustedPrice, rec.SubmittedBy,
		rec.RiskTier, rec.RequiredAuthority, rec.Status, rec.BodyJSON, rec.CreatedAt, rec.ExpiresAt,
		rec.DecidedBy, rec.DecidedRole, rec.Decision, rec.DecisionNotes, rec.DecidedAt)
	return err
}

func (t *Tx) GetRequest(requestID string) (ledger.RequestRecord, bool) {
	return getRequest(t.q, requestID)
}

func (t *Tx) MarkRequestDecided(stamp ledger.DecisionStamp) (bool, error) {
	res, err := t.q.Exec(`UPDATE approval_requests SET
  status = ?, decision = ?, decided_by = ?, decided_role = ?, decision_notes = ?, decided_at = ?
WHERE request_id = ? AND status = 'pending'`,
		stamp.Status, stamp.Decision, stamp.DecidedBy, stamp.DecidedRole, stamp.Notes, stamp.DecidedAt,
		stamp.RequestID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}
	if _, ok := getRequest(t.q, stamp.RequestID); !ok {
		return false, ledger.ErrRequestNotFound
	}
	return false, nil
}

func (t *Tx) AppendAudit(rec ledger.AuditRecord) error {
	_, err := t.q.Exec(`INSERT INTO audit_entries (
  audit_id, request_id, sku, decision, decided_by, risk_tier,
  body_json, body_digest, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AuditID, rec.RequestID, rec.SKU, rec.Decision, rec.DecidedBy, rec.RiskTier,
		rec.BodyJSON, rec.BodyDigest, rec.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ledger.ErrDuplicateAudit
	}
	return err
}

func (t *Tx) GetAuditByRequest(requestID string) (ledger.AuditRecord, bool) {
	return getAuditByRequest(t.q, requestID)
}

func (t *Tx) ListAudit(filter ledger.AuditFilter) ([]ledger.AuditRecord, error) {
	return listAudit(t.q, filter)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func getRequest(q querier, requestID string) (ledger.RequestRecord, bool) {
	var rec ledger.RequestRecord
	row := q.QueryRow(`SELECT request_id, sku, proposed_price, adjusted_price, submitted_by,
  risk_tier, required_authority, status, body_json, created_at, expires_at,
  decided_by, decided_role, decision, decision_notes, decided_at
FROM approval_requests WHERE request_id = ?`, requestID)
	if err := row.Scan(&rec.RequestID, &rec.SKU, &rec.ProposedPrice, &rec.AdjustedPrice, &rec.SubmittedBy,
		&rec.RiskTier, &rec.RequiredAuthority, &rec.Status, &rec.BodyJSON, &rec.CreatedAt, &rec.ExpiresAt,
		&rec.DecidedBy, &rec.DecidedRole, &rec.Decision, &rec.DecisionNotes, &rec.DecidedAt); err != nil {
		return ledger.RequestRecord{}, false
	}
	return rec, true
}

func getAuditByRequest(q querier, requestID string) (ledger.AuditRecord, bool) {
	var rec ledger.AuditRecord
	row := q.QueryRow(`SELECT audit_id, request_id, sku, decision, decided_by, risk_tier,
  body_json, body_digest, created_at
FROM audit_entries WHERE request_id = ?`, requestID)
	if err := row.Scan(&rec.AuditID, &rec.RequestID, &rec.SKU, &rec.Decision, &rec.DecidedBy, &rec.RiskTier,
		&rec.BodyJSON, &rec.BodyDigest, &rec.CreatedAt); err != nil {
		return ledger.AuditRecord{}, false
	}
	return rec, true
}

func listAudit(q querier, filter ledger.AuditFilter) ([]ledger.AuditRecord, error) {
	query := `SELECT audit_id, request_id, sku, decision, decided_by, risk_tier,
  body_json, body_digest, created_at
FROM audit_entries`
	var (
		clauses []string
		args    []any
	)
	if filter.SKU != "" {
		clauses = append(clauses, "sku = ?")
		args = append(args, filter.SKU)
	}
	if filter.DecidedBy != "" {
		clauses = append(clauses, "decided_by = ?")
		args = append(args, filter.DecidedBy)
	}
	if filter.From != "" {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		clauses = append(clauses, "created_at <= ?")
		args = append(args, filter.To)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ledger.AuditRecord{}
	for rows.Next() {
		var rec ledger.AuditRecord
		if err := rows.Scan(&rec.AuditID, &rec.RequestID, &rec.SKU, &rec.Decision, &rec.DecidedBy, &rec.RiskTier,
			&rec.BodyJSON, &rec.BodyDigest, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
