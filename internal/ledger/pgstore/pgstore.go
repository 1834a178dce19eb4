// Package pgstore is the Postgres-backed ledger for shared deployments.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/pricewise/pricecore/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
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

// Migrate applies the embedded Postgres schema.
func (s *Store) Migrate() error {
	return ledger.Migrate(s.db, ledger.DBPostgres)
}

func (s *Store) WithTx(fn func(ledger.Tx) error) error {
	tx, err := s.db.BeginTx(context.Background(), &sql.TxOptions{})
	if err != nil {
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
	_, err := t.q.Exec(`INSERT INTO pricecore_approval_requests (
  request_id, sku, proposed_price, adjusted_price, submitted_by,
  risk_tier, required_authority, status, body_json, created_at, expires_at,
  decided_by, decided_role, decision, decision_notes, decided_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (request_id) DO UPDATE SET
  status = EXCLUDED.status,
  decided_by = EXCLUDED.decided_by,
  decided_role = EXCLUDED.decided_role,
  decision = EXCLUDED.decision,
  decision_notes = EXCLUDED.decision_notes,
  decided_at = EXCLUDED.decided_at`,
		rec.RequestID, rec.SKU, rec.ProposedPrice, rec.AdjustedPrice, rec.SubmittedBy,
		rec.RiskTier, rec.RequiredAuthority, rec.Status, rec.BodyJSON, rec.CreatedAt, rec.ExpiresAt,
		rec.DecidedBy, rec.DecidedRole, rec.Decision, rec.DecisionNotes, rec.DecidedAt)
	return err
}

func (t *Tx) GetRequest(requestID string) (ledger.RequestRecord, bool) {
	return getRequest(t.q, requestID)
}

func (t *Tx) MarkRequestDecided(stamp ledger.DecisionStamp) (bool, error) {
	res, err := t.q.Exec(`UPDATE pricecore_approval_requests SET
  status = $1, decision = $2, decided_by = $3, decided_role = $4, decision_notes = $5, decided_at = $6
WHERE request_id = $7 AND status = 'pending'`,
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
	_, err := t.q.Exec(`INSERT INTO pricecore_audit_entries (
  audit_id, request_id, sku, decision, decided_by, risk_tier,
  body_json, body_digest, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.AuditID, rec.RequestID, rec.SKU, rec.Decision, rec.DecidedBy, rec.RiskTier,
		rec.BodyJSON, rec.BodyDigest, rec.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
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
FROM pricecore_approval_requests WHERE request_id = $1`, requestID)
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
FROM pricecore_audit_entries WHERE request_id = $1`, requestID)
	if err := row.Scan(&rec.AuditID, &rec.RequestID, &rec.SKU, &rec.Decision, &rec.DecidedBy, &rec.RiskTier,
		&rec.BodyJSON, &rec.BodyDigest, &rec.CreatedAt); err != nil {
		return ledger.AuditRecord{}, false
	}
	return rec, true
}

func listAudit(q querier, filter ledger.AuditFilter) ([]ledger.AuditRecord, error) {
	query := `SELECT audit_id, request_id, sku, decision, decided_by, risk_tier,
  body_json, body_digest, created_at
FROM pricecore_audit_entries`
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.SKU != "" {
		add("sku = $%d", filter.SKU)
	}
	if filter.DecidedBy != "" {
		add("decided_by = $%d", filter.DecidedBy)
	}
	if filter.From != "" {
		add("created_at >= $%d", filter.From)
	}
	if filter.To != "" {
		add("created_at <= $%d", filter.To)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
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
