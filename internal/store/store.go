// Package store persists users, sessions, contracts and the denormalized
// analysis records written back by the workflow engine. All derived report
// state is computed per request by internal/report; nothing derived is
// stored here.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gu00col/ross-sub000/internal/report"
)

// ErrNotFound covers both "row does not exist" and "row is not owned by the
// requesting user" so handlers cannot leak the existence of other users'
// contracts.
var ErrNotFound = errors.New("store: not found")

// Contract statuses.
const (
	StatusPending  = "pending"
	StatusAnalyzed = "analyzed"
)

type Store struct {
	db *sql.DB
}

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
}

type Contract struct {
	ID        string
	UserID    int64
	Filename  string
	Status    string
	ObjectKey string
	CreatedAt time.Time
}

// Open opens (creating if needed) the sqlite database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			expires_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contracts (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			filename TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			object_key TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			contract_id TEXT NOT NULL REFERENCES contracts(id),
			section_id INTEGER NOT NULL,
			display_order INTEGER NOT NULL,
			label TEXT NOT NULL,
			content TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_contract ON analysis_records(contract_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contracts_user ON contracts(user_id)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// --- Users & sessions ---

func (s *Store) CreateUser(ctx context.Context, email, name, passwordHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash) VALUES (?, ?, ?)",
		email, name, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash FROM users WHERE email = ?", email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *Store) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		token, userID, expiresAt.UTC())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionUser resolves a session token to its user. Expired or unknown
// tokens yield ErrNotFound.
func (s *Store) SessionUser(ctx context.Context, token string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name, u.password_hash
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = ? AND s.expires_at > ?`, token, time.Now().UTC()).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return u, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// --- Contracts ---

func (s *Store) CreateContract(ctx context.Context, c *Contract) error {
	if c.Status == "" {
		c.Status = StatusPending
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO contracts (id, user_id, filename, status, object_key) VALUES (?, ?, ?, ?, ?)",
		c.ID, c.UserID, c.Filename, c.Status, c.ObjectKey)
	if err != nil {
		return fmt.Errorf("create contract: %w", err)
	}
	return nil
}

// Contract fetches one contract scoped to its owner.
func (s *Store) Contract(ctx context.Context, id string, userID int64) (*Contract, error) {
	return s.contractWhere(ctx, "id = ? AND user_id = ?", id, userID)
}

// ContractByID fetches a contract without owner scoping. Only the results
// webhook uses this; everything user-facing goes through Contract.
func (s *Store) ContractByID(ctx context.Context, id string) (*Contract, error) {
	return s.contractWhere(ctx, "id = ?", id)
}

func (s *Store) contractWhere(ctx context.Context, where string, args ...any) (*Contract, error) {
	c := &Contract{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, filename, status, object_key, created_at FROM contracts WHERE "+where,
		args...).
		Scan(&c.ID, &c.UserID, &c.Filename, &c.Status, &c.ObjectKey, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query contract: %w", err)
	}
	return c, nil
}

// ListContracts returns one page of the user's contracts, newest first,
// plus the total count for pagination.
func (s *Store) ListContracts(ctx context.Context, userID int64, page, pageSize int) ([]Contract, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contracts WHERE user_id = ?", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contracts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, filename, status, object_key, created_at
		FROM contracts WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ID, &c.UserID, &c.Filename, &c.Status, &c.ObjectKey, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, c)
	}
	return contracts, total, rows.Err()
}

// --- Analysis records ---

// SaveAnalysis replaces the contract's analysis records in one transaction
// and flips its status to analyzed. Re-delivered webhooks therefore stay
// idempotent at the contract level. A delivery with zero records clears any
// stored findings but keeps the contract pending, so the list page and the
// report page agree on its state.
func (s *Store) SaveAnalysis(ctx context.Context, contractID string, records []report.AnalysisRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM analysis_records WHERE contract_id = ?", contractID); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	for _, rec := range records {
		details := ""
		if len(rec.Details) > 0 {
			details = detailsToJSON(rec.Details)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO analysis_records (contract_id, section_id, display_order, label, content, details)
			VALUES (?, ?, ?, ?, ?, ?)`,
			contractID, rec.SectionID, rec.DisplayOrder, rec.Label, rec.Content, details); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	status := StatusAnalyzed
	if len(records) == 0 {
		status = StatusPending
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE contracts SET status = ? WHERE id = ?", status, contractID); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return tx.Commit()
}

// SaveAnalysisRaw stores records whose details arrive as raw JSON text, as
// the webhook payload carries them.
func (s *Store) SaveAnalysisRaw(ctx context.Context, contractID string, records []RawRecord) error {
	parsed := make([]report.AnalysisRecord, 0, len(records))
	for _, r := range records {
		parsed = append(parsed, report.AnalysisRecord{
			SectionID:    r.SectionID,
			DisplayOrder: r.DisplayOrder,
			Label:        r.Label,
			Content:      r.Content,
			Details:      report.ParseDetails(string(r.Details)),
		})
	}
	return s.SaveAnalysis(ctx, contractID, parsed)
}

// RawRecord is one analysis finding as posted by the workflow engine.
type RawRecord struct {
	SectionID    int             `json:"section_id"`
	DisplayOrder int             `json:"display_order"`
	Label        string          `json:"label"`
	Content      string          `json:"content"`
	Details      json.RawMessage `json:"details,omitempty"`
}

// RecordsForContract fetches all analysis records for a contract owned by
// the user. A missing or foreign contract is ErrNotFound; an owned contract
// with no records returns an empty slice, which the report layer turns into
// the explicit empty-report state.
func (s *Store) RecordsForContract(ctx context.Context, contractID string, userID int64) ([]report.AnalysisRecord, error) {
	if _, err := s.Contract(ctx, contractID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, section_id, display_order, label, content, details
		FROM analysis_records WHERE contract_id = ?
		ORDER BY id`, contractID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []report.AnalysisRecord
	for rows.Next() {
		var rec report.AnalysisRecord
		var details string
		if err := rows.Scan(&rec.ID, &rec.SectionID, &rec.DisplayOrder, &rec.Label, &rec.Content, &details); err != nil {
			return nil, err
		}
		rec.Details = report.ParseDetails(details)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func detailsToJSON(fields []report.DetailField) string {
	// Serialize as an object with keys in field order; sqlite stores the
	// text verbatim so ParseDetails reads the same order back.
	buf := []byte{'{'}
	for i, f := range fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, _ := json.Marshal(f.Name)
		v, _ := json.Marshal(f.Value)
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	buf = append(buf, '}')
	return string(buf)
}
