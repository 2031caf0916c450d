// internal/store/store.go
//
// Contact submission persistence.
//
// Context
// -------
// One table, keyed by the submission UUID the client sends in
// X-Submission-ID:
//
//	contact_submission (id PK, name, email, phone, message,
//	                    ip, country, browser, device, received_at)
//
// Inserts use INSERT IGNORE so a client retry that reaches the server twice
// stores one row; Insert reports whether the row was new.
//
// Notes
// -----
// • Parameterised queries only.  Column names are fixed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("store: submission not found")

// Record is one stored submission.
type Record struct {
	ID         string    `db:"id"          json:"id"`
	Name       string    `db:"name"        json:"name"`
	Email      string    `db:"email"       json:"email"`
	Phone      string    `db:"phone"       json:"phone"`
	Message    string    `db:"message"     json:"message"`
	IP         string    `db:"ip"          json:"ip"`
	Country    string    `db:"country"     json:"country"`
	Browser    string    `db:"browser"     json:"browser"`
	Device     string    `db:"device"      json:"device"`
	ReceivedAt time.Time `db:"received_at" json:"received_at"`
}

// Store wraps a pooled handle.
type Store struct{ db *sqlx.DB }

// New returns a Store over db.
func New(db *sqlx.DB) *Store { return &Store{db: db} }

const insertQ = `INSERT IGNORE INTO contact_submission
    (id, name, email, phone, message, ip, country, browser, device, received_at)
    VALUES (:id, :name, :email, :phone, :message, :ip, :country, :browser, :device, :received_at)`

// Insert stores rec.  inserted is false when the id already exists.
func (s *Store) Insert(ctx context.Context, rec Record) (inserted bool, err error) {
	res, err := s.db.NamedExecContext(ctx, insertQ, rec)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const getQ = `SELECT id, name, email, phone, message, ip, country, browser, device, received_at
    FROM contact_submission WHERE id = ?`

// Get loads one submission by id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := s.db.GetContext(ctx, &rec, getQ, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Schema creates the table when missing.  Lengths follow the form's own
// limits with headroom.
const Schema = `CREATE TABLE IF NOT EXISTS contact_submission (
    id          CHAR(36)     NOT NULL PRIMARY KEY,
    name        VARCHAR(200) NOT NULL,
    email       VARCHAR(320) NOT NULL DEFAULT '',
    phone       VARCHAR(20)  NOT NULL,
    message     TEXT         NOT NULL,
    ip          VARCHAR(45)  NOT NULL DEFAULT '',
    country     CHAR(2)      NOT NULL DEFAULT '',
    browser     VARCHAR(64)  NOT NULL DEFAULT '',
    device      VARCHAR(16)  NOT NULL DEFAULT '',
    received_at DATETIME(3)  NOT NULL,
    KEY idx_received_at (received_at)
)`

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}
