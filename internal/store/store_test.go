// internal/store/store_test.go
//
// Unit-tests for store helpers using sqlmock.
//
// Run: go test ./internal/store -v

package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "mysql")), mock
}

var sample = Record{
	ID:         "0b6f4b4e-6f0e-4c3e-9d1c-2f7f1b7f6a11",
	Name:       "Ada Lovelace",
	Email:      "ada@example.com",
	Phone:      "5551234567",
	Message:    "Hello there, friend",
	IP:         "203.0.113.7",
	Country:    "GB",
	Browser:    "Firefox",
	Device:     "Desktop",
	ReceivedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
}

func TestInsertNew(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(`INSERT IGNORE INTO contact_submission`).
		WithArgs(sample.ID, sample.Name, sample.Email, sample.Phone, sample.Message,
			sample.IP, sample.Country, sample.Browser, sample.Device, sample.ReceivedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := s.Insert(context.Background(), sample)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if !ok {
		t.Fatalf("expected inserted = true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestInsertDuplicate(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(`INSERT IGNORE INTO contact_submission`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.Insert(context.Background(), sample)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if ok {
		t.Fatalf("duplicate id reported as inserted")
	}
}

func TestGet(t *testing.T) {
	s, mock := newMock(t)

	cols := []string{"id", "name", "email", "phone", "message", "ip", "country", "browser", "device", "received_at"}
	mock.ExpectQuery(`SELECT id, name, email`).
		WithArgs(sample.ID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			sample.ID, sample.Name, sample.Email, sample.Phone, sample.Message,
			sample.IP, sample.Country, sample.Browser, sample.Device, sample.ReceivedAt))

	got, err := s.Get(context.Background(), sample.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if *got != sample {
		t.Fatalf("unexpected record: %#v", got)
	}
}

func TestGetNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := s.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMigrate(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS contact_submission`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
}
