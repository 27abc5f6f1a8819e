package recordings

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rec := Recording{
		ID:          "rec-1",
		TenantID:    42,
		Email:       "agent@example.com",
		FileName:    "Call recording 9876543210_211006_085843.m4a",
		FilePath:    "/recordings/call/Call recording 9876543210_211006_085843.m4a",
		PhoneNumber: "9876543210",
		CallDate:    "2021-10-06",
		SizeBytes:   2048,
		RecordedAt:  time.Date(2021, 10, 6, 8, 58, 43, 0, time.UTC),
		UploadedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO recordings").
		WithArgs(
			rec.ID,
			rec.TenantID,
			rec.Email,
			rec.FileName,
			rec.FilePath,
			sqlmock.AnyArg(), // phone_number
			sqlmock.AnyArg(), // call_date
			rec.SizeBytes,
			nil, // archive_key
			sqlmock.AnyArg(),
			rec.UploadedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	uploadedAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "email", "file_name", "file_path",
		"phone_number", "call_date", "size_bytes", "archive_key", "recorded_at", "uploaded_at",
	}).AddRow("rec-1", 42, "agent@example.com", "a.m4a", "/r/a.m4a", "9876543210", "2021-10-06", 2048, nil, nil, uploadedAt)

	mock.ExpectQuery("SELECT id, tenant_id, email").
		WithArgs(42, "agent@example.com", 50, 0).
		WillReturnRows(rows)

	recs, err := repo.ListByAccount(context.Background(), 42, "agent@example.com", 0, 0)
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "rec-1" || recs[0].PhoneNumber != "9876543210" {
		t.Fatalf("unexpected result %+v", recs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	uploadedAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "email", "file_name", "file_path",
		"phone_number", "call_date", "size_bytes", "archive_key", "recorded_at", "uploaded_at",
	}).AddRow("rec-1", 42, "agent@example.com", "a.m4a", "/r/a.m4a", nil, nil, 2048, "acct/uuid_a.m4a", nil, uploadedAt)

	mock.ExpectQuery("SELECT id, tenant_id, email").
		WithArgs("rec-1", 42, "agent@example.com").
		WillReturnRows(rows)

	rec, err := repo.GetByID(context.Background(), 42, "agent@example.com", "rec-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if rec.ID != "rec-1" || rec.ArchiveKey != "acct/uuid_a.m4a" {
		t.Fatalf("unexpected result %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, tenant_id, email").
		WithArgs("missing", 42, "agent@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), 42, "agent@example.com", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
