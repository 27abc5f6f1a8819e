package recordings

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts one upload-history row.
func (r *PGRepo) Create(ctx context.Context, rec Recording) error {
	const query = `
INSERT INTO recordings (
    id,
    tenant_id,
    email,
    file_name,
    file_path,
    phone_number,
    call_date,
    size_bytes,
    archive_key,
    recorded_at,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var phone sql.NullString
	if rec.PhoneNumber != "" {
		phone = sql.NullString{String: rec.PhoneNumber, Valid: true}
	}
	var callDate sql.NullString
	if rec.CallDate != "" {
		callDate = sql.NullString{String: rec.CallDate, Valid: true}
	}
	var archiveKey sql.NullString
	if rec.ArchiveKey != "" {
		archiveKey = sql.NullString{String: rec.ArchiveKey, Valid: true}
	}
	var recordedAt sql.NullTime
	if !rec.RecordedAt.IsZero() {
		recordedAt = sql.NullTime{Time: rec.RecordedAt, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.TenantID,
		rec.Email,
		rec.FileName,
		rec.FilePath,
		phone,
		callDate,
		rec.SizeBytes,
		archiveKey,
		recordedAt,
		rec.UploadedAt,
	)
	return err
}

// GetByID returns one history row owned by the account.
func (r *PGRepo) GetByID(ctx context.Context, tenantID int, email, id string) (Recording, error) {
	const query = `
SELECT id, tenant_id, email, file_name, file_path, phone_number, call_date, size_bytes, archive_key, recorded_at, uploaded_at
FROM recordings
WHERE id = $1 AND tenant_id = $2 AND email = $3`

	var rec Recording
	var phone sql.NullString
	var callDate sql.NullString
	var archiveKey sql.NullString
	var recordedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id, tenantID, email).Scan(
		&rec.ID,
		&rec.TenantID,
		&rec.Email,
		&rec.FileName,
		&rec.FilePath,
		&phone,
		&callDate,
		&rec.SizeBytes,
		&archiveKey,
		&recordedAt,
		&rec.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recording{}, ErrNotFound
		}
		return Recording{}, err
	}
	if phone.Valid {
		rec.PhoneNumber = phone.String
	}
	if callDate.Valid {
		rec.CallDate = callDate.String
	}
	if archiveKey.Valid {
		rec.ArchiveKey = archiveKey.String
	}
	if recordedAt.Valid {
		rec.RecordedAt = recordedAt.Time
	}
	return rec, nil
}

// ListByAccount lists history rows for an account, newest upload first.
func (r *PGRepo) ListByAccount(ctx context.Context, tenantID int, email string, limit, offset int) ([]Recording, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, tenant_id, email, file_name, file_path, phone_number, call_date, size_bytes, archive_key, recorded_at, uploaded_at
FROM recordings
WHERE tenant_id = $1 AND email = $2
ORDER BY uploaded_at DESC
LIMIT $3 OFFSET $4`

	rows, err := r.DB.QueryContext(ctx, query, tenantID, email, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recording
	for rows.Next() {
		var rec Recording
		var phone sql.NullString
		var callDate sql.NullString
		var archiveKey sql.NullString
		var recordedAt sql.NullTime
		if err := rows.Scan(
			&rec.ID,
			&rec.TenantID,
			&rec.Email,
			&rec.FileName,
			&rec.FilePath,
			&phone,
			&callDate,
			&rec.SizeBytes,
			&archiveKey,
			&recordedAt,
			&rec.UploadedAt,
		); err != nil {
			return nil, err
		}
		if phone.Valid {
			rec.PhoneNumber = phone.String
		}
		if callDate.Valid {
			rec.CallDate = callDate.String
		}
		if archiveKey.Valid {
			rec.ArchiveKey = archiveKey.String
		}
		if recordedAt.Valid {
			rec.RecordedAt = recordedAt.Time
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
