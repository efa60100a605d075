package postgres

import (
	"context"
	"database/sql"
	"errors"

	"journal/internal/domain"
)

// EntryRepo implements entry repository operations on DB.
type EntryRepo struct {
	db *DB
}

// NewEntryRepo wraps a DB as an EntryRepository.
func NewEntryRepo(db *DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Create inserts a new entry row. The timestamp is stored in UTC.
func (r *EntryRepo) Create(ctx context.Context, e *domain.Entry) error {
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO entries (uuid, user_uuid, created, timezone_offset, title, body) VALUES ($1, $2, $3, $4, $5, $6)",
		e.UUID, e.UserUUID, e.Created.UTC(), e.TimezoneOffset, e.Title, e.Body,
	)
	return err
}

// GetByUUID retrieves the entry matching both UUID and owner. An entry owned
// by another user reads as absent.
func (r *EntryRepo) GetByUUID(ctx context.Context, uuid, userUUID string) (*domain.Entry, error) {
	var e domain.Entry
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT uuid, user_uuid, created, timezone_offset, title, body FROM entries WHERE uuid = $1 AND user_uuid = $2",
		uuid, userUUID,
	).Scan(&e.UUID, &e.UserUUID, &e.Created, &e.TimezoneOffset, &e.Title, &e.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Created = e.Created.UTC()
	return &e, nil
}

// Update replaces title and body on the owned entry and reports whether a
// row matched.
func (r *EntryRepo) Update(ctx context.Context, uuid, userUUID, title, body string) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx,
		"UPDATE entries SET title = $1, body = $2 WHERE uuid = $3 AND user_uuid = $4",
		title, body, uuid, userUUID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes the owned entry and reports whether a row matched.
func (r *EntryRepo) Delete(ctx context.Context, uuid, userUUID string) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx,
		"DELETE FROM entries WHERE uuid = $1 AND user_uuid = $2",
		uuid, userUUID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListUUIDs returns the user's entry UUIDs, most recently created first.
func (r *EntryRepo) ListUUIDs(ctx context.Context, userUUID string) ([]string, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT uuid FROM entries WHERE user_uuid = $1 ORDER BY created DESC",
		userUUID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var uuid string
		if err := rows.Scan(&uuid); err != nil {
			return nil, err
		}
		out = append(out, uuid)
	}
	return out, rows.Err()
}
