package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
)

const storeFailure = "metadata store failure"

// Repository is the SQLite-backed entry repository.
type Repository struct {
	db *sql.DB
}

// NewRepository wraps an initialized database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a new metadata row and returns it with its assigned ID.
func (r *Repository) Insert(ctx context.Context, blobID, blobLabel, title string, tags []string) (*entry.Entry, error) {
	tagsJSON, err := entry.EncodeTags(tags)
	if err != nil {
		return nil, errors.NewInternal("", err)
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO entries (filename, gdrive_filename, title, tags, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		blobID, toNullString(blobLabel), toNullString(title), tagsJSON, now.UnixNano(),
	)
	if err != nil {
		return nil, errors.NewStoreUnavailable(storeFailure, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, errors.NewStoreUnavailable(storeFailure, err)
	}

	return &entry.Entry{
		ID:        id,
		BlobID:    blobID,
		BlobLabel: blobLabel,
		Title:     title,
		Tags:      tags,
		CreatedAt: now,
	}, nil
}

// List returns every row, newest first.
func (r *Repository) List(ctx context.Context) ([]entry.Entry, error) {
	query := `
		SELECT id, filename, gdrive_filename, title, tags, created_at
		FROM entries
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewStoreUnavailable(storeFailure, err)
	}
	defer rows.Close()

	entries := make([]entry.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewStoreUnavailable(storeFailure, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailable(storeFailure, err)
	}

	return entries, nil
}

// GetByID retrieves a single row.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entry.Entry, error) {
	query := `
		SELECT id, filename, gdrive_filename, title, tags, created_at
		FROM entries
		WHERE id = ?
	`

	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("Entry not found")
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(storeFailure, err)
	}

	return e, nil
}

// UpdateTitle replaces the title of an existing row.
func (r *Repository) UpdateTitle(ctx context.Context, id int64, title string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE entries SET title = ? WHERE id = ?`, toNullString(title), id)
	if err != nil {
		return errors.NewStoreUnavailable(storeFailure, err)
	}
	return requireRow(result)
}

// Delete removes a row. IDs are never reused (AUTOINCREMENT).
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return errors.NewStoreUnavailable(storeFailure, err)
	}
	return requireRow(result)
}

// Ping checks connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return errors.NewStoreUnavailable(storeFailure, err)
	}
	return nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewStoreUnavailable(storeFailure, err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("Entry not found")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanEntry scans a single row into an Entry.
func scanEntry(row scanner) (*entry.Entry, error) {
	var (
		e         entry.Entry
		label     sql.NullString
		title     sql.NullString
		tagsJSON  sql.NullString
		createdAt int64
	)

	if err := row.Scan(&e.ID, &e.BlobID, &label, &title, &tagsJSON, &createdAt); err != nil {
		return nil, err
	}

	e.BlobLabel = label.String
	e.Title = title.String
	e.CreatedAt = time.Unix(0, createdAt).UTC()

	tags, err := entry.DecodeTags(tagsJSON.String)
	if err != nil {
		return nil, err
	}
	e.Tags = tags

	return &e, nil
}

// toNullString stores empty strings as NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
