package pgstore

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
)

const storeFailure = "metadata store failure"

// Repository is the PostgreSQL-backed entry repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps a connected pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, filename, gdrive_filename, title, tags, created_at`

// Insert stores a new row; id and created_at are assigned by the database.
func (r *Repository) Insert(ctx context.Context, blobID, blobLabel, title string, tags []string) (*entry.Entry, error) {
	tagsJSON, err := entry.EncodeTags(tags)
	if err != nil {
		return nil, errors.NewInternal("", err)
	}

	e := &entry.Entry{
		BlobID:    blobID,
		BlobLabel: blobLabel,
		Title:     title,
		Tags:      tags,
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO entries (filename, gdrive_filename, title, tags)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		blobID, nullable(blobLabel), nullable(title), tagsJSON,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, errors.NewStoreUnavailable(storeFailure, err)
	}

	return e, nil
}

// List returns every row, newest first.
func (r *Repository) List(ctx context.Context) ([]entry.Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM entries ORDER BY created_at DESC, id DESC`)
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
	e, err := scanEntry(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM entries WHERE id = $1`, id))
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, errors.NewNotFound("Entry not found")
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(storeFailure, err)
	}
	return e, nil
}

// UpdateTitle replaces the title of an existing row.
func (r *Repository) UpdateTitle(ctx context.Context, id int64, title string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE entries SET title = $1 WHERE id = $2`, nullable(title), id)
	if err != nil {
		return errors.NewStoreUnavailable(storeFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFound("Entry not found")
	}
	return nil
}

// Delete removes a row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return errors.NewStoreUnavailable(storeFailure, err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NewNotFound("Entry not found")
	}
	return nil
}

// Ping checks connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return errors.NewStoreUnavailable(storeFailure, err)
	}
	return nil
}

func scanEntry(row pgx.Row) (*entry.Entry, error) {
	var (
		e        entry.Entry
		label    *string
		title    *string
		tagsJSON *string
	)
	if err := row.Scan(&e.ID, &e.BlobID, &label, &title, &tagsJSON, &e.CreatedAt); err != nil {
		return nil, err
	}
	if label != nil {
		e.BlobLabel = *label
	}
	if title != nil {
		e.Title = *title
	}
	if tagsJSON != nil {
		tags, err := entry.DecodeTags(*tagsJSON)
		if err != nil {
			return nil, err
		}
		e.Tags = tags
	}
	return &e, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
