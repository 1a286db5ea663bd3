package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/webitel/timecapsule/internal/domain/draft"
)

type DraftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

const draftColumns = `id, owner_id, title, body, media_urls, theme, recipient_id, created_at, updated_at`

func scanDraft(row interface{ Scan(...any) error }) (draft.Draft, error) {
	var d draft.Draft
	var mediaURLs pq.StringArray
	err := row.Scan(&d.ID, &d.OwnerID, &d.Title, &d.Body, &mediaURLs, &d.Theme, &d.RecipientID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return draft.Draft{}, err
	}
	d.MediaURLs = []string(mediaURLs)
	return d, nil
}

func (r *DraftRepository) Get(ctx context.Context, id uuid.UUID) (draft.Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)
	d, err := scanDraft(row)
	if err != nil {
		return draft.Draft{}, wrapErr("draft not found", err)
	}
	return d, nil
}

func (r *DraftRepository) Create(ctx context.Context, d draft.Draft) (draft.Draft, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (id, owner_id, title, body, media_urls, theme, recipient_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.OwnerID, d.Title, d.Body, pq.Array(d.MediaURLs), d.Theme, d.RecipientID, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return draft.Draft{}, wrapErr("failed to create draft", err)
	}
	return r.Get(ctx, d.ID)
}

func (r *DraftRepository) Update(ctx context.Context, id uuid.UUID, d draft.Draft) (draft.Draft, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE drafts SET title = $2, body = $3, media_urls = $4, theme = $5, recipient_id = $6, updated_at = $7
		WHERE id = $1`,
		id, d.Title, d.Body, pq.Array(d.MediaURLs), d.Theme, d.RecipientID, d.UpdatedAt,
	)
	if err != nil {
		return draft.Draft{}, wrapErr("failed to update draft", err)
	}
	return r.Get(ctx, id)
}

func (r *DraftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return wrapErr("failed to delete draft", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return wrapErr("draft not found", sql.ErrNoRows)
	}
	return nil
}

func (r *DraftRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]draft.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+draftColumns+` FROM drafts WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, wrapErr("failed to list drafts", err)
	}
	defer rows.Close()

	var out []draft.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, wrapErr("failed to scan draft row", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
