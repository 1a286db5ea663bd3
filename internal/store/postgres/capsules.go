package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/store"
)

type CapsuleRepository struct {
	db *sql.DB
}

func NewCapsuleRepository(db *sql.DB) *CapsuleRepository {
	return &CapsuleRepository{db: db}
}

const capsuleColumns = `id, sender_id, receiver_id, title, body, media_urls, theme, state,
	created_at, sealed_at, scheduled_unlock_at, opened_at, allow_early_view, allow_receiver_reply`

func scanCapsule(row interface{ Scan(...any) error }) (capsule.Capsule, error) {
	var c capsule.Capsule
	var mediaURLs pq.StringArray
	var state string
	err := row.Scan(
		&c.ID, &c.SenderID, &c.ReceiverID, &c.Title, &c.Body, &mediaURLs, &c.Theme, &state,
		&c.CreatedAt, &c.SealedAt, &c.ScheduledUnlockAt, &c.OpenedAt, &c.AllowEarlyView, &c.AllowReceiverReply,
	)
	if err != nil {
		return capsule.Capsule{}, err
	}
	c.State = capsule.State(state)
	c.MediaURLs = []string(mediaURLs)
	return c, nil
}

func (r *CapsuleRepository) Get(ctx context.Context, id uuid.UUID) (capsule.Capsule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+capsuleColumns+` FROM capsules WHERE id = $1`, id)
	c, err := scanCapsule(row)
	if err != nil {
		return capsule.Capsule{}, wrapErr("capsule not found", err)
	}
	return c, nil
}

func (r *CapsuleRepository) Create(ctx context.Context, c capsule.Capsule) (capsule.Capsule, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO capsules (id, sender_id, receiver_id, title, body, media_urls, theme, state,
			created_at, allow_early_view, allow_receiver_reply)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.SenderID, c.ReceiverID, c.Title, c.Body, pq.Array(c.MediaURLs), c.Theme, string(c.State),
		c.CreatedAt, c.AllowEarlyView, c.AllowReceiverReply,
	)
	if err != nil {
		return capsule.Capsule{}, wrapErr("failed to create capsule", err)
	}
	return r.Get(ctx, c.ID)
}

func (r *CapsuleRepository) Update(ctx context.Context, id uuid.UUID, f store.CapsuleFields) (capsule.Capsule, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Title != nil {
		sets = append(sets, "title = "+arg(*f.Title))
	}
	if f.Body != nil {
		sets = append(sets, "body = "+arg(*f.Body))
	}
	if f.MediaURLs != nil {
		sets = append(sets, "media_urls = "+arg(pq.Array(*f.MediaURLs)))
	}
	if f.Theme != nil {
		sets = append(sets, "theme = "+arg(*f.Theme))
	}
	if f.AllowEarlyView != nil {
		sets = append(sets, "allow_early_view = "+arg(*f.AllowEarlyView))
	}
	if f.AllowReceiverReply != nil {
		sets = append(sets, "allow_receiver_reply = "+arg(*f.AllowReceiverReply))
	}
	if f.State != nil {
		sets = append(sets, "state = "+arg(string(*f.State)))
	}
	if f.SealedAt != nil {
		sets = append(sets, "sealed_at = "+arg(*f.SealedAt))
	}
	if f.ScheduledUnlockAt != nil {
		sets = append(sets, "scheduled_unlock_at = "+arg(*f.ScheduledUnlockAt))
	}
	if f.OpenedAt != nil {
		sets = append(sets, "opened_at = "+arg(*f.OpenedAt))
	}

	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	query := "UPDATE capsules SET " + join(sets, ", ") + " WHERE id = " + arg(id)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return capsule.Capsule{}, wrapErr("failed to update capsule", err)
	}
	return r.Get(ctx, id)
}

func (r *CapsuleRepository) TransitionState(ctx context.Context, id uuid.UUID, to capsule.State, timestamps store.CapsuleFields) (capsule.Capsule, error) {
	timestamps.State = &to
	return r.Update(ctx, id, timestamps)
}

func (r *CapsuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM capsules WHERE id = $1 AND state = 'draft'`, id)
	if err != nil {
		return wrapErr("failed to delete capsule", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return wrapErr("capsule not found", sql.ErrNoRows)
	}
	return nil
}

func (r *CapsuleRepository) listBy(ctx context.Context, column string, id uuid.UUID, state *capsule.State, page store.Pagination) (capsule.Page, error) {
	where := column + " = $1"
	args := []any{id}
	if state != nil {
		args = append(args, string(*state))
		where += fmt.Sprintf(" AND state = $%d", len(args))
	}

	var total int
	countQuery := "SELECT count(*) FROM capsules WHERE " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return capsule.Page{}, wrapErr("failed to count capsules", err)
	}

	args = append(args, page.PageSize, page.Offset())
	listQuery := fmt.Sprintf(
		`SELECT %s FROM capsules WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		capsuleColumns, where, len(args)-1, len(args),
	)
	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return capsule.Page{}, wrapErr("failed to list capsules", err)
	}
	defer rows.Close()

	items := make([]capsule.Capsule, 0, page.PageSize)
	for rows.Next() {
		c, err := scanCapsule(rows)
		if err != nil {
			return capsule.Page{}, wrapErr("failed to scan capsule row", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return capsule.Page{}, wrapErr("failed to iterate capsule rows", err)
	}

	return capsule.Page{Items: items, Total: total}, nil
}

func (r *CapsuleRepository) ListBySender(ctx context.Context, senderID uuid.UUID, state *capsule.State, page store.Pagination) (capsule.Page, error) {
	return r.listBy(ctx, "sender_id", senderID, state, page)
}

func (r *CapsuleRepository) ListByReceiver(ctx context.Context, receiverID uuid.UUID, state *capsule.State, page store.Pagination) (capsule.Page, error) {
	return r.listBy(ctx, "receiver_id", receiverID, state, page)
}

// Due scans for capsules eligible for the UnlockService sweep: state in
// {sealed, unfolding} with a set unlock instant.
func (r *CapsuleRepository) Due(ctx context.Context) ([]capsule.Capsule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+capsuleColumns+` FROM capsules
		WHERE state IN ('sealed', 'unfolding') AND scheduled_unlock_at IS NOT NULL`)
	if err != nil {
		return nil, wrapErr("failed to scan due capsules", err)
	}
	defer rows.Close()

	var out []capsule.Capsule
	for rows.Next() {
		c, err := scanCapsule(rows)
		if err != nil {
			return nil, wrapErr("failed to scan due capsule row", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func join(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
