package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/webitel/timecapsule/internal/domain/recipient"
)

type RecipientRepository struct {
	db *sql.DB
}

func NewRecipientRepository(db *sql.DB) *RecipientRepository {
	return &RecipientRepository{db: db}
}

const recipientColumns = `id, owner_id, name, email, user_id`

func scanRecipient(row interface{ Scan(...any) error }) (recipient.Recipient, error) {
	var r recipient.Recipient
	err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.Email, &r.UserID)
	if err != nil {
		return recipient.Recipient{}, err
	}
	return r, nil
}

func (r *RecipientRepository) Get(ctx context.Context, id uuid.UUID) (recipient.Recipient, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recipientColumns+` FROM recipients WHERE id = $1`, id)
	rec, err := scanRecipient(row)
	if err != nil {
		return recipient.Recipient{}, wrapErr("recipient not found", err)
	}
	return rec, nil
}

func (r *RecipientRepository) Create(ctx context.Context, rec recipient.Recipient) (recipient.Recipient, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recipients (id, owner_id, name, email, user_id)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.OwnerID, rec.Name, rec.Email, rec.UserID,
	)
	if err != nil {
		return recipient.Recipient{}, wrapErr("failed to create recipient", err)
	}
	return r.Get(ctx, rec.ID)
}

func (r *RecipientRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]recipient.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recipientColumns+` FROM recipients WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, wrapErr("failed to list recipients", err)
	}
	defer rows.Close()

	var out []recipient.Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, wrapErr("failed to scan recipient row", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecipientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipients WHERE id = $1`, id)
	if err != nil {
		return wrapErr("failed to delete recipient", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return wrapErr("recipient not found", sql.ErrNoRows)
	}
	return nil
}
