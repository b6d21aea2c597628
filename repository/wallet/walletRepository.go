package walletrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

type Repo interface {
	// Balance lives on the user row; FOR UPDATE serializes concurrent
	// debits/credits against the same wallet.
	GetBalance(ctx context.Context, userID string) (float64, error)
	GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID string) (float64, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, userID string, newBalance float64) error
	InsertTransaction(ctx context.Context, tx *sql.Tx, t *model.WalletTransaction) error
	ListTransactions(ctx context.Context, userID string) ([]model.WalletTransaction, error)

	InsertTopup(ctx context.Context, t *model.TopupRequest) error
	GetTopup(ctx context.Context, id string) (*model.TopupRequest, error)
	ListTopupsByUser(ctx context.Context, userID string) ([]model.TopupRequest, error)
	ListTopups(ctx context.Context, status string) ([]model.TopupRequest, error)
	// MarkTopupProcessed is the pending -> terminal one-way gate; it reports
	// false when the request was already processed.
	MarkTopupProcessed(ctx context.Context, tx *sql.Tx, id string, status model.TopupStatus,
		processedBy string, notes *string, at time.Time) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) GetBalance(ctx context.Context, userID string) (float64, error) {
	const q = `SELECT wallet_balance FROM users WHERE id=$1`
	var bal float64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&bal)
	return bal, err
}

func (r *repo) GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID string) (float64, error) {
	const q = `SELECT wallet_balance FROM users WHERE id=$1 FOR UPDATE`
	var bal float64
	err := tx.QueryRowContext(ctx, q, userID).Scan(&bal)
	return bal, err
}

func (r *repo) UpdateBalance(ctx context.Context, tx *sql.Tx, userID string, newBalance float64) error {
	const q = `UPDATE users SET wallet_balance=$2 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, userID, newBalance)
	return err
}

func (r *repo) InsertTransaction(ctx context.Context, tx *sql.Tx, t *model.WalletTransaction) error {
	const q = `
INSERT INTO transactions (id, user_id, type, amount, description, reference)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING created_at`
	return tx.QueryRowContext(ctx, q,
		t.ID, t.UserID, t.Type, t.Amount, t.Description, t.Reference,
	).Scan(&t.CreatedAt)
}

func (r *repo) ListTransactions(ctx context.Context, userID string) ([]model.WalletTransaction, error) {
	const q = `
SELECT id, user_id, type, amount, description, reference, created_at
FROM transactions
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WalletTransaction
	for rows.Next() {
		var t model.WalletTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount,
			&t.Description, &t.Reference, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const topupCols = `id, user_id, amount, payment_method, transaction_reference,
proof_url, status, processed_by, processed_at, admin_notes, created_at`

func (r *repo) InsertTopup(ctx context.Context, t *model.TopupRequest) error {
	const q = `
INSERT INTO topup_requests (id, user_id, amount, payment_method, transaction_reference, proof_url, status)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING created_at`
	return r.db.QueryRowContext(ctx, q,
		t.ID, t.UserID, t.Amount, t.PaymentMethod, t.TransactionRef, t.ProofURL, t.Status,
	).Scan(&t.CreatedAt)
}

func scanTopup(row interface{ Scan(...any) error }) (*model.TopupRequest, error) {
	var t model.TopupRequest
	if err := row.Scan(&t.ID, &t.UserID, &t.Amount, &t.PaymentMethod, &t.TransactionRef,
		&t.ProofURL, &t.Status, &t.ProcessedBy, &t.ProcessedAt, &t.AdminNotes, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) GetTopup(ctx context.Context, id string) (*model.TopupRequest, error) {
	const q = `SELECT ` + topupCols + ` FROM topup_requests WHERE id=$1`
	return scanTopup(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) ListTopupsByUser(ctx context.Context, userID string) ([]model.TopupRequest, error) {
	const q = `SELECT ` + topupCols + ` FROM topup_requests WHERE user_id=$1 ORDER BY created_at DESC`
	return r.listTopups(ctx, q, userID)
}

func (r *repo) ListTopups(ctx context.Context, status string) ([]model.TopupRequest, error) {
	q := `SELECT ` + topupCols + ` FROM topup_requests`
	args := []any{}
	if status != "" {
		q += ` WHERE status=$1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	return r.listTopups(ctx, q, args...)
}

func (r *repo) listTopups(ctx context.Context, q string, args ...any) ([]model.TopupRequest, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TopupRequest
	for rows.Next() {
		t, err := scanTopup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *repo) MarkTopupProcessed(ctx context.Context, tx *sql.Tx, id string, status model.TopupStatus,
	processedBy string, notes *string, at time.Time) (bool, error) {
	const q = `
UPDATE topup_requests
SET status=$2, processed_by=$3, processed_at=$4, admin_notes=$5
WHERE id=$1 AND status='pending'`
	res, err := tx.ExecContext(ctx, q, id, status, processedBy, at, notes)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
