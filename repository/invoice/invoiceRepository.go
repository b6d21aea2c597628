package invoicerepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error
	Get(ctx context.Context, id string) (*model.Invoice, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]model.Invoice, error)
	List(ctx context.Context, status string) ([]model.Invoice, error)

	// MarkPaid settles an unpaid/overdue invoice; false means no row changed
	// (already paid, cancelled, or missing).
	MarkPaid(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error)
	MarkPaidByOrder(ctx context.Context, tx *sql.Tx, orderID string, at time.Time) error
	SetCancelled(ctx context.Context, tx *sql.Tx, id string) (bool, error)

	// MarkOverdue is the periodic recomputation: unpaid past due -> overdue.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	// ExistsForRenewal guards the renewal sweep against duplicate invoices
	// for the same (server, renewal date) period.
	ExistsForRenewal(ctx context.Context, serverID string, due time.Time) (bool, error)
	RevenueSum(ctx context.Context) (float64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const invoiceCols = `id, user_id, order_id, server_id, invoice_number, amount,
status, description, due_date, paid_date, created_at`

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
	const q = `
INSERT INTO invoices (id, user_id, order_id, server_id, invoice_number, amount, status, description, due_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING created_at`
	return tx.QueryRowContext(ctx, q,
		inv.ID, inv.UserID, inv.OrderID, inv.ServerID, inv.InvoiceNumber,
		inv.Amount, inv.Status, inv.Description, inv.DueDate,
	).Scan(&inv.CreatedAt)
}

func scanInvoice(row interface{ Scan(...any) error }) (*model.Invoice, error) {
	var inv model.Invoice
	if err := row.Scan(&inv.ID, &inv.UserID, &inv.OrderID, &inv.ServerID, &inv.InvoiceNumber,
		&inv.Amount, &inv.Status, &inv.Description, &inv.DueDate, &inv.PaidDate, &inv.CreatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repo) Get(ctx context.Context, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE id=$1`
	return scanInvoice(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE id=$1 FOR UPDATE`
	return scanInvoice(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]model.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *repo) List(ctx context.Context, status string) ([]model.Invoice, error) {
	q := `SELECT ` + invoiceCols + ` FROM invoices`
	args := []any{}
	if status != "" {
		q += ` WHERE status=$1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (r *repo) MarkPaid(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error) {
	const q = `
UPDATE invoices
SET status='paid', paid_date=$2
WHERE id=$1 AND status IN ('unpaid','overdue')`
	res, err := tx.ExecContext(ctx, q, id, at)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) MarkPaidByOrder(ctx context.Context, tx *sql.Tx, orderID string, at time.Time) error {
	const q = `
UPDATE invoices
SET status='paid', paid_date=$2
WHERE order_id=$1 AND status IN ('unpaid','overdue')`
	_, err := tx.ExecContext(ctx, q, orderID, at)
	return err
}

func (r *repo) SetCancelled(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	const q = `UPDATE invoices SET status='cancelled' WHERE id=$1 AND status IN ('unpaid','overdue')`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	const q = `UPDATE invoices SET status='overdue' WHERE status='unpaid' AND due_date < $1`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) ExistsForRenewal(ctx context.Context, serverID string, due time.Time) (bool, error) {
	const q = `
SELECT EXISTS (
	SELECT 1 FROM invoices
	WHERE server_id=$1 AND due_date=$2 AND status <> 'cancelled'
)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, serverID, due).Scan(&exists)
	return exists, err
}

func (r *repo) RevenueSum(ctx context.Context) (float64, error) {
	const q = `SELECT COALESCE(SUM(amount),0) FROM invoices WHERE status='paid'`
	var total float64
	err := r.db.QueryRowContext(ctx, q).Scan(&total)
	return total, err
}
