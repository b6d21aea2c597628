package orderrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	List(ctx context.Context, orderStatus string) ([]model.Order, error)

	SetPaymentProof(ctx context.Context, tx *sql.Tx, id, proofURL string, reference *string) error
	SetPaymentStatus(ctx context.Context, tx *sql.Tx, id string, status model.PaymentStatus) error
	SetOrderStatus(ctx context.Context, tx *sql.Tx, id string, status model.OrderStatus) error

	CountByPlan(ctx context.Context, planID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const orderCols = `id, user_id, plan_id, plan_name, billing_cycle, os, control_panel,
addons, amount, payment_method, payment_status, order_status,
payment_proof_url, payment_reference, notes, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	addons, err := json.Marshal(o.AddOns)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO orders (id, user_id, plan_id, plan_name, billing_cycle, os, control_panel,
	addons, amount, payment_method, payment_status, order_status, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
RETURNING created_at, updated_at`
	return tx.QueryRowContext(ctx, q,
		o.ID, o.UserID, o.PlanID, o.PlanName, o.BillingCycle, o.OS, o.ControlPanel,
		addons, o.Amount, o.PaymentMethod, o.PaymentStatus, o.OrderStatus, o.Notes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	var addons []byte
	if err := row.Scan(
		&o.ID, &o.UserID, &o.PlanID, &o.PlanName, &o.BillingCycle, &o.OS, &o.ControlPanel,
		&addons, &o.Amount, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus,
		&o.PaymentProofURL, &o.PaymentRef, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addons, &o.AddOns); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repo) Get(ctx context.Context, id string) (*model.Order, error) {
	const q = `SELECT ` + orderCols + ` FROM orders WHERE id=$1`
	return scanOrder(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Order, error) {
	const q = `SELECT ` + orderCols + ` FROM orders WHERE id=$1 FOR UPDATE`
	return scanOrder(tx.QueryRowContext(ctx, q, id))
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	const q = `SELECT ` + orderCols + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *repo) List(ctx context.Context, orderStatus string) ([]model.Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders`
	args := []any{}
	if orderStatus != "" {
		q += ` WHERE order_status=$1`
		args = append(args, orderStatus)
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *repo) SetPaymentProof(ctx context.Context, tx *sql.Tx, id, proofURL string, reference *string) error {
	const q = `
UPDATE orders
SET payment_proof_url=$2, payment_reference=$3,
    payment_status='pending_verification', updated_at=$4
WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, proofURL, reference, time.Now().UTC())
	return err
}

func (r *repo) SetPaymentStatus(ctx context.Context, tx *sql.Tx, id string, status model.PaymentStatus) error {
	const q = `UPDATE orders SET payment_status=$2, updated_at=$3 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, status, time.Now().UTC())
	return err
}

func (r *repo) SetOrderStatus(ctx context.Context, tx *sql.Tx, id string, status model.OrderStatus) error {
	const q = `UPDATE orders SET order_status=$2, updated_at=$3 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, status, time.Now().UTC())
	return err
}

func (r *repo) CountByPlan(ctx context.Context, planID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE plan_id=$1`, planID).Scan(&n)
	return n, err
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func (r *repo) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE order_status=$1`, status).Scan(&n)
	return n, err
}
