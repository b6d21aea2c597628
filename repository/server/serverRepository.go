package serverrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

// ErrDuplicateOrder is returned when an order already has a server record.
var ErrDuplicateOrder = errors.New("server already exists for order")

type Update struct {
	IPAddress *string
	Hostname  *string
	Username  *string
	Password  *string
	Status    *string
	PanelURL  *string
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, s *model.Server) error
	Get(ctx context.Context, id string) (*model.Server, error)
	ListByUser(ctx context.Context, userID string) ([]model.Server, error)
	List(ctx context.Context) ([]model.Server, error)
	ApplyUpdate(ctx context.Context, id string, u Update) (bool, error)
	CountByStatus(ctx context.Context, status model.ServerStatus) (int64, error)

	// Sweep queries.
	ListRenewalCandidates(ctx context.Context, until time.Time) ([]model.Server, error)
	ListActiveWithOverdueInvoices(ctx context.Context) ([]model.Server, error)
	Suspend(ctx context.Context, id string) (bool, error)
	AdvanceRenewal(ctx context.Context, tx *sql.Tx, id string, newDate time.Time) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const serverCols = `id, order_id, user_id, ip_address, hostname, username, password, ssh_port,
os, control_panel, panel_url, status, plan_name, billing_cycle, renewal_amount, renewal_date, created_at`

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, s *model.Server) error {
	const q = `
INSERT INTO servers (id, order_id, user_id, ip_address, hostname, username, password, ssh_port,
	os, control_panel, panel_url, status, plan_name, billing_cycle, renewal_amount, renewal_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
RETURNING created_at`
	err := tx.QueryRowContext(ctx, q,
		s.ID, s.OrderID, s.UserID, s.IPAddress, s.Hostname, s.Username, s.Password, s.SSHPort,
		s.OS, s.ControlPanel, s.PanelURL, s.Status, s.PlanName, s.BillingCycle,
		s.RenewalAmount, s.RenewalDate,
	).Scan(&s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateOrder
		}
		return err
	}
	return nil
}

func scanServer(row interface{ Scan(...any) error }) (*model.Server, error) {
	var s model.Server
	if err := row.Scan(&s.ID, &s.OrderID, &s.UserID, &s.IPAddress, &s.Hostname, &s.Username,
		&s.Password, &s.SSHPort, &s.OS, &s.ControlPanel, &s.PanelURL, &s.Status,
		&s.PlanName, &s.BillingCycle, &s.RenewalAmount, &s.RenewalDate, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) Get(ctx context.Context, id string) (*model.Server, error) {
	const q = `SELECT ` + serverCols + ` FROM servers WHERE id=$1`
	return scanServer(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]model.Server, error) {
	const q = `SELECT ` + serverCols + ` FROM servers WHERE user_id=$1 ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *repo) List(ctx context.Context) ([]model.Server, error) {
	const q = `SELECT ` + serverCols + ` FROM servers ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Server, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Server
	for rows.Next() {
		s, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *repo) ApplyUpdate(ctx context.Context, id string, u Update) (bool, error) {
	const q = `
UPDATE servers SET
	ip_address = COALESCE($2, ip_address),
	hostname   = COALESCE($3, hostname),
	username   = COALESCE($4, username),
	password   = COALESCE($5, password),
	status     = COALESCE($6, status),
	panel_url  = COALESCE($7, panel_url)
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id, u.IPAddress, u.Hostname, u.Username, u.Password, u.Status, u.PanelURL)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) CountByStatus(ctx context.Context, status model.ServerStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM servers WHERE status=$1`, status).Scan(&n)
	return n, err
}

func (r *repo) ListRenewalCandidates(ctx context.Context, until time.Time) ([]model.Server, error) {
	const q = `SELECT ` + serverCols + ` FROM servers WHERE status='active' AND renewal_date <= $1 ORDER BY renewal_date`
	return r.list(ctx, q, until)
}

func (r *repo) ListActiveWithOverdueInvoices(ctx context.Context) ([]model.Server, error) {
	const q = `
SELECT ` + serverCols + `
FROM servers s
WHERE s.status='active'
  AND EXISTS (
	SELECT 1 FROM invoices i
	WHERE (i.server_id = s.id OR i.order_id = s.order_id)
	  AND i.status = 'overdue'
  )
ORDER BY s.created_at`
	return r.list(ctx, q)
}

func (r *repo) Suspend(ctx context.Context, id string) (bool, error) {
	const q = `UPDATE servers SET status='suspended' WHERE id=$1 AND status='active'`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) AdvanceRenewal(ctx context.Context, tx *sql.Tx, id string, newDate time.Time) error {
	const q = `UPDATE servers SET renewal_date=$2 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, newDate)
	return err
}
