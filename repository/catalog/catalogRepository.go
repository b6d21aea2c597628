package catalogrepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

type PlanUpdate struct {
	Name           *string
	CPU            *string
	RAM            *string
	Storage        *string
	Bandwidth      *string
	PriceMonthly   *float64
	PriceQuarterly *float64
	PriceYearly    *float64
	Features       []string
	IsActive       *bool
}

type AddOnUpdate struct {
	Name        *string
	Price       *float64
	Description *string
	IsActive    *bool
}

type Repo interface {
	InsertPlan(ctx context.Context, p *model.Plan) error
	ListPlans(ctx context.Context, onlyActive bool, planType string) ([]model.Plan, error)
	GetPlan(ctx context.Context, id string) (*model.Plan, error)
	UpdatePlan(ctx context.Context, id string, u PlanUpdate) (bool, error)
	DeactivatePlan(ctx context.Context, id string) error
	DeletePlan(ctx context.Context, id string) error

	InsertAddOn(ctx context.Context, a *model.AddOn) error
	ListAddOns(ctx context.Context, onlyActive bool) ([]model.AddOn, error)
	GetAddOn(ctx context.Context, id string) (*model.AddOn, error)
	UpdateAddOn(ctx context.Context, id string, u AddOnUpdate) (bool, error)
	DeleteAddOn(ctx context.Context, id string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const planCols = `id, name, type, cpu, ram, storage, bandwidth,
price_monthly, price_quarterly, price_yearly, features, is_active, created_at`

func (r *repo) InsertPlan(ctx context.Context, p *model.Plan) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO plans (id, name, type, cpu, ram, storage, bandwidth,
	price_monthly, price_quarterly, price_yearly, features, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING created_at`
	return r.db.QueryRowContext(ctx, q,
		p.ID, p.Name, p.Type, p.CPU, p.RAM, p.Storage, p.Bandwidth,
		p.PriceMonthly, p.PriceQuarterly, p.PriceYearly, features, p.IsActive,
	).Scan(&p.CreatedAt)
}

func scanPlan(row interface{ Scan(...any) error }) (*model.Plan, error) {
	var p model.Plan
	var features []byte
	if err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.CPU, &p.RAM, &p.Storage, &p.Bandwidth,
		&p.PriceMonthly, &p.PriceQuarterly, &p.PriceYearly, &features, &p.IsActive, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ListPlans(ctx context.Context, onlyActive bool, planType string) ([]model.Plan, error) {
	q := `SELECT ` + planCols + ` FROM plans WHERE 1=1`
	args := []any{}
	if onlyActive {
		q += ` AND is_active`
	}
	if planType != "" {
		args = append(args, planType)
		q += ` AND type=$1`
	}
	q += ` ORDER BY price_monthly ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *repo) GetPlan(ctx context.Context, id string) (*model.Plan, error) {
	const q = `SELECT ` + planCols + ` FROM plans WHERE id=$1`
	return scanPlan(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) UpdatePlan(ctx context.Context, id string, u PlanUpdate) (bool, error) {
	var features []byte
	if u.Features != nil {
		b, err := json.Marshal(u.Features)
		if err != nil {
			return false, err
		}
		features = b
	}
	const q = `
UPDATE plans SET
	name            = COALESCE($2, name),
	cpu             = COALESCE($3, cpu),
	ram             = COALESCE($4, ram),
	storage         = COALESCE($5, storage),
	bandwidth       = COALESCE($6, bandwidth),
	price_monthly   = COALESCE($7, price_monthly),
	price_quarterly = COALESCE($8, price_quarterly),
	price_yearly    = COALESCE($9, price_yearly),
	features        = COALESCE($10, features),
	is_active       = COALESCE($11, is_active)
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id,
		u.Name, u.CPU, u.RAM, u.Storage, u.Bandwidth,
		u.PriceMonthly, u.PriceQuarterly, u.PriceYearly, features, u.IsActive)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) DeactivatePlan(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE plans SET is_active=FALSE WHERE id=$1`, id)
	return err
}

func (r *repo) DeletePlan(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id=$1`, id)
	return err
}

const addonCols = `id, name, type, price, billing_cycle, description, is_active, created_at`

func (r *repo) InsertAddOn(ctx context.Context, a *model.AddOn) error {
	const q = `
INSERT INTO addons (id, name, type, price, billing_cycle, description, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING created_at`
	return r.db.QueryRowContext(ctx, q,
		a.ID, a.Name, a.Type, a.Price, a.BillingCycle, a.Description, a.IsActive,
	).Scan(&a.CreatedAt)
}

func (r *repo) ListAddOns(ctx context.Context, onlyActive bool) ([]model.AddOn, error) {
	q := `SELECT ` + addonCols + ` FROM addons`
	if onlyActive {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AddOn
	for rows.Next() {
		var a model.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Price, &a.BillingCycle,
			&a.Description, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) GetAddOn(ctx context.Context, id string) (*model.AddOn, error) {
	const q = `SELECT ` + addonCols + ` FROM addons WHERE id=$1`
	var a model.AddOn
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.Type, &a.Price,
		&a.BillingCycle, &a.Description, &a.IsActive, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repo) UpdateAddOn(ctx context.Context, id string, u AddOnUpdate) (bool, error) {
	const q = `
UPDATE addons SET
	name        = COALESCE($2, name),
	price       = COALESCE($3, price),
	description = COALESCE($4, description),
	is_active   = COALESCE($5, is_active)
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id, u.Name, u.Price, u.Description, u.IsActive)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) DeleteAddOn(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM addons WHERE id=$1`, id)
	return err
}
