package userrepo

import (
	"context"
	"database/sql"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

type Repo interface {
	Get(ctx context.Context, id string) (*model.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Get(ctx context.Context, id string) (*model.User, error) {
	const q = `
SELECT id, email, full_name, company, role, wallet_balance, is_verified, created_at
FROM users
WHERE id=$1`
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Email, &u.FullName, &u.Company, &u.Role,
		&u.WalletBalance, &u.IsVerified, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE role=$1`, role).Scan(&n)
	return n, err
}
