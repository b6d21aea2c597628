package invoicesvc

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

// NewNumber generates an invoice number like INV-20250114-3F2A91BC.
func NewNumber() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("INV-%s-%s",
		time.Now().UTC().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(b)))
}

type Repo interface {
	Get(ctx context.Context, id string) (*model.Invoice, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]model.Invoice, error)
	List(ctx context.Context, status string) ([]model.Invoice, error)
	MarkPaid(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error)
	SetCancelled(ctx context.Context, tx *sql.Tx, id string) (bool, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type Servers interface {
	Get(ctx context.Context, id string) (*model.Server, error)
	AdvanceRenewal(ctx context.Context, tx *sql.Tx, id string, newDate time.Time) error
}

type Service interface {
	My(ctx context.Context, userID string) ([]model.Invoice, error)
	GetOwned(ctx context.Context, userID, id string) (*model.Invoice, error)
	List(ctx context.Context, status string) ([]model.Invoice, error)

	// MarkPaid settles an invoice; marking an already-paid invoice is a
	// no-op, not an error. Paying a renewal invoice advances the server's
	// renewal date by one billing term.
	MarkPaid(ctx context.Context, id string) (*model.Invoice, error)
	Cancel(ctx context.Context, id string) (*model.Invoice, error)
}

type service struct {
	db      *sql.DB
	r       Repo
	servers Servers
}

func New(db *sql.DB, r Repo, servers Servers) Service {
	return &service{db: db, r: r, servers: servers}
}

func (s *service) My(ctx context.Context, userID string) ([]model.Invoice, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) GetOwned(ctx context.Context, userID, id string) (*model.Invoice, error) {
	inv, err := s.r.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "invoice not found")
	}
	if err != nil {
		return nil, err
	}
	if inv.UserID != userID {
		return nil, apperr.New(apperr.CodeNotFound, "invoice not found")
	}
	return inv, nil
}

func (s *service) List(ctx context.Context, status string) ([]model.Invoice, error) {
	// An overdue listing recomputes first, so results never lag the clock.
	if status == string(model.InvoiceOverdue) {
		if _, err := s.r.MarkOverdue(ctx, time.Now().UTC()); err != nil {
			return nil, err
		}
	}
	return s.r.List(ctx, status)
}

func (s *service) MarkPaid(ctx context.Context, id string) (*model.Invoice, error) {
	inv, err := s.r.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "invoice not found")
	}
	if err != nil {
		return nil, err
	}
	switch inv.Status {
	case model.InvoicePaid:
		return inv, nil
	case model.InvoiceCancelled:
		return nil, apperr.New(apperr.CodeInvalidState, "invoice is cancelled")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	ok, err := s.r.MarkPaid(ctx, tx, id, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Raced with another settle; treat like the already-paid no-op.
		_ = tx.Rollback()
		return s.r.Get(ctx, id)
	}

	if inv.ServerID != nil {
		var srv *model.Server
		srv, err = s.servers.Get(ctx, *inv.ServerID)
		if err != nil {
			return nil, err
		}
		next := srv.RenewalDate.AddDate(0, 0, srv.BillingCycle.Days())
		if err = s.servers.AdvanceRenewal(ctx, tx, srv.ID, next); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	inv.Status = model.InvoicePaid
	inv.PaidDate = &now
	return inv, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*model.Invoice, error) {
	inv, err := s.r.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "invoice not found")
	}
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	ok, err := s.r.SetCancelled(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		err = apperr.New(apperr.CodeInvalidState, "only unpaid invoices can be cancelled")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	inv.Status = model.InvoiceCancelled
	return inv, nil
}
