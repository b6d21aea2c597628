// Package automationsvc runs the periodic billing sweeps. Both sweeps are
// idempotent: running them twice in the same period produces no extra
// invoices and no repeated suspensions.
package automationsvc

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	"github.com/brijeshkrdube/kloudserver-sub000/repository/mailer"
	invoicesvc "github.com/brijeshkrdube/kloudserver-sub000/service/invoice"
)

type Servers interface {
	ListRenewalCandidates(ctx context.Context, until time.Time) ([]model.Server, error)
	ListActiveWithOverdueInvoices(ctx context.Context) ([]model.Server, error)
	Suspend(ctx context.Context, id string) (bool, error)
}

type Invoices interface {
	Insert(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error
	ExistsForRenewal(ctx context.Context, serverID string, due time.Time) (bool, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

type Users interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

type Config struct {
	// LookaheadDays is how far ahead of the renewal date an invoice is raised.
	LookaheadDays int
}

type Service interface {
	RunRenewalSweep(ctx context.Context) (int, error)
	RunSuspensionSweep(ctx context.Context) (int, error)
}

type service struct {
	db       *sql.DB
	servers  Servers
	invoices Invoices
	users    Users
	mail     mailer.Mailer
	log      *slog.Logger
	cfg      Config
}

func New(db *sql.DB, servers Servers, invoices Invoices, users Users, mail mailer.Mailer, log *slog.Logger, cfg Config) Service {
	return &service{db: db, servers: servers, invoices: invoices, users: users, mail: mail, log: log, cfg: cfg}
}

// RunRenewalSweep raises a renewal invoice for every active server whose
// renewal date falls within the lookahead window. The (server, due date)
// existence check keeps the sweep safe to re-run; the matching partial unique
// index backs it against concurrent runs.
func (s *service) RunRenewalSweep(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	until := now.AddDate(0, 0, s.cfg.LookaheadDays)

	candidates, err := s.servers.ListRenewalCandidates(ctx, until)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, srv := range candidates {
		exists, err := s.invoices.ExistsForRenewal(ctx, srv.ID, srv.RenewalDate)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		if err := s.createRenewalInvoice(ctx, srv); err != nil {
			s.log.Error("renewal sweep: invoice create failed", "server_id", srv.ID, "err", err)
			continue
		}
		created++

		s.notify(srv.UserID, fmt.Sprintf("Renewal Invoice - %s", srv.Hostname), fmt.Sprintf(
			"<h2>Renewal Due</h2><p>Server <strong>%s</strong> renews on %s.</p><p><strong>Amount:</strong> $%.2f</p>",
			srv.Hostname, srv.RenewalDate.Format("2006-01-02"), srv.RenewalAmount))
	}

	s.log.Info("renewal sweep done", "candidates", len(candidates), "created", created)
	return created, nil
}

func (s *service) createRenewalInvoice(ctx context.Context, srv model.Server) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	serverID := srv.ID
	err = s.invoices.Insert(ctx, tx, &model.Invoice{
		ID:            uuid.NewString(),
		UserID:        srv.UserID,
		ServerID:      &serverID,
		InvoiceNumber: invoicesvc.NewNumber(),
		Amount:        srv.RenewalAmount,
		Status:        model.InvoiceUnpaid,
		Description:   fmt.Sprintf("Renewal: %s - %s", srv.PlanName, srv.BillingCycle),
		DueDate:       srv.RenewalDate,
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// RunSuspensionSweep flips unpaid invoices past due to overdue, then suspends
// every active server carrying an overdue invoice. Already-suspended servers
// are skipped by the status='active' guard on the update.
func (s *service) RunSuspensionSweep(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	flipped, err := s.invoices.MarkOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	targets, err := s.servers.ListActiveWithOverdueInvoices(ctx)
	if err != nil {
		return 0, err
	}

	suspended := 0
	for _, srv := range targets {
		ok, err := s.servers.Suspend(ctx, srv.ID)
		if err != nil {
			s.log.Error("suspension sweep: suspend failed", "server_id", srv.ID, "err", err)
			continue
		}
		if !ok {
			continue
		}
		suspended++

		s.notify(srv.UserID, fmt.Sprintf("Server Suspended - %s", srv.Hostname), fmt.Sprintf(
			"<h2>Server Suspended</h2><p>Server <strong>%s</strong> was suspended for an overdue invoice. "+
				"Pay the outstanding invoice to restore service.</p>", srv.Hostname))
	}

	s.log.Info("suspension sweep done", "overdue_flipped", flipped, "suspended", suspended)
	return suspended, nil
}

func (s *service) notify(userID, subject, html string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		u, err := s.users.Get(ctx, userID)
		if err != nil {
			s.log.Warn("sweep notify: user lookup failed", "user_id", userID, "err", err)
			return
		}
		if err := s.mail.Send(ctx, mailer.Message{To: u.Email, Subject: subject, HTML: html}); err != nil {
			s.log.Warn("sweep notify: send failed", "user_id", userID, "err", err)
		}
	}()
}
