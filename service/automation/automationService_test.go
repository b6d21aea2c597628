package automationsvc_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	"github.com/brijeshkrdube/kloudserver-sub000/repository/mailer"
	automationsvc "github.com/brijeshkrdube/kloudserver-sub000/service/automation"
	"github.com/brijeshkrdube/kloudserver-sub000/util/database/dbtest"
)

type serversMock struct {
	renewalCandidatesFn func(ctx context.Context, until time.Time) ([]model.Server, error)
	overdueFn           func(ctx context.Context) ([]model.Server, error)
	suspendFn           func(ctx context.Context, id string) (bool, error)
}

func (m *serversMock) ListRenewalCandidates(ctx context.Context, until time.Time) ([]model.Server, error) {
	if m.renewalCandidatesFn == nil {
		return nil, nil
	}
	return m.renewalCandidatesFn(ctx, until)
}
func (m *serversMock) ListActiveWithOverdueInvoices(ctx context.Context) ([]model.Server, error) {
	if m.overdueFn == nil {
		return nil, nil
	}
	return m.overdueFn(ctx)
}
func (m *serversMock) Suspend(ctx context.Context, id string) (bool, error) {
	if m.suspendFn == nil {
		return false, nil
	}
	return m.suspendFn(ctx, id)
}

type invoicesMock struct {
	insertFn      func(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error
	existsFn      func(ctx context.Context, serverID string, due time.Time) (bool, error)
	markOverdueFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *invoicesMock) Insert(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error {
	if m.insertFn == nil {
		return nil
	}
	return m.insertFn(ctx, tx, inv)
}
func (m *invoicesMock) ExistsForRenewal(ctx context.Context, serverID string, due time.Time) (bool, error) {
	if m.existsFn == nil {
		return false, nil
	}
	return m.existsFn(ctx, serverID, due)
}
func (m *invoicesMock) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	if m.markOverdueFn == nil {
		return 0, nil
	}
	return m.markOverdueFn(ctx, now)
}

type usersMock struct{}

func (usersMock) Get(ctx context.Context, id string) (*model.User, error) {
	return &model.User{ID: id, Email: "u@example.com"}, nil
}

type mailNoop struct{}

func (mailNoop) Send(ctx context.Context, m mailer.Message) error { return nil }

func newSvc(servers *serversMock, invoices *invoicesMock) automationsvc.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return automationsvc.New(dbtest.Open(), servers, invoices, usersMock{}, mailNoop{}, log,
		automationsvc.Config{LookaheadDays: 7})
}

func TestRenewalSweep_NoCandidates(t *testing.T) {
	s := newSvc(&serversMock{}, &invoicesMock{})

	created, err := s.RunRenewalSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, created)
}

// A due server without a live invoice gets exactly one unpaid renewal
// invoice, priced at its locked renewal amount and due on the renewal date.
func TestRenewalSweep_CreatesInvoice(t *testing.T) {
	due := time.Now().UTC().AddDate(0, 0, 3)
	servers := &serversMock{
		renewalCandidatesFn: func(ctx context.Context, until time.Time) ([]model.Server, error) {
			return []model.Server{{
				ID: "s1", UserID: "u1", Hostname: "h1", PlanName: "VPS Basic",
				BillingCycle: model.CycleMonthly, RenewalAmount: 54, RenewalDate: due,
			}}, nil
		},
	}
	var inv *model.Invoice
	invoices := &invoicesMock{
		insertFn: func(ctx context.Context, tx *sql.Tx, i *model.Invoice) error {
			inv = i
			return nil
		},
	}
	s := newSvc(servers, invoices)

	created, err := s.RunRenewalSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, created)

	require.NotNil(t, inv)
	require.Equal(t, "u1", inv.UserID)
	require.NotNil(t, inv.ServerID)
	require.Equal(t, "s1", *inv.ServerID)
	require.Equal(t, 54.0, inv.Amount)
	require.Equal(t, model.InvoiceUnpaid, inv.Status)
	require.Equal(t, due, inv.DueDate)
	require.Equal(t, "Renewal: VPS Basic - monthly", inv.Description)
}

// A second run over the same period must not raise a second invoice.
func TestRenewalSweep_SkipsExistingInvoice(t *testing.T) {
	due := time.Now().UTC().AddDate(0, 0, 3)
	servers := &serversMock{
		renewalCandidatesFn: func(ctx context.Context, until time.Time) ([]model.Server, error) {
			return []model.Server{{ID: "s1", UserID: "u1", RenewalDate: due, RenewalAmount: 54}}, nil
		},
	}
	invoices := &invoicesMock{
		existsFn: func(ctx context.Context, serverID string, d time.Time) (bool, error) {
			require.Equal(t, "s1", serverID)
			require.Equal(t, due, d)
			return true, nil
		},
	}
	s := newSvc(servers, invoices)

	created, err := s.RunRenewalSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, created)
}

func TestSuspensionSweep_SuspendsOverdue(t *testing.T) {
	suspendCalls := 0
	servers := &serversMock{
		overdueFn: func(ctx context.Context) ([]model.Server, error) {
			return []model.Server{
				{ID: "s1", UserID: "u1", Hostname: "h1", Status: model.ServerActive},
				{ID: "s2", UserID: "u2", Hostname: "h2", Status: model.ServerActive},
			}, nil
		},
		suspendFn: func(ctx context.Context, id string) (bool, error) {
			suspendCalls++
			return true, nil
		},
	}
	s := newSvc(servers, &invoicesMock{})

	n, err := s.RunSuspensionSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 2, suspendCalls)
}

// Servers that lost the status='active' race are counted as skipped, not
// suspended twice.
func TestSuspensionSweep_AlreadySuspendedSkipped(t *testing.T) {
	servers := &serversMock{
		overdueFn: func(ctx context.Context) ([]model.Server, error) {
			return []model.Server{{ID: "s1", UserID: "u1", Hostname: "h1"}}, nil
		},
		suspendFn: func(ctx context.Context, id string) (bool, error) { return false, nil },
	}
	s := newSvc(servers, &invoicesMock{})

	n, err := s.RunSuspensionSweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestSuspensionSweep_FlipsOverdueFirst(t *testing.T) {
	flipped := false
	invoices := &invoicesMock{
		markOverdueFn: func(ctx context.Context, now time.Time) (int64, error) {
			flipped = true
			return 4, nil
		},
	}
	servers := &serversMock{
		overdueFn: func(ctx context.Context) ([]model.Server, error) {
			require.True(t, flipped, "overdue flip must happen before the suspend scan")
			return nil, nil
		},
	}
	s := newSvc(servers, invoices)

	_, err := s.RunSuspensionSweep(context.Background())
	require.NoError(t, err)
}
