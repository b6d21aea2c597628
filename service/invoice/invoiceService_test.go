package invoicesvc_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	invoicesvc "github.com/brijeshkrdube/kloudserver-sub000/service/invoice"
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
	"github.com/brijeshkrdube/kloudserver-sub000/util/database/dbtest"
)

func TestNewNumber_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-\d{8}-[0-9A-F]{8}$`)

	n := invoicesvc.NewNumber()
	require.Regexp(t, pattern, n)
	require.Contains(t, n, time.Now().UTC().Format("20060102"))
}

func TestNewNumber_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := invoicesvc.NewNumber()
		require.False(t, seen[n], "duplicate invoice number %s", n)
		seen[n] = true
	}
}

type repoMock struct {
	getFn          func(ctx context.Context, id string) (*model.Invoice, error)
	listFn         func(ctx context.Context, status string) ([]model.Invoice, error)
	markPaidFn     func(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error)
	setCancelledFn func(ctx context.Context, tx *sql.Tx, id string) (bool, error)
	markOverdueFn  func(ctx context.Context, now time.Time) (int64, error)
}

var _ invoicesvc.Repo = (*repoMock)(nil)

func (m *repoMock) Get(ctx context.Context, id string) (*model.Invoice, error) {
	if m.getFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.getFn(ctx, id)
}
func (m *repoMock) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Invoice, error) {
	return m.Get(ctx, id)
}
func (m *repoMock) ListByUser(ctx context.Context, userID string) ([]model.Invoice, error) {
	return nil, nil
}
func (m *repoMock) List(ctx context.Context, status string) ([]model.Invoice, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, status)
}
func (m *repoMock) MarkPaid(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error) {
	if m.markPaidFn == nil {
		return true, nil
	}
	return m.markPaidFn(ctx, tx, id, at)
}
func (m *repoMock) SetCancelled(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	if m.setCancelledFn == nil {
		return true, nil
	}
	return m.setCancelledFn(ctx, tx, id)
}
func (m *repoMock) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	if m.markOverdueFn == nil {
		return 0, nil
	}
	return m.markOverdueFn(ctx, now)
}

type serversMock struct {
	getFn            func(ctx context.Context, id string) (*model.Server, error)
	advanceRenewalFn func(ctx context.Context, tx *sql.Tx, id string, newDate time.Time) error
}

func (m *serversMock) Get(ctx context.Context, id string) (*model.Server, error) {
	if m.getFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.getFn(ctx, id)
}
func (m *serversMock) AdvanceRenewal(ctx context.Context, tx *sql.Tx, id string, newDate time.Time) error {
	if m.advanceRenewalFn == nil {
		return nil
	}
	return m.advanceRenewalFn(ctx, tx, id, newDate)
}

func newSvc(r *repoMock, servers *serversMock) invoicesvc.Service {
	return invoicesvc.New(dbtest.Open(), r, servers)
}

func unpaid(id string) *model.Invoice {
	return &model.Invoice{ID: id, UserID: "u1", Amount: 25, Status: model.InvoiceUnpaid}
}

func TestMarkPaid_NotFound(t *testing.T) {
	s := newSvc(&repoMock{}, &serversMock{})

	_, err := s.MarkPaid(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.Code(err))
}

// Settling an already-paid invoice is a no-op: no status write, no renewal
// advancement, the paid invoice comes back as-is.
func TestMarkPaid_AlreadyPaidNoOp(t *testing.T) {
	paidAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	wrote := false
	r := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return &model.Invoice{ID: id, UserID: "u1", Status: model.InvoicePaid, PaidDate: &paidAt}, nil
		},
		markPaidFn: func(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error) {
			wrote = true
			return true, nil
		},
	}
	s := newSvc(r, &serversMock{})

	got, err := s.MarkPaid(context.Background(), "i1")
	require.NoError(t, err)
	require.Equal(t, model.InvoicePaid, got.Status)
	require.Equal(t, paidAt, *got.PaidDate)
	require.False(t, wrote)
}

func TestMarkPaid_CancelledRejected(t *testing.T) {
	r := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return &model.Invoice{ID: id, Status: model.InvoiceCancelled}, nil
		},
	}
	s := newSvc(r, &serversMock{})

	_, err := s.MarkPaid(context.Background(), "i1")
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidState, apperr.Code(err))
}

func TestMarkPaid_SettlesUnpaid(t *testing.T) {
	var paidID string
	r := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return unpaid(id), nil
		},
		markPaidFn: func(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error) {
			paidID = id
			return true, nil
		},
	}
	s := newSvc(r, &serversMock{})

	got, err := s.MarkPaid(context.Background(), "i1")
	require.NoError(t, err)
	require.Equal(t, "i1", paidID)
	require.Equal(t, model.InvoicePaid, got.Status)
	require.NotNil(t, got.PaidDate)
}

// Paying a renewal invoice pushes the server's renewal date out by one
// billing term from its current date.
func TestMarkPaid_RenewalAdvancesServer(t *testing.T) {
	serverID := "srv-1"
	renewal := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	var advancedTo time.Time
	r := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			inv := unpaid(id)
			inv.ServerID = &serverID
			return inv, nil
		},
	}
	servers := &serversMock{
		getFn: func(ctx context.Context, id string) (*model.Server, error) {
			return &model.Server{ID: id, BillingCycle: model.CycleQuarterly, RenewalDate: renewal}, nil
		},
		advanceRenewalFn: func(ctx context.Context, tx *sql.Tx, id string, newDate time.Time) error {
			advancedTo = newDate
			return nil
		},
	}
	s := newSvc(r, servers)

	_, err := s.MarkPaid(context.Background(), "i1")
	require.NoError(t, err)
	require.Equal(t, renewal.AddDate(0, 0, 90), advancedTo)
}

// Losing the settle race behaves like the already-paid case.
func TestMarkPaid_RaceFallsBackToCurrentRow(t *testing.T) {
	r := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return unpaid(id), nil
		},
		markPaidFn: func(ctx context.Context, tx *sql.Tx, id string, at time.Time) (bool, error) {
			return false, nil
		},
	}
	s := newSvc(r, &serversMock{})

	got, err := s.MarkPaid(context.Background(), "i1")
	require.NoError(t, err)
	require.Equal(t, "i1", got.ID)
}

func TestCancel_OnlyUnpaid(t *testing.T) {
	r := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return &model.Invoice{ID: id, Status: model.InvoicePaid}, nil
		},
		setCancelledFn: func(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
			return false, nil
		},
	}
	s := newSvc(r, &serversMock{})

	_, err := s.Cancel(context.Background(), "i1")
	require.Error(t, err)
	require.Equal(t, apperr.CodeInvalidState, apperr.Code(err))
}

func TestCancel_Unpaid(t *testing.T) {
	r := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return unpaid(id), nil
		},
	}
	s := newSvc(r, &serversMock{})

	got, err := s.Cancel(context.Background(), "i1")
	require.NoError(t, err)
	require.Equal(t, model.InvoiceCancelled, got.Status)
}

// Listing overdue refreshes statuses first, so a just-lapsed invoice shows up.
func TestList_OverdueRecomputesFirst(t *testing.T) {
	flipped := false
	r := &repoMock{
		markOverdueFn: func(ctx context.Context, now time.Time) (int64, error) {
			flipped = true
			return 1, nil
		},
		listFn: func(ctx context.Context, status string) ([]model.Invoice, error) {
			require.True(t, flipped, "overdue recompute must run before the listing")
			return []model.Invoice{{ID: "i1", Status: model.InvoiceOverdue}}, nil
		},
	}
	s := newSvc(r, &serversMock{})

	got, err := s.List(context.Background(), string(model.InvoiceOverdue))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, flipped)
}

func TestList_OtherStatusSkipsRecompute(t *testing.T) {
	r := &repoMock{
		markOverdueFn: func(ctx context.Context, now time.Time) (int64, error) {
			t.Fatal("recompute must not run for a non-overdue listing")
			return 0, nil
		},
	}
	s := newSvc(r, &serversMock{})

	_, err := s.List(context.Background(), string(model.InvoiceUnpaid))
	require.NoError(t, err)
}

func TestGetOwned_OtherUsersInvoiceHidden(t *testing.T) {
	r := &repoMock{
		getFn: func(ctx context.Context, id string) (*model.Invoice, error) {
			return &model.Invoice{ID: id, UserID: "owner"}, nil
		},
	}
	s := newSvc(r, &serversMock{})

	_, err := s.GetOwned(context.Background(), "intruder", "i1")
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.Code(err))
}
