package ordersvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	"github.com/brijeshkrdube/kloudserver-sub000/repository/mailer"
	invoicesvc "github.com/brijeshkrdube/kloudserver-sub000/service/invoice"
	"github.com/brijeshkrdube/kloudserver-sub000/service/pricing"
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

type Catalog interface {
	GetPlan(ctx context.Context, id string) (*model.Plan, error)
	GetAddOn(ctx context.Context, id string) (*model.AddOn, error)
}

type Wallet interface {
	GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID string) (float64, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, userID string, newBalance float64) error
	InsertTransaction(ctx context.Context, tx *sql.Tx, t *model.WalletTransaction) error
}

type Orders interface {
	Insert(ctx context.Context, tx *sql.Tx, o *model.Order) error
	Get(ctx context.Context, id string) (*model.Order, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	List(ctx context.Context, orderStatus string) ([]model.Order, error)
	SetPaymentProof(ctx context.Context, tx *sql.Tx, id, proofURL string, reference *string) error
	SetPaymentStatus(ctx context.Context, tx *sql.Tx, id string, status model.PaymentStatus) error
	SetOrderStatus(ctx context.Context, tx *sql.Tx, id string, status model.OrderStatus) error
}

type Invoices interface {
	Insert(ctx context.Context, tx *sql.Tx, inv *model.Invoice) error
	MarkPaidByOrder(ctx context.Context, tx *sql.Tx, orderID string, at time.Time) error
}

type Users interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

type CreateInput struct {
	PlanID        string
	BillingCycle  model.BillingCycle
	OS            string
	ControlPanel  *string
	AddOns        []string
	PaymentMethod model.PaymentMethod
	Notes         *string
}

type Service interface {
	// Create recomputes the total server-side and resolves payment:
	// wallet orders debit and land paid in the same transaction as the
	// order row; bank/crypto orders start pending with an invoice.
	Create(ctx context.Context, userID string, in CreateInput) (*model.Order, error)
	My(ctx context.Context, userID string) ([]model.Order, error)
	GetOwned(ctx context.Context, userID, orderID string) (*model.Order, error)
	AttachPaymentProof(ctx context.Context, userID, orderID, proofURL string, reference *string) (*model.Order, error)

	List(ctx context.Context, orderStatus string) ([]model.Order, error)
	// DecidePayment is the staff verdict on an externally paid order:
	// pending/pending_verification -> paid (settles the invoice) or failed.
	DecidePayment(ctx context.Context, orderID string, decision model.PaymentStatus) (*model.Order, error)
	Cancel(ctx context.Context, orderID string) (*model.Order, error)
}

type service struct {
	db       *sql.DB
	catalog  Catalog
	wallet   Wallet
	orders   Orders
	invoices Invoices
	users    Users
	mail     mailer.Mailer
	log      *slog.Logger

	invoiceDueDays int
}

func New(db *sql.DB, catalog Catalog, wallet Wallet, orders Orders, invoices Invoices,
	users Users, mail mailer.Mailer, log *slog.Logger, invoiceDueDays int) Service {
	return &service{
		db: db, catalog: catalog, wallet: wallet, orders: orders, invoices: invoices,
		users: users, mail: mail, log: log, invoiceDueDays: invoiceDueDays,
	}
}

func (s *service) Create(ctx context.Context, userID string, in CreateInput) (*model.Order, error) {
	if !in.BillingCycle.Valid() {
		return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("invalid billing cycle %q", in.BillingCycle))
	}
	if !in.PaymentMethod.Valid() {
		return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("invalid payment method %q", in.PaymentMethod))
	}

	plan, err := s.catalog.GetPlan(ctx, in.PlanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "plan not found")
	}
	if err != nil {
		return nil, err
	}

	addons := make([]model.AddOn, 0, len(in.AddOns))
	for _, id := range in.AddOns {
		a, err := s.catalog.GetAddOn(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("unknown add-on %s", id))
		}
		if err != nil {
			return nil, err
		}
		addons = append(addons, *a)
	}

	// Never trust a client-supplied amount.
	total, err := pricing.Total(*plan, in.BillingCycle, addons)
	if err != nil {
		return nil, err
	}

	o := &model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		PlanID:        plan.ID,
		PlanName:      plan.Name,
		BillingCycle:  in.BillingCycle,
		OS:            in.OS,
		ControlPanel:  in.ControlPanel,
		AddOns:        in.AddOns,
		Amount:        total,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: model.PaymentPending,
		OrderStatus:   model.OrderPending,
		Notes:         in.Notes,
	}
	if o.AddOns == nil {
		o.AddOns = []string{}
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

	if in.PaymentMethod == model.PayWallet {
		// Balance check before the order row exists: an insufficient
		// wallet rejects the whole request, leaving no orphan order.
		var bal float64
		bal, err = s.wallet.GetBalanceForUpdate(ctx, tx, userID)
		if err != nil {
			return nil, err
		}
		if bal < total {
			err = apperr.New(apperr.CodeInsufficientFunds, "insufficient wallet balance")
			return nil, err
		}
		if err = s.wallet.UpdateBalance(ctx, tx, userID, bal-total); err != nil {
			return nil, err
		}
		ref := o.ID
		err = s.wallet.InsertTransaction(ctx, tx, &model.WalletTransaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        model.TxDebit,
			Amount:      total,
			Description: fmt.Sprintf("Order %s", o.ID[:8]),
			Reference:   &ref,
		})
		if err != nil {
			return nil, err
		}
		o.PaymentStatus = model.PaymentPaid
	}

	if err = s.orders.Insert(ctx, tx, o); err != nil {
		return nil, err
	}

	if in.PaymentMethod.External() {
		orderID := o.ID
		err = s.invoices.Insert(ctx, tx, &model.Invoice{
			ID:            uuid.NewString(),
			UserID:        userID,
			OrderID:       &orderID,
			InvoiceNumber: invoicesvc.NewNumber(),
			Amount:        total,
			Status:        model.InvoiceUnpaid,
			Description:   fmt.Sprintf("Order: %s - %s", plan.Name, in.BillingCycle),
			DueDate:       time.Now().UTC().AddDate(0, 0, s.invoiceDueDays),
		})
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.notify(o.UserID, fmt.Sprintf("Order Confirmation - %s", o.ID[:8]), fmt.Sprintf(
		"<h2>Order Received!</h2><p><strong>Plan:</strong> %s</p><p><strong>Amount:</strong> $%.2f</p>",
		o.PlanName, o.Amount))
	return o, nil
}

func (s *service) My(ctx context.Context, userID string) ([]model.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *service) GetOwned(ctx context.Context, userID, orderID string) (*model.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.New(apperr.CodeNotFound, "order not found")
	}
	return o, nil
}

func (s *service) AttachPaymentProof(ctx context.Context, userID, orderID, proofURL string, reference *string) (*model.Order, error) {
	if proofURL == "" {
		return nil, apperr.New(apperr.CodeValidation, "proof_url is required")
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

	o, err := s.orders.GetForUpdate(ctx, tx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperr.New(apperr.CodeNotFound, "order not found")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		err = apperr.New(apperr.CodeNotFound, "order not found")
		return nil, err
	}
	if !o.PaymentMethod.External() {
		err = apperr.New(apperr.CodeValidation, "wallet orders do not take payment proof")
		return nil, err
	}
	// Re-uploading while still under verification replaces the proof.
	if o.PaymentStatus != model.PaymentPending && o.PaymentStatus != model.PaymentVerification {
		err = apperr.New(apperr.CodeInvalidState, fmt.Sprintf("order payment is %s", o.PaymentStatus))
		return nil, err
	}

	if err = s.orders.SetPaymentProof(ctx, tx, orderID, proofURL, reference); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	o.PaymentProofURL = &proofURL
	o.PaymentRef = reference
	o.PaymentStatus = model.PaymentVerification
	return o, nil
}

func (s *service) List(ctx context.Context, orderStatus string) ([]model.Order, error) {
	return s.orders.List(ctx, orderStatus)
}

func (s *service) DecidePayment(ctx context.Context, orderID string, decision model.PaymentStatus) (*model.Order, error) {
	if decision != model.PaymentPaid && decision != model.PaymentFailed {
		return nil, apperr.New(apperr.CodeValidation, "payment decision must be paid or failed")
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

	o, err := s.orders.GetForUpdate(ctx, tx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperr.New(apperr.CodeNotFound, "order not found")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus != model.PaymentPending && o.PaymentStatus != model.PaymentVerification {
		err = apperr.New(apperr.CodeInvalidState, fmt.Sprintf("order payment is already %s", o.PaymentStatus))
		return nil, err
	}

	if err = s.orders.SetPaymentStatus(ctx, tx, orderID, decision); err != nil {
		return nil, err
	}
	if decision == model.PaymentPaid {
		if err = s.invoices.MarkPaidByOrder(ctx, tx, orderID, time.Now().UTC()); err != nil {
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	o.PaymentStatus = decision
	s.notify(o.UserID, fmt.Sprintf("Order Update - %s", o.ID[:8]), fmt.Sprintf(
		"<h2>Order Status Update</h2><p>Payment for order %s is now <strong>%s</strong>.</p>",
		o.ID[:8], decision))
	return o, nil
}

// Cancel is allowed only while the order is pending and unpaid; a paid order
// holds funds and must be handled through support instead.
func (s *service) Cancel(ctx context.Context, orderID string) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	o, err := s.orders.GetForUpdate(ctx, tx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperr.New(apperr.CodeNotFound, "order not found")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if o.OrderStatus != model.OrderPending {
		err = apperr.New(apperr.CodeInvalidState, fmt.Sprintf("order is %s", o.OrderStatus))
		return nil, err
	}
	if o.PaymentStatus == model.PaymentPaid {
		err = apperr.New(apperr.CodeInvalidState, "paid orders cannot be cancelled")
		return nil, err
	}

	if err = s.orders.SetOrderStatus(ctx, tx, orderID, model.OrderCancelled); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	o.OrderStatus = model.OrderCancelled
	s.notify(o.UserID, fmt.Sprintf("Order Update - %s", o.ID[:8]), fmt.Sprintf(
		"<h2>Order Status Update</h2><p>Order %s has been cancelled.</p>", o.ID[:8]))
	return o, nil
}

func (s *service) notify(userID, subject, html string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		u, err := s.users.Get(ctx, userID)
		if err != nil {
			s.log.Warn("order notify: user lookup failed", "user_id", userID, "err", err)
			return
		}
		if err := s.mail.Send(ctx, mailer.Message{To: u.Email, Subject: subject, HTML: html}); err != nil {
			s.log.Warn("order notify: send failed", "user_id", userID, "err", err)
		}
	}()
}
