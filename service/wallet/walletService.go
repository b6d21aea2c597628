package walletsvc

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
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

type Repo interface {
	GetBalance(ctx context.Context, userID string) (float64, error)
	GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID string) (float64, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, userID string, newBalance float64) error
	InsertTransaction(ctx context.Context, tx *sql.Tx, t *model.WalletTransaction) error
	ListTransactions(ctx context.Context, userID string) ([]model.WalletTransaction, error)

	InsertTopup(ctx context.Context, t *model.TopupRequest) error
	GetTopup(ctx context.Context, id string) (*model.TopupRequest, error)
	ListTopupsByUser(ctx context.Context, userID string) ([]model.TopupRequest, error)
	ListTopups(ctx context.Context, status string) ([]model.TopupRequest, error)
	MarkTopupProcessed(ctx context.Context, tx *sql.Tx, id string, status model.TopupStatus,
		processedBy string, notes *string, at time.Time) (bool, error)
}

type Users interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

type Service interface {
	Balance(ctx context.Context, userID string) (float64, error)
	Transactions(ctx context.Context, userID string) ([]model.WalletTransaction, error)

	SubmitTopup(ctx context.Context, userID string, amount float64, method model.PaymentMethod, reference, proofURL *string) (*model.TopupRequest, error)
	MyTopups(ctx context.Context, userID string) ([]model.TopupRequest, error)
	ListTopups(ctx context.Context, status string) ([]model.TopupRequest, error)
	ProcessTopup(ctx context.Context, adminID, requestID string, decision model.TopupStatus, notes *string) (*model.TopupRequest, error)

	// Credit is reserved for topup approval and administrative correction;
	// the order path never credits.
	Credit(ctx context.Context, userID string, amount float64, description string, reference *string) error
	Debit(ctx context.Context, userID string, amount float64, description string, reference *string) error
	// Adjust sets the balance to a target value through a compensating
	// ledger transaction, so the ledger sum stays equal to the balance.
	Adjust(ctx context.Context, userID string, newBalance float64, description string) error
}

type service struct {
	db    *sql.DB
	r     Repo
	users Users
	mail  mailer.Mailer
	log   *slog.Logger
}

func New(db *sql.DB, r Repo, users Users, mail mailer.Mailer, log *slog.Logger) Service {
	return &service{db: db, r: r, users: users, mail: mail, log: log}
}

func (s *service) Balance(ctx context.Context, userID string) (float64, error) {
	bal, err := s.r.GetBalance(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.New(apperr.CodeNotFound, "user not found")
	}
	return bal, err
}

func (s *service) Transactions(ctx context.Context, userID string) ([]model.WalletTransaction, error) {
	return s.r.ListTransactions(ctx, userID)
}

func (s *service) SubmitTopup(ctx context.Context, userID string, amount float64, method model.PaymentMethod, reference, proofURL *string) (*model.TopupRequest, error) {
	if amount <= 0 {
		return nil, apperr.New(apperr.CodeValidation, "amount must be greater than zero")
	}
	if !method.External() {
		return nil, apperr.New(apperr.CodeValidation, "topup method must be bank_transfer or crypto")
	}

	t := &model.TopupRequest{
		ID:             uuid.NewString(),
		UserID:         userID,
		Amount:         amount,
		PaymentMethod:  method,
		TransactionRef: reference,
		ProofURL:       proofURL,
		Status:         model.TopupPending,
	}
	if err := s.r.InsertTopup(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) MyTopups(ctx context.Context, userID string) ([]model.TopupRequest, error) {
	return s.r.ListTopupsByUser(ctx, userID)
}

func (s *service) ListTopups(ctx context.Context, status string) ([]model.TopupRequest, error) {
	return s.r.ListTopups(ctx, status)
}

// ProcessTopup moves a pending request to approved/rejected. The credit is
// applied inside the same transaction as the status flip, and the
// status='pending' guard makes re-processing a no-op at the SQL level, so a
// request can never credit the wallet twice.
func (s *service) ProcessTopup(ctx context.Context, adminID, requestID string, decision model.TopupStatus, notes *string) (*model.TopupRequest, error) {
	if decision != model.TopupApproved && decision != model.TopupRejected {
		return nil, apperr.New(apperr.CodeValidation, "decision must be approved or rejected")
	}

	t, err := s.r.GetTopup(ctx, requestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "topup request not found")
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

	now := time.Now().UTC()
	ok, err := s.r.MarkTopupProcessed(ctx, tx, requestID, decision, adminID, notes, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		err = apperr.New(apperr.CodeInvalidState, "topup request already processed")
		return nil, err
	}

	if decision == model.TopupApproved {
		var bal float64
		bal, err = s.r.GetBalanceForUpdate(ctx, tx, t.UserID)
		if err != nil {
			return nil, err
		}
		if err = s.r.UpdateBalance(ctx, tx, t.UserID, bal+t.Amount); err != nil {
			return nil, err
		}
		ref := t.ID
		err = s.r.InsertTransaction(ctx, tx, &model.WalletTransaction{
			ID:          uuid.NewString(),
			UserID:      t.UserID,
			Type:        model.TxCredit,
			Amount:      t.Amount,
			Description: "Wallet top-up",
			Reference:   &ref,
		})
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	t.Status = decision
	t.ProcessedBy = &adminID
	t.ProcessedAt = &now
	t.AdminNotes = notes

	s.notifyTopupDecision(t)
	return t, nil
}

func (s *service) Credit(ctx context.Context, userID string, amount float64, description string, reference *string) error {
	if amount <= 0 {
		return apperr.New(apperr.CodeValidation, "amount must be greater than zero")
	}
	return s.applyLedger(ctx, userID, model.TxCredit, amount, description, reference)
}

func (s *service) Debit(ctx context.Context, userID string, amount float64, description string, reference *string) error {
	if amount <= 0 {
		return apperr.New(apperr.CodeValidation, "amount must be greater than zero")
	}
	return s.applyLedger(ctx, userID, model.TxDebit, amount, description, reference)
}

func (s *service) Adjust(ctx context.Context, userID string, newBalance float64, description string) error {
	if newBalance < 0 {
		return apperr.New(apperr.CodeValidation, "balance cannot be negative")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cur, err := s.r.GetBalanceForUpdate(ctx, tx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperr.New(apperr.CodeNotFound, "user not found")
		return err
	}
	if err != nil {
		return err
	}
	if cur == newBalance {
		return tx.Rollback()
	}

	txType := model.TxCredit
	diff := newBalance - cur
	if diff < 0 {
		txType = model.TxDebit
		diff = -diff
	}
	if err = s.r.UpdateBalance(ctx, tx, userID, newBalance); err != nil {
		return err
	}
	err = s.r.InsertTransaction(ctx, tx, &model.WalletTransaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        txType,
		Amount:      diff,
		Description: description,
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) applyLedger(ctx context.Context, userID string, t model.TransactionType, amount float64, description string, reference *string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	bal, err := s.r.GetBalanceForUpdate(ctx, tx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperr.New(apperr.CodeNotFound, "user not found")
		return err
	}
	if err != nil {
		return err
	}

	newBal := bal + amount
	if t == model.TxDebit {
		if amount > bal {
			err = apperr.New(apperr.CodeInsufficientFunds, "insufficient wallet balance")
			return err
		}
		newBal = bal - amount
	}
	if err = s.r.UpdateBalance(ctx, tx, userID, newBal); err != nil {
		return err
	}
	err = s.r.InsertTransaction(ctx, tx, &model.WalletTransaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        t,
		Amount:      amount,
		Description: description,
		Reference:   reference,
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) notifyTopupDecision(t *model.TopupRequest) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		u, err := s.users.Get(ctx, t.UserID)
		if err != nil {
			s.log.Warn("topup notify: user lookup failed", "user_id", t.UserID, "err", err)
			return
		}
		subject := fmt.Sprintf("Top-up %s", t.Status)
		html := fmt.Sprintf(
			"<h2>Wallet Top-up %s</h2><p>Hi %s,</p><p>Your top-up request for $%.2f has been %s.</p>",
			t.Status, u.FullName, t.Amount, t.Status)
		if err := s.mail.Send(ctx, mailer.Message{To: u.Email, Subject: subject, HTML: html}); err != nil {
			s.log.Warn("topup notify: send failed", "user_id", t.UserID, "err", err)
		}
	}()
}
