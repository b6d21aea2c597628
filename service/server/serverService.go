package serversvc

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
	serverrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/server"
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

type Orders interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Order, error)
	SetOrderStatus(ctx context.Context, tx *sql.Tx, id string, status model.OrderStatus) error
}

type Users interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

type ProvisionInput struct {
	OrderID   string
	IPAddress string
	Hostname  string
	Username  string
	Password  string
	SSHPort   int
	PanelURL  *string
}

type UpdateInput struct {
	IPAddress *string
	Hostname  *string
	Username  *string
	Password  *string
	Status    *model.ServerStatus
	PanelURL  *string
}

type Service interface {
	// Provision turns a paid order into a server record and activates the
	// order. One server per order; a second attempt is an invalid state.
	Provision(ctx context.Context, in ProvisionInput) (*model.Server, error)
	ListByUser(ctx context.Context, userID string) ([]model.Server, error)
	GetOwned(ctx context.Context, userID, serverID string) (*model.Server, error)
	List(ctx context.Context) ([]model.Server, error)
	Update(ctx context.Context, serverID string, in UpdateInput) (*model.Server, error)
	SendCredentials(ctx context.Context, serverID string) error
}

type service struct {
	db      *sql.DB
	servers serverrepo.Repo
	orders  Orders
	users   Users
	mail    mailer.Mailer
	log     *slog.Logger
}

func New(db *sql.DB, servers serverrepo.Repo, orders Orders, users Users, mail mailer.Mailer, log *slog.Logger) Service {
	return &service{db: db, servers: servers, orders: orders, users: users, mail: mail, log: log}
}

func (s *service) Provision(ctx context.Context, in ProvisionInput) (*model.Server, error) {
	if in.IPAddress == "" || in.Hostname == "" || in.Username == "" || in.Password == "" {
		return nil, apperr.New(apperr.CodeValidation, "ip_address, hostname, username and password are required")
	}
	if in.SSHPort == 0 {
		in.SSHPort = 22
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

	o, err := s.orders.GetForUpdate(ctx, tx, in.OrderID)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperr.New(apperr.CodeNotFound, "order not found")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if o.OrderStatus == model.OrderCancelled {
		err = apperr.New(apperr.CodeInvalidState, "order is cancelled")
		return nil, err
	}
	if o.PaymentStatus != model.PaymentPaid {
		err = apperr.New(apperr.CodeInvalidState, "order is not paid")
		return nil, err
	}

	now := time.Now().UTC()
	srv := &model.Server{
		ID:            uuid.NewString(),
		OrderID:       o.ID,
		UserID:        o.UserID,
		IPAddress:     in.IPAddress,
		Hostname:      in.Hostname,
		Username:      in.Username,
		Password:      in.Password,
		SSHPort:       in.SSHPort,
		OS:            o.OS,
		ControlPanel:  o.ControlPanel,
		PanelURL:      in.PanelURL,
		Status:        model.ServerActive,
		PlanName:      o.PlanName,
		BillingCycle:  o.BillingCycle,
		RenewalAmount: o.Amount,
		RenewalDate:   now.AddDate(0, 0, o.BillingCycle.Days()),
	}

	if err = s.servers.Insert(ctx, tx, srv); err != nil {
		if errors.Is(err, serverrepo.ErrDuplicateOrder) {
			err = apperr.New(apperr.CodeInvalidState, "order already has a server")
		}
		return nil, err
	}
	if err = s.orders.SetOrderStatus(ctx, tx, o.ID, model.OrderActive); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.mailCredentials(srv)
	return srv, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]model.Server, error) {
	return s.servers.ListByUser(ctx, userID)
}

func (s *service) GetOwned(ctx context.Context, userID, serverID string) (*model.Server, error) {
	srv, err := s.servers.Get(ctx, serverID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "server not found")
	}
	if err != nil {
		return nil, err
	}
	if srv.UserID != userID {
		return nil, apperr.New(apperr.CodeNotFound, "server not found")
	}
	return srv, nil
}

func (s *service) List(ctx context.Context) ([]model.Server, error) {
	return s.servers.List(ctx)
}

func (s *service) Update(ctx context.Context, serverID string, in UpdateInput) (*model.Server, error) {
	u := serverrepo.Update{
		IPAddress: in.IPAddress,
		Hostname:  in.Hostname,
		Username:  in.Username,
		Password:  in.Password,
		PanelURL:  in.PanelURL,
	}
	if in.Status != nil {
		if *in.Status != model.ServerActive && *in.Status != model.ServerSuspended {
			return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("invalid server status %q", *in.Status))
		}
		v := string(*in.Status)
		u.Status = &v
	}

	ok, err := s.servers.ApplyUpdate(ctx, serverID, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "server not found")
	}
	return s.servers.Get(ctx, serverID)
}

func (s *service) SendCredentials(ctx context.Context, serverID string) error {
	srv, err := s.servers.Get(ctx, serverID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.CodeNotFound, "server not found")
	}
	if err != nil {
		return err
	}

	u, err := s.users.Get(ctx, srv.UserID)
	if err != nil {
		return err
	}
	return s.mail.Send(ctx, mailer.Message{
		To:      u.Email,
		Subject: fmt.Sprintf("Server Credentials - %s", srv.Hostname),
		HTML:    credentialsHTML(srv),
	})
}

func credentialsHTML(srv *model.Server) string {
	panel := ""
	if srv.PanelURL != nil {
		panel = fmt.Sprintf("<p><strong>Panel:</strong> %s</p>", *srv.PanelURL)
	}
	return fmt.Sprintf(
		"<h2>Your Server is Ready!</h2>"+
			"<p><strong>Hostname:</strong> %s</p>"+
			"<p><strong>IP Address:</strong> %s</p>"+
			"<p><strong>Username:</strong> %s</p>"+
			"<p><strong>Password:</strong> %s</p>"+
			"<p><strong>SSH Port:</strong> %d</p>%s",
		srv.Hostname, srv.IPAddress, srv.Username, srv.Password, srv.SSHPort, panel)
}

func (s *service) mailCredentials(srv *model.Server) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		u, err := s.users.Get(ctx, srv.UserID)
		if err != nil {
			s.log.Warn("server notify: user lookup failed", "user_id", srv.UserID, "err", err)
			return
		}
		err = s.mail.Send(ctx, mailer.Message{
			To:      u.Email,
			Subject: fmt.Sprintf("Server Credentials - %s", srv.Hostname),
			HTML:    credentialsHTML(srv),
		})
		if err != nil {
			s.log.Warn("server notify: send failed", "user_id", srv.UserID, "err", err)
		}
	}()
}
