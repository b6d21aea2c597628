package adminsvc

import (
	"context"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

type Users interface {
	CountByRole(ctx context.Context, role string) (int64, error)
}

type Orders interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
}

type Servers interface {
	CountByStatus(ctx context.Context, status model.ServerStatus) (int64, error)
}

type Invoices interface {
	RevenueSum(ctx context.Context) (float64, error)
}

type Stats struct {
	TotalUsers       int64   `json:"total_users"`
	TotalOrders      int64   `json:"total_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	ActiveServers    int64   `json:"active_servers"`
	SuspendedServers int64   `json:"suspended_servers"`
	TotalRevenue     float64 `json:"total_revenue"`
}

type Service interface {
	Dashboard(ctx context.Context) (*Stats, error)
}

type service struct {
	users    Users
	orders   Orders
	servers  Servers
	invoices Invoices
}

func New(users Users, orders Orders, servers Servers, invoices Invoices) Service {
	return &service{users: users, orders: orders, servers: servers, invoices: invoices}
}

func (s *service) Dashboard(ctx context.Context) (*Stats, error) {
	st := &Stats{}
	var err error

	if st.TotalUsers, err = s.users.CountByRole(ctx, model.RoleUser); err != nil {
		return nil, err
	}
	if st.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}
	if st.PendingOrders, err = s.orders.CountByStatus(ctx, model.OrderPending); err != nil {
		return nil, err
	}
	if st.ActiveServers, err = s.servers.CountByStatus(ctx, model.ServerActive); err != nil {
		return nil, err
	}
	if st.SuspendedServers, err = s.servers.CountByStatus(ctx, model.ServerSuspended); err != nil {
		return nil, err
	}
	if st.TotalRevenue, err = s.invoices.RevenueSum(ctx); err != nil {
		return nil, err
	}
	return st, nil
}
