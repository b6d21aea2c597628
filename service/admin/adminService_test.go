package adminsvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	adminsvc "github.com/brijeshkrdube/kloudserver-sub000/service/admin"
)

type usersMock struct{}

func (usersMock) CountByRole(ctx context.Context, role string) (int64, error) { return 120, nil }

type ordersMock struct{}

func (ordersMock) Count(ctx context.Context) (int64, error) { return 45, nil }
func (ordersMock) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	if status == model.OrderPending {
		return 7, nil
	}
	return 0, nil
}

type serversMock struct{}

func (serversMock) CountByStatus(ctx context.Context, status model.ServerStatus) (int64, error) {
	switch status {
	case model.ServerActive:
		return 30, nil
	case model.ServerSuspended:
		return 2, nil
	}
	return 0, nil
}

type invoicesMock struct{}

func (invoicesMock) RevenueSum(ctx context.Context) (float64, error) { return 5400.50, nil }

func TestDashboard(t *testing.T) {
	s := adminsvc.New(usersMock{}, ordersMock{}, serversMock{}, invoicesMock{})

	st, err := s.Dashboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(120), st.TotalUsers)
	require.Equal(t, int64(45), st.TotalOrders)
	require.Equal(t, int64(7), st.PendingOrders)
	require.Equal(t, int64(30), st.ActiveServers)
	require.Equal(t, int64(2), st.SuspendedServers)
	require.Equal(t, 5400.50, st.TotalRevenue)
}
