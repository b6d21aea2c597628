package catalogsvc_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	catalogrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/catalog"
	catalogsvc "github.com/brijeshkrdube/kloudserver-sub000/service/catalog"
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

type repoMock struct {
	insertPlanFn     func(ctx context.Context, p *model.Plan) error
	listPlansFn      func(ctx context.Context, onlyActive bool, planType string) ([]model.Plan, error)
	getPlanFn        func(ctx context.Context, id string) (*model.Plan, error)
	updatePlanFn     func(ctx context.Context, id string, u catalogrepo.PlanUpdate) (bool, error)
	deactivatePlanFn func(ctx context.Context, id string) error
	deletePlanFn     func(ctx context.Context, id string) error
	insertAddOnFn    func(ctx context.Context, a *model.AddOn) error
	listAddOnsFn     func(ctx context.Context, onlyActive bool) ([]model.AddOn, error)
	getAddOnFn       func(ctx context.Context, id string) (*model.AddOn, error)
	updateAddOnFn    func(ctx context.Context, id string, u catalogrepo.AddOnUpdate) (bool, error)
	deleteAddOnFn    func(ctx context.Context, id string) error
}

var _ catalogrepo.Repo = (*repoMock)(nil)

func (m *repoMock) InsertPlan(ctx context.Context, p *model.Plan) error {
	if m.insertPlanFn == nil {
		return nil
	}
	return m.insertPlanFn(ctx, p)
}
func (m *repoMock) ListPlans(ctx context.Context, onlyActive bool, planType string) ([]model.Plan, error) {
	if m.listPlansFn == nil {
		return nil, nil
	}
	return m.listPlansFn(ctx, onlyActive, planType)
}
func (m *repoMock) GetPlan(ctx context.Context, id string) (*model.Plan, error) {
	if m.getPlanFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.getPlanFn(ctx, id)
}
func (m *repoMock) UpdatePlan(ctx context.Context, id string, u catalogrepo.PlanUpdate) (bool, error) {
	if m.updatePlanFn == nil {
		return false, nil
	}
	return m.updatePlanFn(ctx, id, u)
}
func (m *repoMock) DeactivatePlan(ctx context.Context, id string) error {
	if m.deactivatePlanFn == nil {
		return nil
	}
	return m.deactivatePlanFn(ctx, id)
}
func (m *repoMock) DeletePlan(ctx context.Context, id string) error {
	if m.deletePlanFn == nil {
		return nil
	}
	return m.deletePlanFn(ctx, id)
}
func (m *repoMock) InsertAddOn(ctx context.Context, a *model.AddOn) error {
	if m.insertAddOnFn == nil {
		return nil
	}
	return m.insertAddOnFn(ctx, a)
}
func (m *repoMock) ListAddOns(ctx context.Context, onlyActive bool) ([]model.AddOn, error) {
	if m.listAddOnsFn == nil {
		return nil, nil
	}
	return m.listAddOnsFn(ctx, onlyActive)
}
func (m *repoMock) GetAddOn(ctx context.Context, id string) (*model.AddOn, error) {
	if m.getAddOnFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.getAddOnFn(ctx, id)
}
func (m *repoMock) UpdateAddOn(ctx context.Context, id string, u catalogrepo.AddOnUpdate) (bool, error) {
	if m.updateAddOnFn == nil {
		return false, nil
	}
	return m.updateAddOnFn(ctx, id, u)
}
func (m *repoMock) DeleteAddOn(ctx context.Context, id string) error {
	if m.deleteAddOnFn == nil {
		return nil
	}
	return m.deleteAddOnFn(ctx, id)
}

type ordersMock struct {
	countByPlanFn func(ctx context.Context, planID string) (int64, error)
}

func (m *ordersMock) CountByPlan(ctx context.Context, planID string) (int64, error) {
	if m.countByPlanFn == nil {
		return 0, nil
	}
	return m.countByPlanFn(ctx, planID)
}

func TestCreatePlan_InvalidType(t *testing.T) {
	s := catalogsvc.New(&repoMock{}, &ordersMock{})

	_, err := s.CreatePlan(context.Background(), catalogsvc.PlanInput{Name: "x", Type: "mainframe"})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.Code(err))
}

func TestCreatePlan_Success(t *testing.T) {
	m := &repoMock{
		insertPlanFn: func(ctx context.Context, p *model.Plan) error { return nil },
	}
	s := catalogsvc.New(m, &ordersMock{})

	p, err := s.CreatePlan(context.Background(), catalogsvc.PlanInput{
		Name: "VPS Basic", Type: model.PlanVPS, PriceMonthly: 19.99,
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.True(t, p.IsActive)
	require.NotNil(t, p.Features)
}

func TestPlan_NotFound(t *testing.T) {
	s := catalogsvc.New(&repoMock{}, &ordersMock{})

	_, err := s.Plan(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.Code(err))
}

// Plans referenced by orders are deactivated, not deleted, so historical
// orders keep a resolvable plan row.
func TestDeletePlan_WithOrdersDeactivates(t *testing.T) {
	deactivated := false
	deleted := false
	m := &repoMock{
		getPlanFn: func(ctx context.Context, id string) (*model.Plan, error) {
			return &model.Plan{ID: id, IsActive: true}, nil
		},
		deactivatePlanFn: func(ctx context.Context, id string) error { deactivated = true; return nil },
		deletePlanFn:     func(ctx context.Context, id string) error { deleted = true; return nil },
	}
	o := &ordersMock{countByPlanFn: func(ctx context.Context, planID string) (int64, error) { return 3, nil }}
	s := catalogsvc.New(m, o)

	hard, err := s.DeletePlan(context.Background(), "p1")
	require.NoError(t, err)
	require.False(t, hard)
	require.True(t, deactivated)
	require.False(t, deleted)
}

func TestDeletePlan_NoOrdersDeletes(t *testing.T) {
	deleted := false
	m := &repoMock{
		getPlanFn: func(ctx context.Context, id string) (*model.Plan, error) {
			return &model.Plan{ID: id}, nil
		},
		deletePlanFn: func(ctx context.Context, id string) error { deleted = true; return nil },
	}
	s := catalogsvc.New(m, &ordersMock{})

	hard, err := s.DeletePlan(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, hard)
	require.True(t, deleted)
}

func TestCreateAddOn_InvalidCycle(t *testing.T) {
	s := catalogsvc.New(&repoMock{}, &ordersMock{})

	_, err := s.CreateAddOn(context.Background(), catalogsvc.AddOnInput{
		Name: "Backup", Type: "backup", Price: 5, BillingCycle: "weekly",
	})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.Code(err))
}

func TestUpdateAddOn_NotFound(t *testing.T) {
	s := catalogsvc.New(&repoMock{}, &ordersMock{})

	_, err := s.UpdateAddOn(context.Background(), "missing", catalogrepo.AddOnUpdate{})
	require.Error(t, err)
	require.Equal(t, apperr.CodeNotFound, apperr.Code(err))
}
