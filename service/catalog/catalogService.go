package catalogsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	catalogrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/catalog"
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

type Orders interface {
	CountByPlan(ctx context.Context, planID string) (int64, error)
}

type PlanInput struct {
	Name           string
	Type           model.PlanType
	CPU            string
	RAM            string
	Storage        string
	Bandwidth      string
	PriceMonthly   float64
	PriceQuarterly float64
	PriceYearly    float64
	Features       []string
}

type AddOnInput struct {
	Name         string
	Type         string
	Price        float64
	BillingCycle model.AddOnCycle
	Description  *string
}

type Service interface {
	// Plans lists the public catalog; staff see inactive plans too.
	Plans(ctx context.Context, includeInactive bool, planType string) ([]model.Plan, error)
	Plan(ctx context.Context, id string) (*model.Plan, error)
	CreatePlan(ctx context.Context, in PlanInput) (*model.Plan, error)
	UpdatePlan(ctx context.Context, id string, u catalogrepo.PlanUpdate) (*model.Plan, error)
	// DeletePlan soft-deletes (deactivates) when orders reference the plan,
	// so historical orders keep a resolvable plan row.
	DeletePlan(ctx context.Context, id string) (deleted bool, err error)

	AddOns(ctx context.Context, includeInactive bool) ([]model.AddOn, error)
	CreateAddOn(ctx context.Context, in AddOnInput) (*model.AddOn, error)
	UpdateAddOn(ctx context.Context, id string, u catalogrepo.AddOnUpdate) (*model.AddOn, error)
	DeleteAddOn(ctx context.Context, id string) error
}

type service struct {
	r      catalogrepo.Repo
	orders Orders
}

func New(r catalogrepo.Repo, orders Orders) Service {
	return &service{r: r, orders: orders}
}

func (s *service) Plans(ctx context.Context, includeInactive bool, planType string) ([]model.Plan, error) {
	return s.r.ListPlans(ctx, !includeInactive, planType)
}

func (s *service) Plan(ctx context.Context, id string) (*model.Plan, error) {
	p, err := s.r.GetPlan(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.CodeNotFound, "plan not found")
	}
	return p, err
}

func (s *service) CreatePlan(ctx context.Context, in PlanInput) (*model.Plan, error) {
	if in.Type != model.PlanVPS && in.Type != model.PlanShared && in.Type != model.PlanDedicated {
		return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("invalid plan type %q", in.Type))
	}
	if in.PriceMonthly < 0 || in.PriceQuarterly < 0 || in.PriceYearly < 0 {
		return nil, apperr.New(apperr.CodeValidation, "prices cannot be negative")
	}

	p := &model.Plan{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Type:           in.Type,
		CPU:            in.CPU,
		RAM:            in.RAM,
		Storage:        in.Storage,
		Bandwidth:      in.Bandwidth,
		PriceMonthly:   in.PriceMonthly,
		PriceQuarterly: in.PriceQuarterly,
		PriceYearly:    in.PriceYearly,
		Features:       in.Features,
		IsActive:       true,
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	if err := s.r.InsertPlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdatePlan(ctx context.Context, id string, u catalogrepo.PlanUpdate) (*model.Plan, error) {
	ok, err := s.r.UpdatePlan(ctx, id, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "plan not found")
	}
	return s.r.GetPlan(ctx, id)
}

func (s *service) DeletePlan(ctx context.Context, id string) (bool, error) {
	if _, err := s.Plan(ctx, id); err != nil {
		return false, err
	}

	n, err := s.orders.CountByPlan(ctx, id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, s.r.DeactivatePlan(ctx, id)
	}
	return true, s.r.DeletePlan(ctx, id)
}

func (s *service) AddOns(ctx context.Context, includeInactive bool) ([]model.AddOn, error) {
	return s.r.ListAddOns(ctx, !includeInactive)
}

func (s *service) CreateAddOn(ctx context.Context, in AddOnInput) (*model.AddOn, error) {
	if !in.BillingCycle.Valid() {
		return nil, apperr.New(apperr.CodeValidation, fmt.Sprintf("invalid add-on billing cycle %q", in.BillingCycle))
	}
	if in.Price < 0 {
		return nil, apperr.New(apperr.CodeValidation, "price cannot be negative")
	}

	a := &model.AddOn{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Type:         in.Type,
		Price:        in.Price,
		BillingCycle: in.BillingCycle,
		Description:  in.Description,
		IsActive:     true,
	}
	if err := s.r.InsertAddOn(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) UpdateAddOn(ctx context.Context, id string, u catalogrepo.AddOnUpdate) (*model.AddOn, error) {
	ok, err := s.r.UpdateAddOn(ctx, id, u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "add-on not found")
	}
	return s.r.GetAddOn(ctx, id)
}

func (s *service) DeleteAddOn(ctx context.Context, id string) error {
	if _, err := s.r.GetAddOn(ctx, id); errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.CodeNotFound, "add-on not found")
	} else if err != nil {
		return err
	}
	return s.r.DeleteAddOn(ctx, id)
}
