package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/httperr"
	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/jwtx"
	"github.com/brijeshkrdube/kloudserver-sub000/model"
	catalogrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/catalog"
	catalogsvc "github.com/brijeshkrdube/kloudserver-sub000/service/catalog"
)

type Controller struct {
	Svc catalogsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/plans
// @Summary List plans
// @Success 200 {object} map[string]any
func (h *Controller) ListPlans(c echo.Context) error {
	// Staff see inactive plans; the public catalog hides them.
	includeInactive := model.IsStaff(jwtx.Role(c))
	plans, err := h.Svc.Plans(c.Request().Context(), includeInactive, c.QueryParam("type"))
	if err != nil {
		h.Log.Error("list plans", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": plans})
}

// GET /v1/plans/:id
func (h *Controller) GetPlan(c echo.Context) error {
	p, err := h.Svc.Plan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// POST /v1/admin/plans
func (h *Controller) CreatePlan(c echo.Context) error {
	var req CreatePlanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	p, err := h.Svc.CreatePlan(c.Request().Context(), catalogsvc.PlanInput{
		Name:           req.Name,
		Type:           model.PlanType(req.Type),
		CPU:            req.CPU,
		RAM:            req.RAM,
		Storage:        req.Storage,
		Bandwidth:      req.Bandwidth,
		PriceMonthly:   req.PriceMonthly,
		PriceQuarterly: req.PriceQuarterly,
		PriceYearly:    req.PriceYearly,
		Features:       req.Features,
	})
	if err != nil {
		h.Log.Error("create plan", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// PUT /v1/admin/plans/:id
func (h *Controller) UpdatePlan(c echo.Context) error {
	var req UpdatePlanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	p, err := h.Svc.UpdatePlan(c.Request().Context(), c.Param("id"), catalogrepo.PlanUpdate{
		Name:           req.Name,
		CPU:            req.CPU,
		RAM:            req.RAM,
		Storage:        req.Storage,
		Bandwidth:      req.Bandwidth,
		PriceMonthly:   req.PriceMonthly,
		PriceQuarterly: req.PriceQuarterly,
		PriceYearly:    req.PriceYearly,
		Features:       req.Features,
		IsActive:       req.IsActive,
	})
	if err != nil {
		h.Log.Error("update plan", "err", err, "plan_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DELETE /v1/admin/plans/:id
func (h *Controller) DeletePlan(c echo.Context) error {
	deleted, err := h.Svc.DeletePlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.Log.Error("delete plan", "err", err, "plan_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	if !deleted {
		return c.JSON(http.StatusOK, echo.Map{"message": "plan has orders, deactivated instead"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "plan deleted"})
}

// GET /v1/addons
func (h *Controller) ListAddOns(c echo.Context) error {
	addons, err := h.Svc.AddOns(c.Request().Context(), model.IsStaff(jwtx.Role(c)))
	if err != nil {
		h.Log.Error("list addons", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": addons})
}

// POST /v1/admin/addons
func (h *Controller) CreateAddOn(c echo.Context) error {
	var req CreateAddOnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	a, err := h.Svc.CreateAddOn(c.Request().Context(), catalogsvc.AddOnInput{
		Name:         req.Name,
		Type:         req.Type,
		Price:        req.Price,
		BillingCycle: model.AddOnCycle(req.BillingCycle),
		Description:  req.Description,
	})
	if err != nil {
		h.Log.Error("create addon", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// PUT /v1/admin/addons/:id
func (h *Controller) UpdateAddOn(c echo.Context) error {
	var req UpdateAddOnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	a, err := h.Svc.UpdateAddOn(c.Request().Context(), c.Param("id"), catalogrepo.AddOnUpdate{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.Log.Error("update addon", "err", err, "addon_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// DELETE /v1/admin/addons/:id
func (h *Controller) DeleteAddOn(c echo.Context) error {
	if err := h.Svc.DeleteAddOn(c.Request().Context(), c.Param("id")); err != nil {
		h.Log.Error("delete addon", "err", err, "addon_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "add-on deleted"})
}
