package order

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/httperr"
	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/jwtx"
	"github.com/brijeshkrdube/kloudserver-sub000/model"
	ordersvc "github.com/brijeshkrdube/kloudserver-sub000/service/order"
)

type Controller struct {
	Svc ordersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/orders
// @Summary Place an order
// @Success 201 {object} map[string]any
// @Failure 400,401,409,500
func (h *Controller) Create(c echo.Context) error {
	var req CreateOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	o, err := h.Svc.Create(c.Request().Context(), jwtx.UserID(c), ordersvc.CreateInput{
		PlanID:        req.PlanID,
		BillingCycle:  model.BillingCycle(req.BillingCycle),
		OS:            req.OS,
		ControlPanel:  req.ControlPanel,
		AddOns:        req.AddOns,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	})
	if err != nil {
		h.Log.Error("order create", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// GET /v1/orders
func (h *Controller) My(c echo.Context) error {
	rows, err := h.Svc.My(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		h.Log.Error("my orders", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/orders/:id
func (h *Controller) Get(c echo.Context) error {
	o, err := h.Svc.GetOwned(c.Request().Context(), jwtx.UserID(c), c.Param("id"))
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// POST /v1/orders/:id/payment-proof
func (h *Controller) AttachProof(c echo.Context) error {
	var req PaymentProofReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	o, err := h.Svc.AttachPaymentProof(c.Request().Context(), jwtx.UserID(c), c.Param("id"),
		req.ProofURL, req.TransactionRef)
	if err != nil {
		h.Log.Error("attach proof", "err", err, "order_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// GET /v1/admin/orders
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		h.Log.Error("list orders", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/admin/orders/:id/payment
func (h *Controller) DecidePayment(c echo.Context) error {
	var req PaymentDecisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if s := c.QueryParam("status"); s != "" {
		req.Status = s
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	o, err := h.Svc.DecidePayment(c.Request().Context(), c.Param("id"), model.PaymentStatus(req.Status))
	if err != nil {
		h.Log.Error("decide payment", "err", err, "order_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// PUT /v1/admin/orders/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	o, err := h.Svc.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.Log.Error("cancel order", "err", err, "order_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, o)
}
