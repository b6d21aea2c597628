package wallet

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/httperr"
	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/jwtx"
	"github.com/brijeshkrdube/kloudserver-sub000/model"
	walletsvc "github.com/brijeshkrdube/kloudserver-sub000/service/wallet"
)

type Controller struct {
	Svc walletsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/wallet
// @Summary Wallet balance
// @Success 200 {object} map[string]any
func (h *Controller) Balance(c echo.Context) error {
	userID := jwtx.UserID(c)
	bal, err := h.Svc.Balance(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("wallet balance", "err", err, "user_id", userID)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"balance": bal})
}

// GET /v1/wallet/transactions
func (h *Controller) Transactions(c echo.Context) error {
	userID := jwtx.UserID(c)
	rows, err := h.Svc.Transactions(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("wallet transactions", "err", err, "user_id", userID)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/wallet/topup
func (h *Controller) SubmitTopup(c echo.Context) error {
	var req SubmitTopupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	t, err := h.Svc.SubmitTopup(c.Request().Context(), jwtx.UserID(c),
		req.Amount, model.PaymentMethod(req.PaymentMethod), req.TransactionRef, req.ProofURL)
	if err != nil {
		h.Log.Error("submit topup", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// GET /v1/wallet/topup-requests
func (h *Controller) MyTopups(c echo.Context) error {
	rows, err := h.Svc.MyTopups(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		h.Log.Error("my topups", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/admin/topup-requests
func (h *Controller) ListTopups(c echo.Context) error {
	rows, err := h.Svc.ListTopups(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		h.Log.Error("list topups", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/admin/topup-requests/:id
func (h *Controller) ProcessTopup(c echo.Context) error {
	var req ProcessTopupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	// Decision may also arrive as a query param.
	if s := c.QueryParam("status"); s != "" {
		req.Status = s
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	t, err := h.Svc.ProcessTopup(c.Request().Context(), jwtx.UserID(c), c.Param("id"),
		model.TopupStatus(req.Status), req.AdminNotes)
	if err != nil {
		h.Log.Error("process topup", "err", err, "request_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// PUT /v1/admin/users/:id/wallet
func (h *Controller) AdjustWallet(c echo.Context) error {
	var req AdjustWalletReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	desc := req.Description
	if desc == "" {
		desc = "Admin balance adjustment"
	}
	if err := h.Svc.Adjust(c.Request().Context(), c.Param("id"), req.Balance, desc); err != nil {
		h.Log.Error("adjust wallet", "err", err, "target_user", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "wallet updated", "balance": req.Balance})
}
