package invoice

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/httperr"
	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/jwtx"
	invoicesvc "github.com/brijeshkrdube/kloudserver-sub000/service/invoice"
)

type Controller struct {
	Svc invoicesvc.Service
	Log *slog.Logger
}

// GET /v1/invoices
func (h *Controller) My(c echo.Context) error {
	rows, err := h.Svc.My(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		h.Log.Error("my invoices", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/invoices/:id
func (h *Controller) Get(c echo.Context) error {
	inv, err := h.Svc.GetOwned(c.Request().Context(), jwtx.UserID(c), c.Param("id"))
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

// GET /v1/admin/invoices
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		h.Log.Error("list invoices", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// PUT /v1/admin/invoices/:id/mark-paid
func (h *Controller) MarkPaid(c echo.Context) error {
	inv, err := h.Svc.MarkPaid(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.Log.Error("mark invoice paid", "err", err, "invoice_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

// PUT /v1/admin/invoices/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	inv, err := h.Svc.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		h.Log.Error("cancel invoice", "err", err, "invoice_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}
