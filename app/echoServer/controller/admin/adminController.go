package admin

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/httperr"
	adminsvc "github.com/brijeshkrdube/kloudserver-sub000/service/admin"
	automationsvc "github.com/brijeshkrdube/kloudserver-sub000/service/automation"
)

type Controller struct {
	Svc        adminsvc.Service
	Automation automationsvc.Service
	Log        *slog.Logger
}

// GET /v1/admin/dashboard
func (h *Controller) Dashboard(c echo.Context) error {
	st, err := h.Svc.Dashboard(c.Request().Context())
	if err != nil {
		h.Log.Error("dashboard", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// POST /v1/admin/run-renewal-check
func (h *Controller) RunRenewalCheck(c echo.Context) error {
	created, err := h.Automation.RunRenewalSweep(c.Request().Context())
	if err != nil {
		h.Log.Error("renewal check", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "renewal check complete", "invoices_created": created})
}

// POST /v1/admin/run-suspend-check
func (h *Controller) RunSuspendCheck(c echo.Context) error {
	suspended, err := h.Automation.RunSuspensionSweep(c.Request().Context())
	if err != nil {
		h.Log.Error("suspend check", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "suspend check complete", "servers_suspended": suspended})
}
