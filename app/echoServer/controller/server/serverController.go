package server

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/httperr"
	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/jwtx"
	"github.com/brijeshkrdube/kloudserver-sub000/model"
	serversvc "github.com/brijeshkrdube/kloudserver-sub000/service/server"
)

type Controller struct {
	Svc serversvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/servers
func (h *Controller) My(c echo.Context) error {
	rows, err := h.Svc.ListByUser(c.Request().Context(), jwtx.UserID(c))
	if err != nil {
		h.Log.Error("my servers", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/servers/:id
func (h *Controller) Get(c echo.Context) error {
	srv, err := h.Svc.GetOwned(c.Request().Context(), jwtx.UserID(c), c.Param("id"))
	if err != nil {
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, srv)
}

// GET /v1/admin/servers
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("list servers", "err", err)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /v1/admin/servers
// @Summary Provision a server from a paid order
// @Success 201 {object} model.Server
// @Failure 400,404,409,500
func (h *Controller) Provision(c echo.Context) error {
	var req ProvisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	srv, err := h.Svc.Provision(c.Request().Context(), serversvc.ProvisionInput{
		OrderID:   req.OrderID,
		IPAddress: req.IPAddress,
		Hostname:  req.Hostname,
		Username:  req.Username,
		Password:  req.Password,
		SSHPort:   req.SSHPort,
		PanelURL:  req.PanelURL,
	})
	if err != nil {
		h.Log.Error("provision server", "err", err, "order_id", req.OrderID)
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusCreated, srv)
}

// PUT /v1/admin/servers/:id
func (h *Controller) Update(c echo.Context) error {
	var req UpdateServerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	in := serversvc.UpdateInput{
		IPAddress: req.IPAddress,
		Hostname:  req.Hostname,
		Username:  req.Username,
		Password:  req.Password,
		PanelURL:  req.PanelURL,
	}
	if req.Status != nil {
		s := model.ServerStatus(*req.Status)
		in.Status = &s
	}

	srv, err := h.Svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		h.Log.Error("update server", "err", err, "server_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, srv)
}

// POST /v1/admin/servers/:id/send-credentials
func (h *Controller) SendCredentials(c echo.Context) error {
	if err := h.Svc.SendCredentials(c.Request().Context(), c.Param("id")); err != nil {
		h.Log.Error("send credentials", "err", err, "server_id", c.Param("id"))
		return httperr.JSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "credentials sent"})
}
