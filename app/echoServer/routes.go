package echoServer

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	adminctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/admin"
	catalogctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/catalog"
	invoicectrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/invoice"
	orderctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/order"
	serverctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/server"
	walletctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/wallet"
	"github.com/brijeshkrdube/kloudserver-sub000/model"
)

type C struct {
	Catalog   *catalogctrl.Controller
	Order     *orderctrl.Controller
	Wallet    *walletctrl.Controller
	Invoice   *invoicectrl.Controller
	Server    *serverctrl.Controller
	Admin     *adminctrl.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public catalog
	pub := e.Group("/v1")
	pub.GET("/plans", c.Catalog.ListPlans)
	pub.GET("/plans/:id", c.Catalog.GetPlan)
	pub.GET("/addons", c.Catalog.ListAddOns)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(JWTConfig(c.JWTSecret)))
	auth.Use(ExtractIdentity())

	// Wallet
	auth.GET("/wallet", c.Wallet.Balance)
	auth.GET("/wallet/transactions", c.Wallet.Transactions)
	auth.POST("/wallet/topup", c.Wallet.SubmitTopup)
	auth.GET("/wallet/topup-requests", c.Wallet.MyTopups)

	// Orders
	auth.POST("/orders", c.Order.Create)
	auth.GET("/orders", c.Order.My)
	auth.GET("/orders/:id", c.Order.Get)
	auth.POST("/orders/:id/payment-proof", c.Order.AttachProof)

	// Invoices
	auth.GET("/invoices", c.Invoice.My)
	auth.GET("/invoices/:id", c.Invoice.Get)

	// Servers
	auth.GET("/servers", c.Server.My)
	auth.GET("/servers/:id", c.Server.Get)

	// Admin
	admin := auth.Group("/admin")
	admin.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			role, _ := ctx.Get("role").(string)
			if !model.IsStaff(role) {
				return ctx.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
			}
			return next(ctx)
		}
	})

	admin.GET("/dashboard", c.Admin.Dashboard)
	admin.POST("/run-renewal-check", c.Admin.RunRenewalCheck)
	admin.POST("/run-suspend-check", c.Admin.RunSuspendCheck)

	admin.POST("/plans", c.Catalog.CreatePlan)
	admin.PUT("/plans/:id", c.Catalog.UpdatePlan)
	admin.DELETE("/plans/:id", c.Catalog.DeletePlan)
	admin.POST("/addons", c.Catalog.CreateAddOn)
	admin.PUT("/addons/:id", c.Catalog.UpdateAddOn)
	admin.DELETE("/addons/:id", c.Catalog.DeleteAddOn)

	admin.GET("/orders", c.Order.List)
	admin.PUT("/orders/:id/payment", c.Order.DecidePayment)
	admin.PUT("/orders/:id/cancel", c.Order.Cancel)

	admin.GET("/topup-requests", c.Wallet.ListTopups)
	admin.PUT("/topup-requests/:id", c.Wallet.ProcessTopup)
	admin.PUT("/users/:id/wallet", c.Wallet.AdjustWallet)

	admin.GET("/invoices", c.Invoice.List)
	admin.PUT("/invoices/:id/mark-paid", c.Invoice.MarkPaid)
	admin.PUT("/invoices/:id/cancel", c.Invoice.Cancel)

	admin.GET("/servers", c.Server.List)
	admin.POST("/servers", c.Server.Provision)
	admin.PUT("/servers/:id", c.Server.Update)
	admin.POST("/servers/:id/send-credentials", c.Server.SendCredentials)
}
