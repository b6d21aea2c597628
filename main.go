// Package main hosting platform API.
//
// @title           KloudServer API
// @version         1.0
// @description     hosting reseller core (catalog, orders, wallet, invoices, servers).
// @contact.name    Brijesh Kumar Dube
// @contact.email   brijeshkrdube@gmail.com
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer"
	adminctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/admin"
	catalogctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/catalog"
	invoicectrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/invoice"
	orderctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/order"
	serverctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/server"
	walletctrl "github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/controller/wallet"
	"github.com/brijeshkrdube/kloudserver-sub000/app/echoServer/validation"
	"github.com/brijeshkrdube/kloudserver-sub000/config"
	catalogrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/catalog"
	invoicerepo "github.com/brijeshkrdube/kloudserver-sub000/repository/invoice"
	"github.com/brijeshkrdube/kloudserver-sub000/repository/mailer"
	orderrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/order"
	serverrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/server"
	userrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/user"
	walletrepo "github.com/brijeshkrdube/kloudserver-sub000/repository/wallet"
	adminsvc "github.com/brijeshkrdube/kloudserver-sub000/service/admin"
	automationsvc "github.com/brijeshkrdube/kloudserver-sub000/service/automation"
	catalogsvc "github.com/brijeshkrdube/kloudserver-sub000/service/catalog"
	invoicesvc "github.com/brijeshkrdube/kloudserver-sub000/service/invoice"
	ordersvc "github.com/brijeshkrdube/kloudserver-sub000/service/order"
	serversvc "github.com/brijeshkrdube/kloudserver-sub000/service/server"
	walletsvc "github.com/brijeshkrdube/kloudserver-sub000/service/wallet"
	"github.com/brijeshkrdube/kloudserver-sub000/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	cr := catalogrepo.New(db)
	ur := userrepo.New(db)
	wr := walletrepo.New(db)
	or := orderrepo.New(db)
	ir := invoicerepo.New(db)
	sr := serverrepo.New(db)
	mail := mailer.NewSendGrid(cfg.SendGridAPIKey, cfg.SenderEmail)

	// services
	cs := catalogsvc.New(cr, or)
	ws := walletsvc.New(db, wr, ur, mail, log)
	is := invoicesvc.New(db, ir, sr)
	os_ := ordersvc.New(db, cr, wr, or, ir, ur, mail, log, cfg.InvoiceDueDays)
	ss := serversvc.New(db, sr, or, ur, mail, log)
	auto := automationsvc.New(db, sr, ir, ur, mail, log,
		automationsvc.Config{LookaheadDays: cfg.RenewalLookaheadDays})
	as := adminsvc.New(ur, or, sr, ir)

	// controllers
	v := validator.New()
	catalogC := &catalogctrl.Controller{Svc: cs, V: v, Log: log}
	orderC := &orderctrl.Controller{Svc: os_, V: v, Log: log}
	walletC := &walletctrl.Controller{Svc: ws, V: v, Log: log}
	invoiceC := &invoicectrl.Controller{Svc: is, Log: log}
	serverC := &serverctrl.Controller{Svc: ss, V: v, Log: log}
	adminC := &adminctrl.Controller{Svc: as, Automation: auto, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Catalog: catalogC,
		Order:   orderC,
		Wallet:  walletC,
		Invoice: invoiceC,
		Server:  serverC,
		Admin:   adminC,

		JWTSecret: cfg.JWTSecret,
	})

	// Daily billing sweeps. The admin endpoints can trigger the same runs
	// manually; both paths are idempotent.
	go runSweeps(ctx, auto, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}

func runSweeps(ctx context.Context, auto automationsvc.Service, log *slog.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		if _, err := auto.RunRenewalSweep(ctx); err != nil {
			log.Error("renewal sweep failed", "err", err)
		}
		if _, err := auto.RunSuspensionSweep(ctx); err != nil {
			log.Error("suspension sweep failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
