package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"enku-backoffice/internal/audit"
	"enku-backoffice/internal/auth"
	"enku-backoffice/internal/config"
	"enku-backoffice/internal/database"
	"enku-backoffice/internal/finance"
	"enku-backoffice/internal/inventory"
	"enku-backoffice/internal/marketing"
	"enku-backoffice/internal/remote"
	"enku-backoffice/internal/report"
	"enku-backoffice/internal/session"
	"enku-backoffice/internal/users"
	"enku-backoffice/internal/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	sessionTTL    = 30 * 24 * time.Hour
	workspaceIdle = 2 * time.Hour
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		persister session.Persister
		logs      audit.Store
	)
	if !cfg.UsesDatabase() {
		log.Println("[WARN] running without a database, sessions and activity are kept in memory")
		persister = session.NewMemoryPersister()
		logs = audit.NewMemoryStore()
	} else {
		database.Init(cfg)
		logs = audit.NewGormStore(database.DB)
		switch cfg.SessionBackend {
		case "redis":
			rdb, err := session.ConnectRedis(ctx, cfg.RedisURL)
			if err != nil {
				log.Fatalf("[FATAL] %v", err)
			}
			defer rdb.Close()
			persister = session.NewRedisPersister(rdb, sessionTTL)
		case "memory":
			persister = session.NewMemoryPersister()
		default:
			persister = session.NewGormPersister(database.DB)
		}
	}

	mgr := session.NewManager(persister)
	registry := workspace.NewRegistry(audit.NewRecorder(logs)).Release(mgr.Forget)
	defer registry.Close()

	// no client timeout; requests end with their context
	hc := &http.Client{}
	financeAPI := remote.NewClient(cfg.FinanceAPIURL, hc)
	stockAPI := remote.NewClient(cfg.StockAPIURL, hc)

	gate := auth.NewGate(stockAPI)
	financeSvc := finance.NewService(financeAPI, stockAPI)
	inventorySvc := inventory.NewService(stockAPI)
	usersSvc := users.NewService(stockAPI)
	site := marketing.NewSite(ctx)
	defer site.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins(), ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	// Public marketing pages
	marketing.Register(app.Group("/ui"), site)

	api := app.Group("", auth.SessionMiddleware(cfg, mgr), workspace.Middleware(registry))

	api.Post("/auth/login", auth.LoginHandler(cfg, gate))
	api.Post("/auth/logout", auth.LogoutHandler(gate))
	api.Get("/auth/me", auth.MeHandler())

	ui := api.Group("/ui")
	ui.Get("/nav", auth.NavHandler())
	ui.Get("/events", auth.EventsHandler(ctx.Done()))

	finance.Register(ui.Group("/finance", auth.RequireSection(auth.SectionFinance)), financeSvc)
	inventory.Register(ui.Group("/inventory", auth.RequireSection(auth.SectionInventory)), inventorySvc)
	report.Register(ui.Group("/reports", auth.RequireSection(auth.SectionReports)), report.Sources{
		Income:   financeSvc.Income,
		Expenses: financeSvc.Expenses,
		Sales:    financeSvc.Sales,
	})
	users.Register(ui.Group("/users", auth.RequireSection(auth.SectionUsers)), usersSvc)
	ui.Get("/activity", auth.RequireSection(auth.SectionActivity), audit.ListActivityHandler(logs))

	go func() {
		t := time.NewTicker(10 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := registry.Sweep(workspaceIdle); n > 0 {
					log.Printf("swept %d idle workspaces", n)
				}
			}
		}
	}()

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("[WARN] shutdown: %v", err)
		}
	}()

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
