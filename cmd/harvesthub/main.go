package main

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/bornfidis/harvesthub/internal/handler"
	mid "github.com/bornfidis/harvesthub/internal/middleware"
	"github.com/bornfidis/harvesthub/internal/migrate"
	"github.com/bornfidis/harvesthub/internal/model"
	"github.com/bornfidis/harvesthub/internal/repository"
	"github.com/bornfidis/harvesthub/internal/service"
	"github.com/bornfidis/harvesthub/pkg/config"
	"github.com/bornfidis/harvesthub/pkg/database"
	"github.com/bornfidis/harvesthub/pkg/jwtutil"
	"github.com/bornfidis/harvesthub/pkg/logger"
	"github.com/bornfidis/harvesthub/prometheus"
)

func main() {
	appConfig, err := config.Load("harvesthub")
	if err != nil {
		// Can't use the structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.Init(&logger.Config{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.Get()
	defer log.Sync()

	log.Info("Starting harvesthub", appConfig.LogConfig()...)

	store, err := database.Open(appConfig, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureCreated(); err != nil {
		log.Fatal("Failed to create store schema", zap.Error(err))
	}

	runner := migrate.NewRunner(store, log, appConfig.SilentInit)
	if _, err := runner.RunPending(migrate.AllSteps()); err != nil {
		log.Fatal("Migrations failed", zap.Error(err))
	}

	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      appConfig.JWT.SigningKey,
		ExpirationHours: appConfig.JWT.ExpirationHours,
	})

	// Repositories, one per entity table.
	customers := repository.New[model.Customer](store, log, repository.Config{
		Entity:       "customer",
		NaturalKey:   "name",
		DefaultOrder: "name ASC, id ASC",
	})
	farmers := repository.New[model.Farmer](store, log, repository.Config{
		Entity:       "farmer",
		NaturalKey:   "name",
		DefaultOrder: "name ASC, id ASC",
	})
	orders := repository.New[model.Order](store, log, repository.Config{
		Entity:       "order",
		DefaultOrder: "order_date DESC, id DESC",
	})
	transactions := repository.New[model.Transaction](store, log, repository.Config{
		Entity:       "transaction",
		DefaultOrder: "date DESC, id DESC",
	})
	invoices := repository.New[model.Invoice](store, log, repository.Config{
		Entity:       "invoice",
		DefaultOrder: "invoice_date DESC, id DESC",
	})
	dailyLogs := repository.New[model.DailyLog](store, log, repository.Config{
		Entity:       "daily_log",
		DefaultOrder: "log_date DESC, id DESC",
	})
	goals := repository.New[model.Goal](store, log, repository.Config{
		Entity:       "goal",
		NaturalKey:   "name",
		DefaultOrder: "name ASC, id ASC",
	})
	templates := repository.NewTemplateRepository(store, log)

	finance := service.NewFinanceService(transactions, invoices)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.Middleware())

	e.GET("/metrics", echo.WrapHandler(prometheus.Handler()))

	api := e.Group("/api", mid.JWTAuthMiddleware(jwtUtil))

	handler.NewCustomerHandler(customers).Register(api)
	handler.NewFarmerHandler(farmers, store).Register(api)
	handler.NewOrderHandler(orders, customers).Register(api)
	handler.NewFinanceHandler(store, transactions, invoices, finance).Register(api)
	handler.NewDailyLogHandler(dailyLogs).Register(api)
	handler.NewGoalHandler(goals).Register(api)
	handler.NewTemplateHandler(templates).Register(api)
	handler.NewAdminHandler(store, runner, appConfig.ServiceName).Register(e, api)

	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
