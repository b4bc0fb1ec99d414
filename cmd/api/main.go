package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Clicheria-api/internal/application/analytics"
	"github.com/jhoicas/Clicheria-api/internal/application/auth"
	"github.com/jhoicas/Clicheria-api/internal/application/billing"
	"github.com/jhoicas/Clicheria-api/internal/application/catalog"
	"github.com/jhoicas/Clicheria-api/internal/application/notification"
	"github.com/jhoicas/Clicheria-api/internal/application/order"
	"github.com/jhoicas/Clicheria-api/internal/application/wizard"
	"github.com/jhoicas/Clicheria-api/internal/domain/serviceorder"
	infraexcel "github.com/jhoicas/Clicheria-api/internal/infrastructure/excel"
	"github.com/jhoicas/Clicheria-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Clicheria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Clicheria-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Clicheria-api/internal/infrastructure/redis"
	"github.com/jhoicas/Clicheria-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Clicheria-api/internal/interfaces/http"
	"github.com/jhoicas/Clicheria-api/pkg/config"
	"github.com/jhoicas/Clicheria-api/pkg/logger"
	"github.com/jhoicas/Clicheria-api/pkg/metrics"
)

// draftSweepInterval frecuencia de limpieza del almacén de borradores en memoria.
const draftSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	printerRepo := postgres.NewPrinterRepository(pool)
	transportRepo := postgres.NewTransportRepository(pool)
	orderRepo := postgres.NewServiceOrderRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Borradores: Redis si está configurado; si no, memoria del proceso.
	var drafts wizard.DraftStore
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		drafts = infraredis.NewDraftStore(rdb, cfg.Redis.DraftTTL())
		log.Info().Str("addr", cfg.Redis.Addr).Msg("borradores en Redis")
	} else {
		mem := memory.NewDraftStore(cfg.Redis.DraftTTL())
		go sweepDrafts(ctx, mem, log)
		drafts = mem
		log.Warn().Msg("REDIS_ADDR vacío: borradores en memoria (no compartidos entre instancias)")
	}

	fileStorage, err := storage.NewLocalFileStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Storage.Path).Msg("almacenamiento de archivos")
	}

	validator := serviceorder.NewValidator()
	notificationUC := notification.NewUseCase(notificationRepo, orderRepo, userRepo, log)
	orderUC := order.NewUseCase(
		orderRepo, customerRepo, userRepo,
		fileStorage,
		infrapdf.NewTicketGenerator(cfg.App.Name),
		infraexcel.NewReportWriter(),
		notificationUC,
		validator,
		log,
	)
	wizardUC := wizard.NewUseCase(drafts, orderUC, validator, log)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, customerRepo, log)
	catalogUC := catalog.NewUseCase(printerRepo, transportRepo, userRepo, customerRepo)
	dashboardUC := analytics.NewDashboardUseCase(analyticsRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	var scheduler *notification.AlertScheduler
	if cfg.Alerts.Enabled {
		scheduler, err = notification.NewAlertScheduler(notificationUC, cfg.Alerts.Cron, log)
		if err != nil {
			log.Fatal().Err(err).Str("cron", cfg.Alerts.Cron).Msg("programador de alertas")
		}
		scheduler.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(logger.RequestLogger(log, httpRouter.LocalUserID))
	app.Use(metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Clicheria API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Static("/uploads", cfg.Storage.Path)

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CustomerUC:     customerUC,
		InvoiceUC:      invoiceUC,
		CatalogUC:      catalogUC,
		OrderUC:        orderUC,
		WizardUC:       wizardUC,
		NotificationUC: notificationUC,
		DashboardUC:    dashboardUC,
		JWTSecret:      cfg.JWT.Secret,
		MaxUploadBytes: int64(cfg.Storage.MaxUploadMB) * 1024 * 1024,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()

	log.Info().Msg("aplicación detenida")
}

// sweepDrafts descarta periódicamente borradores y marcas de envío vencidos.
func sweepDrafts(ctx context.Context, store *memory.DraftStore, log *logger.Logger) {
	ticker := time.NewTicker(draftSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("borradores vencidos descartados")
			}
		}
	}
}
