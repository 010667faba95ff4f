package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jpcastellanos/obra-api/internal/application/materials"
	"github.com/jpcastellanos/obra-api/internal/infrastructure/postgres"
	httpRouter "github.com/jpcastellanos/obra-api/internal/interfaces/http"
	"github.com/jpcastellanos/obra-api/pkg/config"
	"github.com/jpcastellanos/obra-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	movementRepo := postgres.NewMovementRepository(pool)
	snapshotRepo := postgres.NewSnapshotRepository(pool)
	boqRepo := postgres.NewBoqRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	aggregator := materials.NewDemandAggregator(movementRepo, boqRepo, cfg.Stock.Baseline, log)
	reconcileUC := materials.NewReconcileUseCase(aggregator, txRunner, snapshotRepo, projectRepo, log)
	registerMovementUC := materials.NewRegisterMovementUseCase(movementRepo, projectRepo, reconcileUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Obra API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Reconcile:        reconcileUC,
		RegisterMovement: registerMovementUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	// Corte automático: a la hora configurada garantiza el corte diario de
	// todos los proyectos activos.
	rolloverCtx, stopRollover := context.WithCancel(ctx)
	defer stopRollover()
	if cfg.Stock.RolloverEnabled {
		rollover := materials.NewNightlyRollover(reconcileUC, projectRepo, cfg.Stock.RolloverHourUTC, log)
		go rollover.Run(rolloverCtx)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopRollover()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
