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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
	"github.com/jhoicas/gestor-inventario/internal/infrastructure/backup"
	infrapdf "github.com/jhoicas/gestor-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/gestor-inventario/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/gestor-inventario/internal/interfaces/http"
	"github.com/jhoicas/gestor-inventario/pkg/config"
	"github.com/jhoicas/gestor-inventario/pkg/logger"
	"github.com/jhoicas/gestor-inventario/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("backup", cfg.Backup.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	recordStore, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("almacén remoto")
	}
	defer closeStore()

	sink, err := openBackupSink(ctx, cfg.Backup)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Backup.Driver).Msg("destino de respaldos")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(reg, cfg.Metrics.Prefix)

	sessions := inventory.NewRegistry(recordStore,
		inventory.WithLogger(log.Component("inventory")),
		inventory.WithObserver(recorder),
	)
	defer sessions.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 << 20,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestor de Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:  sessions,
		Backup:    sink,
		Reports:   infrapdf.NewMarotoReportGenerator(),
		Logger:    log.Component("http"),
		JWTSecret: cfg.JWT.Secret,
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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openBackupSink devuelve nil con BACKUP_DRIVER=none.
func openBackupSink(ctx context.Context, cfg config.BackupConfig) (inventory.BackupSink, error) {
	switch cfg.Driver {
	case config.BackupFS:
		sink, err := backup.NewFSSink(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case config.BackupS3:
		sink, err := backup.NewS3Sink(ctx, backup.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Prefix:    cfg.S3Prefix,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return sink, nil
	default:
		return nil, nil
	}
}
