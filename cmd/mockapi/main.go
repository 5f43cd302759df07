package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medtrack/internal/application/auth"
	"github.com/jhoicas/medtrack/internal/application/usecase"
	"github.com/jhoicas/medtrack/internal/domain/repository"
	"github.com/jhoicas/medtrack/internal/infrastructure/ledger"
	"github.com/jhoicas/medtrack/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/medtrack/internal/infrastructure/pdf"
	"github.com/jhoicas/medtrack/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/medtrack/internal/interfaces/http"
	"github.com/jhoicas/medtrack/pkg/config"
	"github.com/jhoicas/medtrack/pkg/jwt"
	"github.com/jhoicas/medtrack/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando backend de desarrollo")

	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	var (
		manufacturerRepo repository.ManufacturerRepository
		medicineRepo     repository.MedicineRepository
		stripRepo        repository.StripRepository
		txRunner         usecase.CatalogTxRunner
	)
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Named("postgres"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear esquema")
		}
		manufacturerRepo = postgres.NewManufacturerRepository(pool)
		medicineRepo = postgres.NewMedicineRepository(pool)
		stripRepo = postgres.NewStripRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	default:
		// Los datos se pierden al reiniciar; los tokens emitidos dejan de ser válidos.
		manufacturerRepo = memory.NewManufacturerRepository()
		medicineRepo = memory.NewMedicineRepository()
		stripRepo = memory.NewStripRepository()
	}

	medicineUC := usecase.NewMedicineUseCase(medicineRepo, manufacturerRepo, stripRepo)
	if txRunner != nil {
		medicineUC = medicineUC.WithTxRunner(txRunner)
	}
	ledgerWriter := ledger.NewSimulated(cfg.Ledger.Latency, log)
	stripUC := usecase.NewStripUseCase(stripRepo, medicineUC, ledgerWriter, infrapdf.NewLabelGenerator())
	results := usecase.NewResultStore()
	importUC := usecase.NewStripImportUseCase(stripUC, results, log)
	authUC := auth.NewAuthUseCase(manufacturerRepo, signer)

	app := httpRouter.NewApp(cfg.App.Name)
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "MedTrack API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		MedicineUC:    medicineUC,
		StripUC:       stripUC,
		ImportUC:      importUC,
		Results:       results,
		Manufacturers: manufacturerRepo,
		Tokens:        signer,
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

	log.Info().Msg("backend detenido")
}
