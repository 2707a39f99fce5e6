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

	"github.com/jhoicas/bakery-api/internal/application/events"
	"github.com/jhoicas/bakery-api/internal/application/inventory"
	"github.com/jhoicas/bakery-api/internal/infrastructure/catalog"
	"github.com/jhoicas/bakery-api/internal/infrastructure/kafka"
	"github.com/jhoicas/bakery-api/internal/infrastructure/memory"
	"github.com/jhoicas/bakery-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/bakery-api/internal/interfaces/http"
	"github.com/jhoicas/bakery-api/pkg/config"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, closeStore := openStorage(ctx, cfg, log)
	defer closeStore()

	if cfg.Storage.CatalogFile != "" {
		loadCatalog(ctx, cfg.Storage, store, log)
	}

	publisher := newPublisher(cfg.Kafka, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador de eventos")
		}
	}()

	orderUC := inventory.NewOrderUseCase(store, store.Orders())
	purchaseUC := inventory.NewPurchaseUseCase(store, store.Purchases())
	stockUC := inventory.NewStockUseCase(store.Products())
	notifier := events.NewNotifier(publisher, store.Products(), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bakery API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:    orderUC,
		PurchaseUC: purchaseUC,
		StockUC:    stockUC,
		Notifier:   notifier,
		JWTSecret:  cfg.JWT.Secret,
		AppName:    cfg.App.Name,
		Log:        log,
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

// openStorage elige la implementación según STORAGE_DRIVER.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.Storage, func()) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return memory.NewStore(), func() {}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}
	return postgres.NewStore(pool), pool.Close
}

func loadCatalog(ctx context.Context, cfg config.StorageConfig, store inventory.Storage, log *logger.Logger) {
	f, err := os.Open(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("abrir catálogo")
	}
	defer f.Close()

	items, err := catalog.Read(f, cfg.CatalogLatin1)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("leer catálogo")
	}
	n, err := catalog.Load(ctx, store.Products(), items)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}
	log.Info().Int("inserted", n).Int("rows", len(items)).Msg("catálogo cargado")
}

// newPublisher usa Kafka si hay brokers; si no, o si no conecta, escribe los eventos en el log.
func newPublisher(cfg config.KafkaConfig, log *logger.Logger) events.Publisher {
	if !cfg.Enabled() {
		return events.NewLogPublisher(log)
	}
	pub, err := kafka.NewPublisher(cfg, log)
	if err != nil {
		log.Error().Err(err).Strs("brokers", cfg.Brokers).Msg("kafka no disponible, eventos solo en log")
		return events.NewLogPublisher(log)
	}
	log.Info().Strs("brokers", cfg.Brokers).Msg("publicando eventos en kafka")
	return pub
}
