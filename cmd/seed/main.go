// seed carga el catálogo de productos desde un CSV en PostgreSQL e imprime un token de administrador
// para uso local.
//
// Uso: go run ./cmd/seed [-latin1] [-migrate] [-admin-id ID] ruta/catalogo.csv
// Columnas: name (obligatoria), id, price, stock, low_stock_threshold.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-api/internal/infrastructure/catalog"
	"github.com/jhoicas/bakery-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bakery-api/pkg/config"
	"github.com/jhoicas/bakery-api/pkg/jwt"
	"github.com/jhoicas/bakery-api/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1 (exportes de caja antiguos)")
	migrate := flag.Bool("migrate", false, "aplicar schema.sql antes de cargar")
	adminID := flag.String("admin-id", "", "user id del token de administrador (por defecto uno nuevo)")
	flag.Parse()

	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed")

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	items, err := catalog.Read(f, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if *migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
	}

	n, err := catalog.Load(ctx, postgres.NewProductRepository(pool), items)
	if err != nil {
		log.Fatal().Err(err).Int("inserted", n).Msg("cargar catálogo")
	}
	log.Info().Int("inserted", n).Int("skipped", len(items)-n).Msg("catálogo cargado")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: no se genera token de administrador")
		return
	}
	uid := *adminID
	if uid == "" {
		uid = uuid.New().String()
	}
	token, err := jwt.Generate(cfg.JWT.Secret, uid, jwt.RoleAdmin, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Println(token)
}
