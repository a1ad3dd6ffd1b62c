// seed carga operarios y esquemas de producción desde un catálogo YAML en PostgreSQL.
//
// Uso: go run ./cmd/seed [ruta/catalog.yaml]
// Sin argumento usa CATALOG_FILE o catalog.yaml en el directorio actual.
// Aplica las migraciones pendientes y hace upsert de todo en una sola transacción.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/workbench-api/internal/infrastructure/catalog"
	"github.com/jhoicas/workbench-api/internal/infrastructure/postgres"
	"github.com/jhoicas/workbench-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}

	path := cfg.App.CatalogFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if path == "" {
		path = "catalog.yaml"
	}

	cat, err := catalog.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	err = postgres.NewTxRunner(pool).Run(ctx, func(repos postgres.Repos) error {
		for _, e := range cat.Employees {
			if err := repos.Employees.Upsert(ctx, e); err != nil {
				return fmt.Errorf("operario %s: %w", e.RFIDCardID, err)
			}
		}
		for _, s := range cat.Schemas {
			if err := repos.Schemas.Upsert(ctx, s); err != nil {
				return fmt.Errorf("esquema %s: %w", s.SchemaID, err)
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar catálogo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Catálogo %s: %d operarios, %d esquemas\n", path, len(cat.Employees), len(cat.Schemas))
}
