// seed carga un catálogo inicial (productos y variantes con su existencia) en PostgreSQL
// y emite tokens de desarrollo para cada rol de la cuenta.
//
// Uso: go run ./cmd/seed [ruta/catalogo.json] [account_id]
// Por defecto lee catalog.example.json junto a este archivo y usa la cuenta "demo".
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	catalogPath := filepath.Join(findModuleRoot(), "cmd", "seed", "catalog.example.json")
	if len(os.Args) > 1 {
		catalogPath = os.Args[1]
	}
	accountID := "demo"
	if len(os.Args) > 2 {
		accountID = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	products, err := readCatalog(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.RunMigrations(ctx, pool, postgres.Migrations(), log); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	uc := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
	created, skipped := 0, 0
	for _, p := range products {
		out, err := uc.Create(ctx, accountID, p)
		switch {
		case errors.Is(err, domain.ErrConflict):
			skipped++
			log.Warn().Str("product", p.Name).Msg("SKU ya cargado, se omite")
		case err != nil:
			fmt.Fprintf(os.Stderr, "Crear %s: %v\n", p.Name, err)
			os.Exit(1)
		default:
			created++
			log.Info().Str("product_id", out.ID).Str("product", out.Name).Int("variants", len(out.Variants)).Msg("producto creado")
		}
	}
	fmt.Printf("Cuenta %s: %d productos creados, %d omitidos\n\n", accountID, created, skipped)

	for _, role := range []string{jwt.RoleAdmin, jwt.RoleWarehouse, jwt.RoleSeller} {
		token, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{
			UserID:    "seed-" + role,
			AccountID: accountID,
			Role:      role,
		}, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%-10s Bearer %s\n", role, token)
	}
}

func readCatalog(path string) ([]dto.CreateProductRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []dto.CreateProductRequest
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return products, nil
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
