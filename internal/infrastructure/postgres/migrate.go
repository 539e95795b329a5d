package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrateAttempts = 3

// Migrations archivos .up.sql embebidos en el binario.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// RunMigrations aplica en orden los archivos .up.sql pendientes, cada uno en su propia tx,
// y los registra en schema_migrations. Solo se reintentan errores transitorios de conexión.
func RunMigrations(ctx context.Context, db DB, migrations fs.FS, log *logger.Logger) error {
	log = log.Component("migrations")
	var err error
	for attempt := 1; attempt <= migrateAttempts; attempt++ {
		if err = migrateOnce(ctx, db, migrations, log); err == nil || !isTransient(err) {
			return err
		}
		if attempt == migrateAttempts {
			break
		}
		wait := time.Duration(attempt) * 500 * time.Millisecond
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("migración fallida por conexión, reintentando")
		select {
		case <-ctx.Done():
			return fmt.Errorf("run migrations: %w", ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("run migrations after %d attempts: %w", migrateAttempts, err)
}

func migrateOnce(ctx context.Context, db DB, migrations fs.FS, log *logger.Logger) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		var applied bool
		if err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, name).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			log.Debug().Str("version", name).Msg("migración ya aplicada")
			continue
		}

		content, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := applyMigration(ctx, db, name, string(content)); err != nil {
			return err
		}
		log.Info().Str("version", name).Msg("migración aplicada")
	}
	return nil
}

func applyMigration(ctx context.Context, db Beginner, name, content string) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, content); err != nil {
		return fmt.Errorf("execute migration %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}
