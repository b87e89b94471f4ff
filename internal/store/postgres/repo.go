package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"go-session-feed/internal/config"
	"go-session-feed/internal/interfaces"
)

// Ensure PGStore implements interfaces.SessionStore
var _ interfaces.SessionStore = (*PGStore)(nil)

// PGStore is the Postgres-backed session store (pgxpool + golang-migrate)
type PGStore struct {
	logger *zap.Logger
	pool   *pgxpool.Pool
	schema string
}

// NewPGStore runs migrations, opens the connection pool and validates the
// join specifications the feed queries rely on
func NewPGStore(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PGStore, error) {
	if !cfg.SkipMigrate {
		if err := runMigrations(cfg.DSN, logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	s := &PGStore{pool: pool, schema: cfg.Schema, logger: logger}

	if err := s.validateJoinSpecs(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("join spec validation: %w", err)
	}

	logger.Info("Postgres session store initialized", zap.String("schema", cfg.Schema))
	return s, nil
}

// Ping tests database connectivity
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool
func (s *PGStore) Close() {
	s.pool.Close()
}

// qb returns a statement builder with Postgres placeholders
func (s *PGStore) qb() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// table qualifies a table name with the configured schema
func (s *PGStore) table(name string) string {
	return fmt.Sprintf("%s.%s", s.schema, name)
}

// logSQL logs a built query at debug level
func (s *PGStore) logSQL(op, sqlStr string, args []interface{}) {
	s.logger.Debug("SQL",
		zap.String("op", op),
		zap.String("query", sqlStr),
		zap.Int("args", len(args)))
}

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

func runMigrations(dsn string, logger *zap.Logger) error {
	// Separate *sql.DB via pgx stdlib; golang-migrate cannot drive pgxpool.
	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open pgx: %w", err)
	}
	defer func() { _ = sqldb.Close() }()

	driver, err := migratepg.WithInstance(sqldb, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("postgres driver: %w", err)
	}

	src, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("No new migrations to apply")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("Migrations applied")
	return nil
}
