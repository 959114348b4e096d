package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"minisocial/internal/platform/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const duplicateDatabase = "42P04"

// Connect opens the shared connection pool and verifies it.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	slog.InfoContext(ctx, "connected to PostgreSQL database", slog.String("database", cfg.DBName))
	return db, nil
}

// EnsureDatabase creates the application database through the maintenance
// database when it does not exist yet.
func EnsureDatabase(ctx context.Context, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, cfg.MaintenanceDSN())
	if err != nil {
		return fmt.Errorf("connect to maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database existence: %w", err)
	}
	if exists {
		slog.InfoContext(ctx, "database already exists", slog.String("database", cfg.DBName))
		return nil
	}

	// CREATE DATABASE takes no bind parameters; the identifier is sanitized instead.
	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == duplicateDatabase {
			return nil
		}
		return fmt.Errorf("create database: %w", err)
	}

	slog.InfoContext(ctx, "database created", slog.String("database", cfg.DBName))
	return nil
}

// Bootstrap creates the users and posts tables if they are absent.
// It is safe to run on every start.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	slog.InfoContext(ctx, "users and posts tables are ready")
	return nil
}
