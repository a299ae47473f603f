// Package testutil provides testing helpers for the session and access
// control subsystem.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// NewMiniRedis starts an in-process Redis for self-contained store tests and
// returns a connected client. Both are cleaned up with the test.
func NewMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

// TestDBConfig holds configuration for the credential-store test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB); CI should set TEST_DB_PORT=5432.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "orderhandler"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "orderhandler"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "orderhandler"),
	}
}

// SkipIfNoTestDB skips the test unless a test database is reachable.
func SkipIfNoTestDB(t *testing.T) {
	t.Helper()

	cfg := DefaultTestDBConfig()
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(cfg.Host, cfg.Port), time.Second)
	if err != nil {
		t.Skipf("test database not reachable at %s:%s: %v", cfg.Host, cfg.Port, err)
	}
	_ = conn.Close()
}

// SetupTestDB opens the credential-store test database and provisions the
// credential table expected by the application.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	cfg := DefaultTestDBConfig()
	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		cfg.User, cfg.Password, net.JoinHostPort(cfg.Host, cfg.Port), cfg.DBName)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatal("Failed to open database:", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		t.Fatal("Failed to connect to test database:", pingErr)
	}

	// The credential table is externally owned in production; tests provision
	// a matching shape locally.
	const schema = `
		CREATE TABLE IF NOT EXISTS tbl_user (
			username    TEXT PRIMARY KEY,
			password    BYTEA NOT NULL,
			salt        BYTEA NOT NULL,
			algorithm   TEXT NOT NULL,
			iterations  INTEGER NOT NULL
		)`
	if _, execErr := db.ExecContext(ctx, schema); execErr != nil {
		t.Fatal("Failed to provision credential table:", execErr)
	}
	if _, execErr := db.ExecContext(ctx, "DELETE FROM tbl_user"); execErr != nil {
		t.Fatal("Failed to clean credential table:", execErr)
	}

	return db
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
