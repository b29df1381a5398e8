// Package sqlite хранит документы хаба в SQLite (modernc.org/sqlite, без cgo).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/prefkeeper/internal/server/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// pragmas применяются к единственному соединению пула.
// Хаб сериализует слияния по имени документа, поэтому одного писателя хватает.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

// Storage документное хранилище хаба поверх SQLite
type Storage struct {
	db *sql.DB
}

var _ storage.DocumentStorage = (*Storage)(nil)

// New открывает базу по пути dbPath и накатывает миграции.
// ":memory:" дает базу в памяти для тестов.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Для :memory: каждое новое соединение видело бы свою пустую базу
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Storage{db: db}
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) init(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	return s.migrate(ctx)
}

// migrate накатывает встроенные миграции через goose Provider,
// без глобального состояния goose.SetDialect/SetBaseFS
func (s *Storage) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Ping проверяет соединение, используется проверкой здоровья хаба
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close закрывает базу
func (s *Storage) Close() error {
	return s.db.Close()
}
