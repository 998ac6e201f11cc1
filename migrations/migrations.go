package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonScheduling/pkg/psqlbuilder"
)

//go:embed *.sql
var files embed.FS

const (
	tableVersions = "schema_migrations"
	upSuffix      = ".up.sql"
	downSuffix    = ".down.sql"
)

const createVersionsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version    VARCHAR(255) PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var (
	// ErrReadMigrations возвращается, когда не удалось прочитать встроенные файлы миграций
	ErrReadMigrations = errors.New("migrations: failed to read migration files")

	// ErrApply возвращается, когда миграция не применилась
	ErrApply = errors.New("migrations: failed to apply migration")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// TxManager выполняет функцию в транзакции
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Migrator применяет встроенные SQL миграции и ведет таблицу schema_migrations
type Migrator struct {
	db        dbmetrics.DBExecutor
	txManager TxManager
	logger    Logger
	source    fs.FS
}

// New создает мигратор для встроенных миграций
func New(db dbmetrics.DBExecutor, txManager TxManager, logger Logger) *Migrator {
	return &Migrator{db: db, txManager: txManager, logger: logger, source: files}
}

// Up применяет все еще не примененные миграции по возрастанию версии
// Возвращает количество примененных миграций
func (m *Migrator) Up(ctx context.Context) (int, error) {
	versions, err := m.listVersions(upSuffix)
	if err != nil {
		return 0, err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, version := range versions {
		if applied[version] {
			continue
		}

		script, err := fs.ReadFile(m.source, version+upSuffix)
		if err != nil {
			return count, fmt.Errorf("%w: %s: %v", ErrReadMigrations, version, err)
		}

		err = m.txManager.Do(ctx, func(ctx context.Context) error {
			executor := dbmetrics.GetExecutor(ctx, m.db)
			if _, err := executor.ExecContext(ctx, string(script)); err != nil {
				return err
			}

			query, args, err := psqlbuilder.Insert(tableVersions).
				Columns("version").
				Values(version).
				ToSql()
			if err != nil {
				return err
			}
			_, err = executor.ExecContext(ctx, query, args...)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("%w: %s: %v", ErrApply, version, err)
		}

		m.logger.Info("migrations: applied %s", version)
		count++
	}

	return count, nil
}

// Down откатывает последнюю примененную миграцию
// Возвращает версию отката или пустую строку, если откатывать нечего
func (m *Migrator) Down(ctx context.Context) (string, error) {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return "", err
	}

	versions, err := m.listVersions(downSuffix)
	if err != nil {
		return "", err
	}

	var last string
	for _, version := range versions {
		if applied[version] {
			last = version
		}
	}
	if last == "" {
		return "", nil
	}

	script, err := fs.ReadFile(m.source, last+downSuffix)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrReadMigrations, last, err)
	}

	err = m.txManager.Do(ctx, func(ctx context.Context) error {
		executor := dbmetrics.GetExecutor(ctx, m.db)
		if _, err := executor.ExecContext(ctx, string(script)); err != nil {
			return err
		}

		query, args, err := psqlbuilder.Delete(tableVersions).
			Where(squirrel.Eq{"version": last}).
			ToSql()
		if err != nil {
			return err
		}
		_, err = executor.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: rollback %s: %v", ErrApply, last, err)
	}

	m.logger.Info("migrations: rolled back %s", last)
	return last, nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[string]bool, error) {
	if _, err := m.db.ExecContext(ctx, createVersionsTable); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrApply, tableVersions, err)
	}

	query, args, err := psqlbuilder.Select("version").From(tableVersions).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", ErrApply, err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", ErrApply, tableVersions, err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("%w: scan version: %v", ErrApply, err)
		}
		applied[version] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrApply, err)
	}

	return applied, nil
}

// listVersions возвращает отсортированные версии (имя файла без суффикса)
func (m *Migrator) listVersions(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(m.source, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadMigrations, err)
	}

	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		versions = append(versions, strings.TrimSuffix(e.Name(), suffix))
	}
	sort.Strings(versions)

	return versions, nil
}
