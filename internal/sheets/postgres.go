// Package sheets — postgres.go хранит листы в PostgreSQL.
// Используется пул соединений pgxpool для эффективной работы
// с несколькими горутинами одновременно.
//
// Схема нарочно повторяет табличную модель: строки листа лежат
// в sheet_rows как массив текстовых ячеек, порядок строк —
// порядок вставки (ORDER BY id). Заголовки листов — в sheet_tables.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"clanbot/internal/config"
)

// PostgresStore — адаптер листов поверх PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPool создаёт новый пул соединений к PostgreSQL.
// Настройки пула — как в остальных наших ботах: лимиты из конфига,
// час жизни соединения, health check раз в минуту.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}

	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула: %w", err)
	}

	// Проверяем, что база доступна
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("база данных недоступна: %w", err)
	}

	log.Info("Подключение к PostgreSQL установлено")
	return pool, nil
}

// NewPostgresStore создаёт адаптер и применяет миграции схемы.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	if err := migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// EnsureTable создаёт лист с заголовком, если его ещё нет.
func (s *PostgresStore) EnsureTable(ctx context.Context, table string, header Row) error {
	query := `
		INSERT INTO sheet_tables (name, header)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := s.db.Exec(ctx, query, table, []string(header)); err != nil {
		return fmt.Errorf("ошибка создания листа %q: %w", table, err)
	}
	return nil
}

// ListRows возвращает все строки листа по порядку вставки, без заголовка.
func (s *PostgresStore) ListRows(ctx context.Context, table string) ([]Row, error) {
	if err := s.mustExist(ctx, table); err != nil {
		return nil, err
	}

	query := `SELECT cells FROM sheet_rows WHERE sheet = $1 ORDER BY id`
	rows, err := s.db.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения листа %q: %w", table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, Row(cells))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// AppendRow дописывает строку в конец листа.
func (s *PostgresStore) AppendRow(ctx context.Context, table string, row Row) error {
	if err := s.mustExist(ctx, table); err != nil {
		return err
	}
	query := `INSERT INTO sheet_rows (sheet, cells) VALUES ($1, $2)`
	if _, err := s.db.Exec(ctx, query, table, []string(row)); err != nil {
		return fmt.Errorf("ошибка добавления строки в %q: %w", table, err)
	}
	return nil
}

// UpdateCell записывает значение в ячейку (rowIndex, colIndex).
// Короткая строка дополняется пустыми ячейками до нужной длины.
func (s *PostgresStore) UpdateCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error {
	if colIndex < 0 {
		return fmt.Errorf("лист %q: некорректная колонка %d", table, colIndex)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	id, cells, err := rowByIndex(ctx, tx, table, rowIndex)
	if err != nil {
		return err
	}

	for len(cells) <= colIndex {
		cells = append(cells, "")
	}
	cells[colIndex] = value

	if _, err := tx.Exec(ctx, `UPDATE sheet_rows SET cells = $2 WHERE id = $1`, id, cells); err != nil {
		return fmt.Errorf("ошибка обновления ячейки: %w", err)
	}
	return tx.Commit(ctx)
}

// DeleteRow удаляет строку по индексу.
func (s *PostgresStore) DeleteRow(ctx context.Context, table string, rowIndex int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	id, _, err := rowByIndex(ctx, tx, table, rowIndex)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sheet_rows WHERE id = $1`, id); err != nil {
		return fmt.Errorf("ошибка удаления строки: %w", err)
	}
	return tx.Commit(ctx)
}

// rowByIndex возвращает внутренний id и ячейки строки с данным
// порядковым индексом (0 — первая строка после заголовка).
func rowByIndex(ctx context.Context, tx pgx.Tx, table string, rowIndex int) (int64, []string, error) {
	if rowIndex < 0 {
		return 0, nil, fmt.Errorf("лист %q: некорректный индекс строки %d", table, rowIndex)
	}

	query := `SELECT id, cells FROM sheet_rows WHERE sheet = $1 ORDER BY id OFFSET $2 LIMIT 1`
	var id int64
	var cells []string
	err := tx.QueryRow(ctx, query, table, rowIndex).Scan(&id, &cells)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, fmt.Errorf("лист %q: нет строки %d", table, rowIndex)
		}
		return 0, nil, fmt.Errorf("ошибка поиска строки: %w", err)
	}
	return id, cells, nil
}

func (s *PostgresStore) mustExist(ctx context.Context, table string) error {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM sheet_tables WHERE name = $1)`, table,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки листа %q: %w", table, err)
	}
	if !exists {
		return fmt.Errorf("лист %q не существует", table)
	}
	return nil
}

// --- Миграции ---

// SQL-миграции встроены в код для упрощения деплоя.
var migrationSheets = `
CREATE TABLE IF NOT EXISTS sheet_tables (
    name VARCHAR(255) PRIMARY KEY,
    header TEXT[] NOT NULL,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS sheet_rows (
    id BIGSERIAL PRIMARY KEY,
    sheet VARCHAR(255) NOT NULL REFERENCES sheet_tables(name),
    cells TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sheet_rows_sheet ON sheet_rows(sheet, id);
`

// migrate применяет миграции схемы по порядку.
// Каждая миграция выполняется в транзакции и фиксируется
// в schema_migrations, повторный запуск ничего не делает.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationSheets},
	}

	for _, m := range migrations {
		if err := execMigration(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}
	return nil
}

// execMigration выполняет один SQL-запрос миграции в транзакции.
// Если запрос упадёт — транзакция откатится автоматически.
func execMigration(ctx context.Context, pool *pgxpool.Pool, version int, sql string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Проверяем, не была ли эта миграция уже применена
	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return fmt.Errorf("ошибка записи версии миграции: %w", err)
	}
	return tx.Commit(ctx)
}
