package storage

// sqlite.go — persistencia de trade intents del trader.
//
// Una fila por intent (real o simulado). El volumen es mínimo — un intent
// por ventana de 15 minutos como mucho — así que no hay cache ni prune:
// el histórico completo es la auditoría de la sesión.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
	"github.com/alejandrodnm/updownbot/internal/ports"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trade_intents (
    id          TEXT PRIMARY KEY,
    market_id   TEXT    NOT NULL,
    question    TEXT,
    token_id    TEXT    NOT NULL,
    outcome     TEXT    NOT NULL,
    price       REAL    NOT NULL,
    size        REAL    NOT NULL,
    cost        REAL    NOT NULL,
    mode        TEXT    NOT NULL,
    order_id    TEXT    NOT NULL DEFAULT '',
    created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_intents_market  ON trade_intents(market_id);
CREATE INDEX IF NOT EXISTS idx_intents_created ON trade_intents(created_at DESC);
`

// SQLiteStorage implementa ports.IntentStorage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// SaveIntent registra un trade intent.
func (s *SQLiteStorage) SaveIntent(ctx context.Context, intent domain.TradeIntent) error {
	const q = `
		INSERT INTO trade_intents
			(id, market_id, question, token_id, outcome, price, size, cost, mode, order_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		intent.ID,
		intent.MarketID,
		intent.Question,
		intent.TokenID,
		intent.Outcome,
		intent.Price,
		intent.Size,
		intent.Cost,
		string(intent.Mode),
		intent.OrderID,
		intent.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveIntent: %w", err)
	}
	return nil
}

// Summary devuelve el resumen de intents creados desde `since`.
func (s *SQLiteStorage) Summary(ctx context.Context, since time.Time) (ports.SessionSummary, error) {
	const q = `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN mode = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(cost), 0)
		FROM trade_intents
		WHERE created_at >= ?`

	var summary ports.SessionSummary
	row := s.db.QueryRowContext(ctx, q, string(domain.ModeLive), since.UTC())
	if err := row.Scan(&summary.Intents, &summary.Live, &summary.TotalCost); err != nil {
		return ports.SessionSummary{}, fmt.Errorf("storage.Summary: %w", err)
	}
	return summary, nil
}

// Intents devuelve los intents creados desde `since`, más reciente primero.
func (s *SQLiteStorage) Intents(ctx context.Context, since time.Time) ([]domain.TradeIntent, error) {
	const q = `
		SELECT id, market_id, question, token_id, outcome, price, size, cost, mode, order_id, created_at
		FROM trade_intents
		WHERE created_at >= ?
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, q, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.Intents: %w", err)
	}
	defer rows.Close()

	var intents []domain.TradeIntent
	for rows.Next() {
		var it domain.TradeIntent
		var mode string
		if err := rows.Scan(&it.ID, &it.MarketID, &it.Question, &it.TokenID, &it.Outcome,
			&it.Price, &it.Size, &it.Cost, &mode, &it.OrderID, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage.Intents: scan: %w", err)
		}
		it.Mode = domain.IntentMode(mode)
		intents = append(intents, it)
	}
	return intents, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
