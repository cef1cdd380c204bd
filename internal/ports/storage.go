package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// SessionSummary resume los trade intents registrados desde un instante dado.
type SessionSummary struct {
	Intents   int
	Live      int
	TotalCost float64
}

// IntentStorage persiste los trade intents del trader (reales y simulados).
type IntentStorage interface {
	// SaveIntent registra un trade intent.
	SaveIntent(ctx context.Context, intent domain.TradeIntent) error

	// Summary devuelve el resumen de intents creados desde `since`.
	Summary(ctx context.Context, since time.Time) (SessionSummary, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
