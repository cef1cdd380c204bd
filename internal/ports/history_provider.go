package ports

import (
	"context"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// HistoryProvider obtiene series históricas de precio del CLOB.
type HistoryProvider interface {
	// FetchPriceHistory devuelve la serie de precios de un token, ordenada
	// de más antigua a más reciente, cubriendo lookbackMinutes antes del
	// cierre del mercado con resolución fidelityMinutes. Una serie vacía no
	// es un error: el caller la trata como mercado sin datos.
	FetchPriceHistory(ctx context.Context, market domain.Market, tokenID string, fidelityMinutes, lookbackMinutes int) ([]domain.PricePoint, error)
}
