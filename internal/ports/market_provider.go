package ports

import (
	"context"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// MarketProvider obtiene listados de mercados de la familia desde Gamma.
type MarketProvider interface {
	// FetchClosedMarkets devuelve hasta limit mercados cerrados de la familia
	// que llevan al menos minMinutesSinceClose minutos cerrados, filtrados por
	// el patrón de ventana ("15min" | "any") y ordenados por cierre descendente.
	FetchClosedMarkets(ctx context.Context, limit, minMinutesSinceClose int, pattern string) ([]domain.Market, error)

	// FetchOpenMarkets devuelve una página de mercados abiertos que matchean
	// el query. El caller pagina incrementando offset hasta recibir una
	// página vacía.
	FetchOpenMarkets(ctx context.Context, query string, limit, offset int) ([]domain.Market, error)
}
