package ports

import (
	"context"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// BookProvider obtiene el orderbook actual de un token desde el CLOB.
type BookProvider interface {
	// FetchBook devuelve el book del token. Si el book no tiene asks
	// devuelve domain.ErrNoLiquidity.
	FetchBook(ctx context.Context, tokenID string) (domain.OrderBook, error)
}
