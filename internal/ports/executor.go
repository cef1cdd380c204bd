package ports

import (
	"context"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// OrderExecutor envía órdenes reales de compra al CLOB.
type OrderExecutor interface {
	// PlaceOrder envía una orden BUY al precio y tamaño dados.
	// Un error deja el mercado elegible para reintento en el siguiente poll.
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.PlacedOrder, error)
}
