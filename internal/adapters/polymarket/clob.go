package polymarket

// clob.go — CLOB API adapter: series históricas, orderbooks y órdenes.

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

const (
	historyPath = "/prices-history"
	bookPath    = "/book"
	orderPath   = "/order"
)

// FetchPriceHistory devuelve la serie de precios de un token cubriendo
// lookbackMinutes antes del cierre del mercado, con resolución
// fidelityMinutes. La serie llega ordenada de más antigua a más reciente.
// Una serie vacía no es un error.
func (c *Client) FetchPriceHistory(ctx context.Context, market domain.Market, tokenID string, fidelityMinutes, lookbackMinutes int) ([]domain.PricePoint, error) {
	end := market.CloseTime
	if end.IsZero() {
		end = time.Now()
	}
	start := end.Add(-time.Duration(lookbackMinutes) * time.Minute)

	params := url.Values{}
	params.Set("market", tokenID)
	params.Set("startTs", strconv.FormatInt(start.Unix(), 10))
	params.Set("endTs", strconv.FormatInt(end.Unix(), 10))
	params.Set("fidelity", strconv.Itoa(fidelityMinutes))

	var resp historyResponse
	reqURL := c.clobBase + historyPath + "?" + params.Encode()
	if err := c.get(ctx, c.clobLimiter, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("clob.FetchPriceHistory: token %s: %w", tokenID, err)
	}

	return mapHistory(resp), nil
}

// FetchBook devuelve el orderbook actual del token. Si el book no tiene asks
// devuelve domain.ErrNoLiquidity: sin lado de venta no hay entrada posible.
func (c *Client) FetchBook(ctx context.Context, tokenID string) (domain.OrderBook, error) {
	params := url.Values{}
	params.Set("token_id", tokenID)

	var resp bookResponse
	reqURL := c.clobBase + bookPath + "?" + params.Encode()
	if err := c.get(ctx, c.clobLimiter, reqURL, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("clob.FetchBook: token %s: %w", tokenID, err)
	}

	book := mapBook(tokenID, resp)
	if len(book.Asks) == 0 {
		return domain.OrderBook{}, fmt.Errorf("clob.FetchBook: token %s: %w", tokenID, domain.ErrNoLiquidity)
	}
	return book, nil
}

// PlaceOrder envía una orden BUY al CLOB. Requiere API key configurado.
func (c *Client) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.PlacedOrder, error) {
	if c.apiKey == "" {
		return domain.PlacedOrder{}, fmt.Errorf("clob.PlaceOrder: no API key configured")
	}

	body := orderRequest{
		TokenID: req.TokenID,
		Price:   req.Price,
		Size:    req.Size,
		Side:    "BUY",
	}

	var resp orderResponse
	if err := c.post(ctx, c.clobLimiter, c.clobBase+orderPath, body, &resp); err != nil {
		return domain.PlacedOrder{}, fmt.Errorf("clob.PlaceOrder: token %s: %w", req.TokenID, err)
	}
	if !resp.Success {
		return domain.PlacedOrder{}, fmt.Errorf("clob.PlaceOrder: rejected: %s", resp.Error)
	}

	return domain.PlacedOrder{OrderID: resp.OrderID, Status: resp.Status}, nil
}
