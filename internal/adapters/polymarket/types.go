package polymarket

import "encoding/json"

// DTOs raw de la API de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaMarketsResponse es la respuesta de GET /markets de Gamma.
type gammaMarketsResponse []gammaMarket

// gammaMarket es un mercado raw de Gamma. Los campos numéricos llegan como
// strings JSON (usamos json.Number) y Outcomes/ClobTokenIDs llegan como
// arrays JSON codificados dentro de un string.
type gammaMarket struct {
	ID           string      `json:"id"`
	Question     string      `json:"question"`
	Slug         string      `json:"slug"`
	EndDateISO   string      `json:"endDateIso"`
	EndDate      string      `json:"endDate"`
	Volume       json.Number `json:"volume"`
	Liquidity    json.Number `json:"liquidity"`
	Outcomes     string      `json:"outcomes"`     // p.ej. `["Up","Down"]`
	ClobTokenIDs string      `json:"clobTokenIds"` // p.ej. `["123...","456..."]`
	Active       bool        `json:"active"`
	Closed       bool        `json:"closed"`
}

// --- CLOB API ---

// historyResponse es la respuesta de GET /prices-history.
type historyResponse struct {
	History []historyPoint `json:"history"`
}

// historyPoint es un punto de la serie: timestamp Unix y precio.
type historyPoint struct {
	T int64   `json:"t"`
	P float64 `json:"p"`
}

// bookResponse es la respuesta de GET /book.
type bookResponse struct {
	AssetID string         `json:"asset_id"`
	Bids    []bookEntryRaw `json:"bids"`
	Asks    []bookEntryRaw `json:"asks"`
}

// bookEntryRaw es un nivel de precio raw de la API (strings para mayor precisión).
type bookEntryRaw struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// orderRequest es el body del POST /order.
type orderRequest struct {
	TokenID string  `json:"token_id"`
	Price   float64 `json:"price"`
	Size    float64 `json:"size"`
	Side    string  `json:"side"`
}

// orderResponse es la confirmación del CLOB.
type orderResponse struct {
	OrderID string `json:"orderID"`
	Status  string `json:"status"`
	Success bool   `json:"success"`
	Error   string `json:"errorMsg"`
}
