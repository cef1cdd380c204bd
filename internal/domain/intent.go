package domain

import "time"

// IntentMode distingue trades reales de simulados.
type IntentMode string

const (
	ModeLive   IntentMode = "live"
	ModeDryRun IntentMode = "dry-run"
)

// TradeIntent es la decisión de entrada registrada por el trader: una compra
// ejecutada (live) o que se habría ejecutado (dry-run) sobre un outcome.
type TradeIntent struct {
	ID        string // uuid
	MarketID  string
	Question  string
	TokenID   string
	Outcome   string
	Price     float64 // best ask en el momento de la señal
	Size      float64 // shares, amount/price redondeado a 2 decimales
	Cost      float64 // Price × Size en USDC
	Mode      IntentMode
	OrderID   string // ID devuelto por el CLOB, vacío en dry-run
	CreatedAt time.Time
}

// PlaceOrderRequest es la petición de compra enviada al executor.
type PlaceOrderRequest struct {
	MarketID string
	TokenID  string
	Outcome  string
	Price    float64
	Size     float64
}

// PlacedOrder es la confirmación de una orden aceptada por el CLOB.
type PlacedOrder struct {
	OrderID string
	Status  string
}
