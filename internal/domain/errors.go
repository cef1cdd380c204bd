package domain

import "errors"

// Errores centinela del core. Todos son condiciones esperadas de datos, no
// fallos del programa: el caller descarta el mercado afectado y continúa.
var (
	// ErrNoPriceData indica que un mercado no tiene observaciones de precio.
	// Frecuente en mercados finos o con huecos de API.
	ErrNoPriceData = errors.New("no price history for market")

	// ErrUndeterminedWinner indica que el precio final quedó exactamente en
	// 0.5: el ganador es indecidible y el mercado entero se descarta en vez
	// de asignarlo silenciosamente.
	ErrUndeterminedWinner = errors.New("final price at decision boundary, winner undetermined")

	// ErrNoLiquidity indica que un order book no tiene asks disponibles.
	ErrNoLiquidity = errors.New("no asks in order book")
)
