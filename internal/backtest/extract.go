package backtest

// extract.go — reconstrucción de oportunidades de apuesta desde series de precio.
//
// Cada timestamp observado de la serie Up produce dos BetRecords, uno por
// outcome. La serie Up manda: el ganador se decide por su precio final, y el
// ancla de cierre es su último timestamp observado, no el cierre nominal del
// mercado (los datos observados pueden adelantar o retrasar al cierre nominal
// y el slicing temporal tiene que ser internamente consistente).

import (
	"math"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// Extract convierte un mercado y sus dos series de precio en BetRecords.
// Devuelve domain.ErrNoPriceData si la serie Up está vacía y
// domain.ErrUndeterminedWinner si el precio final queda exactamente en 0.5.
// Huecos en la serie Down se sintetizan como 1 - precio Up: los muestreos
// asíncronos son habituales y degradan con gracia en vez de perder registros.
func Extract(m domain.Market, upHist, downHist []domain.PricePoint) ([]domain.BetRecord, error) {
	if len(upHist) == 0 {
		return nil, domain.ErrNoPriceData
	}

	finalPrice := upHist[len(upHist)-1].Price
	winner, ok := determineWinner(finalPrice)
	if !ok {
		return nil, domain.ErrUndeterminedWinner
	}

	lastTS := upHist[len(upHist)-1].Timestamp
	records := make([]domain.BetRecord, 0, len(upHist)*2)

	for i, up := range upHist {
		downPrice := 1.0 - up.Price
		if i < len(downHist) {
			downPrice = downHist[i].Price
		}

		minutesToClose := float64(lastTS-up.Timestamp) / 60

		records = append(records,
			makeRecord(m.ID, domain.OutcomeUp, up.Price, winner, minutesToClose),
			makeRecord(m.ID, domain.OutcomeDown, downPrice, winner, minutesToClose),
		)
	}

	return records, nil
}

// determineWinner decide el ganador por el precio final de la serie Up.
// Exactamente 0.5 es indecidible.
func determineWinner(finalUpPrice float64) (string, bool) {
	switch {
	case finalUpPrice > 0.5:
		return domain.OutcomeUp, true
	case finalUpPrice < 0.5:
		return domain.OutcomeDown, true
	default:
		return "", false
	}
}

// makeRecord construye un BetRecord para un outcome. El profit usa el precio
// de entrada del propio outcome: los dos lados son books independientes, así
// que las dos apuestas simultáneas de un timestamp no suman un total fijo.
func makeRecord(marketID, outcome string, entryPrice float64, winner string, minutesToClose float64) domain.BetRecord {
	won := outcome == winner
	profit := -entryPrice
	if won {
		profit = 1.0 - entryPrice
	}

	return domain.BetRecord{
		MarketID:       marketID,
		Outcome:        outcome,
		EntryPrice:     entryPrice,
		Won:            won,
		Profit:         profit,
		MinutesToClose: minutesToClose,
		Deviation:      math.Abs(entryPrice - 0.5),
		Winner:         winner,
	}
}
