package backtest

import (
	"testing"

	"github.com/alejandrodnm/updownbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarket() domain.Market {
	return domain.Market{
		ID:       "mkt-1",
		Question: "Bitcoin Up or Down Jan 1, 1:00 PM - 1:15 PM",
		Tokens: [2]domain.Token{
			{TokenID: "tok-up", Outcome: "Up"},
			{TokenID: "tok-down", Outcome: "Down"},
		},
	}
}

func TestExtract_UpWinsWithSynthesizedDownPrices(t *testing.T) {
	up := []domain.PricePoint{
		{Timestamp: 1000, Price: 0.40},
		{Timestamp: 1300, Price: 0.55},
		{Timestamp: 1600, Price: 0.70},
	}

	records, err := Extract(testMarket(), up, nil)
	require.NoError(t, err)

	// 3 timestamps × 2 outcomes
	require.Len(t, records, 6)

	// El registro Up en el último timestamp: ganó, profit = 1 - 0.70
	last := records[4]
	assert.Equal(t, domain.OutcomeUp, last.Outcome)
	assert.True(t, last.Won)
	assert.InDelta(t, 0.30, last.Profit, 1e-9)
	assert.Equal(t, 0.0, last.MinutesToClose)

	// El registro Down sintetizado (1 - 0.70 = 0.30): perdió, profit = -0.30
	lastDown := records[5]
	assert.Equal(t, domain.OutcomeDown, lastDown.Outcome)
	assert.InDelta(t, 0.30, lastDown.EntryPrice, 1e-9)
	assert.False(t, lastDown.Won)
	assert.InDelta(t, -0.30, lastDown.Profit, 1e-9)

	// minutes_to_close ancla en el último timestamp observado: (1600-1000)/60
	assert.InDelta(t, 10.0, records[0].MinutesToClose, 1e-9)
	assert.InDelta(t, 5.0, records[2].MinutesToClose, 1e-9)

	for _, r := range records {
		assert.Equal(t, domain.OutcomeUp, r.Winner)
		assert.Equal(t, "mkt-1", r.MarketID)
	}
}

func TestExtract_PairedDownSeriesUsedWhenPresent(t *testing.T) {
	up := []domain.PricePoint{
		{Timestamp: 1000, Price: 0.40},
		{Timestamp: 1300, Price: 0.30},
	}
	// Books independientes: los precios no suman 1
	down := []domain.PricePoint{
		{Timestamp: 1000, Price: 0.63},
	}

	records, err := Extract(testMarket(), up, down)
	require.NoError(t, err)
	require.Len(t, records, 4)

	// Índice 0 alineado: usa el precio real del book Down
	assert.InDelta(t, 0.63, records[1].EntryPrice, 1e-9)
	// Índice 1 fuera de la serie Down: sintetizado 1 - 0.30
	assert.InDelta(t, 0.70, records[3].EntryPrice, 1e-9)

	// Ganador Down (precio final Up 0.30 < 0.5)
	assert.Equal(t, domain.OutcomeDown, records[0].Winner)
	assert.True(t, records[3].Won)
	assert.InDelta(t, 0.30, records[3].Profit, 1e-9)
}

func TestExtract_EmptyUpHistory(t *testing.T) {
	_, err := Extract(testMarket(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrNoPriceData)
}

func TestExtract_UndeterminedWinnerDiscardsMarket(t *testing.T) {
	// Precio final exactamente 0.5: mercado entero descartado, cero registros
	up := []domain.PricePoint{
		{Timestamp: 1000, Price: 0.60},
		{Timestamp: 1300, Price: 0.50},
	}

	records, err := Extract(testMarket(), up, nil)
	assert.ErrorIs(t, err, domain.ErrUndeterminedWinner)
	assert.Empty(t, records)
}
