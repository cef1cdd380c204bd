package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_EmptySelection(t *testing.T) {
	s := Summarize(nil)

	// Nunca divide por cero: todo a 0, distinguible de "sin datos" solo por BetCount
	assert.Equal(t, 0, s.BetCount)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 0.0, s.AvgEV)
	assert.Equal(t, 0.0, s.Edge)
}

func TestSummarize_MixedBets(t *testing.T) {
	bets := []BetRecord{
		{EntryPrice: 0.60, Won: true, Profit: 0.40},
		{EntryPrice: 0.70, Won: true, Profit: 0.30},
		{EntryPrice: 0.50, Won: false, Profit: -0.50},
		{EntryPrice: 0.80, Won: false, Profit: -0.80},
	}

	s := Summarize(bets)

	assert.Equal(t, 4, s.BetCount)
	assert.Equal(t, 2, s.WinCount)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
	assert.InDelta(t, -0.60, s.TotalProfit, 1e-9)
	assert.InDelta(t, -0.15, s.AvgEV, 1e-9)
	assert.InDelta(t, 0.65, s.AvgEntryPrice, 1e-9)
	// edge = 0.5 - 0.65
	assert.InDelta(t, -0.15, s.Edge, 1e-9)
}

func TestBetRecord_Favored(t *testing.T) {
	b := BetRecord{EntryPrice: 0.55}

	assert.True(t, b.Favored(0.0))
	assert.True(t, b.Favored(0.04))
	assert.False(t, b.Favored(0.05), "el umbral es estricto: 0.55 no supera 0.5+0.05")
	assert.False(t, BetRecord{EntryPrice: 0.50}.Favored(0.0))
}
