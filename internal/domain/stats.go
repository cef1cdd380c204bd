package domain

// BucketStats es el resumen estadístico de una selección de BetRecords.
// BetCount = 0 es un estado válido y representable: todos los ratios
// derivados son 0 por convención, nunca una división por cero.
type BucketStats struct {
	BetCount      int
	WinCount      int
	WinRate       float64 // WinCount / BetCount
	TotalProfit   float64
	AvgEntryPrice float64
	AvgEV         float64 // TotalProfit / BetCount
	// Edge = WinRate - AvgEntryPrice. Solo tiene sentido cuando la estrategia
	// apuesta al lado cuyo precio representa su propia probabilidad implícita.
	Edge float64
}

// Summarize calcula BucketStats sobre una selección de apuestas.
func Summarize(bets []BetRecord) BucketStats {
	if len(bets) == 0 {
		return BucketStats{}
	}

	var s BucketStats
	s.BetCount = len(bets)
	for _, b := range bets {
		if b.Won {
			s.WinCount++
		}
		s.TotalProfit += b.Profit
		s.AvgEntryPrice += b.EntryPrice
	}

	n := float64(s.BetCount)
	s.WinRate = float64(s.WinCount) / n
	s.AvgEV = s.TotalProfit / n
	s.AvgEntryPrice /= n
	s.Edge = s.WinRate - s.AvgEntryPrice
	return s
}
