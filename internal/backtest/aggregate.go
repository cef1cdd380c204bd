package backtest

// aggregate.go — los cuatro slicings de estrategia sobre un set de BetRecords,
// más la búsqueda conjunta tiempo×desviación del mejor bucket de entrada.
// Todos los reducers son puros y re-derivables solo desde los BetRecords.

import (
	"math"
	"sort"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

const (
	optimalTimeBucketMinutes = 3   // ancho del bucket temporal de la búsqueda conjunta
	optimalMinSample         = 10  // mínimo de registros para considerar un bucket
)

// ThresholdRow es el resultado del slice por umbral para un threshold.
type ThresholdRow struct {
	Threshold float64
	Stats     domain.BucketStats
}

// PriceBucketRow es el resultado de un bucket de precio [Lower, Lower+width).
type PriceBucketRow struct {
	LowerPct float64 // límite inferior del bucket en %, redondeado a 1 decimal
	Stats    domain.BucketStats
}

// TimeRow es el resultado de un grupo exacto de minutos-hasta-cierre.
type TimeRow struct {
	MinutesToClose float64
	AvgDeviation   float64
	Stats          domain.BucketStats
}

// MomentumRow es el resultado del slice de momentum para un umbral de desviación.
type MomentumRow struct {
	DevThreshold float64
	Stats        domain.BucketStats
}

// OptimalEntry es el bucket (tiempo, desviación) con mejor EV medio.
type OptimalEntry struct {
	TimeBucket   int     // minutos/3, entero
	MinutesFrom  int     // TimeBucket*3
	MinutesTo    int     // TimeBucket*3 + 2
	DeviationPct float64 // desviación en %, bucket de 0.1%
	BetCount     int
	WinRate      float64
	AvgEV        float64
}

// ThresholdSlice selecciona, para cada umbral, los registros con
// entry_price >= threshold. Umbrales mayores producen subconjuntos: el
// bet_count nunca crece al subir el umbral.
func ThresholdSlice(bets []domain.BetRecord, thresholds []float64) []ThresholdRow {
	rows := make([]ThresholdRow, 0, len(thresholds))
	for _, t := range thresholds {
		var selected []domain.BetRecord
		for _, b := range bets {
			if b.EntryPrice >= t {
				selected = append(selected, b)
			}
		}
		rows = append(rows, ThresholdRow{Threshold: t, Stats: domain.Summarize(selected)})
	}
	return rows
}

// PriceBucketSlice particiona [minPrice, maxPrice) en buckets de ancho fijo.
// Los límites son semiabiertos [lo, lo+width): un registro exactamente en un
// límite cae en el bucket superior. Los buckets sin registros se omiten del
// resultado, no se rellenan con ceros.
func PriceBucketSlice(bets []domain.BetRecord, width, minPrice, maxPrice float64) []PriceBucketRow {
	var rows []PriceBucketRow
	for lo := minPrice; lo < maxPrice; lo += width {
		var selected []domain.BetRecord
		for _, b := range bets {
			if b.EntryPrice >= lo && b.EntryPrice < lo+width {
				selected = append(selected, b)
			}
		}
		if len(selected) == 0 {
			continue
		}
		rows = append(rows, PriceBucketRow{
			LowerPct: math.Round(lo*1000) / 10,
			Stats:    domain.Summarize(selected),
		})
	}
	return rows
}

// TimeSlice agrupa por el valor exacto de minutes_to_close, sin binear.
// El número de grupos lo dicta la granularidad de la serie observada, así
// que series finas producen muchos grupos dispersos.
func TimeSlice(bets []domain.BetRecord) []TimeRow {
	byTime := make(map[float64][]domain.BetRecord)
	for _, b := range bets {
		byTime[b.MinutesToClose] = append(byTime[b.MinutesToClose], b)
	}

	mins := make([]float64, 0, len(byTime))
	for m := range byTime {
		mins = append(mins, m)
	}
	sort.Float64s(mins)

	rows := make([]TimeRow, 0, len(mins))
	for _, m := range mins {
		group := byTime[m]
		var devSum float64
		for _, b := range group {
			devSum += b.Deviation
		}
		rows = append(rows, TimeRow{
			MinutesToClose: m,
			AvgDeviation:   devSum / float64(len(group)),
			Stats:          domain.Summarize(group),
		})
	}
	return rows
}

// MomentumSlice selecciona, para cada umbral de desviación, solo las apuestas
// sobre el lado favorecido (precio propio > 0.5 + d). Mezcla registros Up y
// Down cuando cada uno está favorecido por separado, y un mismo registro
// aparece en todos los umbrales que supera: inclusión anidada, no partición.
func MomentumSlice(bets []domain.BetRecord, devThresholds []float64) []MomentumRow {
	rows := make([]MomentumRow, 0, len(devThresholds))
	for _, d := range devThresholds {
		var favored []domain.BetRecord
		for _, b := range bets {
			if b.Favored(d) {
				favored = append(favored, b)
			}
		}
		rows = append(rows, MomentumRow{DevThreshold: d, Stats: domain.Summarize(favored)})
	}
	return rows
}

// FindOptimalEntry buckea cada apuesta favorecida (precio > 0.5) en la clave
// 2D (minutos/3, desviación redondeada a 0.1%) y devuelve la clave con mejor
// EV medio entre las que alcanzan la muestra mínima. Los empates exactos de
// EV los gana la clave vista primero durante el escaneo: un EV igual
// posterior nunca desplaza al mejor actual. Devuelve nil si ninguna clave
// alcanza la muestra mínima; es un resultado normal, no un error.
func FindOptimalEntry(bets []domain.BetRecord) *OptimalEntry {
	type comboKey struct {
		timeBucket int
		devPct     float64
	}

	combos := make(map[comboKey][]domain.BetRecord)
	var order []comboKey // orden de primera aparición, para el tie-break

	for _, b := range bets {
		if !b.Favored(0) {
			continue
		}
		key := comboKey{
			timeBucket: int(math.Floor(b.MinutesToClose / optimalTimeBucketMinutes)),
			devPct:     math.Round(b.Deviation*1000) / 10,
		}
		if _, seen := combos[key]; !seen {
			order = append(order, key)
		}
		combos[key] = append(combos[key], b)
	}

	var best *OptimalEntry
	bestEV := math.Inf(-1)

	for _, key := range order {
		group := combos[key]
		if len(group) < optimalMinSample {
			continue
		}

		stats := domain.Summarize(group)
		if stats.AvgEV > bestEV {
			bestEV = stats.AvgEV
			best = &OptimalEntry{
				TimeBucket:   key.timeBucket,
				MinutesFrom:  key.timeBucket * optimalTimeBucketMinutes,
				MinutesTo:    key.timeBucket*optimalTimeBucketMinutes + optimalTimeBucketMinutes - 1,
				DeviationPct: key.devPct,
				BetCount:     stats.BetCount,
				WinRate:      stats.WinRate,
				AvgEV:        stats.AvgEV,
			}
		}
	}

	return best
}
