package backtest

// runner.go — orquestación del backtest: listar mercados cerrados, recolectar
// sus series de precio, extraer apuestas y reducirlas a los reports de
// estrategia. Los fallos por mercado (sin datos, sin ganador, error de fetch)
// se loguean y se saltan; el run solo falla si el listado inicial falla.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/updownbot/internal/domain"
	"github.com/alejandrodnm/updownbot/internal/ports"
)

// Config contiene los parámetros del backtest.
type Config struct {
	Limit                int
	MinMinutesSinceClose int
	Pattern              string // "15min" | "any"
	FidelityMinutes      int
	LookbackMinutes      int
	Thresholds           []float64
	DeviationThresholds  []float64
	BucketWidth          float64
	BucketMinPrice       float64
	BucketMaxPrice       float64
	Workers              int // 0 o 1 = secuencial
}

// DefaultConfig devuelve la configuración validada contra el histórico de la familia.
func DefaultConfig() Config {
	return Config{
		Limit:                50,
		MinMinutesSinceClose: 5,
		Pattern:              "15min",
		FidelityMinutes:      5,
		LookbackMinutes:      60,
		Thresholds:           []float64{0.50, 0.505, 0.51, 0.52, 0.55, 0.60, 0.65, 0.70, 0.75, 0.80},
		DeviationThresholds:  []float64{0.0, 0.005, 0.01, 0.02, 0.05, 0.10, 0.15, 0.20},
		BucketWidth:          0.005,
		BucketMinPrice:       0.50,
		BucketMaxPrice:       0.95,
	}
}

// Report es la salida completa del backtest: los cuatro slicings más la
// búsqueda del bucket óptimo. Siempre se produce, aunque todos los mercados
// hayan sido descartados (TotalBets = 0 explícito, no omitido).
type Report struct {
	MarketsAnalyzed int
	MarketsSkipped  int
	TotalBets       int
	Thresholds      []ThresholdRow
	PriceBuckets    []PriceBucketRow
	Timing          []TimeRow
	Momentum        []MomentumRow
	Optimal         *OptimalEntry // nil = muestra insuficiente en todos los buckets
}

// Runner ejecuta el backtest contra los providers inyectados.
type Runner struct {
	cfg     Config
	markets ports.MarketProvider
	history ports.HistoryProvider
}

// NewRunner crea un Runner con las dependencias inyectadas.
func NewRunner(cfg Config, markets ports.MarketProvider, history ports.HistoryProvider) *Runner {
	return &Runner{cfg: cfg, markets: markets, history: history}
}

// Run ejecuta el backtest completo y devuelve el Report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	markets, err := r.markets.FetchClosedMarkets(ctx, r.cfg.Limit, r.cfg.MinMinutesSinceClose, r.cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("backtest.Run: fetch closed markets: %w", err)
	}

	slog.Info("closed markets fetched", "count", len(markets), "pattern", r.cfg.Pattern)

	bets, skipped := r.collectBets(ctx, markets)

	report := &Report{
		MarketsAnalyzed: len(markets) - skipped,
		MarketsSkipped:  skipped,
		TotalBets:       len(bets),
		Thresholds:      ThresholdSlice(bets, r.cfg.Thresholds),
		PriceBuckets:    PriceBucketSlice(bets, r.cfg.BucketWidth, r.cfg.BucketMinPrice, r.cfg.BucketMaxPrice),
		Timing:          TimeSlice(bets),
		Momentum:        MomentumSlice(bets, r.cfg.DeviationThresholds),
		Optimal:         FindOptimalEntry(bets),
	}

	slog.Info("backtest complete",
		"markets", report.MarketsAnalyzed,
		"skipped", report.MarketsSkipped,
		"bets", report.TotalBets,
	)
	return report, nil
}

// collectBets recolecta los BetRecords de todos los mercados. Con Workers > 1
// paraleliza el fetch por mercado (los mercados son independientes entre sí);
// el resultado se ensambla en orden de listado para que la búsqueda del
// óptimo, cuyo tie-break depende del orden de escaneo, sea determinista.
func (r *Runner) collectBets(ctx context.Context, markets []domain.Market) (bets []domain.BetRecord, skipped int) {
	workers := r.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > runtime.NumCPU()*2 {
		workers = runtime.NumCPU() * 2
	}

	perMarket := make([][]domain.BetRecord, len(markets))

	idxCh := make(chan int, len(markets))
	for i := range markets {
		idxCh <- i
	}
	close(idxCh)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				perMarket[i] = r.collectMarket(ctx, markets[i], i+1, len(markets))
			}
		}()
	}
	wg.Wait()

	for _, records := range perMarket {
		if records == nil {
			skipped++
			continue
		}
		bets = append(bets, records...)
	}
	return bets, skipped
}

// collectMarket obtiene las dos series de un mercado y extrae sus apuestas.
// Devuelve nil si el mercado se descarta por cualquier motivo.
func (r *Runner) collectMarket(ctx context.Context, m domain.Market, n, total int) []domain.BetRecord {
	slog.Info("collecting market",
		"n", fmt.Sprintf("%d/%d", n, total),
		"question", truncate(m.Question, 60),
	)

	if !m.HasBothSides() {
		slog.Warn("skipping market: missing token IDs", "market", m.ID)
		return nil
	}

	upHist, err := r.history.FetchPriceHistory(ctx, m, m.UpToken().TokenID, r.cfg.FidelityMinutes, r.cfg.LookbackMinutes)
	if err != nil {
		slog.Warn("skipping market: up history fetch failed", "market", m.ID, "err", err)
		return nil
	}

	// La serie Down puede fallar o venir corta: Extract sintetiza los huecos.
	downHist, err := r.history.FetchPriceHistory(ctx, m, m.DownToken().TokenID, r.cfg.FidelityMinutes, r.cfg.LookbackMinutes)
	if err != nil {
		slog.Debug("down history fetch failed, synthesizing from up series", "market", m.ID, "err", err)
		downHist = nil
	}

	records, err := Extract(m, upHist, downHist)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoPriceData):
			slog.Warn("skipping market: no price history", "market", m.ID)
		case errors.Is(err, domain.ErrUndeterminedWinner):
			slog.Warn("skipping market: winner undetermined", "market", m.ID)
		default:
			slog.Warn("skipping market", "market", m.ID, "err", err)
		}
		return nil
	}

	return records
}

// truncate corta un string a maxLen runas para logging. Corta por runas y no
// por bytes para no partir caracteres multi-byte por la mitad.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
