package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alejandrodnm/updownbot/internal/backtest"
	"github.com/alejandrodnm/updownbot/internal/ports"
	"github.com/olekukonko/tablewriter"
)

// Console imprime los reports del backtest y el resumen de sesión del trader.
type Console struct {
	out io.Writer
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintReport imprime el report completo del backtest: las cuatro tablas de
// estrategia y el bucket óptimo.
func (c *Console) PrintReport(r *backtest.Report) {
	fmt.Fprintf(c.out, "\n[%s] backtest — %d markets analyzed, %d skipped, %d bets\n",
		time.Now().Format("15:04:05"), r.MarketsAnalyzed, r.MarketsSkipped, r.TotalBets)

	if r.TotalBets == 0 {
		fmt.Fprintln(c.out, "no bets extracted — nothing to report")
		return
	}

	c.printThresholds(r.Thresholds)
	c.printPriceBuckets(r.PriceBuckets)
	c.printTiming(r.Timing)
	c.printMomentum(r.Momentum)
	c.printOptimal(r.Optimal)
}

// printThresholds imprime la tabla de umbrales de entrada.
func (c *Console) printThresholds(rows []backtest.ThresholdRow) {
	fmt.Fprintln(c.out, "\n--- Entry thresholds ---")
	table := tablewriter.NewWriter(c.out)
	table.Header("Threshold", "Bets", "Wins", "Win rate", "Profit", "Avg entry", "Avg EV", "Edge")

	for _, row := range rows {
		table.Append(
			fmt.Sprintf("%.3f", row.Threshold),
			fmt.Sprintf("%d", row.Stats.BetCount),
			fmt.Sprintf("%d", row.Stats.WinCount),
			fmt.Sprintf("%.1f%%", row.Stats.WinRate*100),
			fmt.Sprintf("%+.2f", row.Stats.TotalProfit),
			fmt.Sprintf("%.3f", row.Stats.AvgEntryPrice),
			fmt.Sprintf("%+.4f", row.Stats.AvgEV),
			fmt.Sprintf("%+.4f", row.Stats.Edge),
		)
	}
	table.Render()
}

// printPriceBuckets imprime la tabla de buckets de precio de entrada.
func (c *Console) printPriceBuckets(rows []backtest.PriceBucketRow) {
	fmt.Fprintln(c.out, "\n--- Entry price buckets ---")
	table := tablewriter.NewWriter(c.out)
	table.Header("Bucket", "Bets", "Win rate", "Profit", "Avg EV")

	for _, row := range rows {
		table.Append(
			fmt.Sprintf("%.1f%%-", row.LowerPct),
			fmt.Sprintf("%d", row.Stats.BetCount),
			fmt.Sprintf("%.1f%%", row.Stats.WinRate*100),
			fmt.Sprintf("%+.2f", row.Stats.TotalProfit),
			fmt.Sprintf("%+.4f", row.Stats.AvgEV),
		)
	}
	table.Render()
}

// printTiming imprime la tabla de minutos-hasta-cierre.
func (c *Console) printTiming(rows []backtest.TimeRow) {
	fmt.Fprintln(c.out, "\n--- Minutes to close ---")
	table := tablewriter.NewWriter(c.out)
	table.Header("Minutes", "Bets", "Win rate", "Profit", "Avg deviation")

	for _, row := range rows {
		table.Append(
			fmt.Sprintf("%.0f", row.MinutesToClose),
			fmt.Sprintf("%d", row.Stats.BetCount),
			fmt.Sprintf("%.1f%%", row.Stats.WinRate*100),
			fmt.Sprintf("%+.2f", row.Stats.TotalProfit),
			fmt.Sprintf("%.4f", row.AvgDeviation),
		)
	}
	table.Render()
}

// printMomentum imprime la tabla de desviaciones de momentum.
func (c *Console) printMomentum(rows []backtest.MomentumRow) {
	fmt.Fprintln(c.out, "\n--- Momentum deviations ---")
	table := tablewriter.NewWriter(c.out)
	table.Header("Deviation >", "Bets", "Win rate", "Profit", "Avg EV")

	for _, row := range rows {
		table.Append(
			fmt.Sprintf("%.1f%%", row.DevThreshold*100),
			fmt.Sprintf("%d", row.Stats.BetCount),
			fmt.Sprintf("%.1f%%", row.Stats.WinRate*100),
			fmt.Sprintf("%+.2f", row.Stats.TotalProfit),
			fmt.Sprintf("%+.4f", row.Stats.AvgEV),
		)
	}
	table.Render()
}

// printOptimal imprime el bucket óptimo de entrada, si lo hay.
func (c *Console) printOptimal(opt *backtest.OptimalEntry) {
	if opt == nil {
		fmt.Fprintln(c.out, "\nno optimal entry: no bucket reaches the minimum sample")
		return
	}
	fmt.Fprintf(c.out, "\noptimal entry: %d-%d min to close, deviation %.1f%% (%d bets, %.1f%% win rate, EV %+.4f)\n",
		opt.MinutesFrom, opt.MinutesTo, opt.DeviationPct,
		opt.BetCount, opt.WinRate*100, opt.AvgEV)
}

// PrintSession imprime el resumen de la sesión de trading.
func (c *Console) PrintSession(summary ports.SessionSummary, started time.Time) {
	fmt.Fprintf(c.out, "\nsession summary — started %s\n", started.Format("15:04:05"))
	table := tablewriter.NewWriter(c.out)
	table.Header("Intents", "Live", "Simulated", "Total cost")
	table.Append(
		fmt.Sprintf("%d", summary.Intents),
		fmt.Sprintf("%d", summary.Live),
		fmt.Sprintf("%d", summary.Intents-summary.Live),
		fmt.Sprintf("$%.2f", summary.TotalCost),
	)
	table.Render()
}
