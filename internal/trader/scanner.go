package trader

// scanner.go — Live signal-detection loop for the 15-minute "Bitcoin Up or
// Down" family.
//
// Two cadences drive the loop:
//   - Refresh (slow): re-list open markets from Gamma and rebuild the watch
//     list. Markets that rotated out are forgotten in the position book.
//   - Poll (fast): fetch the CLOB book of every watched token and enter when
//     the best ask sits inside the configured probability band.
//
// Per-market failures (no book, thin book, rejected order) are logged and
// isolated: one broken market never stalls the cycle.

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
	"github.com/alejandrodnm/updownbot/internal/ports"
	"github.com/google/uuid"
)

const (
	// minEntrySize is the smallest share count worth sending to the CLOB;
	// anything below is dust and the signal is dropped.
	minEntrySize = 0.1

	// bookFetchTimeout bounds each orderbook call so one slow token cannot
	// eat the whole poll interval.
	bookFetchTimeout = 2 * time.Second

	// refreshBackoff is the pause after a failed market refresh before the
	// loop retries.
	refreshBackoff = 5 * time.Second
)

// Config holds the live loop parameters.
type Config struct {
	AmountUSDC        float64       // USDC committed per entry
	MinProb           float64       // entry band lower bound (best ask)
	MaxProb           float64       // entry band upper bound (best ask)
	RefreshInterval   time.Duration // market list refresh cadence
	PollInterval      time.Duration // orderbook poll cadence
	MinMinutesToClose float64       // skip markets about to resolve
	MaxMinutesToClose float64       // skip markets listed too far ahead
	WindowOpenMinutes int           // the window opens N minutes before close
	SearchQuery       string        // Gamma search query for the family
	PageSize          int
	MaxPages          int
	DryRun            bool // simulate entries instead of placing orders
}

// Trader runs the live signal-detection loop.
type Trader struct {
	cfg      Config
	markets  ports.MarketProvider
	books    ports.BookProvider
	executor ports.OrderExecutor
	store    ports.IntentStorage
	book     *PositionBook

	mu      sync.RWMutex
	watched []domain.Market
}

// New creates a Trader with the injected dependencies. executor may be nil
// when cfg.DryRun is set.
func New(cfg Config, markets ports.MarketProvider, books ports.BookProvider, executor ports.OrderExecutor, store ports.IntentStorage) *Trader {
	return &Trader{
		cfg:      cfg,
		markets:  markets,
		books:    books,
		executor: executor,
		store:    store,
		book:     NewPositionBook(),
	}
}

// Run drives the loop until ctx is cancelled. The first refresh happens
// immediately so polling has a watch list from the start.
func (t *Trader) Run(ctx context.Context) error {
	slog.Info("trader started",
		"mode", t.mode(),
		"amount_usdc", t.cfg.AmountUSDC,
		"band", slog.GroupValue(
			slog.Float64("min", t.cfg.MinProb),
			slog.Float64("max", t.cfg.MaxProb),
		),
	)

	if err := t.refresh(ctx); err != nil {
		slog.Error("initial market refresh failed", "error", err)
	}

	refreshTicker := time.NewTicker(t.cfg.RefreshInterval)
	defer refreshTicker.Stop()
	pollTicker := time.NewTicker(t.cfg.PollInterval)
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("trader stopping", "reason", ctx.Err())
			return ctx.Err()

		case <-refreshTicker.C:
			if err := t.refresh(ctx); err != nil {
				slog.Error("market refresh failed", "error", err)
				select {
				case <-time.After(refreshBackoff):
				case <-ctx.Done():
					return ctx.Err()
				}
			}

		case <-pollTicker.C:
			t.poll(ctx)
		}
	}
}

// Watched returns a snapshot of the current watch list.
func (t *Trader) Watched() []domain.Market {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Market, len(t.watched))
	copy(out, t.watched)
	return out
}

// refresh re-lists open family markets and rebuilds the watch list. Markets
// that dropped out of the list are forgotten in the position book so a new
// window on the same market can be entered again.
func (t *Trader) refresh(ctx context.Context) error {
	var all []domain.Market
	for page := 0; page < t.cfg.MaxPages; page++ {
		batch, err := t.markets.FetchOpenMarkets(ctx, t.cfg.SearchQuery, t.cfg.PageSize, page*t.cfg.PageSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
	}

	now := time.Now()
	watched := make([]domain.Market, 0, len(all))
	seen := make(map[string]struct{}, len(all))
	for _, m := range all {
		// Gamma can repeat a market across page boundaries.
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		if !t.eligible(m, now) {
			continue
		}
		watched = append(watched, m)
	}

	t.mu.Lock()
	previous := t.watched
	t.watched = watched
	t.mu.Unlock()

	// Forget positions on markets that rotated out of the list.
	current := make(map[string]struct{}, len(watched))
	for _, m := range watched {
		current[m.ID] = struct{}{}
	}
	for _, m := range previous {
		if _, ok := current[m.ID]; !ok {
			t.book.Forget(m.ID)
		}
	}

	slog.Info("watch list refreshed", "listed", len(all), "watched", len(watched))
	return nil
}

// eligible applies the watch-list filters: family question, canonical
// 15-minute window, both sides listed, and a close time inside the tradeable
// band. Markets listed ahead of their window (close further away than the
// window length plus a small margin) are skipped until the window opens.
func (t *Trader) eligible(m domain.Market, now time.Time) bool {
	if m.Closed || !m.Active {
		return false
	}
	if !domain.MatchesFamily(m.Question) {
		return false
	}
	if _, ok := domain.ClassifyWindow(m.Question); !ok {
		return false
	}
	if !m.HasBothSides() {
		return false
	}

	left := m.MinutesToClose(now)
	if left < t.cfg.MinMinutesToClose {
		return false
	}
	if left > t.cfg.MaxMinutesToClose {
		return false
	}
	// Window not open yet: the market is listed but the 15-minute candle it
	// covers has not started.
	if left > float64(t.cfg.WindowOpenMinutes) {
		return false
	}
	return true
}

// poll walks the watch list once, fetching books and entering on the first
// outcome per market whose best ask is inside the band.
func (t *Trader) poll(ctx context.Context) {
	for _, m := range t.Watched() {
		if ctx.Err() != nil {
			return
		}
		if t.book.HasAny(m.ID) {
			continue
		}
		t.pollMarket(ctx, m)
	}
}

// pollMarket checks both outcomes of a market in listing order and enters on
// the first signal found. Book errors are logged and the market stays
// eligible for the next poll.
func (t *Trader) pollMarket(ctx context.Context, m domain.Market) {
	for _, tok := range m.Tokens {
		bctx, cancel := context.WithTimeout(ctx, bookFetchTimeout)
		book, err := t.books.FetchBook(bctx, tok.TokenID)
		cancel()
		if err != nil {
			if errors.Is(err, domain.ErrNoLiquidity) {
				slog.Debug("no asks on book", "market", m.ID, "outcome", tok.Outcome)
			} else {
				slog.Warn("book fetch failed", "market", m.ID, "outcome", tok.Outcome, "error", err)
			}
			continue
		}

		ask := book.BestAsk()
		if ask == 0 {
			continue
		}
		if ask < t.cfg.MinProb || ask > t.cfg.MaxProb {
			continue
		}

		slog.Info("entry signal",
			"market", m.ID,
			"question", m.Question,
			"outcome", tok.Outcome,
			"best_ask", ask,
		)
		t.executeEntry(ctx, m, tok, ask)
		return // one entry per market per cycle
	}
}

// executeEntry sizes the position and records the trade intent. In dry-run
// mode the entry is simulated but still marks the position so the session
// behaves like a live one. A rejected live order leaves the market eligible
// for the next poll.
func (t *Trader) executeEntry(ctx context.Context, m domain.Market, tok domain.Token, price float64) {
	size := math.Round(t.cfg.AmountUSDC/price*100) / 100
	if size < minEntrySize {
		slog.Warn("entry size below minimum, skipping",
			"market", m.ID,
			"outcome", tok.Outcome,
			"size", size,
		)
		return
	}

	intent := domain.TradeIntent{
		ID:        uuid.NewString(),
		MarketID:  m.ID,
		Question:  m.Question,
		TokenID:   tok.TokenID,
		Outcome:   tok.Outcome,
		Price:     price,
		Size:      size,
		Cost:      price * size,
		Mode:      domain.ModeDryRun,
		CreatedAt: time.Now().UTC(),
	}

	if !t.cfg.DryRun {
		placed, err := t.executor.PlaceOrder(ctx, domain.PlaceOrderRequest{
			MarketID: m.ID,
			TokenID:  tok.TokenID,
			Outcome:  tok.Outcome,
			Price:    price,
			Size:     size,
		})
		if err != nil {
			slog.Error("order rejected", "market", m.ID, "outcome", tok.Outcome, "error", err)
			return
		}
		intent.Mode = domain.ModeLive
		intent.OrderID = placed.OrderID
		slog.Info("order placed", "order_id", placed.OrderID, "status", placed.Status)
	} else {
		slog.Info("dry-run entry",
			"market", m.ID,
			"outcome", tok.Outcome,
			"price", price,
			"size", size,
			"cost", intent.Cost,
		)
	}

	t.book.MarkAcquired(m.ID, tok.Outcome)

	if err := t.store.SaveIntent(ctx, intent); err != nil {
		// The position is held either way; losing the record is log-worthy
		// but must not unwind the guard.
		slog.Error("failed to persist trade intent", "market", m.ID, "error", err)
	}
}

func (t *Trader) mode() string {
	if t.cfg.DryRun {
		return string(domain.ModeDryRun)
	}
	return string(domain.ModeLive)
}
