package trader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
	"github.com/alejandrodnm/updownbot/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockMarkets struct {
	pages [][]domain.Market
	calls int
	err   error
}

func (m *mockMarkets) FetchOpenMarkets(_ context.Context, _ string, _, _ int) ([]domain.Market, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.calls >= len(m.pages) {
		return nil, nil
	}
	page := m.pages[m.calls]
	m.calls++
	return page, nil
}

func (m *mockMarkets) FetchClosedMarkets(_ context.Context, _, _ int, _ string) ([]domain.Market, error) {
	return nil, nil
}

type mockBooks struct {
	asks map[string]float64 // tokenID → best ask; 0 = sin liquidez
	errs map[string]error
}

func (m *mockBooks) FetchBook(_ context.Context, tokenID string) (domain.OrderBook, error) {
	if err := m.errs[tokenID]; err != nil {
		return domain.OrderBook{}, err
	}
	ask, ok := m.asks[tokenID]
	if !ok || ask == 0 {
		return domain.OrderBook{}, domain.ErrNoLiquidity
	}
	return domain.OrderBook{
		TokenID: tokenID,
		Asks:    []domain.BookEntry{{Price: ask, Size: 100}},
	}, nil
}

type mockExecutor struct {
	placed []domain.PlaceOrderRequest
	err    error
}

func (m *mockExecutor) PlaceOrder(_ context.Context, req domain.PlaceOrderRequest) (domain.PlacedOrder, error) {
	if m.err != nil {
		return domain.PlacedOrder{}, m.err
	}
	m.placed = append(m.placed, req)
	return domain.PlacedOrder{OrderID: "ord-1", Status: "live"}, nil
}

type mockStore struct {
	intents []domain.TradeIntent
	err     error
}

func (m *mockStore) SaveIntent(_ context.Context, intent domain.TradeIntent) error {
	if m.err != nil {
		return m.err
	}
	m.intents = append(m.intents, intent)
	return nil
}

func (m *mockStore) Summary(_ context.Context, _ time.Time) (ports.SessionSummary, error) {
	return ports.SessionSummary{}, nil
}

func (m *mockStore) Close() error { return nil }

// --- helpers ---

func testConfig() Config {
	return Config{
		AmountUSDC:        5,
		MinProb:           0.52,
		MaxProb:           0.60,
		RefreshInterval:   time.Minute,
		PollInterval:      3 * time.Second,
		MinMinutesToClose: 2,
		MaxMinutesToClose: 120,
		WindowOpenMinutes: 20,
		SearchQuery:       "bitcoin up or down",
		PageSize:          50,
		MaxPages:          3,
		DryRun:            true,
	}
}

func openMarket(id, upTok, downTok string, closeIn time.Duration) domain.Market {
	return domain.Market{
		ID:        id,
		Question:  "Bitcoin Up or Down Jan 1, 1:00 PM - 1:15 PM",
		CloseTime: time.Now().Add(closeIn),
		Active:    true,
		Tokens: [2]domain.Token{
			{TokenID: upTok, Outcome: "Up"},
			{TokenID: downTok, Outcome: "Down"},
		},
	}
}

// --- tests ---

func TestTrader_DryRunEntryAndNoReentry(t *testing.T) {
	m := openMarket("m1", "u1", "d1", 10*time.Minute)
	books := &mockBooks{asks: map[string]float64{"u1": 0.55, "d1": 0.45}}
	store := &mockStore{}

	tr := New(testConfig(), &mockMarkets{pages: [][]domain.Market{{m}}}, books, nil, store)
	require.NoError(t, tr.refresh(context.Background()))
	require.Len(t, tr.Watched(), 1)

	tr.poll(context.Background())

	require.Len(t, store.intents, 1)
	intent := store.intents[0]
	assert.Equal(t, "m1", intent.MarketID)
	assert.Equal(t, "Up", intent.Outcome)
	assert.Equal(t, domain.ModeDryRun, intent.Mode)
	assert.Empty(t, intent.OrderID)
	assert.InDelta(t, 0.55, intent.Price, 1e-9)
	assert.InDelta(t, 9.09, intent.Size, 1e-9) // round(5/0.55, 2)
	assert.NotEmpty(t, intent.ID)
	assert.True(t, tr.book.HasPosition("m1", "Up"))

	// Segundo poll: el mercado ya tiene posición, no hay re-entrada
	tr.poll(context.Background())
	assert.Len(t, store.intents, 1)
}

func TestTrader_FirstMatchingOutcomeWins(t *testing.T) {
	m := openMarket("m1", "u1", "d1", 10*time.Minute)
	// Ambos lados dentro de la banda: entra el primero en orden de listado
	books := &mockBooks{asks: map[string]float64{"u1": 0.53, "d1": 0.55}}
	store := &mockStore{}

	tr := New(testConfig(), &mockMarkets{pages: [][]domain.Market{{m}}}, books, nil, store)
	require.NoError(t, tr.refresh(context.Background()))
	tr.poll(context.Background())

	require.Len(t, store.intents, 1)
	assert.Equal(t, "Up", store.intents[0].Outcome)
}

func TestTrader_SkipsOutcomesOutsideBand(t *testing.T) {
	m := openMarket("m1", "u1", "d1", 10*time.Minute)
	// Up demasiado caro, Down dentro de la banda
	books := &mockBooks{asks: map[string]float64{"u1": 0.80, "d1": 0.54}}
	store := &mockStore{}

	tr := New(testConfig(), &mockMarkets{pages: [][]domain.Market{{m}}}, books, nil, store)
	require.NoError(t, tr.refresh(context.Background()))
	tr.poll(context.Background())

	require.Len(t, store.intents, 1)
	assert.Equal(t, "Down", store.intents[0].Outcome)
}

func TestTrader_NoSignalNoEntry(t *testing.T) {
	m := openMarket("m1", "u1", "d1", 10*time.Minute)
	books := &mockBooks{asks: map[string]float64{"u1": 0.49, "d1": 0.51}}
	store := &mockStore{}

	tr := New(testConfig(), &mockMarkets{pages: [][]domain.Market{{m}}}, books, nil, store)
	require.NoError(t, tr.refresh(context.Background()))
	tr.poll(context.Background())

	assert.Empty(t, store.intents)
	assert.False(t, tr.book.HasAny("m1"))
}

func TestTrader_BookErrorLeavesMarketEligible(t *testing.T) {
	m := openMarket("m1", "u1", "d1", 10*time.Minute)
	books := &mockBooks{
		asks: map[string]float64{"d1": 0.55},
		errs: map[string]error{"u1": errors.New("timeout")},
	}
	store := &mockStore{}

	tr := New(testConfig(), &mockMarkets{pages: [][]domain.Market{{m}}}, books, nil, store)
	require.NoError(t, tr.refresh(context.Background()))
	tr.poll(context.Background())

	// El error en Up no bloquea Down
	require.Len(t, store.intents, 1)
	assert.Equal(t, "Down", store.intents[0].Outcome)
}

func TestTrader_LiveOrderRejectedStaysEligible(t *testing.T) {
	cfg := testConfig()
	cfg.DryRun = false

	m := openMarket("m1", "u1", "d1", 10*time.Minute)
	books := &mockBooks{asks: map[string]float64{"u1": 0.55}}
	exec := &mockExecutor{err: errors.New("insufficient balance")}
	store := &mockStore{}

	tr := New(cfg, &mockMarkets{pages: [][]domain.Market{{m}}}, books, exec, store)
	require.NoError(t, tr.refresh(context.Background()))
	tr.poll(context.Background())

	assert.Empty(t, store.intents)
	assert.False(t, tr.book.HasAny("m1"))

	// La orden acaba aceptándose en el siguiente poll
	exec.err = nil
	tr.poll(context.Background())
	require.Len(t, store.intents, 1)
	assert.Equal(t, domain.ModeLive, store.intents[0].Mode)
	assert.Equal(t, "ord-1", store.intents[0].OrderID)
	assert.True(t, tr.book.HasPosition("m1", "Up"))
}

func TestTrader_DustSizeSkippedWithoutGuard(t *testing.T) {
	cfg := testConfig()
	cfg.AmountUSDC = 0.04 // round(0.04/0.55, 2) = 0.07 < 0.1

	m := openMarket("m1", "u1", "d1", 10*time.Minute)
	books := &mockBooks{asks: map[string]float64{"u1": 0.55}}
	store := &mockStore{}

	tr := New(cfg, &mockMarkets{pages: [][]domain.Market{{m}}}, books, nil, store)
	require.NoError(t, tr.refresh(context.Background()))
	tr.poll(context.Background())

	assert.Empty(t, store.intents)
	assert.False(t, tr.book.HasAny("m1"))
}

func TestTrader_RefreshFiltersIneligibleMarkets(t *testing.T) {
	closing := openMarket("m-closing", "u1", "d1", time.Minute)       // < min
	notOpen := openMarket("m-early", "u2", "d2", 45*time.Minute)      // ventana aún no abierta
	good := openMarket("m-good", "u3", "d3", 10*time.Minute)
	wrongFamily := openMarket("m-family", "u4", "d4", 10*time.Minute)
	wrongFamily.Question = "Will ETH hit $5000 by Friday?"
	inactive := openMarket("m-inactive", "u5", "d5", 10*time.Minute)
	inactive.Active = false

	mp := &mockMarkets{pages: [][]domain.Market{{closing, notOpen, good, wrongFamily, inactive}}}
	tr := New(testConfig(), mp, &mockBooks{}, nil, &mockStore{})
	require.NoError(t, tr.refresh(context.Background()))

	watched := tr.Watched()
	require.Len(t, watched, 1)
	assert.Equal(t, "m-good", watched[0].ID)
}

func TestTrader_WindowOpenBoundary(t *testing.T) {
	// La ventana abre WindowOpenMinutes (20) antes del cierre: a 21 min el
	// candle aún no empezó, a 19 el mercado ya es operable.
	early := openMarket("m-21", "u1", "d1", 21*time.Minute)
	open := openMarket("m-19", "u2", "d2", 19*time.Minute)

	mp := &mockMarkets{pages: [][]domain.Market{{early, open}}}
	tr := New(testConfig(), mp, &mockBooks{}, nil, &mockStore{})
	require.NoError(t, tr.refresh(context.Background()))

	watched := tr.Watched()
	require.Len(t, watched, 1)
	assert.Equal(t, "m-19", watched[0].ID)
}

func TestTrader_RefreshDeduplicatesAcrossPages(t *testing.T) {
	m := openMarket("m1", "u1", "d1", 10*time.Minute)

	// Gamma repite el mercado en dos páginas consecutivas
	mp := &mockMarkets{pages: [][]domain.Market{{m}, {m}}}
	tr := New(testConfig(), mp, &mockBooks{}, nil, &mockStore{})
	require.NoError(t, tr.refresh(context.Background()))

	watched := tr.Watched()
	require.Len(t, watched, 1)
	assert.Equal(t, "m1", watched[0].ID)
}

func TestTrader_RefreshForgetsRotatedMarkets(t *testing.T) {
	first := openMarket("m1", "u1", "d1", 10*time.Minute)
	second := openMarket("m2", "u2", "d2", 10*time.Minute)

	mp := &mockMarkets{pages: [][]domain.Market{{first}}}
	tr := New(testConfig(), mp, &mockBooks{asks: map[string]float64{"u1": 0.55}}, nil, &mockStore{})
	require.NoError(t, tr.refresh(context.Background()))
	tr.poll(context.Background())
	require.True(t, tr.book.HasAny("m1"))

	// La ventana de m1 terminó: el siguiente refresh lista solo m2
	mp.pages = [][]domain.Market{{second}}
	mp.calls = 0
	require.NoError(t, tr.refresh(context.Background()))

	assert.False(t, tr.book.HasAny("m1"))
	watched := tr.Watched()
	require.Len(t, watched, 1)
	assert.Equal(t, "m2", watched[0].ID)
}

func TestTrader_RefreshErrorPropagates(t *testing.T) {
	tr := New(testConfig(), &mockMarkets{err: errors.New("gamma 502")}, &mockBooks{}, nil, &mockStore{})
	assert.Error(t, tr.refresh(context.Background()))
}
