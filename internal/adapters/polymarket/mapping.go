package polymarket

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// mapGammaMarket convierte un gammaMarket DTO a domain.Market.
// Devuelve false si el mercado no tiene los dos lados Up/Down bien formados.
// El orden de los tokens preserva el orden de listado de la API.
func mapGammaMarket(gm gammaMarket) (domain.Market, bool) {
	var outcomes, tokenIDs []string
	if err := json.Unmarshal([]byte(gm.Outcomes), &outcomes); err != nil {
		return domain.Market{}, false
	}
	if err := json.Unmarshal([]byte(gm.ClobTokenIDs), &tokenIDs); err != nil {
		return domain.Market{}, false
	}
	if len(outcomes) != 2 || len(tokenIDs) != 2 {
		return domain.Market{}, false
	}

	m := domain.Market{
		ID:       gm.ID,
		Question: gm.Question,
		Slug:     gm.Slug,
		Active:   gm.Active,
		Closed:   gm.Closed,
	}

	for i := 0; i < 2; i++ {
		m.Tokens[i] = domain.Token{TokenID: tokenIDs[i], Outcome: outcomes[i]}
	}
	if !m.HasBothSides() {
		return domain.Market{}, false
	}

	if v, err := gm.Volume.Float64(); err == nil {
		m.Volume = v
	}
	if v, err := gm.Liquidity.Float64(); err == nil {
		m.Liquidity = v
	}

	m.CloseTime = parseEndDate(gm.EndDateISO, gm.EndDate)

	return m, true
}

// parseEndDate intenta los formatos de fecha que Gamma devuelve.
// Prueba endDateIso primero y endDate como fallback.
func parseEndDate(candidates ...string) time.Time {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02",
	}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// mapHistory convierte la respuesta de /prices-history a domain.PricePoint,
// ordenados de más antiguo a más reciente.
func mapHistory(resp historyResponse) []domain.PricePoint {
	points := make([]domain.PricePoint, 0, len(resp.History))
	for _, h := range resp.History {
		points = append(points, domain.PricePoint{Timestamp: h.T, Price: h.P})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
	return points
}

// mapBook convierte la respuesta de /book a domain.OrderBook.
func mapBook(tokenID string, resp bookResponse) domain.OrderBook {
	return domain.OrderBook{
		TokenID: tokenID,
		Bids:    mapBookEntries(resp.Bids, false),
		Asks:    mapBookEntries(resp.Asks, true),
	}
}

// mapBookEntries convierte entries raw a domain.BookEntry y los ordena.
// ascending=true → menor a mayor (asks), ascending=false → mayor a menor (bids).
func mapBookEntries(raw []bookEntryRaw, ascending bool) []domain.BookEntry {
	entries := make([]domain.BookEntry, 0, len(raw))
	for _, r := range raw {
		price, _ := strconv.ParseFloat(r.Price, 64)
		size, _ := strconv.ParseFloat(r.Size, 64)
		if price <= 0 || size <= 0 {
			continue
		}
		entries = append(entries, domain.BookEntry{Price: price, Size: size})
	}

	sort.Slice(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Price < entries[j].Price
		}
		return entries[i].Price > entries[j].Price
	})

	return entries
}
