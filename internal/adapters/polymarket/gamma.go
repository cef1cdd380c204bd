package polymarket

// gamma.go — Gamma API adapter: listados de mercados de la familia.
//
// Gamma no permite filtrar por patrón de ventana, así que los listados se
// sobre-piden y se filtran client-side contra las preguntas canónicas.

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

const (
	gammaMarketsPath = "/markets"

	// bitcoinUpDownTagID es el tag de Gamma para la familia "Bitcoin Up or Down".
	bitcoinUpDownTagID = "102175"

	// closedOverfetch compensa los mercados del tag que el filtro de ventana
	// descarta (ventanas horarias, diarias, preguntas malformadas).
	closedOverfetchMult = 5
	closedOverfetchMin  = 200
)

// FetchClosedMarkets devuelve hasta limit mercados cerrados de la familia,
// ordenados por cierre descendente. pattern "15min" exige ventana canónica;
// "any" acepta cualquier pregunta de la familia.
func (c *Client) FetchClosedMarkets(ctx context.Context, limit, minMinutesSinceClose int, pattern string) ([]domain.Market, error) {
	fetchLimit := limit * closedOverfetchMult
	if fetchLimit < closedOverfetchMin {
		fetchLimit = closedOverfetchMin
	}

	params := url.Values{}
	params.Set("tag_id", bitcoinUpDownTagID)
	params.Set("closed", "true")
	params.Set("order", "endDate")
	params.Set("ascending", "false")
	params.Set("limit", strconv.Itoa(fetchLimit))

	var resp gammaMarketsResponse
	reqURL := c.gammaBase + gammaMarketsPath + "?" + params.Encode()
	if err := c.get(ctx, c.gammaLimiter, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("gamma.FetchClosedMarkets: %w", err)
	}

	cutoff := time.Now().Add(-time.Duration(minMinutesSinceClose) * time.Minute)

	markets := make([]domain.Market, 0, limit)
	for _, gm := range resp {
		m, ok := mapGammaMarket(gm)
		if !ok {
			continue
		}
		if !matchesPattern(m.Question, pattern) {
			continue
		}
		// Mercados recién cerrados aún pueden tener la serie incompleta.
		if m.CloseTime.IsZero() || m.CloseTime.After(cutoff) {
			continue
		}
		markets = append(markets, m)
	}

	sort.Slice(markets, func(i, j int) bool {
		return markets[i].CloseTime.After(markets[j].CloseTime)
	})

	if len(markets) > limit {
		markets = markets[:limit]
	}
	return markets, nil
}

// FetchOpenMarkets devuelve una página de mercados abiertos y activos que
// contienen el query en la pregunta. El caller pagina con offset hasta
// recibir una página vacía.
func (c *Client) FetchOpenMarkets(ctx context.Context, query string, limit, offset int) ([]domain.Market, error) {
	params := url.Values{}
	params.Set("tag_id", bitcoinUpDownTagID)
	params.Set("closed", "false")
	params.Set("active", "true")
	params.Set("order", "endDate")
	params.Set("ascending", "true")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var resp gammaMarketsResponse
	reqURL := c.gammaBase + gammaMarketsPath + "?" + params.Encode()
	if err := c.get(ctx, c.gammaLimiter, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("gamma.FetchOpenMarkets: %w", err)
	}

	q := strings.ToLower(query)
	markets := make([]domain.Market, 0, len(resp))
	for _, gm := range resp {
		m, ok := mapGammaMarket(gm)
		if !ok {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(m.Question), q) {
			continue
		}
		markets = append(markets, m)
	}
	return markets, nil
}

// matchesPattern aplica el filtro de patrón de ventana a una pregunta.
func matchesPattern(question, pattern string) bool {
	switch pattern {
	case "any":
		return domain.MatchesFamily(question)
	default: // "15min"
		_, ok := domain.ClassifyWindow(question)
		return ok
	}
}
