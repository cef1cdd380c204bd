package domain

import (
	"strings"
	"time"
)

// Market representa un mercado binario "Bitcoin Up or Down" en Polymarket.
// Se construye desde la Gamma API y es de solo lectura a partir de ahí:
// en particular CloseTime es inmutable una vez asignado.
type Market struct {
	ID        string
	Question  string
	Slug      string
	CloseTime time.Time // fecha de cierre, UTC
	Volume    float64
	Liquidity float64
	Tokens    [2]Token // exactamente dos lados: Up y Down, en orden de listado
	Active    bool
	Closed    bool
}

// Token es uno de los dos lados del mercado (Up/Down).
type Token struct {
	TokenID string
	Outcome string // "Up" | "Down"
}

// UpToken devuelve el token Up del mercado.
func (m Market) UpToken() Token {
	for _, t := range m.Tokens {
		if strings.EqualFold(t.Outcome, "Up") {
			return t
		}
	}
	return m.Tokens[0]
}

// DownToken devuelve el token Down del mercado.
func (m Market) DownToken() Token {
	for _, t := range m.Tokens {
		if strings.EqualFold(t.Outcome, "Down") {
			return t
		}
	}
	return m.Tokens[1]
}

// HasBothSides devuelve true si el mercado tiene token IDs para Up y Down.
func (m Market) HasBothSides() bool {
	return m.UpToken().TokenID != "" && m.DownToken().TokenID != "" &&
		m.UpToken().TokenID != m.DownToken().TokenID
}

// MinutesToClose devuelve los minutos hasta el cierre nominal respecto a now.
// Negativo si el mercado ya cerró.
func (m Market) MinutesToClose(now time.Time) float64 {
	if m.CloseTime.IsZero() {
		return 0
	}
	return m.CloseTime.Sub(now).Minutes()
}

// PricePoint es una observación de precio para un outcome de un mercado.
// El precio vive en [0,1] y se interpreta como probabilidad implícita.
type PricePoint struct {
	Timestamp int64   // segundos Unix
	Price     float64
}
