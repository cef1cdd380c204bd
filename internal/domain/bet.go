package domain

// Outcome names de la familia. El orden (Up, Down) es el orden de listado
// habitual pero no está garantizado por la API; usar UpToken/DownToken.
const (
	OutcomeUp   = "Up"
	OutcomeDown = "Down"
)

// BetRecord es una oportunidad de apuesta reconstruida: un outcome de un
// mercado a un timestamp observado concreto. Inmutable una vez creado.
// Por cada timestamp de un mercado existen exactamente dos BetRecords
// (uno por outcome); sus precios de entrada no tienen por qué sumar 1
// porque los dos lados se cotizan en order books independientes.
type BetRecord struct {
	MarketID       string
	Outcome        string  // "Up" | "Down"
	EntryPrice     float64 // precio del propio outcome en ese timestamp
	Won            bool    // true si el outcome coincide con el ganador final
	Profit         float64 // 1 - entry si ganó, -entry si perdió
	MinutesToClose float64 // distancia al último timestamp observado de la serie Up
	Deviation      float64 // |entry - 0.5|
	Winner         string  // outcome ganador del mercado
}

// Favored devuelve true si la apuesta va sobre el lado favorecido: el precio
// del propio outcome supera 0.5 más el umbral de desviación dado.
func (b BetRecord) Favored(devThreshold float64) bool {
	return b.EntryPrice > 0.5+devThreshold
}
