package domain

// classify.go — clasificación de títulos de mercado por familia y ventana.
//
// Los títulos de la familia vienen en dos formas:
//   corta:  "Bitcoin Up or Down - 1:15 PM - 1:30 PM ET"
//   larga:  "Bitcoin Up or Down Jan 1, 1:00 PM - 1:15 PM"
// Solo las ventanas de 15 minutos alineadas a :00/:15/:30/:45 son válidas:
// mezclar granularidades de ventana corrompe toda la estadística por bucket,
// así que una ventana de 60 minutos se rechaza, no se avisa.

import (
	"regexp"
	"strconv"
	"strings"
)

const familyPhrase = "bitcoin up or down"

var (
	// Forma corta: H:MM AM - H:MM AM, con los dos puntos opcionales.
	shortWindowPattern = regexp.MustCompile(
		`(?i)(\d{1,2}):?(00|15|30|45)\s*[AP]M\s*-\s*\d{1,2}:?(15|30|45|00)\s*[AP]M`)
	// Forma larga: prefijo de mes y día antes del rango horario.
	longWindowPattern = regexp.MustCompile(
		`(?i)[A-Za-z]+\s+\d{1,2},\s*\d{1,2}:(\d{2})\s*[AP]M\s*-\s*\d{1,2}:(\d{2})\s*[AP]M`)
)

// validWindowPairs son los cuatro pares (minuto inicio, minuto fin) canónicos
// de una ventana de 15 minutos.
var validWindowPairs = [][2]int{{0, 15}, {15, 30}, {30, 45}, {45, 0}}

// Window es la ventana de apuestas extraída de un título.
type Window struct {
	StartMinute int
	EndMinute   int
}

// MatchesFamily devuelve true si el título pertenece a la familia objetivo,
// sin validar la forma de la ventana. Es el modo "any" usado en discovery.
func MatchesFamily(question string) bool {
	return strings.Contains(strings.ToLower(question), familyPhrase)
}

// ClassifyWindow decide si un título es un mercado de la familia con ventana
// de 15 minutos válida. Devuelve la ventana extraída y true solo si la frase
// de familia está presente, alguno de los dos patrones matchea, y el par de
// minutos es uno de los cuatro canónicos.
func ClassifyWindow(question string) (Window, bool) {
	if !MatchesFamily(question) {
		return Window{}, false
	}

	startMin, endMin, ok := extractWindowMinutes(question)
	if !ok {
		return Window{}, false
	}

	w := Window{StartMinute: startMin, EndMinute: endMin}
	if !w.isCanonical() {
		return Window{}, false
	}
	return w, true
}

// extractWindowMinutes prueba la forma corta y después la larga.
func extractWindowMinutes(question string) (start, end int, ok bool) {
	if m := shortWindowPattern.FindStringSubmatch(question); m != nil {
		start, _ = strconv.Atoi(m[2])
		end, _ = strconv.Atoi(m[3])
		return start, end, true
	}
	if m := longWindowPattern.FindStringSubmatch(question); m != nil {
		start, _ = strconv.Atoi(m[1])
		end, _ = strconv.Atoi(m[2])
		return start, end, true
	}
	return 0, 0, false
}

// isCanonical devuelve true si el par de minutos es una ventana de 15 min válida.
func (w Window) isCanonical() bool {
	for _, p := range validWindowPairs {
		if w.StartMinute == p[0] && w.EndMinute == p[1] {
			return true
		}
	}
	return false
}
