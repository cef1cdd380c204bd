package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWindow_AcceptsCanonicalPairs(t *testing.T) {
	titles := map[string]Window{
		"Bitcoin Up or Down - 1:00 PM - 1:15 PM ET":   {0, 15},
		"Bitcoin Up or Down - 1:15 PM - 1:30 PM ET":   {15, 30},
		"Bitcoin Up or Down - 1:30 PM - 1:45 PM ET":   {30, 45},
		"Bitcoin Up or Down - 1:45 PM - 2:00 PM ET":   {45, 0},
		"Bitcoin Up or Down Jan 1, 1:00 PM - 1:15 PM": {0, 15},
		"bitcoin up or down 11:45 pm - 12:00 am":      {45, 0},
	}

	for title, want := range titles {
		w, ok := ClassifyWindow(title)
		assert.True(t, ok, "debe aceptar %q", title)
		assert.Equal(t, want, w, title)
	}
}

func TestClassifyWindow_RejectsNonCanonicalPairs(t *testing.T) {
	titles := []string{
		// Ventana de 30 minutos: par (0,30) no es canónico
		"Bitcoin Up or Down - 1:00 PM - 1:30 PM ET",
		// Ventana de 60 minutos vía forma larga
		"Bitcoin Up or Down Jan 1, 1:07 PM - 2:07 PM",
		// Sin rango horario
		"Bitcoin Up or Down Daily",
	}

	for _, title := range titles {
		_, ok := ClassifyWindow(title)
		assert.False(t, ok, "debe rechazar %q", title)
	}
}

func TestClassifyWindow_RejectsOtherFamilies(t *testing.T) {
	_, ok := ClassifyWindow("Ethereum Up or Down - 1:00 PM - 1:15 PM ET")
	assert.False(t, ok, "otra familia no debe clasificar aunque la ventana sea válida")

	_, ok = ClassifyWindow("")
	assert.False(t, ok)
}

func TestMatchesFamily_IgnoresWindowShape(t *testing.T) {
	// Modo "any": la frase de familia basta, la ventana da igual
	assert.True(t, MatchesFamily("Bitcoin Up or Down - 1:00 PM - 2:00 PM ET"))
	assert.True(t, MatchesFamily("BITCOIN UP OR DOWN hourly"))
	assert.False(t, MatchesFamily("Will Bitcoin hit 100k?"))
}
