package core

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases", "Pantalla Negra", "pantalla negra"},
		{"collapses whitespace and punctuation", "  Pantalla   Negra!!", "pantalla negra"},
		{"keeps spanish letters", "¿La conexión está caída?", "la conexión está caída"},
		{"keeps digits", "Error 404", "error 404"},
		{"strips symbols", "cable-conectado_ok", "cableconectadook"},
		{"tabs and newlines collapse", "a\t b\n c", "a b c"},
		{"only symbols", "!!!", ""},
		{"punctuation between words", "a ! b", "a b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeEquivalentForms(t *testing.T) {
	if Normalize("  Pantalla   Negra!!") != Normalize("pantalla negra") {
		t.Errorf("expected both forms to normalize to the same key")
	}
}
