package nlp

import (
	"reflect"
	"testing"
)

func TestNormalizeFoldsToASCII(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Hola  ", "hola"},
		{"Mañana", "manana"},
		{"PASADO MAÑANA", "pasado manana"},
		{"teléfono", "telefono"},
		{"información", "informacion"},
		{"pingüino", "pinguino"},
		{"ya sin acentos", "ya sin acentos"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokensDropGluedPunctuation(t *testing.T) {
	got := Tokens("¿Mañana, a las 10:30?")
	want := []string{"manana", "a", "las", "10", "30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}
