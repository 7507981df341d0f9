package nlp

import "strings"

var accentReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// Normalize lowercases, trims and folds Spanish accents and ñ to ASCII so
// that matching is insensitive to how the user typed the text. Every
// matcher literal in this package is written in the folded form.
func Normalize(text string) string {
	return accentReplacer.Replace(strings.ToLower(strings.TrimSpace(text)))
}

// Tokens splits normalized text into whitespace-separated words, dropping
// punctuation glued to them.
func Tokens(text string) []string {
	fields := strings.FieldsFunc(Normalize(text), func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '.', ';', ':', '!', '?', '¿', '¡', '(', ')', '"':
			return true
		}
		return false
	})
	return fields
}
