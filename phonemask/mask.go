// Package phonemask applies digit masks such as "(999) 999-9999" to phone
// input. Every function is pure.
//
// In a mask the character '9' is a digit slot (placeholder); any other
// character is a literal reproduced verbatim.
package phonemask

import "strings"

const (
	// Placeholder marks one digit slot in a mask.
	Placeholder = '9'

	// HintRune replaces placeholders in Hint.
	HintRune = '_'
)

// ExtractDigits returns every ASCII digit of text, in order.
func ExtractDigits(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if isDigit(text[i]) {
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

// FormatIncremental walks mask left to right, filling placeholders from
// digits. It stops as soon as digits run out, so the result never carries a
// literal that sits after an unreached placeholder.
//
//	FormatIncremental("555", "(999) 999-9999")  -> "(555"
//	FormatIncremental("5551", "(999) 999-9999") -> "(555) 1"
func FormatIncremental(digits, mask string) string {
	m := []rune(mask)
	var b strings.Builder
	b.Grow(len(mask))

	next := 0
	for i := 0; i < len(m) && next < len(digits); i++ {
		if m[i] == Placeholder {
			b.WriteByte(digits[next])
			next++
			continue
		}
		b.WriteRune(m[i])
	}
	return b.String()
}

// FormatBulk right-anchors digits against the mask: placeholders are filled
// from the last one backwards with digits taken from the end of digits.
// Leading digits that do not fit are dropped. Placeholders left without a
// digit keep the literal '9', so a short paste such as
//
//	FormatBulk("123", "999-9999") -> "999-9123"
//
// still contains digit characters where nothing was typed. Callers that
// re-extract digits from the result see those as real digits.
func FormatBulk(digits, mask string) string {
	out := []rune(mask)

	next := len(digits) - 1
	for i := len(out) - 1; i >= 0 && next >= 0; i-- {
		if out[i] == Placeholder {
			out[i] = rune(digits[next])
			next--
		}
	}
	return strings.TrimSpace(string(out))
}

// TrimTrailingResidue cuts text right after its last ASCII digit, removing
// mask literals that follow the last filled slot. Text without digits
// yields "".
func TrimTrailingResidue(text string) string {
	for i := len(text) - 1; i >= 0; i-- {
		if isDigit(text[i]) {
			return text[:i+1]
		}
	}
	return ""
}

// CountPlaceholders returns the number of digit slots in mask.
func CountPlaceholders(mask string) int {
	return strings.Count(mask, string(Placeholder))
}

// Hint renders mask as an input hint, e.g. "(___) ___-____".
func Hint(mask string) string {
	return strings.ReplaceAll(mask, string(Placeholder), string(HintRune))
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
