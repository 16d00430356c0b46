package phonemask

// RedactRune replaces hidden digits in Redact.
const RedactRune = '*'

// Redact hides all but the trailing digits of a phone value for logging,
// keeping punctuation in place. Values with more than four digits keep the
// last four; shorter ones keep only the last digit.
//
//	Redact("(555) 123-4567") -> "(***) ***-4567"
//	Redact("12")             -> "*2"
func Redact(text string) string {
	total := 0
	for i := 0; i < len(text); i++ {
		if isDigit(text[i]) {
			total++
		}
	}
	if total == 0 {
		return text
	}

	keep := 1
	if total > 4 {
		keep = 4
	}

	out := []byte(text)
	seen := 0
	for i := len(out) - 1; i >= 0; i-- {
		if !isDigit(out[i]) {
			continue
		}
		seen++
		if seen > keep {
			out[i] = RedactRune
		}
	}
	return string(out)
}
