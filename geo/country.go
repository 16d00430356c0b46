package geo

import "strings"

// DefaultLang is the display-name language used when a record has no
// entry for the requested one.
const DefaultLang = "en"

// Country is a single directory record.
//
// Mask uses '9' for a digit slot; every other character is a literal that
// is reproduced verbatim by the formatter.
type Country struct {
	Code     string            `json:"code" yaml:"code" validate:"required,iso2"`
	DialCode string            `json:"dialCode" yaml:"dialCode" validate:"required,dialcode"`
	Flag     string            `json:"flag,omitempty" yaml:"flag,omitempty"`
	Mask     string            `json:"mask" yaml:"mask" validate:"required,phonemask"`
	Names    map[string]string `json:"names,omitempty" yaml:"names,omitempty" validate:"required,min=1"`
}

// IsZero reports whether c is the empty record used when a default country
// could not be resolved.
func (c Country) IsZero() bool {
	return c.Code == "" && c.DialCode == "" && c.Mask == ""
}

// DisplayName returns the name for lang (case-insensitive key), falling back
// to the English name and then to the code.
func (c Country) DisplayName(lang string) string {
	if name := nameFor(c.Names, langKey(lang)); name != "" {
		return name
	}
	if name := nameFor(c.Names, DefaultLang); name != "" {
		return name
	}
	return c.Code
}

// nameFor looks key up exactly, then ignoring case, so records keyed "EN"
// or "Tr" still resolve.
func nameFor(names map[string]string, key string) string {
	if name := names[key]; name != "" {
		return name
	}
	for k, name := range names {
		if name != "" && strings.EqualFold(strings.TrimSpace(k), key) {
			return name
		}
	}
	return ""
}

func (c Country) clone() Country {
	if c.Names == nil {
		return c
	}
	names := make(map[string]string, len(c.Names))
	for k, v := range c.Names {
		names[k] = v
	}
	c.Names = names
	return c
}

func langKey(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return DefaultLang
	}
	return lang
}

// NormalizeISO2 trims and uppercases an ASCII ISO2-like code.
//
// Validation here is format-only (two ASCII letters) and does not check
// whether the code is an officially assigned ISO 3166-1 alpha-2 value.
func NormalizeISO2(code string) (string, bool) {
	c := strings.TrimSpace(code)
	if len(c) != 2 {
		return "", false
	}

	b0, b1 := c[0], c[1]
	if !isASCIILetter(b0) || !isASCIILetter(b1) {
		return "", false
	}

	return string([]byte{toUpperASCII(b0), toUpperASCII(b1)}), true
}

// IsValidISO2 reports whether code is exactly two uppercase ASCII letters,
// the form directory records are stored in.
func IsValidISO2(code string) bool {
	n, ok := NormalizeISO2(code)
	return ok && n == code
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func toUpperASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
