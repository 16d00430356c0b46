package geo

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Directory is an immutable, ordered catalogue of countries.
// It is safe for concurrent reads.
type Directory struct {
	entries []entry
}

type entry struct {
	country Country
	code    string            // folded code
	names   map[string]string // folded display names by lang key
}

// NewDirectory copies countries, preserving order.
func NewDirectory(countries []Country) *Directory {
	d := &Directory{entries: make([]entry, 0, len(countries))}
	for _, c := range countries {
		c = c.clone()
		e := entry{country: c, code: fold(c.Code)}
		if len(c.Names) > 0 {
			e.names = make(map[string]string, len(c.Names))
			for k, v := range c.Names {
				lk := strings.ToLower(strings.TrimSpace(k))
				if lk == "" {
					continue
				}
				// An exact lowercase key wins over its other spellings.
				if _, taken := e.names[lk]; taken && k != lk {
					continue
				}
				e.names[lk] = fold(v)
			}
		}
		d.entries = append(d.entries, e)
	}
	return d
}

// Len returns the number of records.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// All returns every record in original order.
func (d *Directory) All() []Country {
	if d == nil {
		return nil
	}
	out := make([]Country, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.country.clone())
	}
	return out
}

// Lookup finds the first record whose code equals code exactly.
func (d *Directory) Lookup(code string) (Country, bool) {
	if d == nil {
		return Country{}, false
	}
	for _, e := range d.entries {
		if e.country.Code == code {
			return e.country.clone(), true
		}
	}
	return Country{}, false
}

// Filter returns, in original order, every record whose display name for
// lang (falling back to English) contains query case-insensitively, whose
// dial code contains query literally, or whose code contains query
// case-insensitively. A blank query returns the whole directory.
func (d *Directory) Filter(query, lang string) []Country {
	q := strings.TrimSpace(query)
	if q == "" {
		return d.All()
	}
	if d == nil {
		return nil
	}

	fq := fold(q)
	key := langKey(lang)

	out := make([]Country, 0)
	for _, e := range d.entries {
		name := e.names[key]
		if name == "" {
			name = e.names[DefaultLang]
		}
		if strings.Contains(name, fq) ||
			strings.Contains(e.country.DialCode, q) ||
			strings.Contains(e.code, fq) {
			out = append(out, e.country.clone())
		}
	}
	return out
}

// fold is used on both sides of every case-insensitive comparison.
// A Caser keeps state, so a fresh one is taken per call.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(norm.NFKC.String(s))
}
