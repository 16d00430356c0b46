package geo

import "encoding/json"

var recordKeys = map[string]struct{}{
	"code":     {},
	"dialCode": {},
	"flag":     {},
	"mask":     {},
	"names":    {},
}

// UnmarshalJSON accepts both the nested form ({"names": {"en": ...}}) and the
// flat legacy form where display names sit at the top level under lowercase
// language keys ({"en": "Turkey", "tr": "Türkiye", ...}). Explicit "names"
// entries win over flat keys.
func (c *Country) UnmarshalJSON(data []byte) error {
	type plain Country
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if _, ok := recordKeys[k]; ok || !isLangKey(k) {
			continue
		}
		var name string
		if err := json.Unmarshal(v, &name); err != nil || name == "" {
			continue
		}
		if p.Names == nil {
			p.Names = make(map[string]string)
		}
		if _, exists := p.Names[k]; !exists {
			p.Names[k] = name
		}
	}

	*c = Country(p)
	return nil
}

// isLangKey matches short lowercase language keys such as "en" or "fil".
func isLangKey(k string) bool {
	if len(k) < 2 || len(k) > 3 {
		return false
	}
	for i := 0; i < len(k); i++ {
		if k[i] < 'a' || k[i] > 'z' {
			return false
		}
	}
	return true
}
