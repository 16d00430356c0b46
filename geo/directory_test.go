package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDirectory() *Directory {
	return NewDirectory([]Country{
		{Code: "US", DialCode: "1", Mask: "(999) 999-9999", Names: map[string]string{"en": "United States"}},
		{Code: "GB", DialCode: "44", Mask: "9999 999999", Names: map[string]string{"en": "United Kingdom"}},
	})
}

func codes(cs []Country) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Code)
	}
	return out
}

func TestDirectoryLookup(t *testing.T) {
	d := sampleDirectory()

	c, ok := d.Lookup("GB")
	require.True(t, ok)
	assert.Equal(t, "44", c.DialCode)

	_, ok = d.Lookup("gb")
	assert.False(t, ok, "lookup is case-sensitive")

	_, ok = d.Lookup("ZZ")
	assert.False(t, ok)
}

func TestDirectoryLookup_FirstMatchWins(t *testing.T) {
	d := NewDirectory([]Country{
		{Code: "XK", DialCode: "383", Mask: "99 999 999"},
		{Code: "XK", DialCode: "381", Mask: "999 9999"},
	})

	c, ok := d.Lookup("XK")
	require.True(t, ok)
	assert.Equal(t, "383", c.DialCode)
}

func TestDirectoryFilter(t *testing.T) {
	d := sampleDirectory()

	tests := []struct {
		name  string
		query string
		lang  string
		want  []string
	}{
		{name: "name substring keeps order", query: "uni", lang: "en", want: []string{"US", "GB"}},
		{name: "dial code substring", query: "1", lang: "en", want: []string{"US"}},
		{name: "empty query returns all", query: "", lang: "en", want: []string{"US", "GB"}},
		{name: "blank query returns all", query: "   ", lang: "en", want: []string{"US", "GB"}},
		{name: "code case-insensitive", query: "gb", lang: "en", want: []string{"GB"}},
		{name: "name case-insensitive", query: "KINGDOM", lang: "en", want: []string{"GB"}},
		{name: "missing lang falls back to en", query: "states", lang: "tr", want: []string{"US"}},
		{name: "query is trimmed", query: "  44 ", lang: "en", want: []string{"GB"}},
		{name: "no match", query: "zzz", lang: "en", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(d.Filter(tt.query, tt.lang)))
		})
	}
}

func TestDirectoryFilter_LocalizedNames(t *testing.T) {
	d := NewDirectory([]Country{
		{Code: "TR", DialCode: "+90", Mask: "(999) 999 99 99", Names: map[string]string{"en": "Turkey", "tr": "Türkiye"}},
		{Code: "DE", DialCode: "+49", Mask: "999 99999999", Names: map[string]string{"en": "Germany", "tr": "Almanya"}},
	})

	assert.Equal(t, []string{"TR"}, codes(d.Filter("TÜRK", "tr")))
	assert.Equal(t, []string{"DE"}, codes(d.Filter("alman", "TR")))
	assert.Empty(t, d.Filter("alman", "en"))
}

func TestDirectoryFilter_NameKeysIgnoreCase(t *testing.T) {
	d := NewDirectory([]Country{
		{Code: "DE", DialCode: "49", Mask: "999 99999999", Names: map[string]string{"EN": "Germany", "TR": "Almanya"}},
		{Code: "TR", DialCode: "90", Mask: "(999) 999 99 99", Names: map[string]string{"en": "Turkey", "EN": "Other"}},
	})

	assert.Equal(t, []string{"DE"}, codes(d.Filter("alman", "tr")))
	assert.Equal(t, []string{"DE"}, codes(d.Filter("germ", "en")))
	assert.Equal(t, []string{"DE"}, codes(d.Filter("germ", "fr")))
	assert.Equal(t, []string{"TR"}, codes(d.Filter("turk", "en")))
	assert.Empty(t, d.Filter("other", "en"))
}

func TestDirectoryIsImmutable(t *testing.T) {
	names := map[string]string{"en": "United States"}
	src := []Country{{Code: "US", DialCode: "1", Mask: "(999) 999-9999", Names: names}}
	d := NewDirectory(src)

	src[0].Code = "XX"
	names["en"] = "mutated"

	c, ok := d.Lookup("US")
	require.True(t, ok)
	assert.Equal(t, "United States", c.Names["en"])

	c.Names["en"] = "changed by caller"
	again, _ := d.Lookup("US")
	assert.Equal(t, "United States", again.Names["en"])
}

func TestDirectoryNil(t *testing.T) {
	var d *Directory
	assert.Equal(t, 0, d.Len())
	assert.Nil(t, d.All())
	_, ok := d.Lookup("US")
	assert.False(t, ok)
	assert.Nil(t, d.Filter("us", "en"))
}
