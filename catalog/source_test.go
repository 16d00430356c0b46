package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded_LoadsValidDataset(t *testing.T) {
	countries, err := Embedded().Load(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, countries)
	require.NoError(t, Validate(countries))

	assert.Equal(t, "US", countries[0].Code)
	assert.Equal(t, "(999) 999-9999", countries[0].Mask)
	assert.Equal(t, "United States", countries[0].Names["en"])

	var tr bool
	for _, c := range countries {
		if c.Code == "TR" {
			tr = true
			assert.Equal(t, "Türkiye", c.DisplayName("tr"))
		}
	}
	assert.True(t, tr, "TR must be bundled")
}

func TestEmbedded_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Embedded().Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFile_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "countries.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"code":"GB","dialCode":"+44","mask":"9999 999999","en":"United Kingdom"},
		{"code":"DE","dialCode":"+49","mask":"999 99999999","names":{"en":"Germany","de":"Deutschland"}}
	]`), 0o600))

	yamlPath := filepath.Join(dir, "countries.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
- code: GB
  dialCode: "+44"
  mask: "9999 999999"
  names:
    en: United Kingdom
- code: DE
  dialCode: "+49"
  mask: "999 99999999"
  names:
    en: Germany
    de: Deutschland
`), 0o600))

	for _, path := range []string{jsonPath, yamlPath} {
		src := File(path)
		assert.Equal(t, "file:"+path, src.Name())

		got, err := src.Load(context.Background())
		require.NoError(t, err, path)
		require.Len(t, got, 2)
		assert.Equal(t, "GB", got[0].Code)
		assert.Equal(t, "United Kingdom", got[0].Names["en"])
		assert.Equal(t, "Deutschland", got[1].Names["de"])
	}
}

func TestFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := File(filepath.Join(dir, "missing.json")).Load(context.Background())
	require.Error(t, err)

	bad := filepath.Join(dir, "countries.toml")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o600))
	_, err = File(bad).Load(context.Background())
	require.ErrorContains(t, err, "unsupported file extension")

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o600))
	_, err = File(broken).Load(context.Background())
	require.ErrorContains(t, err, "decode json")
}
