package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/vortex-fintech/intlphone/errors"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func violationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var er errors.ErrorResponse
	require.True(t, stderrors.As(err, &er), "expected ErrorResponse, got %T", err)
	require.Equal(t, codes.InvalidArgument, er.Code)
	out := map[string]string{}
	for _, v := range er.Violations {
		out[v.Field] = v.Reason
	}
	return out
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, SourceEmbedded, cfg.Catalog.Source)
	assert.Equal(t, "US", cfg.Input.DefaultCountry)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "phonefmt.yaml", `
env: production
catalog:
  source: http
  url: https://example.com/countries.json
  cache:
    enabled: true
    redis:
      addrs: ["127.0.0.1:6379"]
      ttl: 30m
input:
  default_country: TR
  lang: tr
server:
  addr: ":8081"
  shutdown_timeout: 3s
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "phonefmt", cfg.Service)
	assert.Equal(t, SourceHTTP, cfg.Catalog.Source)
	assert.Equal(t, "https://example.com/countries.json", cfg.Catalog.URL)
	assert.True(t, cfg.Catalog.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Catalog.Cache.Redis.TTL)
	assert.Equal(t, "TR", cfg.Input.DefaultCountry)
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Server.CheckTimeout)
}

func TestLoad_EnvOverridesFileAndDotEnv(t *testing.T) {
	path := writeFile(t, "phonefmt.yaml", "input:\n  default_country: TR\n")
	dotenv := writeFile(t, ".env", "INTLPHONE_LANG=de\nINTLPHONE_DEFAULT_COUNTRY=DE\n")

	t.Setenv("INTLPHONE_DEFAULT_COUNTRY", "GB")
	t.Setenv("INTLPHONE_SHUTDOWN_TIMEOUT", "250ms")
	t.Setenv("INTLPHONE_LANG", "")
	require.NoError(t, os.Unsetenv("INTLPHONE_LANG"))

	cfg, err := Load(path, dotenv)
	require.NoError(t, err)

	assert.Equal(t, "GB", cfg.Input.DefaultCountry, "process env wins over .env and yaml")
	assert.Equal(t, "de", cfg.Input.Lang, ".env fills unset variables")
	assert.Equal(t, 250*time.Millisecond, cfg.Server.ShutdownTimeout)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.ErrorContains(t, err, "config: read")

	bad := writeFile(t, "bad.yaml", "input: [")
	_, err = Load(bad, "")
	require.ErrorContains(t, err, "config: parse")
}

func TestLoad_BadEnvValues(t *testing.T) {
	tests := map[string]string{
		"INTLPHONE_SHUTDOWN_TIMEOUT": "soon",
		"INTLPHONE_CACHE_ENABLED":    "maybe",
		"INTLPHONE_REDIS_DB":         "one",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := Load("", "")
			require.ErrorContains(t, err, key)
		})
	}
}

func TestValidate_FieldRules(t *testing.T) {
	cfg := Default()
	cfg.Service = ""
	cfg.Catalog.Source = "ftp"
	cfg.Input.DefaultCountry = "usa"
	cfg.Input.Mask = "---"
	cfg.Server.Addr = "nowhere"

	fields := violationFields(t, cfg.Validate())
	assert.Equal(t, "required", fields["Service"])
	assert.Equal(t, "invalid_choice", fields["Catalog.Source"])
	assert.Equal(t, "invalid_country_code", fields["Input.DefaultCountry"])
	assert.Equal(t, "invalid_mask", fields["Input.Mask"])
	assert.Equal(t, "invalid_address", fields["Server.Addr"])
}

func TestValidate_SourceRequirements(t *testing.T) {
	tests := []struct {
		source string
		field  string
	}{
		{source: SourceFile, field: "Catalog.Path"},
		{source: SourceHTTP, field: "Catalog.URL"},
		{source: SourceSQL, field: "Catalog.DSN"},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Catalog.Source = tt.source
		fields := violationFields(t, cfg.Validate())
		assert.Equal(t, "required", fields[tt.field], tt.source)
	}

	cfg := Default()
	cfg.Catalog.Cache.Enabled = true
	fields := violationFields(t, cfg.Validate())
	assert.Equal(t, "required", fields["Catalog.Cache.Redis.Addrs"])
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, splitList(" a:1, ,b:2 "))
	assert.Empty(t, splitList(""))
}
