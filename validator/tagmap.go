package validator

var tagMap = map[string]string{
	"required":      "required",
	"omitempty":     "optional",
	"iso2":          "invalid_country_code",
	"dialcode":      "invalid_dial_code",
	"phonemask":     "invalid_mask",
	"url":           "invalid_url",
	"http_url":      "invalid_http_url",
	"hostname_port": "invalid_address",
	"min":           "too_short",
	"max":           "too_long",
	"gte":           "too_small_or_equal",
	"lte":           "too_large_or_equal",
	"oneof":         "invalid_choice",
	"required_if":   "required",
}

// TagMap returns a copy of the tag-to-reason table, for errors.FromPlayground.
func TagMap() map[string]string {
	out := make(map[string]string, len(tagMap))
	for k, v := range tagMap {
		out[k] = v
	}
	return out
}
