package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vortex-fintech/intlphone/geo"
	"github.com/vortex-fintech/intlphone/retry"
)

const maxHTTPBody = 4 << 20

// HTTPOptions tunes the HTTP source.
type HTTPOptions struct {
	Client *http.Client
	Retry  retry.Policy
	Header http.Header
}

type httpSource struct {
	url  string
	opts HTTPOptions
}

// HTTP fetches a JSON country list with GET. Transport errors and 5xx
// responses are retried; other non-2xx responses fail at once.
func HTTP(url string, opts HTTPOptions) Source {
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return httpSource{url: url, opts: opts}
}

func (s httpSource) Name() string { return "http:" + s.url }

func (s httpSource) Load(ctx context.Context) ([]geo.Country, error) {
	return retry.Fetch(ctx, s.opts.Retry, s.fetch)
}

func (s httpSource) fetch(ctx context.Context) ([]geo.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range s.opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxHTTPBody))
		err := fmt.Errorf("catalog: GET %s: unexpected status %d", s.url, resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, retry.Permanent(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTTPBody))
	if err != nil {
		return nil, err
	}
	out, err := DecodeJSON(body)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	return out, nil
}
