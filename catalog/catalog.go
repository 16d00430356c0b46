// Package catalog owns the country directory's lifecycle: it loads the
// ordered country sequence from a Source, validates it, and publishes an
// immutable geo.Directory that formatting controllers read.
//
// Reads before the first successful load fail with a not-ready error.
// Reload replaces the whole sequence atomically; readers never observe a
// partially loaded directory.
package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"

	play "github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/vortex-fintech/intlphone/errors"
	"github.com/vortex-fintech/intlphone/geo"
	"github.com/vortex-fintech/intlphone/logger"
	"github.com/vortex-fintech/intlphone/validator"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultInvalid = "invalid"
)

type Options struct {
	Logger  logger.LoggerInterface
	Metrics Metrics
}

type snapshot struct {
	dir         *geo.Directory
	fingerprint string
}

// Catalog is safe for concurrent use.
type Catalog struct {
	src  Source
	log  logger.LoggerInterface
	met  Metrics
	cur  atomic.Pointer[snapshot]
	sf   singleflight.Group
	once sync.Once
	rdy  chan struct{}
}

func New(src Source, opts Options) *Catalog {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Catalog{
		src: src,
		log: opts.Logger.With("component", "catalog", "source", src.Name()),
		met: opts.Metrics,
		rdy: make(chan struct{}),
	}
}

// Load reads the source once. Concurrent callers share one read. A failed
// load keeps the previously published directory, if any.
func (c *Catalog) Load(ctx context.Context) error {
	_, err, _ := c.sf.Do("load", func() (any, error) {
		return nil, c.load(ctx)
	})
	return err
}

// Reload is Load under the name callers use after startup.
func (c *Catalog) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

func (c *Catalog) load(ctx context.Context) error {
	name := c.src.Name()

	countries, err := c.src.Load(ctx)
	if err != nil {
		c.observe(name, resultError)
		c.log.Errorw("catalog load failed", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil && stderrors.Is(err, ctxErr) {
			return errors.ToErrorResponse(ctxErr)
		}
		return errors.SourceUnavailable(name, err)
	}
	if len(countries) == 0 {
		c.observe(name, resultInvalid)
		return errors.CatalogEmpty(name)
	}
	if err := Validate(countries); err != nil {
		c.observe(name, resultInvalid)
		c.log.Errorw("catalog rejected invalid records", "error", err)
		return err
	}

	if dups := duplicateCodes(countries); len(dups) > 0 {
		c.log.Warnw("catalog has duplicate codes, lookups return the first record", "codes", dups)
	}

	fp := Fingerprint(countries)
	next := &snapshot{dir: geo.NewDirectory(countries), fingerprint: fp}
	prev := c.cur.Swap(next)
	c.once.Do(func() { close(c.rdy) })

	c.observe(name, resultSuccess)
	if c.met != nil {
		c.met.SetCountries(next.dir.Len())
	}
	changed := prev == nil || prev.fingerprint != fp
	c.log.Infow("catalog loaded", "countries", next.dir.Len(), "fingerprint", shortFingerprint(fp), "changed", changed)
	return nil
}

func (c *Catalog) observe(source, result string) {
	if c.met != nil {
		c.met.IncLoad(source, result)
	}
}

// Ready is closed after the first successful load.
func (c *Catalog) Ready() <-chan struct{} { return c.rdy }

// Directory returns the current directory, or a catalog_not_ready error
// before the first successful load.
func (c *Catalog) Directory() (*geo.Directory, error) {
	s := c.cur.Load()
	if s == nil {
		return nil, errors.CatalogNotReady()
	}
	return s.dir, nil
}

// Wait blocks until the catalog is ready or ctx ends.
func (c *Catalog) Wait(ctx context.Context) (*geo.Directory, error) {
	select {
	case <-c.rdy:
		return c.Directory()
	case <-ctx.Done():
		return nil, errors.ToErrorResponse(ctx.Err())
	}
}

// Check is a readiness probe.
func (c *Catalog) Check(context.Context) error {
	_, err := c.Directory()
	return err
}

// Fingerprint of the published directory, "" before the first load.
func (c *Catalog) Fingerprint() string {
	if s := c.cur.Load(); s != nil {
		return s.fingerprint
	}
	return ""
}

// Validate checks every record and reports all violations at once, with
// field paths such as "countries[3].Mask".
func Validate(countries []geo.Country) error {
	var violations []errors.FieldViolation
	for i, country := range countries {
		if err := validator.Struct(country); err != nil {
			var verrs play.ValidationErrors
			if !stderrors.As(err, &verrs) {
				return errors.InvalidArgument().WithCause(err)
			}
			prefix := fmt.Sprintf("countries[%d]", i)
			violations = append(violations, errors.ViolationsFromPlayground(verrs, validator.TagMap(), prefix)...)
		}
	}
	if len(violations) > 0 {
		return errors.ValidationViolations(violations)
	}
	return nil
}

// Fingerprint is a sha256 over the canonical JSON of countries.
func Fingerprint(countries []geo.Country) string {
	data, err := json.Marshal(countries)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func duplicateCodes(countries []geo.Country) []string {
	seen := make(map[string]bool, len(countries))
	var dups []string
	for _, c := range countries {
		if seen[c.Code] {
			dups = append(dups, c.Code)
			continue
		}
		seen[c.Code] = true
	}
	return dups
}
