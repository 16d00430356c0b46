// Package phoneinput drives masked phone-number entry for one input session.
//
// A Controller holds the selected country, the active mask and the digit
// count of the previous call. Each raw input is classified as typing or a
// paste by comparing digit counts, formatted with the matching phonemask
// strategy, and reported back as a Result.
//
// Controllers are not safe for concurrent use; hosts that can deliver
// overlapping edit events must serialize them. Distinct controllers may
// share one geo.Directory.
package phoneinput

import (
	"github.com/google/uuid"

	"github.com/vortex-fintech/intlphone/geo"
	"github.com/vortex-fintech/intlphone/logger"
	"github.com/vortex-fintech/intlphone/phonemask"
)

// Options configures New. Only DefaultCountry is needed.
type Options struct {
	// DefaultCountry is selected at start and used when a country change
	// names an unknown code.
	DefaultCountry string
	// Mask, when set, overrides every country's mask.
	Mask string
	// Lang picks display names for Countries. Defaults to "en".
	Lang string
	// LockCountry turns OnCountryChange into a no-op.
	LockCountry bool

	Logger   logger.LoggerInterface
	Metrics  Metrics
	Observer Observer
}

// Controller formats one phone field. It is not safe for concurrent use;
// give each field its own Controller.
type Controller struct {
	dir   *geo.Directory
	opts  Options
	def   geo.Country
	state State
	log   logger.LoggerInterface
}

// New returns a Controller with the default country selected and an empty field.
func New(dir *geo.Directory, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Lang == "" {
		opts.Lang = geo.DefaultLang
	}

	c := &Controller{
		dir:  dir,
		opts: opts,
		log:  opts.Logger.With("session_id", newSessionID()),
	}

	def, ok := dir.Lookup(opts.DefaultCountry)
	if !ok {
		c.log.Warnw("default country not in directory", "code", opts.DefaultCountry)
	}
	c.def = def
	c.reset(def)
	return c
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// OnRawInput formats raw, the full current text of the input field.
func (c *Controller) OnRawInput(raw string) Result {
	digits := phonemask.ExtractDigits(raw)
	mask := c.state.ActiveMask

	var (
		formatted string
		mode      Mode
	)
	switch {
	case digits == "":
		mode = ModeCleared
	case len(digits)-c.state.LastDigitCount > PasteThreshold:
		mode = ModeBulk
		formatted = phonemask.TrimTrailingResidue(phonemask.FormatBulk(digits, mask))
		c.log.Debugw("bulk edit",
			"digits", len(digits),
			"previous", c.state.LastDigitCount,
			"formatted", phonemask.Redact(formatted),
		)
	default:
		mode = ModeIncremental
		formatted = phonemask.TrimTrailingResidue(phonemask.FormatIncremental(digits, mask))
	}

	c.state.FormattedText = formatted
	c.state.UnmaskedDigits = phonemask.ExtractDigits(formatted)
	c.state.LastDigitCount = len(digits)

	res := c.result(mode)
	if c.opts.Metrics != nil {
		c.opts.Metrics.ObserveInput(mode, res.IsComplete)
	}
	if c.opts.Observer != nil {
		c.opts.Observer.OnChange(res)
	}
	return res
}

// OnCountryChange selects code and clears the input. An unknown code
// selects the default country instead. The selected country is returned.
func (c *Controller) OnCountryChange(code string) geo.Country {
	if c.opts.LockCountry {
		c.observeCountry("locked")
		return c.state.SelectedCountry
	}

	country, ok := c.dir.Lookup(code)
	result := "found"
	if !ok {
		result = "fallback"
		country = c.def
		c.log.Debugw("unknown country, using default", "code", code, "default", c.def.Code)
	}
	c.reset(country)
	c.observeCountry(result)

	if c.opts.Observer != nil {
		c.opts.Observer.OnSelectCountry(country)
	}
	return country
}

func (c *Controller) observeCountry(result string) {
	if c.opts.Metrics != nil {
		c.opts.Metrics.IncCountryChange(result)
	}
}

func (c *Controller) reset(country geo.Country) {
	mask := c.opts.Mask
	if mask == "" {
		mask = country.Mask
	}
	c.state = State{SelectedCountry: country, ActiveMask: mask}
}

func (c *Controller) result(mode Mode) Result {
	return Result{
		FormattedText:   c.state.FormattedText,
		UnmaskedDigits:  c.state.UnmaskedDigits,
		IsComplete:      c.complete(),
		DialCode:        c.state.SelectedCountry.DialCode,
		SelectedCountry: c.state.SelectedCountry,
		Mode:            mode,
	}
}

// complete is false for a mask without placeholders.
func (c *Controller) complete() bool {
	slots := phonemask.CountPlaceholders(c.state.ActiveMask)
	return slots > 0 &&
		len(c.state.UnmaskedDigits) == slots &&
		c.state.FormattedText != ""
}

// State returns a copy of the session state.
func (c *Controller) State() State { return c.state }

// Placeholder is the input hint for the active mask, e.g. "(___) ___-____".
func (c *Controller) Placeholder() string {
	return phonemask.Hint(c.state.ActiveMask)
}

// Countries filters the directory with the controller's language.
func (c *Controller) Countries(query string) []geo.Country {
	return c.dir.Filter(query, c.opts.Lang)
}
