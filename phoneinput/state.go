package phoneinput

import "github.com/vortex-fintech/intlphone/geo"

// PasteThreshold is the largest digit-count growth still treated as typing.
// A call whose digit count exceeds the previous one by more than this is a
// bulk edit (paste) and is right-anchored against the mask.
const PasteThreshold = 1

// Mode reports how an input was formatted.
type Mode string

const (
	ModeCleared     Mode = "cleared"
	ModeIncremental Mode = "incremental"
	ModeBulk        Mode = "bulk"
)

// State is the formatting session owned by one Controller.
type State struct {
	SelectedCountry geo.Country
	ActiveMask      string
	LastDigitCount  int
	FormattedText   string
	UnmaskedDigits  string
}

// Result is emitted for every raw input.
type Result struct {
	FormattedText   string
	UnmaskedDigits  string
	IsComplete      bool
	DialCode        string
	SelectedCountry geo.Country
	Mode            Mode
}

// Observer receives controller events. Either method may be a no-op.
type Observer interface {
	OnChange(Result)
	OnSelectCountry(geo.Country)
}

// ObserverFuncs adapts plain functions to Observer; nil fields are skipped.
type ObserverFuncs struct {
	Change        func(Result)
	SelectCountry func(geo.Country)
}

func (o ObserverFuncs) OnChange(r Result) {
	if o.Change != nil {
		o.Change(r)
	}
}

func (o ObserverFuncs) OnSelectCountry(c geo.Country) {
	if o.SelectCountry != nil {
		o.SelectCountry(c)
	}
}
