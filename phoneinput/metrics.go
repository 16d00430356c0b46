package phoneinput

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics receives per-call outcomes.
type Metrics interface {
	ObserveInput(mode Mode, complete bool)
	IncCountryChange(result string)
}

// PromMetrics implements Metrics:
//   - {namespace}_input_events_total{mode,complete}
//   - {namespace}_input_country_changes_total{result}
type PromMetrics struct {
	inputs  *prometheus.CounterVec
	changes *prometheus.CounterVec
}

// NewPromMetrics registers the input collectors on reg.
func NewPromMetrics(reg prometheus.Registerer, namespace string) (*PromMetrics, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is nil")
	}
	pm := &PromMetrics{
		inputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "input",
			Name: "events_total", Help: "Formatted inputs by mode and completeness",
		}, []string{"mode", "complete"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "input",
			Name: "country_changes_total", Help: "Country changes by result (found, fallback, locked)",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{pm.inputs, pm.changes} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return pm, nil
}

func (p *PromMetrics) ObserveInput(mode Mode, complete bool) {
	p.inputs.WithLabelValues(string(mode), strconv.FormatBool(complete)).Inc()
}

func (p *PromMetrics) IncCountryChange(result string) {
	p.changes.WithLabelValues(result).Inc()
}
