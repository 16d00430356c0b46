package catalog

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics receives catalog load outcomes.
type Metrics interface {
	IncLoad(source, result string)
	SetCountries(n int)
}

// PromMetrics implements Metrics with Prometheus collectors:
//   - {namespace}_catalog_loads_total{source,result}
//   - {namespace}_catalog_countries
type PromMetrics struct {
	loads     *prometheus.CounterVec
	countries prometheus.Gauge
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return fmt.Errorf("register collector: %w", err)
	}
	return nil
}

func NewPromMetrics(reg prometheus.Registerer, namespace string) (*PromMetrics, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is nil")
	}
	pm := &PromMetrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "catalog",
			Name: "loads_total", Help: "Country catalog loads by source and result",
		}, []string{"source", "result"}),
		countries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "catalog",
			Name: "countries", Help: "Number of countries in the active directory",
		}),
	}
	for _, c := range []prometheus.Collector{pm.loads, pm.countries} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return pm, nil
}

func (p *PromMetrics) IncLoad(source, result string) {
	p.loads.WithLabelValues(source, result).Inc()
}

func (p *PromMetrics) SetCountries(n int) {
	p.countries.Set(float64(n))
}
