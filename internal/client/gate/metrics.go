package gate

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts attempt results. A nil *Metrics records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "senselib",
		Subsystem: "gate",
		Name:      "outcomes_total",
		Help:      "Download attempts by result.",
	}, []string{"result"})

	if err := reg.Register(outcomes); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		outcomes = existing
	}
	return &Metrics{outcomes: outcomes}, nil
}

func (m *Metrics) record(r Result) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(string(r)).Inc()
}
