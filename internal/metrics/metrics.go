package metrics

import "github.com/prometheus/client_golang/prometheus"

// WizardMetrics exposes counters for wizard navigation and booking storage.
type WizardMetrics struct {
	stepsShown     *prometheus.CounterVec
	gateFailures   *prometheus.CounterVec
	savesTotal     *prometheus.CounterVec
	loadsTotal     *prometheus.CounterVec
	discardedLists prometheus.Counter
}

// NewWizardMetrics registers the counters on reg, or on the default
// registerer when reg is nil.
func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	m := &WizardMetrics{
		stepsShown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym",
			Subsystem: "wizard",
			Name:      "steps_shown_total",
			Help:      "Times each wizard step became the active view",
		}, []string{"step"}),
		gateFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym",
			Subsystem: "wizard",
			Name:      "gate_failures_total",
			Help:      "Advance attempts blocked by missing required fields",
		}, []string{"step"}),
		savesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym",
			Subsystem: "bookings",
			Name:      "saves_total",
			Help:      "Booking save attempts by outcome",
		}, []string{"status"}),
		loadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym",
			Subsystem: "bookings",
			Name:      "loads_total",
			Help:      "Saved booking loads by result status",
		}, []string{"status"}),
		discardedLists: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gym",
			Subsystem: "bookings",
			Name:      "discarded_lists_total",
			Help:      "Unreadable stored booking lists replaced by a save",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.stepsShown, m.gateFailures, m.savesTotal, m.loadsTotal, m.discardedLists)
	return m
}

// ObserveStep counts a step becoming active.
func (m *WizardMetrics) ObserveStep(step string) {
	if m == nil {
		return
	}
	m.stepsShown.WithLabelValues(step).Inc()
}

// ObserveGateFailure counts an advance blocked on step.
func (m *WizardMetrics) ObserveGateFailure(step string) {
	if m == nil {
		return
	}
	m.gateFailures.WithLabelValues(step).Inc()
}

// ObserveSave counts a save attempt as ok or error.
func (m *WizardMetrics) ObserveSave(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.savesTotal.WithLabelValues(status).Inc()
}

// ObserveLoad counts a load by its result status.
func (m *WizardMetrics) ObserveLoad(status string) {
	if m == nil {
		return
	}
	m.loadsTotal.WithLabelValues(status).Inc()
}

// ObserveDiscardedList counts an unreadable list replaced by a save.
func (m *WizardMetrics) ObserveDiscardedList() {
	if m == nil {
		return
	}
	m.discardedLists.Inc()
}
