package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine holds the prometheus counters for selection and tracking
// outcomes. The late-exhaustion counters make budget races visible: a
// steadily climbing impressions_rejected means selection keeps racing the
// recorder over the same near-empty budgets.
type Engine struct {
	SelectionsServed    prometheus.Counter
	SelectionsNoFill    prometheus.Counter
	ImpressionsAccepted prometheus.Counter
	ImpressionsRejected prometheus.Counter
	ClicksAccepted      prometheus.Counter
	ClicksRejected      prometheus.Counter
	OrphanClicks        prometheus.Counter
	Conversions         prometheus.Counter
}

// New registers the engine counters on reg.
func New(reg prometheus.Registerer) *Engine {
	f := promauto.With(reg)
	return &Engine{
		SelectionsServed: f.NewCounter(prometheus.CounterOpts{
			Name: "ads_selections_served_total",
			Help: "Slot requests answered with a creative.",
		}),
		SelectionsNoFill: f.NewCounter(prometheus.CounterOpts{
			Name: "ads_selections_nofill_total",
			Help: "Slot requests with no eligible advertisement.",
		}),
		ImpressionsAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "ads_impressions_accepted_total",
			Help: "Impression events recorded within budget.",
		}),
		ImpressionsRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "ads_impressions_rejected_total",
			Help: "Impression events refused at write time (budget just exhausted).",
		}),
		ClicksAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "ads_clicks_accepted_total",
			Help: "Click events recorded within budget.",
		}),
		ClicksRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "ads_clicks_rejected_total",
			Help: "Click events refused (budget exhausted or duplicate).",
		}),
		OrphanClicks: f.NewCounter(prometheus.CounterOpts{
			Name: "ads_clicks_orphan_total",
			Help: "Clicks without a matching impression, rejected as integrity violations.",
		}),
		Conversions: f.NewCounter(prometheus.CounterOpts{
			Name: "ads_conversions_total",
			Help: "Conversion events recorded.",
		}),
	}
}
