package pressroom

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eringen/pressroom/content"
)

// appMetrics are the domain counters exported on /metrics next to the
// HTTP metrics recorded by echoprometheus.
type appMetrics struct {
	views          *prometheus.CounterVec
	popularQueries prometheus.Counter
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newAppMetrics(reg prometheus.Registerer) *appMetrics {
	f := promauto.With(reg)
	return &appMetrics{
		views: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pressroom",
				Name:      "article_views_total",
				Help:      "Total number of counted article views",
			},
			[]string{"mode"},
		),
		popularQueries: f.NewCounter(prometheus.CounterOpts{
			Namespace: "pressroom",
			Name:      "popular_queries_total",
			Help:      "Total number of most-popular queries served",
		}),
	}
}

// viewHook returns a content.ViewHook counting views under mode.
func (m *appMetrics) viewHook(mode content.IncrementMode) content.ViewHook {
	counter := m.views.WithLabelValues(string(mode))
	return func(context.Context, *content.Article) {
		counter.Inc()
	}
}
