package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/guidebot/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by session lifecycle hooks.
type Metrics struct {
	Messages        *prometheus.CounterVec
	Classifications *prometheus.CounterVec
	Navigations     *prometheus.CounterVec
	Sessions        prometheus.Counter
	Pacing          prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidebot_messages_total",
				Help: "Transcript entries appended, by sender and source",
			},
			[]string{"sender", "source"},
		),
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidebot_classifications_total",
				Help: "Free-text inputs classified, by matching rule and target node",
			},
			[]string{"rule", "target"},
		),
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidebot_link_follows_total",
				Help: "Links followed, by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "guidebot_sessions_closed_total",
			Help: "Chat sessions closed",
		}),
		Pacing: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "guidebot_composing_seconds",
			Help:    "Time spent showing the typing indicator per burst of replies",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		gatherer: reg,
	}
	for _, c := range []prometheus.Collector{m.Messages, m.Classifications, m.Navigations, m.Sessions, m.Pacing} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	message := func(_ context.Context, e *domain.MessageEvent) {
		m.Messages.WithLabelValues(string(e.Entry.Sender), e.Source).Inc()
	}
	return domain.LifecycleHooks{
		OnUserMessage: message,
		OnBotMessage:  message,
		OnClassified: func(_ context.Context, e *domain.ClassifiedEvent) {
			m.Classifications.WithLabelValues(e.Rule, e.Target).Inc()
		},
		OnComposing: func(_ context.Context, e *domain.ComposingEvent) {
			if !e.Active {
				m.Pacing.Observe(e.Delay.Seconds())
			}
		},
		OnNavigate: func(_ context.Context, e *domain.NavigateEvent) {
			kind, outcome := "internal", "ok"
			if e.Link.External {
				kind = "external"
			}
			if e.Err != nil {
				outcome = "error"
			}
			m.Navigations.WithLabelValues(kind, outcome).Inc()
		},
		OnClose: func(context.Context, *domain.EventBase) {
			m.Sessions.Inc()
		},
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
