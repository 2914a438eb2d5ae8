package annotationsrv

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/errx"
	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/prometheus/client_golang/prometheus"
)

const sessionCountTimeout = 2 * time.Second

// Metrics are the editor service's prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations   *prometheus.CounterVec
	saves        *prometheus.CounterVec
	openSessions prometheus.GaugeFunc
}

// NewMetrics registers the editor collectors. The open sessions gauge is read from
// sessions at scrape time, so sessions that expire drop out of it.
func NewMetrics(reg prometheus.Registerer, sessions annotation.SessionStore) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobtrack",
			Subsystem: "annotation_editor",
			Name:      "operations_total",
			Help:      "Editor operations by name and outcome.",
		}, []string{"op", "outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jobtrack",
			Subsystem: "annotation_editor",
			Name:      "saves_total",
			Help:      "Annotation saves by outcome.",
		}, []string{"outcome"}),
		openSessions: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "jobtrack",
			Subsystem: "annotation_editor",
			Name:      "open_sessions",
			Help:      "Live editor sessions in the session store.",
		}, func() float64 { return countSessions(sessions) }),
	}
	reg.MustRegister(m.operations, m.saves, m.openSessions)
	return m
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := errx.As(err); ok {
		return strings.ToLower(string(e.Type))
	}
	return "error"
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) observeSave(err error) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(outcome(err)).Inc()
}

func countSessions(sessions annotation.SessionStore) float64 {
	ctx, cancel := context.WithTimeout(context.Background(), sessionCountTimeout)
	defer cancel()

	n, err := sessions.Count(ctx)
	if err != nil {
		logx.Warnf("Failed to count annotation sessions: %v", err)
		return math.NaN()
	}
	return float64(n)
}
