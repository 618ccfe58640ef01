package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/gestor-inventario/internal/application/inventory"
)

// Recorder publica en Prometheus las llamadas al almacén remoto y los resultados de importación.
// Implementa inventory.Observer.
type Recorder struct {
	RemoteCallsTotal   *prometheus.CounterVec
	RemoteCallDuration *prometheus.HistogramVec
	ImportedTotal      prometheus.Counter
	ImportFailedTotal  *prometheus.CounterVec
}

// New registra las métricas en reg con el prefijo indicado.
func New(reg prometheus.Registerer, prefix string) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		RemoteCallsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_remote_calls_total",
				Help: "Total de llamadas al almacén remoto",
			},
			[]string{"op", "status"},
		),
		RemoteCallDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_remote_call_duration_seconds",
				Help:    "Duración de las llamadas al almacén remoto en segundos",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		ImportedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_import_records_total",
				Help: "Total de ítems importados con éxito",
			},
		),
		ImportFailedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_import_failures_total",
				Help: "Total de ítems de importación rechazados",
			},
			[]string{"reason"},
		),
	}
}

func (r *Recorder) ObserveRemoteCall(op string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.RemoteCallsTotal.WithLabelValues(op, status).Inc()
	r.RemoteCallDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveImport(report inventory.ImportReport) {
	r.ImportedTotal.Add(float64(report.Imported))
	for _, f := range report.Failures {
		reason := "invalid"
		if f.IsRemoteFailure() {
			reason = "remote"
		}
		r.ImportFailedTotal.WithLabelValues(reason).Inc()
	}
}

var _ inventory.Observer = (*Recorder)(nil)
