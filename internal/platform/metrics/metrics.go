// Package metrics owns the process-wide Prometheus registry. Feature packages
// register their own collectors against it through NewWithRegisterer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the registry served on /metrics with the build info gauge.
type Registry struct {
	*prometheus.Registry
	BuildInfo *prometheus.GaugeVec
}

// NewRegistry creates a registry carrying the Go runtime and process collectors.
func NewRegistry(version, environment string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	buildInfo := promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "vaultguard_build_info",
		Help: "Build information, constant 1",
	}, []string{"version", "environment"})
	buildInfo.WithLabelValues(version, environment).Set(1)

	return &Registry{Registry: reg, BuildInfo: buildInfo}
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}
