package metrics

import (
	"context"
	"strconv"
	"time"

	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
)

// result labels an outcome by its error code, "ok" on success.
func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := lgerrors.GetCode(err); code != "" {
		return string(code)
	}
	return string(lgerrors.ErrCodeInternal)
}

func (r *Registry) OnReconcileStart(context.Context, int) {}

func (r *Registry) OnReconcileComplete(_ context.Context, edges int, d time.Duration, err error) {
	r.ReconcileTotal.WithLabelValues(result(err)).Inc()
	r.ReconcileDuration.Observe(d.Seconds())
	if err == nil {
		r.ReconciledEdges.Observe(float64(edges))
	}
}

func (r *Registry) OnRenderStart(context.Context, string) {}

func (r *Registry) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	r.RenderTotal.WithLabelValues(format, result(err)).Inc()
	r.RenderDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		r.RenderSizeBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWritesBytes.WithLabelValues(keyType).Add(float64(size))
}

func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
