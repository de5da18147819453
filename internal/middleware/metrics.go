package middleware

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/integraiot/plataforma/internal/observability"
)

// Metrics counts every handled request and its latency. Safe to install with
// a nil collector; it then passes requests straight through.
func Metrics(metrics *observability.Metrics) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)
			metrics.ObserveRequest(string(ctx.Path()), ctx.Response.StatusCode(), time.Since(start))
		}
	}
}
