package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/integraiot/plataforma/api/transport"
	"github.com/integraiot/plataforma/internal/infrastructure/monitor"
	"github.com/integraiot/plataforma/pkg/httpcontext"
)

// Pinger reports whether a service's backing store is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers the data-file probe of the registry and sensor
// services.
type HealthHandler struct {
	baseHandler
	pinger Pinger
}

func NewHealthHandler(pinger Pinger, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		pinger:      pinger,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.pinger.Ping(stdCtx); err != nil {
		h.respondJSON(ctx, http.StatusServiceUnavailable, transport.ErrorResponse{Detail: err.Error()})
		return
	}
	h.respondJSON(ctx, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// UpstreamHealthHandler answers the aggregation service's health probe with
// the background monitor's view of both upstreams.
type UpstreamHealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewUpstreamHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *UpstreamHealthHandler {
	return &UpstreamHealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *UpstreamHealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"crm": status.CRM,
			"iot": status.IoT,
		},
	}

	if status.CRM && status.IoT {
		h.respondJSON(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, payload)
}
