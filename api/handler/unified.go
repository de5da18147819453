package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/integraiot/plataforma/pkg/httpcontext"
	unifiedUC "github.com/integraiot/plataforma/usecase/unified"
)

type UnifiedHandler struct {
	baseHandler
	uc *unifiedUC.UseCase
}

func NewUnifiedHandler(uc *unifiedUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UnifiedHandler {
	return &UnifiedHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Resumen returns the bulk sensor summary.
func (h *UnifiedHandler) Resumen(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	env, err := h.uc.Resumen(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, env)
}

// ResumenSensor returns the per-sensor summary, most recent readings first.
func (h *UnifiedHandler) ResumenSensor(ctx *fasthttp.RequestCtx) {
	sensorID, _ := ctx.UserValue("sensorId").(string)
	q, err := queryInt(ctx, "q", 10)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	env, err := h.uc.ResumenSensor(stdCtx, sensorID, q)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, env)
}

// Clientes lists the registry records tagged cliente.
func (h *UnifiedHandler) Clientes(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	env, err := h.uc.Clientes(stdCtx, queryString(ctx, "q"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, env)
}

// Proveedores lists the registry records tagged proveedor.
func (h *UnifiedHandler) Proveedores(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	env, err := h.uc.Proveedores(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, env)
}

// ClienteDetalle resolves one record by name.
func (h *UnifiedHandler) ClienteDetalle(ctx *fasthttp.RequestCtx) {
	nombre, _ := ctx.UserValue("nombre").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	env, err := h.uc.ClienteDetalle(stdCtx, nombre)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, env)
}

// ProveedorDetalle resolves one provider by name with its associated sensors.
func (h *UnifiedHandler) ProveedorDetalle(ctx *fasthttp.RequestCtx) {
	nombre, _ := ctx.UserValue("nombre").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	env, err := h.uc.ProveedorDetalle(stdCtx, nombre)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, env)
}
