package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/integraiot/plataforma/api/transport"
	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/pkg/httpcontext"
	registryUC "github.com/integraiot/plataforma/usecase/registry"
)

type RegistryHandler struct {
	baseHandler
	uc *registryUC.UseCase
}

func NewRegistryHandler(uc *registryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RegistryHandler {
	return &RegistryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// GetClientes lists registry records with search, location filter and
// pagination.
func (h *RegistryHandler) GetClientes(ctx *fasthttp.RequestCtx) {
	page, err := queryInt(ctx, "page", 1)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	pageSize, err := queryInt(ctx, "pageSize", 25)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	params := registryUC.ListParams{
		Q:           queryString(ctx, "q"),
		UbicacionID: queryString(ctx, "ubicacionId"),
		Page:        page,
		PageSize:    pageSize,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	data, total, err := h.uc.List(stdCtx, params)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if data == nil {
		data = []domain.Cliente{}
	}

	h.respondJSON(ctx, http.StatusOK, transport.ClientesPage{
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		Data:     data,
	})
}

// GetCliente returns a single record by id, or 404.
func (h *RegistryHandler) GetCliente(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	cliente, err := h.uc.GetByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, cliente)
}
