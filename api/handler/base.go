package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/integraiot/plataforma/api/transport"
	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.ErrorResponse{Detail: err.Error()})
}

func (h baseHandler) respondInvalid(ctx *fasthttp.RequestCtx, detail string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Detail: detail})
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusBadGateway
	case domain.IsDomainError(err, domain.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// queryString returns the query parameter, or "" when absent.
func queryString(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// optionalQuery returns a pointer suitable for echoing the parameter back,
// nil when the parameter is absent.
func optionalQuery(ctx *fasthttp.RequestCtx, key string) *string {
	if !ctx.QueryArgs().Has(key) {
		return nil
	}
	value := string(ctx.QueryArgs().Peek(key))
	return &value
}

// queryInt parses an integer parameter, falling back when absent. A present
// but unparsable value is a client error.
func queryInt(ctx *fasthttp.RequestCtx, key string, fallback int) (int, error) {
	if !ctx.QueryArgs().Has(key) {
		return fallback, nil
	}
	value, err := strconv.Atoi(string(ctx.QueryArgs().Peek(key)))
	if err != nil {
		return 0, domain.Errorf(domain.ErrCodeInvalid, "'%s' debe ser un entero", key)
	}
	return value, nil
}
