package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/internal/observability"
)

// Config describes one upstream service endpoint.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// httpClient is the shared fasthttp plumbing for upstream calls. Every call
// honors the configured timeout; a timeout and a connection failure map to
// distinct error codes so handlers can answer 504 versus 502.
type httpClient struct {
	name    string
	base    string
	timeout time.Duration
	client  *fasthttp.Client
	metrics *observability.Metrics
	logger  *zap.Logger
}

func newHTTPClient(name string, cfg Config, metrics *observability.Metrics, logger *zap.Logger) *httpClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &httpClient{
		name:    name,
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		client:  &fasthttp.Client{},
		metrics: metrics,
		logger:  logger,
	}
}

func (c *httpClient) getJSON(ctx context.Context, path string, args *fasthttp.Args, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return domain.WrapError(domain.ErrCodeTimeout, fmt.Sprintf("timeout contactando %s", c.name), err)
	}

	uri := c.base + path
	if args != nil && args.Len() > 0 {
		uri += "?" + args.String()
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		c.metrics.UpstreamFailure(c.name)
		if errors.Is(err, fasthttp.ErrTimeout) {
			return domain.WrapError(domain.ErrCodeTimeout, fmt.Sprintf("timeout contactando %s", uri), err)
		}
		return domain.WrapError(domain.ErrCodeUnavailable, fmt.Sprintf("error contactando %s", uri), err)
	}

	if status := resp.StatusCode(); status >= http.StatusBadRequest {
		c.metrics.UpstreamFailure(c.name)
		return c.statusError(status, uri, resp.Body())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		c.metrics.UpstreamFailure(c.name)
		return domain.WrapError(domain.ErrCodeUnavailable, fmt.Sprintf("respuesta inválida de %s", uri), err)
	}
	return nil
}

func (c *httpClient) statusError(status int, uri string, body []byte) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)
	message := payload.Detail
	if message == "" {
		message = fmt.Sprintf("estado %d de %s", status, uri)
	}

	code := domain.ErrCodeUnavailable
	switch {
	case status == http.StatusNotFound:
		code = domain.ErrCodeNotFound
	case status == http.StatusGatewayTimeout:
		code = domain.ErrCodeTimeout
	case status >= http.StatusInternalServerError:
		code = domain.ErrCodeUnavailable
	default:
		code = domain.ErrCodeInvalid
	}
	return domain.NewError(code, message)
}
