package client

import (
	"context"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/internal/observability"
)

// registryPageSize is the upstream page size used when draining the registry.
const registryPageSize = 100

// RegistryClient fetches registry records from the CRM service.
type RegistryClient struct {
	http *httpClient
}

func NewRegistryClient(cfg Config, metrics *observability.Metrics, logger *zap.Logger) *RegistryClient {
	return &RegistryClient{
		http: newHTTPClient("crm", cfg, metrics, logger),
	}
}

type clientesPage struct {
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Data     []domain.Cliente `json:"data"`
}

// ListClientes drains the registry page by page at the largest page size the
// CRM accepts, forwarding q as its free-text filter.
func (c *RegistryClient) ListClientes(ctx context.Context, q string) ([]domain.Cliente, error) {
	var all []domain.Cliente
	for page := 1; ; page++ {
		args := fasthttp.AcquireArgs()
		args.Set("page", strconv.Itoa(page))
		args.Set("pageSize", strconv.Itoa(registryPageSize))
		if q != "" {
			args.Set("q", q)
		}

		var resp clientesPage
		err := c.http.getJSON(ctx, "/clientes", args, &resp)
		fasthttp.ReleaseArgs(args)
		if err != nil {
			return nil, err
		}

		all = append(all, resp.Data...)
		if len(resp.Data) == 0 || len(all) >= resp.Total {
			return all, nil
		}
	}
}
