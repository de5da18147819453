package client

import (
	"context"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/internal/observability"
)

// SensorClient fetches sensors and readings from the IoT service.
type SensorClient struct {
	http *httpClient
}

func NewSensorClient(cfg Config, metrics *observability.Metrics, logger *zap.Logger) *SensorClient {
	return &SensorClient{
		http: newHTTPClient("iot", cfg, metrics, logger),
	}
}

type sensoresResponse struct {
	Sensores []domain.Sensor `json:"sensores"`
}

type lecturasResponse struct {
	Lecturas []domain.Lectura `json:"lecturas"`
}

// ListSensores returns every sensor known to the IoT service.
func (c *SensorClient) ListSensores(ctx context.Context) ([]domain.Sensor, error) {
	var resp sensoresResponse
	if err := c.http.getJSON(ctx, "/sensores", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sensores, nil
}

// ListLecturas returns up to limit readings for one sensor.
func (c *SensorClient) ListLecturas(ctx context.Context, sensorID string, limit int) ([]domain.Lectura, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Set("sensorId", sensorID)
	args.Set("limit", strconv.Itoa(limit))

	var resp lecturasResponse
	if err := c.http.getJSON(ctx, "/lecturas", args, &resp); err != nil {
		return nil, err
	}
	return resp.Lecturas, nil
}
