package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/integraiot/plataforma/api/handler"
)

// Middleware wraps a fasthttp handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func wrap(h fasthttp.RequestHandler, mw Middleware) fasthttp.RequestHandler {
	if mw == nil {
		return h
	}
	return mw(h)
}

type RegistryHandlers struct {
	Registry *apiHandler.RegistryHandler
	Health   *apiHandler.HealthHandler
}

// NewRegistry wires the CRM service routes.
func NewRegistry(handlers RegistryHandlers, mw Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/clientes", wrap(handlers.Registry.GetClientes, mw))
	r.GET("/clientes/{id}", wrap(handlers.Registry.GetCliente, mw))

	return r
}

type SensorHandlers struct {
	Sensor *apiHandler.SensorHandler
	Health *apiHandler.HealthHandler
}

// NewSensor wires the IoT service routes.
func NewSensor(handlers SensorHandlers, mw Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/sensores", wrap(handlers.Sensor.GetSensores, mw))
	r.GET("/lecturas", wrap(handlers.Sensor.GetLecturas, mw))

	return r
}

type UnifiedHandlers struct {
	Unified *apiHandler.UnifiedHandler
	Health  *apiHandler.UpstreamHealthHandler
}

// NewUnified wires the aggregation service routes.
func NewUnified(handlers UnifiedHandlers, mw Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/resumen", wrap(handlers.Unified.Resumen, mw))
	r.GET("/resumen/{sensorId}", wrap(handlers.Unified.ResumenSensor, mw))
	r.GET("/clientes", wrap(handlers.Unified.Clientes, mw))
	r.GET("/proveedores", wrap(handlers.Unified.Proveedores, mw))
	r.GET("/clientes/detalles/{nombre}", wrap(handlers.Unified.ClienteDetalle, mw))
	r.GET("/proveedores/detalles/{nombre}", wrap(handlers.Unified.ProveedorDetalle, mw))

	return r
}
