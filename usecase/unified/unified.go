package unified

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/internal/schema"
)

// maxLecturas caps every upstream readings fetch at the sensor service's own
// per-request ceiling.
const maxLecturas = 1000

// RegistryClient fetches the full registry from the CRM service, forwarding q
// as its free-text filter.
type RegistryClient interface {
	ListClientes(ctx context.Context, q string) ([]domain.Cliente, error)
}

// SensorClient fetches sensors and readings from the IoT service.
type SensorClient interface {
	ListSensores(ctx context.Context) ([]domain.Sensor, error)
	ListLecturas(ctx context.Context, sensorID string, limit int) ([]domain.Lectura, error)
}

// UseCase composes registry and sensor views into tagged envelopes. Every
// envelope passes through the unified schema gate before it is handed back;
// a violation there is fatal to the request.
type UseCase struct {
	registry RegistryClient
	sensors  SensorClient
	gate     *schema.Validator
	logger   *zap.Logger
}

func New(registry RegistryClient, sensors SensorClient, gate *schema.Validator, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		registry: registry,
		sensors:  sensors,
		gate:     gate,
		logger:   logger,
	}
}

// seal is the single validation gate: no envelope leaves the service without
// conforming to the unified schema for its type tag.
func (uc *UseCase) seal(env domain.Envelope) (domain.Envelope, error) {
	if err := uc.gate.Validate(env); err != nil {
		return domain.Envelope{}, domain.WrapError(domain.ErrCodeContract, "respuesta no conforme al schema unificado", err)
	}
	return env, nil
}

// Resumen builds the bulk sensor summary. Both the sensor listing and each
// per-sensor readings fetch are supplementary: a failure degrades its
// contribution to an empty list instead of failing the request.
func (uc *UseCase) Resumen(ctx context.Context) (domain.Envelope, error) {
	sensores, err := uc.sensors.ListSensores(ctx)
	if err != nil {
		uc.logger.Warn("listado de sensores degradado a vacío", zap.Error(err))
		sensores = nil
	}

	items := make([]domain.SensorConLecturas, len(sensores))
	var wg sync.WaitGroup
	for i, s := range sensores {
		wg.Add(1)
		go func(i int, s domain.Sensor) {
			defer wg.Done()
			item := domain.SensorConLecturas{Sensor: s, Lecturas: []domain.Lectura{}}
			if id := s.Key(); id != "" {
				lecturas, err := uc.sensors.ListLecturas(ctx, id, maxLecturas)
				if err != nil {
					uc.logger.Warn("lecturas degradadas a vacío",
						zap.String("sensor_id", id), zap.Error(err))
				} else {
					item.Lecturas = lecturas
				}
			}
			items[i] = item
		}(i, s)
	}
	wg.Wait()

	return uc.seal(domain.NewResumen(items))
}

// ResumenSensor builds the per-sensor summary. Unlike Resumen, the upstream
// calls here are mandatory: their failure propagates, and an unknown sensor id
// is a not-found error rather than an empty result. q bounds the number of
// readings returned, most recent first.
func (uc *UseCase) ResumenSensor(ctx context.Context, sensorID string, q int) (domain.Envelope, error) {
	if q < 1 || q > 100 {
		return domain.Envelope{}, domain.NewError(domain.ErrCodeInvalid, "'q' debe ser entero entre 1 y 100")
	}

	sensores, err := uc.sensors.ListSensores(ctx)
	if err != nil {
		return domain.Envelope{}, err
	}

	var sensor *domain.Sensor
	for i := range sensores {
		if sensores[i].Key() == sensorID {
			sensor = &sensores[i]
			break
		}
	}
	if sensor == nil {
		return domain.Envelope{}, domain.Errorf(domain.ErrCodeNotFound, "Sensor '%s' no encontrado", sensorID)
	}

	lecturas, err := uc.sensors.ListLecturas(ctx, sensorID, maxLecturas)
	if err != nil {
		return domain.Envelope{}, err
	}

	lecturas = sortLecturasDesc(lecturas)
	if len(lecturas) > q {
		lecturas = lecturas[:q]
	}
	return uc.seal(domain.NewResumenSensor(*sensor, lecturas))
}

// sortLecturasDesc orders readings most recent first. If any stored timestamp
// fails to parse the input is returned untouched: an unsorted summary beats an
// aborted one here.
func sortLecturasDesc(lecturas []domain.Lectura) []domain.Lectura {
	type keyed struct {
		lectura domain.Lectura
		ts      time.Time
	}
	entries := make([]keyed, len(lecturas))
	for i, l := range lecturas {
		ts, err := domain.ParseISOTime(l.Timestamp)
		if err != nil {
			return lecturas
		}
		entries[i] = keyed{lectura: l, ts: ts}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ts.After(entries[j].ts)
	})
	sorted := make([]domain.Lectura, len(entries))
	for i, e := range entries {
		sorted[i] = e.lectura
	}
	return sorted
}

// Clientes lists registry records tagged cliente, narrowed to name and email.
// q is forwarded upstream as the registry's free-text filter.
func (uc *UseCase) Clientes(ctx context.Context, q string) (domain.Envelope, error) {
	items, err := uc.listResumen(ctx, q, domain.TipoCliente)
	if err != nil {
		return domain.Envelope{}, err
	}
	return uc.seal(domain.NewClientes(items))
}

// Proveedores lists registry records tagged proveedor, narrowed to name and
// email.
func (uc *UseCase) Proveedores(ctx context.Context) (domain.Envelope, error) {
	items, err := uc.listResumen(ctx, "", domain.TipoProveedor)
	if err != nil {
		return domain.Envelope{}, err
	}
	return uc.seal(domain.NewProveedores(items))
}

func (uc *UseCase) listResumen(ctx context.Context, q, tipo string) ([]domain.ClienteResumen, error) {
	clientes, err := uc.registry.ListClientes(ctx, q)
	if err != nil {
		return nil, prefixCRM(err)
	}

	items := make([]domain.ClienteResumen, 0, len(clientes))
	for _, c := range clientes {
		if !c.EsTipo(tipo) {
			continue
		}
		items = append(items, domain.ClienteResumen{
			Nombre:            c.Nombre,
			CorreoElectronico: c.CorreoElectronico,
		})
	}
	return items, nil
}

// ClienteDetalle resolves a registry record by case-insensitive exact name
// match; the first match wins.
func (uc *UseCase) ClienteDetalle(ctx context.Context, nombre string) (domain.Envelope, error) {
	clientes, err := uc.registry.ListClientes(ctx, "")
	if err != nil {
		return domain.Envelope{}, prefixCRM(err)
	}

	for _, c := range clientes {
		if c.MatchesNombre(nombre) {
			return uc.seal(domain.NewClienteDetalle(c))
		}
	}
	return domain.Envelope{}, domain.Errorf(domain.ErrCodeNotFound, "Cliente '%s' no encontrado", nombre)
}

// ProveedorDetalle resolves a provider by name and enriches it with the
// sensors listed in its transacciones_detalladas back-reference. Resolving the
// provider is mandatory; the sensor fetch is enrichment and degrades to an
// empty association list when the IoT service is unreachable.
func (uc *UseCase) ProveedorDetalle(ctx context.Context, nombre string) (domain.Envelope, error) {
	clientes, err := uc.registry.ListClientes(ctx, "")
	if err != nil {
		return domain.Envelope{}, prefixCRM(err)
	}

	var proveedor *domain.Cliente
	for i := range clientes {
		if clientes[i].EsTipo(domain.TipoProveedor) && clientes[i].MatchesNombre(nombre) {
			proveedor = &clientes[i]
			break
		}
	}
	if proveedor == nil {
		return domain.Envelope{}, domain.Errorf(domain.ErrCodeNotFound, "Proveedor '%s' no encontrado", nombre)
	}

	var asociados []domain.Sensor
	sensores, err := uc.sensors.ListSensores(ctx)
	if err != nil {
		uc.logger.Warn("sensores asociados degradados a vacío",
			zap.String("proveedor", proveedor.Nombre), zap.Error(err))
	} else {
		ids := make(map[string]struct{}, len(proveedor.TransaccionesDetalladas))
		for _, id := range proveedor.TransaccionesDetalladas {
			ids[id] = struct{}{}
		}
		for _, s := range sensores {
			if _, ok := ids[s.Key()]; ok {
				asociados = append(asociados, s)
			}
		}
	}

	return uc.seal(domain.NewProveedorDetalle(*proveedor, asociados))
}

// prefixCRM keeps the upstream classification while naming the failing side,
// the way the unified API reports registry trouble.
func prefixCRM(err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return domain.Errorf(dErr.Code, "CRM error: %s", dErr.Message)
	}
	return domain.WrapError(domain.ErrCodeUnavailable, "CRM error", err)
}
