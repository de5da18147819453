package sensor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/internal/schema"
	"github.com/integraiot/plataforma/repository"
)

// LecturasParams carries the reading filters. Empty string fields mean the
// filter is absent; Limit is mandatory and must lie in [1,1000].
type LecturasParams struct {
	SensorID    string
	UbicacionID string
	From        string
	To          string
	Limit       int
}

// UseCase implements the sensor filter and join engine. All filters are
// independent AND predicates applied in a fixed order: sensor id, location
// (via the reading→sensor join), lower bound, upper bound.
type UseCase struct {
	repo          repository.SensorRepository
	sensorSchema  *schema.Validator
	lecturaSchema *schema.Validator
	logger        *zap.Logger
}

func New(repo repository.SensorRepository, sensorSchema, lecturaSchema *schema.Validator, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		repo:          repo,
		sensorSchema:  sensorSchema,
		lecturaSchema: lecturaSchema,
		logger:        logger,
	}
}

// ListSensores returns the sensors matching both optional filters, exact and
// case-sensitive. Every returned sensor must conform to the sensor schema;
// the request fails closed otherwise.
func (uc *UseCase) ListSensores(ctx context.Context, tipo, ubicacionID string) ([]domain.Sensor, error) {
	sensores, err := uc.repo.ListSensores(ctx)
	if err != nil {
		return nil, err
	}

	results := sensores
	if tipo != "" {
		tmp := make([]domain.Sensor, 0, len(results))
		for _, s := range results {
			if s.Tipo == tipo {
				tmp = append(tmp, s)
			}
		}
		results = tmp
	}
	if ubicacionID != "" {
		tmp := make([]domain.Sensor, 0, len(results))
		for _, s := range results {
			if s.Ubicacion == ubicacionID {
				tmp = append(tmp, s)
			}
		}
		results = tmp
	}

	for _, s := range results {
		if err := uc.sensorSchema.Validate(s); err != nil {
			return nil, domain.WrapError(domain.ErrCodeIntegrity, "sensor no conforme al schema", err)
		}
	}
	return results, nil
}

// ListLecturas filters the reading series and truncates the result to Limit.
// The second return value is the size of the filtered set before truncation.
// Parameter problems surface before any row is scanned; a stored timestamp
// that fails to parse during range filtering is a data-integrity fault.
func (uc *UseCase) ListLecturas(ctx context.Context, params LecturasParams) ([]domain.Lectura, int, error) {
	if params.Limit < 1 || params.Limit > 1000 {
		return nil, 0, domain.NewError(domain.ErrCodeInvalid, "'limit' debe ser entero entre 1 y 1000")
	}

	var from, to time.Time
	var hasFrom, hasTo bool
	if params.From != "" {
		ts, err := domain.ParseISOTime(params.From)
		if err != nil {
			return nil, 0, domain.Errorf(domain.ErrCodeInvalid, "Fecha ISO inválida: %s", params.From)
		}
		from, hasFrom = ts, true
	}
	if params.To != "" {
		ts, err := domain.ParseISOTime(params.To)
		if err != nil {
			return nil, 0, domain.Errorf(domain.ErrCodeInvalid, "Fecha ISO inválida: %s", params.To)
		}
		to, hasTo = ts, true
	}
	if hasFrom && hasTo && from.After(to) {
		return nil, 0, domain.NewError(domain.ErrCodeInvalid, "'from' no puede ser mayor que 'to'")
	}

	lecturas, err := uc.repo.ListLecturas(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := lecturas
	if params.SensorID != "" {
		tmp := make([]domain.Lectura, 0, len(filtered))
		for _, l := range filtered {
			if l.IDSensor == params.SensorID {
				tmp = append(tmp, l)
			}
		}
		filtered = tmp
	}

	if params.UbicacionID != "" {
		sensores, err := uc.repo.ListSensores(ctx)
		if err != nil {
			return nil, 0, err
		}
		ubicaciones := make(map[string]string, len(sensores))
		for _, s := range sensores {
			if key := s.Key(); key != "" {
				ubicaciones[key] = s.Ubicacion
			}
		}
		// readings whose sensor is unknown drop out of the join
		tmp := make([]domain.Lectura, 0, len(filtered))
		for _, l := range filtered {
			if ubicacion, ok := ubicaciones[l.IDSensor]; ok && ubicacion == params.UbicacionID {
				tmp = append(tmp, l)
			}
		}
		filtered = tmp
	}

	if hasFrom {
		tmp := make([]domain.Lectura, 0, len(filtered))
		for _, l := range filtered {
			ts, err := domain.ParseISOTime(l.Timestamp)
			if err != nil {
				return nil, 0, domain.Errorf(domain.ErrCodeIntegrity, "Timestamp inválido en lectura %s", l.IDLectura)
			}
			if !ts.Before(from) {
				tmp = append(tmp, l)
			}
		}
		filtered = tmp
	}
	if hasTo {
		tmp := make([]domain.Lectura, 0, len(filtered))
		for _, l := range filtered {
			ts, err := domain.ParseISOTime(l.Timestamp)
			if err != nil {
				return nil, 0, domain.Errorf(domain.ErrCodeIntegrity, "Timestamp inválido en lectura %s", l.IDLectura)
			}
			if !ts.After(to) {
				tmp = append(tmp, l)
			}
		}
		filtered = tmp
	}

	total := len(filtered)
	results := filtered
	if len(results) > params.Limit {
		results = results[:params.Limit]
	}

	for _, l := range results {
		if err := uc.lecturaSchema.Validate(l); err != nil {
			return nil, 0, domain.WrapError(domain.ErrCodeIntegrity, "lectura no conforme al schema", err)
		}
	}
	return results, total, nil
}
