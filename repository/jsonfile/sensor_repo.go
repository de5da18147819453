package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/integraiot/plataforma/domain"
)

// SensorRepository serves sensor metadata and the reading series from two
// static JSON documents, parsed once and shared read-only.
type SensorRepository struct {
	sensoresPath string
	lecturasPath string

	once     sync.Once
	sensores []domain.Sensor
	lecturas []domain.Lectura
	err      error
}

// NewSensorRepository binds the repository to its backing files.
func NewSensorRepository(sensoresPath, lecturasPath string) *SensorRepository {
	return &SensorRepository{
		sensoresPath: sensoresPath,
		lecturasPath: lecturasPath,
	}
}

func (r *SensorRepository) load() {
	raw, err := os.ReadFile(r.sensoresPath)
	if err != nil {
		r.err = err
		return
	}
	if r.err = json.Unmarshal(raw, &r.sensores); r.err != nil {
		return
	}

	raw, err = os.ReadFile(r.lecturasPath)
	if err != nil {
		r.err = err
		return
	}
	r.err = json.Unmarshal(raw, &r.lecturas)
}

// ListSensores returns every sensor record in insertion order.
func (r *SensorRepository) ListSensores(ctx context.Context) ([]domain.Sensor, error) {
	r.once.Do(r.load)
	if r.err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "error leyendo datos de sensores", r.err)
	}
	return r.sensores, nil
}

// ListLecturas returns every reading in insertion order.
func (r *SensorRepository) ListLecturas(ctx context.Context) ([]domain.Lectura, error) {
	r.once.Do(r.load)
	if r.err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "error leyendo datos de lecturas", r.err)
	}
	return r.lecturas, nil
}

// Ping reports whether the backing files are readable.
func (r *SensorRepository) Ping(ctx context.Context) error {
	_, err := r.ListSensores(ctx)
	return err
}
