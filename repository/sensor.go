package repository

import (
	"context"

	"github.com/integraiot/plataforma/domain"
)

// SensorRepository exposes the read-only sensor metadata and reading series.
type SensorRepository interface {
	ListSensores(ctx context.Context) ([]domain.Sensor, error)
	ListLecturas(ctx context.Context) ([]domain.Lectura, error)
	Ping(ctx context.Context) error
}
