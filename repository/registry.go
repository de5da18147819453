package repository

import (
	"context"

	"github.com/integraiot/plataforma/domain"
)

// RegistryRepository exposes the read-only customer/provider store.
type RegistryRepository interface {
	ListClientes(ctx context.Context) ([]domain.Cliente, error)
	Ping(ctx context.Context) error
}
