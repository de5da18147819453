package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/integraiot/plataforma/domain"
)

// RegistryRepository serves registry records from a static JSON document.
// The file is parsed once and the decoded slice is shared by every request;
// it is never mutated after load.
type RegistryRepository struct {
	path string

	once     sync.Once
	clientes []domain.Cliente
	err      error
}

// NewRegistryRepository binds the repository to its backing file. The file is
// not touched until the first read.
func NewRegistryRepository(path string) *RegistryRepository {
	return &RegistryRepository{path: path}
}

func (r *RegistryRepository) load() {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		r.err = err
		return
	}
	r.err = json.Unmarshal(raw, &r.clientes)
}

// ListClientes returns every stored record in insertion order.
func (r *RegistryRepository) ListClientes(ctx context.Context) ([]domain.Cliente, error) {
	r.once.Do(r.load)
	if r.err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "error leyendo datos de clientes", r.err)
	}
	return r.clientes, nil
}

// Ping reports whether the backing file is readable.
func (r *RegistryRepository) Ping(ctx context.Context) error {
	_, err := r.ListClientes(ctx)
	return err
}
