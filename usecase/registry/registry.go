package registry

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/internal/schema"
	"github.com/integraiot/plataforma/repository"
)

// ListParams carries the search, location and pagination filters for a
// registry listing.
type ListParams struct {
	Q           string
	UbicacionID string
	Page        int
	PageSize    int
}

// UseCase implements the registry search and pagination contract. Record
// validation runs in strict mode: one non-conforming record on the returned
// page fails the whole request instead of being skipped.
type UseCase struct {
	clientes repository.RegistryRepository
	schema   *schema.Validator
	logger   *zap.Logger
}

func New(clientes repository.RegistryRepository, validator *schema.Validator, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		clientes: clientes,
		schema:   validator,
		logger:   logger,
	}
}

// List filters by free text and location, counts the filtered set and slices
// out the requested page. An out-of-range page yields an empty page.
func (uc *UseCase) List(ctx context.Context, params ListParams) ([]domain.Cliente, int, error) {
	if params.Page < 1 {
		return nil, 0, domain.NewError(domain.ErrCodeInvalid, "'page' debe ser entero mayor o igual a 1")
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		return nil, 0, domain.NewError(domain.ErrCodeInvalid, "'pageSize' debe ser entero entre 1 y 100")
	}

	clientes, err := uc.clientes.ListClientes(ctx)
	if err != nil {
		return nil, 0, err
	}

	filtered := clientes
	if params.Q != "" {
		q := strings.ToLower(params.Q)
		tmp := make([]domain.Cliente, 0, len(filtered))
		for _, c := range filtered {
			if strings.Contains(strings.ToLower(c.Nombre), q) ||
				strings.Contains(strings.ToLower(c.CorreoElectronico), q) {
				tmp = append(tmp, c)
			}
		}
		filtered = tmp
	}
	if params.UbicacionID != "" {
		tmp := make([]domain.Cliente, 0, len(filtered))
		for _, c := range filtered {
			if c.Direccion == params.UbicacionID {
				tmp = append(tmp, c)
			}
		}
		filtered = tmp
	}

	total := len(filtered)

	start := (params.Page - 1) * params.PageSize
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}
	page := filtered[start:end]

	for _, c := range page {
		if err := uc.schema.Validate(c); err != nil {
			return nil, 0, domain.WrapError(domain.ErrCodeIntegrity, "objeto inválido según schema", err)
		}
	}

	return page, total, nil
}

// GetByID returns the single matching record or a not-found error. The record
// is schema-checked before leaving the service.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*domain.Cliente, error) {
	clientes, err := uc.clientes.ListClientes(ctx)
	if err != nil {
		return nil, err
	}

	for i := range clientes {
		if clientes[i].ID != id {
			continue
		}
		if err := uc.schema.Validate(clientes[i]); err != nil {
			return nil, domain.WrapError(domain.ErrCodeIntegrity, "objeto inválido según schema", err)
		}
		return &clientes[i], nil
	}
	return nil, domain.ErrClienteNotFound
}
