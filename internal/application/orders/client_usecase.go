package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
)

// ClientUseCase casos de uso de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create registra un cliente. domain.ErrDuplicate si el email ya existe.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	c := &entity.Client{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
	}
	if c.FirstName == "" || c.LastName == "" || c.Email == "" {
		return nil, domain.NewValidationError(domain.ReasonMissingClientData)
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "crear cliente", Err: err}
	}
	out := NewClientResponse(c)
	return &out, nil
}

// List clientes ordenados por apellido y nombre.
func (uc *ClientUseCase) List(ctx context.Context) ([]dto.ClientResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "listar clientes", Err: err}
	}
	out := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, NewClientResponse(c))
	}
	return out, nil
}

// NewClientResponse mapea la entidad a su salida HTTP.
func NewClientResponse(c *entity.Client) dto.ClientResponse {
	return dto.ClientResponse{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}
}
