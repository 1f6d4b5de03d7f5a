package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/pricing"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
)

// CatalogUseCase listado del catálogo filtrado por rol y administración de ingredientes.
type CatalogUseCase struct {
	ingredients repository.IngredientRepository
	units       repository.UnitRepository
	roles       *RoleResolver
}

// NewCatalogUseCase construye el caso de uso del catálogo.
func NewCatalogUseCase(ingredients repository.IngredientRepository, units repository.UnitRepository, roles *RoleResolver) *CatalogUseCase {
	return &CatalogUseCase{ingredients: ingredients, units: units, roles: roles}
}

// ListIngredients lista el catálogo visible para la sesión: un administrador ve
// también los borrados; el resto solo los activos. Orden por nombre ascendente.
func (uc *CatalogUseCase) ListIngredients(ctx context.Context, s *entity.Session, search string) ([]*entity.Ingredient, error) {
	role := uc.roles.Resolve(ctx, s)
	list, err := uc.ingredients.List(ctx, repository.IngredientFilter{
		Search:         strings.TrimSpace(search),
		IncludeDeleted: role.IsAdmin(),
	})
	if err != nil {
		return nil, &domain.PersistenceError{Op: "listar ingredientes", Err: err}
	}
	return list, nil
}

// EligibleCatalog foto del catálogo cotizable para la sesión. Aplica la misma
// visibilidad que ListIngredients: un administrador también cotiza borrados.
func (uc *CatalogUseCase) EligibleCatalog(ctx context.Context, s *entity.Session) (*pricing.Catalog, error) {
	list, err := uc.ListIngredients(ctx, s, "")
	if err != nil {
		return nil, err
	}
	return pricing.NewCatalog(list), nil
}

// SetDeletedState borrado suave (true) o restauración (false). El llamador debe
// volver a listar para ver el cambio.
func (uc *CatalogUseCase) SetDeletedState(ctx context.Context, id string, deleted bool) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := uc.ingredients.SetDeleted(ctx, id, deleted); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return &domain.PersistenceError{Op: "actualizar borrado", Err: err}
	}
	return nil
}

// GetIngredient obtiene un ingrediente por ID.
func (uc *CatalogUseCase) GetIngredient(ctx context.Context, id string) (*entity.Ingredient, error) {
	ing, err := uc.ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	return ing, nil
}

// CreateIngredient alta de ingrediente activo.
func (uc *CatalogUseCase) CreateIngredient(ctx context.Context, in dto.CreateIngredientRequest) (*entity.Ingredient, error) {
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError(domain.ReasonNegativePrice)
	}
	now := time.Now()
	ing := &entity.Ingredient{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Price:     in.Price,
		UnitID:    in.UnitID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ing.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if err := uc.ingredients.Create(ctx, ing); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "crear ingrediente", Err: err}
	}
	return uc.GetIngredient(ctx, ing.ID)
}

// UpdateIngredient actualiza nombre, precio o unidad. Cotizaciones ya guardadas no cambian.
func (uc *CatalogUseCase) UpdateIngredient(ctx context.Context, id string, in dto.UpdateIngredientRequest) (*entity.Ingredient, error) {
	ing, err := uc.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
		}
		ing.Name = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidationError(domain.ReasonNegativePrice)
		}
		ing.Price = *in.Price
	}
	if in.UnitID != nil {
		ing.UnitID = *in.UnitID
	}
	ing.UpdatedAt = time.Now()
	if err := uc.ingredients.Update(ctx, ing); err != nil {
		return nil, &domain.PersistenceError{Op: "actualizar ingrediente", Err: err}
	}
	return uc.GetIngredient(ctx, id)
}

// ListUnits unidades de medida ordenadas por nombre.
func (uc *CatalogUseCase) ListUnits(ctx context.Context) ([]*entity.UnitOfMeasure, error) {
	list, err := uc.units.List(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "listar unidades", Err: err}
	}
	return list, nil
}
