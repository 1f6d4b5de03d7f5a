package repository

import (
	"context"

	"github.com/jhoicas/sippa-api/internal/domain/entity"
)

// IngredientFilter criterios de listado del catálogo.
// Search filtra por subcadena del nombre sin distinguir mayúsculas; IncludeDeleted
// incluye filas con borrado suave.
type IngredientFilter struct {
	Search         string
	IncludeDeleted bool
}

// IngredientRepository define el puerto de persistencia para Ingredient.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
	Update(ctx context.Context, ingredient *entity.Ingredient) error
	// List devuelve los ingredientes ordenados por nombre ascendente.
	List(ctx context.Context, filter IngredientFilter) ([]*entity.Ingredient, error)
	SetDeleted(ctx context.Context, id string, deleted bool) error
}

// UnitRepository unidades de medida.
type UnitRepository interface {
	List(ctx context.Context) ([]*entity.UnitOfMeasure, error)
}
