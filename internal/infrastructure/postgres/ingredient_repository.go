package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/internal/domain/repository"
)

var (
	_ repository.IngredientRepository = (*IngredientRepo)(nil)
	_ repository.UnitRepository       = (*UnitRepo)(nil)
)

const ingredientColumns = `
	i.ing_id, i.ing_nombre, i.ing_precio, COALESCE(i.unmed_id, 0), COALESCE(u.unmed_nombre, 'N/A'),
	i.is_deleted, i.created_at, i.updated_at`

// IngredientRepo implementación del puerto IngredientRepository sobre PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

// Create persiste un nuevo ingrediente.
func (r *IngredientRepo) Create(ctx context.Context, ing *entity.Ingredient) error {
	query := `
		INSERT INTO ingredientes (ing_id, ing_nombre, ing_precio, unmed_id, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, 0), $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		ing.ID, ing.Name, ing.Price, ing.UnitID, ing.IsDeleted, ing.CreatedAt, ing.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ingrediente: %w", err)
	}
	return nil
}

// GetByID obtiene un ingrediente por ID, incluidos los borrados.
func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + `
		FROM ingredientes i
		LEFT JOIN unidad_medida u ON u.unmed_id = i.unmed_id
		WHERE i.ing_id = $1`
	ing, err := scanIngredient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingrediente: %w", err)
	}
	return ing, nil
}

// Update actualiza nombre, precio y unidad.
func (r *IngredientRepo) Update(ctx context.Context, ing *entity.Ingredient) error {
	query := `
		UPDATE ingredientes SET ing_nombre = $2, ing_precio = $3, unmed_id = NULLIF($4, 0), updated_at = $5
		WHERE ing_id = $1`
	tag, err := r.q.Exec(ctx, query, ing.ID, ing.Name, ing.Price, ing.UnitID, ing.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update ingrediente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List búsqueda por subcadena sin distinguir mayúsculas. El orden por nombre usa
// la intercalación "C" (byte a byte), igual en cualquier locale del servidor.
func (r *IngredientRepo) List(ctx context.Context, f repository.IngredientFilter) ([]*entity.Ingredient, error) {
	var (
		where []string
		args  []any
	)
	if !f.IncludeDeleted {
		where = append(where, "i.is_deleted = FALSE")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		where = append(where, fmt.Sprintf("i.ing_nombre ILIKE $%d", len(args)))
	}
	query := `SELECT ` + ingredientColumns + `
		FROM ingredientes i
		LEFT JOIN unidad_medida u ON u.unmed_id = i.unmed_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY i.ing_nombre COLLATE \"C\" ASC, i.ing_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ingredientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingrediente: %w", err)
		}
		list = append(list, ing)
	}
	return list, rows.Err()
}

// SetDeleted borrado suave o restauración. domain.ErrNotFound si no existe.
func (r *IngredientRepo) SetDeleted(ctx context.Context, id string, deleted bool) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE ingredientes SET is_deleted = $2, updated_at = now() WHERE ing_id = $1`, id, deleted)
	if err != nil {
		return fmt.Errorf("set is_deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanIngredient(row pgx.Row) (*entity.Ingredient, error) {
	var i entity.Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.Price, &i.UnitID, &i.UnitName, &i.IsDeleted, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// escapeLike escapa los comodines de LIKE para buscar el texto literal.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// UnitRepo unidades de medida.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// List unidades ordenadas por nombre.
func (r *UnitRepo) List(ctx context.Context) ([]*entity.UnitOfMeasure, error) {
	rows, err := r.q.Query(ctx, `SELECT unmed_id, unmed_nombre FROM unidad_medida ORDER BY unmed_nombre`)
	if err != nil {
		return nil, fmt.Errorf("list unidades: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitOfMeasure
	for rows.Next() {
		var u entity.UnitOfMeasure
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan unidad: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
