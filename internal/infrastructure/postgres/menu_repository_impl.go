package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
)

type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

const menuColumns = `id, name, price::float8, image_url, description, calories, protein, rating::float8,
	type, coalesce(category_id, ''), created_at`

// List filters by category and a case-insensitive name match. It is the
// fallback path when no search index is available.
func (r *MenuRepository) List(ctx context.Context, f repository.MenuFilter) ([]entity.MenuItem, error) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, "category_id = $"+strconv.Itoa(len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		where = append(where, "name ILIKE $"+strconv.Itoa(len(args)))
	}
	sql := `SELECT ` + menuColumns + ` FROM menu_items`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *MenuRepository) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id)
	m, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *MenuRepository) Upsert(ctx context.Context, m *entity.MenuItem) error {
	var category any
	if m.CategoryID != "" {
		category = m.CategoryID
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO menu_items (id, name, price, image_url, description, calories, protein, rating, type, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, price = EXCLUDED.price, image_url = EXCLUDED.image_url,
			description = EXCLUDED.description, calories = EXCLUDED.calories, protein = EXCLUDED.protein,
			rating = EXCLUDED.rating, type = EXCLUDED.type, category_id = EXCLUDED.category_id
		RETURNING created_at
	`, m.ID, m.Name, m.Price, m.ImageURL, m.Description, m.Calories, m.Protein, m.Rating, m.Type, category)
	return row.Scan(&m.CreatedAt)
}

func (r *MenuRepository) ListCategories(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *MenuRepository) UpsertCategory(ctx context.Context, c *entity.Category) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
	`, c.ID, c.Name, c.Description)
	return err
}

func scanMenuItem(row pgx.Row) (*entity.MenuItem, error) {
	m := &entity.MenuItem{}
	if err := row.Scan(&m.ID, &m.Name, &m.Price, &m.ImageURL, &m.Description, &m.Calories, &m.Protein,
		&m.Rating, &m.Type, &m.CategoryID, &m.CreatedAt); err != nil {
		return nil, err
	}
	return m, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

var _ repository.MenuRepository = (*MenuRepository)(nil)
