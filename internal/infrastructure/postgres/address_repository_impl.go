package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
)

// AddressRepository issues one statement per call; it never opens a
// transaction spanning several addresses.
type AddressRepository struct {
	pool *pgxpool.Pool
}

func NewAddressRepository(pool *pgxpool.Pool) *AddressRepository {
	return &AddressRepository{pool: pool}
}

const addressColumns = `id::text, user_id::text, label, full_name, phone, line1, line2, city,
	state, postal_code, country, is_default, created_at, updated_at`

func (r *AddressRepository) Create(ctx context.Context, a *entity.Address) error {
	userID, ok := uuidArg(a.UserID)
	if !ok {
		return repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO addresses (user_id, label, full_name, phone, line1, line2, city, state, postal_code, country, is_default)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id::text, created_at, updated_at
	`, userID, a.Label, a.FullName, a.Phone, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country, a.IsDefault)

	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AddressRepository) GetByID(ctx context.Context, id string) (*entity.Address, error) {
	key, ok := uuidArg(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1::uuid`, key)
	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID string, limit int) ([]entity.Address, error) {
	key, ok := uuidArg(userID)
	if !ok {
		return []entity.Address{}, nil
	}
	return r.query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1::uuid
		ORDER BY created_at DESC
		LIMIT $2
	`, key, limit)
}

func (r *AddressRepository) ListDefaults(ctx context.Context, userID string) ([]entity.Address, error) {
	key, ok := uuidArg(userID)
	if !ok {
		return []entity.Address{}, nil
	}
	return r.query(ctx, `
		SELECT `+addressColumns+`
		FROM addresses
		WHERE user_id = $1::uuid AND is_default
		ORDER BY created_at DESC
	`, key)
}

func (r *AddressRepository) SetDefault(ctx context.Context, id string, isDefault bool) error {
	key, ok := uuidArg(id)
	if !ok {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE addresses SET is_default = $1, updated_at = now() WHERE id = $2::uuid
	`, isDefault, key)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	key, ok := uuidArg(id)
	if !ok {
		return repository.ErrNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1::uuid`, key)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AddressRepository) query(ctx context.Context, sql string, args ...any) ([]entity.Address, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAddress(row pgx.Row) (*entity.Address, error) {
	a := &entity.Address{}
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.FullName, &a.Phone, &a.Line1, &a.Line2, &a.City,
		&a.State, &a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

var _ repository.AddressRepository = (*AddressRepository)(nil)
