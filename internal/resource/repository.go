package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/slot-booking-backend/internal/pkg/apperror"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, error)
	Update(ctx context.Context, res *Resource) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var resourceColumns = []string{"id", "name", "daily_rate", "category", "sku", "description", "created_at"}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	query, args, err := psql.Insert("public.resources").
		Columns("name", "daily_rate", "category", "sku", "description").
		Values(res.Name, res.DailyRate, res.Category, nullIfEmpty(res.SKU), res.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create resource query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateSKU
		}
		return apperror.Wrap(fmt.Errorf("create resource failed: %w", err), ErrRepository)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	query, args, err := psql.Select(resourceColumns...).
		From("public.resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get resource query failed: %w", err)
	}

	res, err := scanResource(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperror.Wrap(fmt.Errorf("get resource failed: %w", err), ErrRepository)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, error) {
	query := psql.Select(resourceColumns...).
		From("public.resources")

	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}

	query = query.OrderBy("name ASC", "id ASC").Limit(uint64(filter.Limit))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.Wrap(fmt.Errorf("list resources failed: %w", err), ErrRepository)
	}
	defer rows.Close()

	var result []*Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, apperror.Wrap(fmt.Errorf("scan resource failed: %w", err), ErrRepository)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(fmt.Errorf("iterate resources failed: %w", err), ErrRepository)
	}
	return result, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	query, args, err := psql.Update("public.resources").
		Set("name", res.Name).
		Set("daily_rate", res.DailyRate).
		Set("category", res.Category).
		Set("description", res.Description).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update resource query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return apperror.Wrap(fmt.Errorf("update resource failed: %w", err), ErrRepository)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResource(row pgx.Row) (*Resource, error) {
	var res Resource
	var sku *string
	if err := row.Scan(
		&res.ID, &res.Name, &res.DailyRate, &res.Category, &sku, &res.Description, &res.CreatedAt,
	); err != nil {
		return nil, err
	}
	if sku != nil {
		res.SKU = *sku
	}
	return &res, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
