package booking

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
	Create(ctx context.Context, booking *Booking) error
	UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)

	// ListByResource returns the resource's bookings, optionally limited to
	// those intersecting window.
	ListByResource(ctx context.Context, resourceID string, window *DateWindow) ([]*Booking, error)
	ListByParty(ctx context.Context, party Party) ([]*Booking, error)
	// ListInWindow returns bookings of every resource intersecting window.
	ListInWindow(ctx context.Context, window DateWindow) ([]*Booking, error)

	// LinkParty is idempotent: linking an already linked party succeeds.
	LinkParty(ctx context.Context, bookingID string, party Party) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// selectBookings reads bookings with their linked parties folded into a
// "type:id" text array.
func selectBookings() squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(
		"b.id", "b.resource_id", "b.resource_name", "b.name",
		"b.start_date", "b.end_date", "b.duration_days", "b.daily_rate", "b.total_amount",
		"b.status", "b.notes", "b.created_at", "b.updated_at",
		"COALESCE(array_agg(p.party_type || ':' || p.party_id ORDER BY p.created_at) FILTER (WHERE p.party_id IS NOT NULL), '{}')",
	).
		From("public.bookings b").
		LeftJoin("public.booking_parties p ON p.booking_id = b.id").
		GroupBy("b.id")
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"resource_id", "resource_name", "name", "start_date", "end_date",
			"duration_days", "daily_rate", "total_amount", "status", "notes",
		).
		Values(
			b.ResourceID, b.ResourceName, b.Name, b.StartDate, b.EndDate,
			b.DurationDays, b.DailyRate, b.TotalAmount, b.Status, b.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapWriteError(err, "create booking failed")
	}
	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, mapWriteError(err, "update booking status failed")
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperror.Wrap(fmt.Errorf("get booking failed: %w", err), ErrRepository)
	}
	return b, nil
}

func (r *pgxRepository) ListByResource(ctx context.Context, resourceID string, window *DateWindow) ([]*Booking, error) {
	query := selectBookings().Where(squirrel.Eq{"b.resource_id": resourceID})
	if window != nil {
		query = intersecting(query, *window)
	}
	return r.list(ctx, query.OrderBy("b.start_date ASC", "b.created_at ASC"))
}

func (r *pgxRepository) ListByParty(ctx context.Context, party Party) ([]*Booking, error) {
	query := selectBookings().
		Where(squirrel.Expr(
			"b.id IN (SELECT booking_id FROM public.booking_parties WHERE party_type = ? AND party_id = ?)",
			party.Type, party.ID,
		)).
		OrderBy("b.start_date DESC", "b.created_at DESC")
	return r.list(ctx, query)
}

func (r *pgxRepository) ListInWindow(ctx context.Context, window DateWindow) ([]*Booking, error) {
	query := intersecting(selectBookings(), window).
		OrderBy("b.start_date ASC", "b.created_at ASC", "b.id ASC")
	return r.list(ctx, query)
}

func (r *pgxRepository) LinkParty(ctx context.Context, bookingID string, party Party) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.booking_parties").
		Columns("booking_id", "party_type", "party_id").
		Values(bookingID, party.Type, party.ID).
		Suffix("ON CONFLICT (booking_id, party_type, party_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build link party query failed: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrNotFound
		}
		return apperror.Wrap(fmt.Errorf("link party %s failed: %w", party, err), ErrRepository)
	}
	return nil
}

func (r *pgxRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*Booking, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.Wrap(fmt.Errorf("list bookings failed: %w", err), ErrRepository)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, apperror.Wrap(fmt.Errorf("scan booking failed: %w", err), ErrRepository)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Wrap(fmt.Errorf("iterate bookings failed: %w", err), ErrRepository)
	}
	return bookings, nil
}

// intersecting keeps bookings whose inclusive range touches the window.
func intersecting(query squirrel.SelectBuilder, window DateWindow) squirrel.SelectBuilder {
	return query.
		Where(squirrel.LtOrEq{"b.start_date": window.To}).
		Where(squirrel.GtOrEq{"b.end_date": window.From})
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var parties []string
	if err := row.Scan(
		&b.ID, &b.ResourceID, &b.ResourceName, &b.Name,
		&b.StartDate, &b.EndDate, &b.DurationDays, &b.DailyRate, &b.TotalAmount,
		&b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &parties,
	); err != nil {
		return nil, err
	}

	for _, raw := range parties {
		p, err := ParseParty(raw)
		if err != nil {
			return nil, err
		}
		b.LinkedParties = append(b.LinkedParties, p)
	}
	return &b, nil
}

// mapWriteError turns constraint violations into domain errors. The
// exclusion constraint on bookings is the authoritative overlap check.
func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation:
			return apperror.Wrap(err, ErrConflict)
		case pgerrcode.ForeignKeyViolation:
			return ErrResourceNotFound
		case pgerrcode.CheckViolation:
			return apperror.Wrap(err, ErrInvalidInput)
		}
	}
	return apperror.Wrap(fmt.Errorf("%s: %w", op, err), ErrRepository)
}
