package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repositories struct {
	Airports  AirportRepository
	Airplanes AirplaneRepository
	Crews     CrewRepository
	Routes    RouteRepository
	Flights   FlightRepository
	Orders    OrderRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Airports:  NewAirportRepository(db),
		Airplanes: NewAirplaneRepository(db),
		Crews:     NewCrewRepository(db),
		Routes:    NewRouteRepository(db),
		Flights:   NewFlightRepository(db),
		Orders:    NewOrderRepository(db),
	}
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == foreignKeyViolation
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound.
func notFound(err error, what string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return err
}

// inTx runs fn inside a transaction that is committed only when fn succeeds.
func inTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
