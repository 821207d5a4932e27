package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RouteRepository interface {
	Create(ctx context.Context, route *domain.Route) error
	List(ctx context.Context) ([]domain.Route, error)
	GetByID(ctx context.Context, id int64) (*domain.Route, error)
	ListBySource(ctx context.Context, airportID int64) ([]domain.Route, error)
}

type PGRouteRepository struct {
	db *pgxpool.Pool
}

func NewRouteRepository(db *pgxpool.Pool) RouteRepository {
	return &PGRouteRepository{db: db}
}

const selectRoutes = `
	SELECT r.id, r.distance,
	       s.id, s.name, s.closest_big_city,
	       d.id, d.name, d.closest_big_city
	FROM routes r
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id`

func scanRoute(row pgx.Row) (domain.Route, error) {
	var r domain.Route
	err := row.Scan(&r.ID, &r.Distance,
		&r.Source.ID, &r.Source.Name, &r.Source.ClosestBigCity,
		&r.Destination.ID, &r.Destination.Name, &r.Destination.ClosestBigCity)
	return r, err
}

func (r *PGRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO routes (source_id, destination_id, distance) VALUES ($1, $2, $3) RETURNING id`,
		route.Source.ID, route.Destination.ID, route.Distance).Scan(&id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("route airport: %w", domain.ErrNotFound)
	}
	if err != nil {
		return err
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*route = *created
	return nil
}

func (r *PGRouteRepository) List(ctx context.Context) ([]domain.Route, error) {
	return listRoutes(ctx, r.db, selectRoutes+` ORDER BY r.id`)
}

func (r *PGRouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	route, err := scanRoute(r.db.QueryRow(ctx, selectRoutes+` WHERE r.id=$1`, id))
	if err != nil {
		return nil, notFound(err, "route", id)
	}
	return &route, nil
}

func (r *PGRouteRepository) ListBySource(ctx context.Context, airportID int64) ([]domain.Route, error) {
	return routesFrom(ctx, r.db, airportID)
}

func routesFrom(ctx context.Context, q querier, airportID int64) ([]domain.Route, error) {
	return listRoutes(ctx, q, selectRoutes+` WHERE r.source_id=$1 ORDER BY d.name`, airportID)
}

func listRoutes(ctx context.Context, q querier, query string, args ...any) ([]domain.Route, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

var _ RouteRepository = (*PGRouteRepository)(nil)
