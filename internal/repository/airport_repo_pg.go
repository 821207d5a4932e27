package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirportRepository interface {
	Create(ctx context.Context, airport *domain.Airport) error
	List(ctx context.Context) ([]domain.Airport, error)
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	return r.db.QueryRow(ctx, `INSERT INTO airports (name, closest_big_city) VALUES ($1, $2) RETURNING id`,
		airport.Name, airport.ClosestBigCity).Scan(&airport.ID)
}

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, closest_big_city FROM airports ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.ClosestBigCity); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	var a domain.Airport
	err := r.db.QueryRow(ctx, `SELECT id, name, closest_big_city FROM airports WHERE id=$1`, id).
		Scan(&a.ID, &a.Name, &a.ClosestBigCity)
	if err != nil {
		return nil, notFound(err, "airport", id)
	}
	return &a, nil
}

var _ AirportRepository = (*PGAirportRepository)(nil)
