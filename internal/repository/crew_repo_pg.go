package repository

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CrewRepository interface {
	Create(ctx context.Context, crew *domain.Crew) error
	List(ctx context.Context) ([]domain.Crew, error)
}

type PGCrewRepository struct {
	db *pgxpool.Pool
}

func NewCrewRepository(db *pgxpool.Pool) CrewRepository {
	return &PGCrewRepository{db: db}
}

func (r *PGCrewRepository) Create(ctx context.Context, crew *domain.Crew) error {
	return r.db.QueryRow(ctx, `INSERT INTO crews (first_name, last_name) VALUES ($1, $2) RETURNING id`,
		crew.FirstName, crew.LastName).Scan(&crew.ID)
}

func (r *PGCrewRepository) List(ctx context.Context) ([]domain.Crew, error) {
	rows, err := r.db.Query(ctx, `SELECT id, first_name, last_name FROM crews ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crews := make([]domain.Crew, 0)
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		crews = append(crews, c)
	}
	return crews, rows.Err()
}

var _ CrewRepository = (*PGCrewRepository)(nil)
