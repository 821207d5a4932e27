package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirplaneRepository interface {
	CreateType(ctx context.Context, airplaneType *domain.AirplaneType) error
	ListTypes(ctx context.Context) ([]domain.AirplaneType, error)
	Create(ctx context.Context, airplane *domain.Airplane) error
	List(ctx context.Context) ([]domain.Airplane, error)
	GetByID(ctx context.Context, id int64) (*domain.Airplane, error)
}

// ErrDuplicateAirplaneName is returned when an airplane name is already used.
var ErrDuplicateAirplaneName = errors.New("airplane name already exists")

type PGAirplaneRepository struct {
	db *pgxpool.Pool
}

func NewAirplaneRepository(db *pgxpool.Pool) AirplaneRepository {
	return &PGAirplaneRepository{db: db}
}

const selectAirplanes = `
	SELECT a.id, a.name, a.rows, a.seats_in_row, t.id, t.name
	FROM airplanes a
	JOIN airplane_types t ON t.id = a.airplane_type_id`

func (r *PGAirplaneRepository) CreateType(ctx context.Context, airplaneType *domain.AirplaneType) error {
	return r.db.QueryRow(ctx, `INSERT INTO airplane_types (name) VALUES ($1) RETURNING id`, airplaneType.Name).
		Scan(&airplaneType.ID)
}

func (r *PGAirplaneRepository) ListTypes(ctx context.Context) ([]domain.AirplaneType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM airplane_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]domain.AirplaneType, 0)
	for rows.Next() {
		var t domain.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *PGAirplaneRepository) Create(ctx context.Context, airplane *domain.Airplane) error {
	err := r.db.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO airplanes (name, rows, seats_in_row, airplane_type_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, airplane_type_id
		)
		SELECT i.id, t.name FROM inserted i JOIN airplane_types t ON t.id = i.airplane_type_id`,
		airplane.Name, airplane.Rows, airplane.SeatsInRow, airplane.Type.ID).
		Scan(&airplane.ID, &airplane.Type.Name)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%q: %w", airplane.Name, ErrDuplicateAirplaneName)
	case isForeignKeyViolation(err):
		return fmt.Errorf("airplane type %d: %w", airplane.Type.ID, domain.ErrNotFound)
	}
	return err
}

func (r *PGAirplaneRepository) List(ctx context.Context) ([]domain.Airplane, error) {
	rows, err := r.db.Query(ctx, selectAirplanes+` ORDER BY a.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airplanes := make([]domain.Airplane, 0)
	for rows.Next() {
		var a domain.Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.Type.ID, &a.Type.Name); err != nil {
			return nil, err
		}
		airplanes = append(airplanes, a)
	}
	return airplanes, rows.Err()
}

func (r *PGAirplaneRepository) GetByID(ctx context.Context, id int64) (*domain.Airplane, error) {
	var a domain.Airplane
	err := r.db.QueryRow(ctx, selectAirplanes+` WHERE a.id=$1`, id).
		Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.Type.ID, &a.Type.Name)
	if err != nil {
		return nil, notFound(err, "airplane", id)
	}
	return &a, nil
}

var _ AirplaneRepository = (*PGAirplaneRepository)(nil)
