package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	// Schedule runs fn in a transaction holding a lock on the airplane's
	// timeline, so concurrent scheduling for one airplane is serialized.
	Schedule(ctx context.Context, airplaneID int64, fn func(ctx context.Context, tx FlightScheduleTx) error) error
}

type FlightScheduleTx interface {
	// LatestForAirplane returns the flight with the latest arrival time, or nil.
	LatestForAirplane(ctx context.Context, airplaneID int64) (*domain.Flight, error)
	RoutesFrom(ctx context.Context, airportID int64) ([]domain.Route, error)
	Insert(ctx context.Context, flight *domain.Flight) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const selectFlights = `
	SELECT f.id, f.departure_time, f.arrival_time, f.created_at,
	       r.id, r.distance,
	       s.id, s.name, s.closest_big_city,
	       d.id, d.name, d.closest_big_city,
	       a.id, a.name, a.rows, a.seats_in_row, t.id, t.name,
	       (SELECT count(*) FROM tickets tk WHERE tk.flight_id = f.id)
	FROM flights f
	JOIN routes r ON r.id = f.route_id
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
	JOIN airplanes a ON a.id = f.airplane_id
	JOIN airplane_types t ON t.id = a.airplane_type_id`

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.DepartureTime, &f.ArrivalTime, &f.CreatedAt,
		&f.Route.ID, &f.Route.Distance,
		&f.Route.Source.ID, &f.Route.Source.Name, &f.Route.Source.ClosestBigCity,
		&f.Route.Destination.ID, &f.Route.Destination.Name, &f.Route.Destination.ClosestBigCity,
		&f.Airplane.ID, &f.Airplane.Name, &f.Airplane.Rows, &f.Airplane.SeatsInRow,
		&f.Airplane.Type.ID, &f.Airplane.Type.Name,
		&f.TicketsSold)
	return f, err
}

func (r *PGFlightRepository) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, selectFlights+`
		WHERE ($1::date IS NULL OR f.departure_time::date = $1::date)
		  AND ($2::bigint = 0 OR f.route_id = $2)
		ORDER BY f.departure_time`, filter.Date, filter.RouteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachCrew(ctx, flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	f, err := scanFlight(r.db.QueryRow(ctx, selectFlights+` WHERE f.id=$1`, id))
	if err != nil {
		return nil, notFound(err, "flight", id)
	}

	flights := []domain.Flight{f}
	if err := r.attachCrew(ctx, flights); err != nil {
		return nil, err
	}
	return &flights[0], nil
}

func (r *PGFlightRepository) attachCrew(ctx context.Context, flights []domain.Flight) error {
	if len(flights) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(flights))
	index := make(map[int64]int, len(flights))
	for i, f := range flights {
		ids = append(ids, f.ID)
		index[f.ID] = i
		flights[i].Crew = make([]domain.Crew, 0)
	}

	rows, err := r.db.Query(ctx, `
		SELECT fc.flight_id, c.id, c.first_name, c.last_name
		FROM flight_crews fc
		JOIN crews c ON c.id = fc.crew_id
		WHERE fc.flight_id = ANY($1)
		ORDER BY c.last_name, c.first_name`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var flightID int64
		var c domain.Crew
		if err := rows.Scan(&flightID, &c.ID, &c.FirstName, &c.LastName); err != nil {
			return err
		}
		i := index[flightID]
		flights[i].Crew = append(flights[i].Crew, c)
	}
	return rows.Err()
}

func (r *PGFlightRepository) Schedule(ctx context.Context, airplaneID int64, fn func(ctx context.Context, tx FlightScheduleTx) error) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, airplaneID); err != nil {
			return fmt.Errorf("lock airplane %d: %w", airplaneID, err)
		}
		return fn(ctx, &pgFlightScheduleTx{tx: tx})
	})
}

type pgFlightScheduleTx struct {
	tx pgx.Tx
}

func (t *pgFlightScheduleTx) LatestForAirplane(ctx context.Context, airplaneID int64) (*domain.Flight, error) {
	f, err := scanFlight(t.tx.QueryRow(ctx, selectFlights+`
		WHERE f.airplane_id=$1
		ORDER BY f.arrival_time DESC
		LIMIT 1`, airplaneID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (t *pgFlightScheduleTx) RoutesFrom(ctx context.Context, airportID int64) ([]domain.Route, error) {
	return routesFrom(ctx, t.tx, airportID)
}

func (t *pgFlightScheduleTx) Insert(ctx context.Context, flight *domain.Flight) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO flights (route_id, airplane_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		flight.Route.ID, flight.Airplane.ID, flight.DepartureTime, flight.ArrivalTime).
		Scan(&flight.ID, &flight.CreatedAt)
	if err != nil {
		return err
	}

	if len(flight.Crew) == 0 {
		return nil
	}
	crewIDs := make([]int64, 0, len(flight.Crew))
	for _, c := range flight.Crew {
		crewIDs = append(crewIDs, c.ID)
	}
	rows, err := t.tx.Query(ctx, `
		WITH linked AS (
			INSERT INTO flight_crews (flight_id, crew_id)
			SELECT $1, unnest($2::bigint[])
			ON CONFLICT DO NOTHING
			RETURNING crew_id
		)
		SELECT c.id, c.first_name, c.last_name
		FROM crews c
		JOIN linked l ON l.crew_id = c.id
		ORDER BY c.last_name, c.first_name`, flight.ID, crewIDs)
	if err != nil {
		return crewError(err)
	}
	defer rows.Close()

	crew := make([]domain.Crew, 0, len(crewIDs))
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return err
		}
		crew = append(crew, c)
	}
	if err := rows.Err(); err != nil {
		return crewError(err)
	}
	flight.Crew = crew
	return nil
}

func crewError(err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("crew member: %w", domain.ErrNotFound)
	}
	return err
}

var _ FlightRepository = (*PGFlightRepository)(nil)
