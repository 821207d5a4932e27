package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airport/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RunMigrations(ctx context.Context, db *pgxpool.Pool) error {
	log := logger.Get()
	log.Info("Running database migrations...")

	migrations := []string{
		createAirportsTable,
		createAirplaneTypesTable,
		createAirplanesTable,
		createCrewsTable,
		createRoutesTable,
		createFlightsTable,
		createFlightCrewsTable,
		createOrdersTable,
		createTicketsTable,
	}

	for i, migration := range migrations {
		log.Debug("Running migration", "step", i+1)
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info("All migrations completed successfully")
	return nil
}

const createAirportsTable = `
CREATE TABLE IF NOT EXISTS airports (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    closest_big_city VARCHAR(255) NOT NULL
);`

const createAirplaneTypesTable = `
CREATE TABLE IF NOT EXISTS airplane_types (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL
);`

const createAirplanesTable = `
CREATE TABLE IF NOT EXISTS airplanes (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE,
    rows INTEGER NOT NULL CHECK (rows > 0),
    seats_in_row INTEGER NOT NULL CHECK (seats_in_row > 0),
    airplane_type_id BIGINT NOT NULL REFERENCES airplane_types(id) ON DELETE CASCADE
);`

const createCrewsTable = `
CREATE TABLE IF NOT EXISTS crews (
    id BIGSERIAL PRIMARY KEY,
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255) NOT NULL
);`

const createRoutesTable = `
CREATE TABLE IF NOT EXISTS routes (
    id BIGSERIAL PRIMARY KEY,
    source_id BIGINT NOT NULL REFERENCES airports(id) ON DELETE CASCADE,
    destination_id BIGINT NOT NULL REFERENCES airports(id) ON DELETE CASCADE,
    distance INTEGER NOT NULL,

    CHECK (source_id <> destination_id)
);
CREATE INDEX IF NOT EXISTS routes_source_idx ON routes (source_id);`

const createFlightsTable = `
CREATE TABLE IF NOT EXISTS flights (
    id BIGSERIAL PRIMARY KEY,
    route_id BIGINT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
    airplane_id BIGINT NOT NULL REFERENCES airplanes(id) ON DELETE CASCADE,
    departure_time TIMESTAMPTZ NOT NULL,
    arrival_time TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (departure_time < arrival_time)
);
CREATE INDEX IF NOT EXISTS flights_airplane_arrival_idx ON flights (airplane_id, arrival_time DESC);
CREATE INDEX IF NOT EXISTS flights_departure_idx ON flights (departure_time);`

const createFlightCrewsTable = `
CREATE TABLE IF NOT EXISTS flight_crews (
    flight_id BIGINT NOT NULL REFERENCES flights(id) ON DELETE CASCADE,
    crew_id BIGINT NOT NULL REFERENCES crews(id) ON DELETE CASCADE,

    PRIMARY KEY (flight_id, crew_id)
);`

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id BIGSERIAL PRIMARY KEY,
    row_number INTEGER NOT NULL,
    seat_number INTEGER NOT NULL,
    flight_id BIGINT NOT NULL REFERENCES flights(id) ON DELETE CASCADE,
    order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,

    UNIQUE (flight_id, row_number, seat_number)
);`
