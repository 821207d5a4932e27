package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository interface {
	// Book runs fn in one transaction. Nothing fn wrote survives an error.
	Book(ctx context.Context, fn func(ctx context.Context, tx OrderTx) error) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type OrderTx interface {
	// CreateOrder stores the order and sets its ID and CreatedAt.
	CreateOrder(ctx context.Context, order *domain.Order) error
	FlightSeating(ctx context.Context, flightID int64) (*domain.FlightSeating, error)
	// CreateTicket fails with SEAT_ALREADY_TAKEN when the seat is sold.
	CreateTicket(ctx context.Context, ticket *domain.Ticket) error
}

type PGOrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &PGOrderRepository{db: db}
}

func (r *PGOrderRepository) Book(ctx context.Context, fn func(ctx context.Context, tx OrderTx) error) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(ctx, &pgOrderTx{tx: tx})
	})
}

func (r *PGOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.user_id, o.created_at, t.id, t.flight_id, t.row_number, t.seat_number
		FROM orders o
		JOIN tickets t ON t.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC, t.row_number, t.seat_number`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		var t domain.Ticket
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt, &t.ID, &t.FlightID, &t.Row, &t.Seat); err != nil {
			return nil, err
		}
		t.OrderID = o.ID
		if n := len(orders); n == 0 || orders[n-1].ID != o.ID {
			orders = append(orders, o)
		}
		last := &orders[len(orders)-1]
		last.Tickets = append(last.Tickets, t)
	}
	return orders, rows.Err()
}

type pgOrderTx struct {
	tx pgx.Tx
}

func (t *pgOrderTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	return t.tx.QueryRow(ctx, `INSERT INTO orders (user_id) VALUES ($1) RETURNING id, created_at`, order.UserID).
		Scan(&order.ID, &order.CreatedAt)
}

func (t *pgOrderTx) FlightSeating(ctx context.Context, flightID int64) (*domain.FlightSeating, error) {
	var s domain.FlightSeating
	err := t.tx.QueryRow(ctx, `
		SELECT f.id, f.departure_time, a.id, a.name, a.rows, a.seats_in_row
		FROM flights f
		JOIN airplanes a ON a.id = f.airplane_id
		WHERE f.id = $1`, flightID).
		Scan(&s.FlightID, &s.DepartureTime, &s.Airplane.ID, &s.Airplane.Name, &s.Airplane.Rows, &s.Airplane.SeatsInRow)
	if err != nil {
		return nil, notFound(err, "flight", flightID)
	}
	return &s, nil
}

func (t *pgOrderTx) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO tickets (flight_id, order_id, row_number, seat_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, ticket.FlightID, ticket.OrderID, ticket.Row, ticket.Seat).Scan(&ticket.ID)
	if isUniqueViolation(err) {
		return SeatTakenError(*ticket)
	}
	return err
}

// SeatTakenError is the error reported for a seat that is already sold.
func SeatTakenError(t domain.Ticket) error {
	return domain.NewValidationError(domain.KindSeatAlreadyTaken, "seat",
		fmt.Sprintf("Seat (row: %d, seat: %d) on flight %d is already taken.", t.Row, t.Seat, t.FlightID))
}

var _ OrderRepository = (*PGOrderRepository)(nil)
