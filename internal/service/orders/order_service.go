package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/logger"
	"github.com/Domenick1991/airport/internal/metrics"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, userID int64, tickets []TicketRequest) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TicketRequest struct {
	FlightID int64
	Row      int
	Seat     int
}

type OrderService struct {
	orders             repository.OrderRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
}

type OrderServiceOption func(*OrderService)

func WithNotificationsTopic(topic string) OrderServiceOption {
	return func(s *OrderService) {
		s.notificationsTopic = topic
	}
}

func NewOrderService(orders repository.OrderRepository, cache Cache, producer Producer, eventsTopic string, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		orders:      orders,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder books all tickets for userID in one transaction. The first
// invalid or already sold ticket aborts the whole order.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, tickets []TicketRequest) (*domain.Order, error) {
	if len(tickets) == 0 {
		err := domain.NewValidationError(domain.KindEmptyOrder, "tickets", "Order must contain at least one ticket.")
		metrics.ObserveError(err)
		return nil, err
	}

	var order *domain.Order
	err := s.orders.Book(ctx, func(ctx context.Context, tx repository.OrderTx) error {
		order = &domain.Order{UserID: userID, Tickets: make([]domain.Ticket, 0, len(tickets))}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		seatings := make(map[int64]*domain.FlightSeating)
		for i, req := range tickets {
			seating, ok := seatings[req.FlightID]
			if !ok {
				var err error
				if seating, err = tx.FlightSeating(ctx, req.FlightID); err != nil {
					return err
				}
				seatings[req.FlightID] = seating
			}

			if err := validation.ValidateTicket(req.Row, req.Seat, seating.Airplane); err != nil {
				return ticketError(i, err)
			}
			if err := validation.ValidateTicketTiming(order.CreatedAt, seating.DepartureTime); err != nil {
				return ticketError(i, err)
			}

			ticket := domain.Ticket{FlightID: req.FlightID, OrderID: order.ID, Row: req.Row, Seat: req.Seat}
			if err := tx.CreateTicket(ctx, &ticket); err != nil {
				return ticketError(i, err)
			}
			order.Tickets = append(order.Tickets, ticket)
		}
		return nil
	})
	if err != nil {
		metrics.ObserveError(err)
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	metrics.TicketsSold.Add(float64(len(order.Tickets)))
	logger.WithContext(ctx).Info("order created", "order_id", order.ID, "user_id", userID, "tickets", len(order.Tickets))

	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			logger.WithContext(ctx).Warn("flights cache invalidation failed", "error", err)
		}
	}
	if err := s.publish(ctx, order); err != nil {
		logger.WithContext(ctx).Warn("failed to publish order_created event", "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ticketError points a validation error at the ticket it came from.
func ticketError(index int, err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return domain.NewValidationError(verr.Kind, fmt.Sprintf("tickets[%d].%s", index, verr.Field), verr.Message)
}

func (s *OrderService) publish(ctx context.Context, order *domain.Order) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.OrderEvent{
		Type:      kafka.EventOrderCreated,
		OrderID:   order.ID,
		UserID:    order.UserID,
		CreatedAt: order.CreatedAt,
		Tickets:   make([]kafka.TicketEvent, 0, len(order.Tickets)),
	}
	for _, t := range order.Tickets {
		event.Tickets = append(event.Tickets, kafka.TicketEvent{FlightID: t.FlightID, Row: t.Row, Seat: t.Seat})
	}

	key := strconv.FormatInt(order.ID, 10)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

var _ OrderUseCase = (*OrderService)(nil)
