package flights

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/logger"
	"github.com/Domenick1991/airport/internal/metrics"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
)

type FlightUseCase interface {
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context, key string) ([]domain.Flight, error)
	SetFlights(ctx context.Context, key string, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateFlightInput struct {
	RouteID       int64
	AirplaneID    int64
	DepartureTime time.Time
	ArrivalTime   time.Time
	CrewIDs       []int64
}

type FlightService struct {
	flights            repository.FlightRepository
	routes             repository.RouteRepository
	airplanes          repository.AirplaneRepository
	cache              FlightCache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	rules              validation.ScheduleRules
}

type FlightServiceOption func(*FlightService)

func WithNotificationsTopic(topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.notificationsTopic = topic
	}
}

func WithScheduleRules(rules validation.ScheduleRules) FlightServiceOption {
	return func(s *FlightService) {
		s.rules = rules
	}
}

func NewFlightService(
	flights repository.FlightRepository,
	routes repository.RouteRepository,
	airplanes repository.AirplaneRepository,
	cache FlightCache,
	producer Producer,
	eventsTopic string,
	opts ...FlightServiceOption,
) *FlightService {
	s := &FlightService{
		flights:     flights,
		routes:      routes,
		airplanes:   airplanes,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
		rules:       validation.DefaultScheduleRules,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	key := cacheKey(filter)
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, key); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			logger.WithContext(ctx).Warn("flights cache read failed", "error", err)
		}
	}

	flights, err := s.flights.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range flights {
		withAvailability(&flights[i])
	}

	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, key, flights); err != nil {
			logger.WithContext(ctx).Warn("flights cache write failed", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	withAvailability(flight)
	return flight, nil
}

// Create schedules a flight after checking it against the airplane's
// previous flight.
func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	route, err := s.routes.GetByID(ctx, input.RouteID)
	if err != nil {
		return nil, err
	}
	airplane, err := s.airplanes.GetByID(ctx, input.AirplaneID)
	if err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		Route:         *route,
		Airplane:      *airplane,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		Crew:          make([]domain.Crew, 0, len(input.CrewIDs)),
	}
	for _, id := range input.CrewIDs {
		flight.Crew = append(flight.Crew, domain.Crew{ID: id})
	}
	candidate := domain.FlightCandidate{
		SourceAirportID: route.Source.ID,
		DepartureTime:   input.DepartureTime,
		ArrivalTime:     input.ArrivalTime,
	}

	err = s.flights.Schedule(ctx, airplane.ID, func(ctx context.Context, tx repository.FlightScheduleTx) error {
		previous, err := tx.LatestForAirplane(ctx, airplane.ID)
		if err != nil {
			return fmt.Errorf("previous flight: %w", err)
		}

		var nextRoutes []domain.Route
		if previous != nil && previous.Route.Destination.ID != route.Source.ID {
			nextRoutes, err = tx.RoutesFrom(ctx, previous.Route.Destination.ID)
			if err != nil {
				return fmt.Errorf("routes from %d: %w", previous.Route.Destination.ID, err)
			}
		}

		if err := validation.ValidateFlight(candidate, previous, nextRoutes, s.rules); err != nil {
			return err
		}
		return tx.Insert(ctx, flight)
	})
	if err != nil {
		metrics.ObserveError(err)
		return nil, err
	}

	withAvailability(flight)
	metrics.FlightsScheduled.Inc()
	logger.WithContext(ctx).Info("flight scheduled",
		"flight_id", flight.ID, "airplane_id", airplane.ID, "route", route.String(),
		"departure_time", flight.DepartureTime)

	s.invalidate(ctx)
	if err := s.publish(ctx, flight); err != nil {
		logger.WithContext(ctx).Warn("failed to publish flight_scheduled event", "flight_id", flight.ID, "error", err)
	}
	return flight, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		logger.WithContext(ctx).Warn("flights cache invalidation failed", "error", err)
	}
}

func (s *FlightService) publish(ctx context.Context, flight *domain.Flight) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.FlightEvent{
		Type:          kafka.EventFlightScheduled,
		FlightID:      flight.ID,
		RouteID:       flight.Route.ID,
		Route:         flight.Route.String(),
		AirplaneID:    flight.Airplane.ID,
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
	}
	key := strconv.FormatInt(flight.Airplane.ID, 10)
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

func withAvailability(f *domain.Flight) {
	f.TicketsAvailable = validation.AvailableSeats(f.Airplane.Capacity(), f.TicketsSold)
}

func cacheKey(filter domain.FlightFilter) string {
	date := ""
	if filter.Date != nil {
		date = filter.Date.Format(time.DateOnly)
	}
	return fmt.Sprintf("date=%s&route=%d", date, filter.RouteID)
}

var _ FlightUseCase = (*FlightService)(nil)
