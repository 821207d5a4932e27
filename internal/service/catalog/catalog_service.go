package catalog

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/logger"
	"github.com/Domenick1991/airport/internal/metrics"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/validation"
)

type CatalogUseCase interface {
	CreateAirport(ctx context.Context, airport *domain.Airport) error
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	CreateAirplaneType(ctx context.Context, airplaneType *domain.AirplaneType) error
	ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error)
	CreateAirplane(ctx context.Context, airplane *domain.Airplane) error
	ListAirplanes(ctx context.Context) ([]domain.Airplane, error)
	CreateCrew(ctx context.Context, crew *domain.Crew) error
	ListCrews(ctx context.Context) ([]domain.Crew, error)
	CreateRoute(ctx context.Context, input CreateRouteInput) (*domain.Route, error)
	ListRoutes(ctx context.Context) ([]domain.Route, error)
	ListRoutesFrom(ctx context.Context, airportID int64) ([]domain.Route, error)
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
}

type CreateRouteInput struct {
	SourceID      int64
	DestinationID int64
	Distance      int
}

type CatalogService struct {
	airports  repository.AirportRepository
	airplanes repository.AirplaneRepository
	crews     repository.CrewRepository
	routes    repository.RouteRepository
}

func NewCatalogService(repos *repository.Repositories) *CatalogService {
	return &CatalogService{
		airports:  repos.Airports,
		airplanes: repos.Airplanes,
		crews:     repos.Crews,
		routes:    repos.Routes,
	}
}

func (s *CatalogService) CreateAirport(ctx context.Context, airport *domain.Airport) error {
	return s.airports.Create(ctx, airport)
}

func (s *CatalogService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	return s.airports.List(ctx)
}

func (s *CatalogService) CreateAirplaneType(ctx context.Context, airplaneType *domain.AirplaneType) error {
	return s.airplanes.CreateType(ctx, airplaneType)
}

func (s *CatalogService) ListAirplaneTypes(ctx context.Context) ([]domain.AirplaneType, error) {
	return s.airplanes.ListTypes(ctx)
}

func (s *CatalogService) CreateAirplane(ctx context.Context, airplane *domain.Airplane) error {
	return s.airplanes.Create(ctx, airplane)
}

func (s *CatalogService) ListAirplanes(ctx context.Context) ([]domain.Airplane, error) {
	return s.airplanes.List(ctx)
}

func (s *CatalogService) CreateCrew(ctx context.Context, crew *domain.Crew) error {
	return s.crews.Create(ctx, crew)
}

func (s *CatalogService) ListCrews(ctx context.Context) ([]domain.Crew, error) {
	return s.crews.List(ctx)
}

func (s *CatalogService) CreateRoute(ctx context.Context, input CreateRouteInput) (*domain.Route, error) {
	if err := validation.ValidateRoute(input.SourceID, input.DestinationID); err != nil {
		metrics.ObserveError(err)
		return nil, err
	}

	route := &domain.Route{
		Source:      domain.Airport{ID: input.SourceID},
		Destination: domain.Airport{ID: input.DestinationID},
		Distance:    input.Distance,
	}
	if err := s.routes.Create(ctx, route); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("route created", "route_id", route.ID, "route", route.String())
	return route, nil
}

func (s *CatalogService) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	return s.routes.List(ctx)
}

// ListRoutesFrom returns the routes departing from an airport.
func (s *CatalogService) ListRoutesFrom(ctx context.Context, airportID int64) ([]domain.Route, error) {
	return s.routes.ListBySource(ctx, airportID)
}

func (s *CatalogService) GetRoute(ctx context.Context, id int64) (*domain.Route, error) {
	return s.routes.GetByID(ctx, id)
}

var _ CatalogUseCase = (*CatalogService)(nil)
