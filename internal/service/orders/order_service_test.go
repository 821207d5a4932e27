package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	return m.Called(ctx, topic, key, value).Error(0)
}

type seatKey struct {
	flightID  int64
	row, seat int
}

// memoryOrderStore behaves like the Postgres repository: writes made inside
// Book become visible only on commit, and a seat held by an open or
// committed transaction violates the (flight, row, seat) uniqueness.
type memoryOrderStore struct {
	mu       sync.Mutex
	now      time.Time
	flights  map[int64]domain.FlightSeating
	orders   []domain.Order
	tickets  map[seatKey]domain.Ticket
	held     map[seatKey]bool
	books    int
	orderSeq int64
	seatSeq  int64
}

func newMemoryOrderStore(now time.Time, flights ...domain.FlightSeating) *memoryOrderStore {
	s := &memoryOrderStore{
		now:     now,
		flights: make(map[int64]domain.FlightSeating),
		tickets: make(map[seatKey]domain.Ticket),
		held:    make(map[seatKey]bool),
	}
	for _, f := range flights {
		s.flights[f.FlightID] = f
	}
	return s
}

func (s *memoryOrderStore) Book(ctx context.Context, fn func(ctx context.Context, tx repository.OrderTx) error) error {
	s.mu.Lock()
	s.books++
	s.mu.Unlock()

	tx := &memoryOrderTx{store: s}
	err := fn(ctx, tx)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tx.tickets {
		delete(s.held, seatKey{t.FlightID, t.Row, t.Seat})
	}
	if err != nil {
		return err
	}
	if tx.order != nil {
		s.orders = append(s.orders, *tx.order)
	}
	for _, t := range tx.tickets {
		s.tickets[seatKey{t.FlightID, t.Row, t.Seat}] = t
	}
	return nil
}

func (s *memoryOrderStore) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memoryOrderStore) counts() (orders, tickets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders), len(s.tickets)
}

type memoryOrderTx struct {
	store   *memoryOrderStore
	order   *domain.Order
	tickets []domain.Ticket
}

func (t *memoryOrderTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.orderSeq++
	order.ID = t.store.orderSeq
	order.CreatedAt = t.store.now
	t.order = order
	return nil
}

func (t *memoryOrderTx) FlightSeating(ctx context.Context, flightID int64) (*domain.FlightSeating, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	f, ok := t.store.flights[flightID]
	if !ok {
		return nil, fmt.Errorf("flight %d: %w", flightID, domain.ErrNotFound)
	}
	return &f, nil
}

func (t *memoryOrderTx) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	key := seatKey{ticket.FlightID, ticket.Row, ticket.Seat}
	if _, sold := t.store.tickets[key]; sold || t.store.held[key] {
		return repository.SeatTakenError(*ticket)
	}
	t.store.held[key] = true
	t.store.seatSeq++
	ticket.ID = t.store.seatSeq
	t.tickets = append(t.tickets, *ticket)
	return nil
}

var (
	now       = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	airplane  = domain.Airplane{ID: 7, Name: "UR-PSA", Rows: 30, SeatsInRow: 6}
	upcoming  = domain.FlightSeating{FlightID: 1, DepartureTime: now.Add(48 * time.Hour), Airplane: airplane}
	departed  = domain.FlightSeating{FlightID: 2, DepartureTime: now.Add(-time.Hour), Airplane: airplane}
	otherSoon = domain.FlightSeating{FlightID: 3, DepartureTime: now.Add(time.Hour), Airplane: domain.Airplane{ID: 8, Rows: 10, SeatsInRow: 4}}
)

func newService(store *memoryOrderStore) (*OrderService, *MockCache, *MockProducer) {
	cache := &MockCache{}
	producer := &MockProducer{}
	return NewOrderService(store, cache, producer, "events", WithNotificationsTopic("notifications")), cache, producer
}

func requireKind(t *testing.T, err error, want domain.ErrorKind) *domain.ValidationError {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, want, verr.Kind)
	return verr
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	store := newMemoryOrderStore(now, upcoming, otherSoon)
	service, cache, producer := newService(store)
	ctx := context.Background()

	cache.On("InvalidateFlights", ctx).Return(nil).Once()
	producer.On("Publish", ctx, "events", "1", mock.AnythingOfType("kafka.OrderEvent")).Return(nil).Once()
	producer.On("Publish", ctx, "notifications", "1", mock.AnythingOfType("kafka.OrderEvent")).Return(nil).Once()

	order, err := service.CreateOrder(ctx, 42, []TicketRequest{
		{FlightID: 1, Row: 5, Seat: 2},
		{FlightID: 1, Row: 5, Seat: 3},
		{FlightID: 3, Row: 10, Seat: 4},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), order.UserID)
	assert.Equal(t, now, order.CreatedAt)
	require.Len(t, order.Tickets, 3)
	for _, ticket := range order.Tickets {
		assert.Equal(t, order.ID, ticket.OrderID)
		assert.NotZero(t, ticket.ID)
	}

	orders, tickets := store.counts()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 3, tickets)

	event := producer.Calls[0].Arguments.Get(3).(kafka.OrderEvent)
	assert.Equal(t, kafka.EventOrderCreated, event.Type)
	assert.Len(t, event.Tickets, 3)

	cache.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestOrderService_CreateOrder_Empty(t *testing.T) {
	store := newMemoryOrderStore(now, upcoming)
	service, cache, producer := newService(store)

	for _, tickets := range [][]TicketRequest{nil, {}} {
		order, err := service.CreateOrder(context.Background(), 42, tickets)
		assert.Nil(t, order)
		requireKind(t, err, domain.KindEmptyOrder)
	}

	assert.Zero(t, store.books)
	orders, _ := store.counts()
	assert.Zero(t, orders)
	cache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_RollsBackOnInvalidTicket(t *testing.T) {
	testCases := []struct {
		name    string
		tickets []TicketRequest
		want    domain.ErrorKind
		field   string
	}{
		{
			name:    "second ticket row out of range",
			tickets: []TicketRequest{{FlightID: 1, Row: 1, Seat: 1}, {FlightID: 1, Row: 31, Seat: 1}, {FlightID: 1, Row: 2, Seat: 1}},
			want:    domain.KindSeatOutOfRange,
			field:   "tickets[1].row",
		},
		{
			name:    "seat out of range",
			tickets: []TicketRequest{{FlightID: 1, Row: 1, Seat: 7}},
			want:    domain.KindSeatOutOfRange,
			field:   "tickets[0].seat",
		},
		{
			name:    "flight already departed",
			tickets: []TicketRequest{{FlightID: 1, Row: 1, Seat: 1}, {FlightID: 2, Row: 1, Seat: 1}},
			want:    domain.KindBookingPastFlight,
			field:   "tickets[1].order",
		},
		{
			name:    "same seat twice in one order",
			tickets: []TicketRequest{{FlightID: 1, Row: 5, Seat: 2}, {FlightID: 1, Row: 5, Seat: 2}},
			want:    domain.KindSeatAlreadyTaken,
			field:   "tickets[1].seat",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemoryOrderStore(now, upcoming, departed)
			service, cache, _ := newService(store)

			order, err := service.CreateOrder(context.Background(), 42, tc.tickets)

			assert.Nil(t, order)
			verr := requireKind(t, err, tc.want)
			assert.Equal(t, tc.field, verr.Field)

			orders, tickets := store.counts()
			assert.Zero(t, orders)
			assert.Zero(t, tickets)
			assert.Empty(t, store.held)
			cache.AssertNotCalled(t, "InvalidateFlights", mock.Anything)
		})
	}
}

func TestOrderService_CreateOrder_SeatAlreadySold(t *testing.T) {
	store := newMemoryOrderStore(now, upcoming)
	service, cache, producer := newService(store)
	cache.On("InvalidateFlights", mock.Anything).Return(nil)
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := service.CreateOrder(context.Background(), 1, []TicketRequest{{FlightID: 1, Row: 5, Seat: 2}})
	require.NoError(t, err)

	_, err = service.CreateOrder(context.Background(), 2, []TicketRequest{{FlightID: 1, Row: 4, Seat: 1}, {FlightID: 1, Row: 5, Seat: 2}})
	requireKind(t, err, domain.KindSeatAlreadyTaken)

	orders, tickets := store.counts()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 1, tickets)
}

func TestOrderService_CreateOrder_ConcurrentSameSeat(t *testing.T) {
	store := newMemoryOrderStore(now, upcoming)
	service, cache, producer := newService(store)
	cache.On("InvalidateFlights", mock.Anything).Return(nil)
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.CreateOrder(context.Background(), int64(i+1), []TicketRequest{{FlightID: 1, Row: 5, Seat: 2}})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, domain.KindSeatAlreadyTaken)
	}
	assert.Equal(t, 1, succeeded)

	orders, tickets := store.counts()
	assert.Equal(t, 1, orders)
	assert.Equal(t, 1, tickets)
}

func TestOrderService_CreateOrder_FlightNotFound(t *testing.T) {
	store := newMemoryOrderStore(now, upcoming)
	service, _, _ := newService(store)

	_, err := service.CreateOrder(context.Background(), 1, []TicketRequest{{FlightID: 1, Row: 1, Seat: 1}, {FlightID: 99, Row: 1, Seat: 1}})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	orders, tickets := store.counts()
	assert.Zero(t, orders)
	assert.Zero(t, tickets)
}

func TestOrderService_CreateOrder_PublishFailureIsNotFatal(t *testing.T) {
	store := newMemoryOrderStore(now, upcoming)
	service, cache, producer := newService(store)
	cache.On("InvalidateFlights", mock.Anything).Return(errors.New("redis down"))
	producer.On("Publish", mock.Anything, "events", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()

	order, err := service.CreateOrder(context.Background(), 1, []TicketRequest{{FlightID: 1, Row: 1, Seat: 1}})
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestOrderService_ListByUser(t *testing.T) {
	store := newMemoryOrderStore(now, upcoming)
	store.orders = []domain.Order{{ID: 1, UserID: 5}, {ID: 2, UserID: 6}}
	service, _, _ := newService(store)

	orders, err := service.ListByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1), orders[0].ID)
}
