package validation

import (
	"testing"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertKind(t *testing.T, err error, want domain.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := domain.KindOf(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, want, kind)
}

func TestValidateRoute(t *testing.T) {
	assert.NoError(t, ValidateRoute(1, 2))
	assertKind(t, ValidateRoute(3, 3), domain.KindInvalidRoute)
}

var (
	kyiv   = domain.Airport{ID: 1, Name: "Boryspil"}
	london = domain.Airport{ID: 2, Name: "Heathrow"}
	paris  = domain.Airport{ID: 3, Name: "Charles de Gaulle"}
)

func previousFlight(arrival time.Time) *domain.Flight {
	return &domain.Flight{
		ID:            10,
		Route:         domain.Route{ID: 1, Source: kyiv, Destination: london},
		DepartureTime: arrival.Add(-3 * time.Hour),
		ArrivalTime:   arrival,
	}
}

func TestValidateFlight_NoPreviousFlight(t *testing.T) {
	dep := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	// only chronology applies, any source airport is fine
	err := ValidateFlight(domain.FlightCandidate{SourceAirportID: paris.ID, DepartureTime: dep, ArrivalTime: dep.Add(time.Hour)},
		nil, nil, DefaultScheduleRules)
	assert.NoError(t, err)

	err = ValidateFlight(domain.FlightCandidate{SourceAirportID: paris.ID, DepartureTime: dep, ArrivalTime: dep},
		nil, nil, DefaultScheduleRules)
	assertKind(t, err, domain.KindInvalidTimeOrder)

	err = ValidateFlight(domain.FlightCandidate{SourceAirportID: paris.ID, DepartureTime: dep, ArrivalTime: dep.Add(-time.Minute)},
		nil, nil, DefaultScheduleRules)
	assertKind(t, err, domain.KindInvalidTimeOrder)
}

func TestValidateFlight_WithPreviousFlight(t *testing.T) {
	arrival := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	prev := previousFlight(arrival)

	testCases := []struct {
		name      string
		source    int64
		departure time.Time
		want      domain.ErrorKind
	}{
		{name: "exactly turnaround", source: london.ID, departure: arrival.Add(3 * time.Hour)},
		{name: "exactly max idle", source: london.ID, departure: arrival.Add(24 * time.Hour)},
		{name: "within window", source: london.ID, departure: arrival.Add(10 * time.Hour)},
		{name: "before prior arrival", source: london.ID, departure: arrival.Add(-time.Minute), want: domain.KindDepartureBeforePriorArrival},
		{name: "at prior arrival", source: london.ID, departure: arrival, want: domain.KindInsufficientTurnaround},
		{name: "short rest", source: london.ID, departure: arrival.Add(2*time.Hour + 59*time.Minute), want: domain.KindInsufficientTurnaround},
		{name: "idle too long", source: london.ID, departure: arrival.Add(24*time.Hour + time.Second), want: domain.KindExcessiveIdleGap},
		{name: "wrong airport", source: paris.ID, departure: arrival.Add(5 * time.Hour), want: domain.KindDiscontinuousRoute},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := domain.FlightCandidate{
				SourceAirportID: tc.source,
				DepartureTime:   tc.departure,
				ArrivalTime:     tc.departure.Add(2 * time.Hour),
			}
			err := ValidateFlight(candidate, prev, nil, DefaultScheduleRules)
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			assertKind(t, err, tc.want)
		})
	}
}

func TestValidateFlight_TimeOrderCheckedFirst(t *testing.T) {
	arrival := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	dep := arrival.Add(-time.Hour)

	err := ValidateFlight(domain.FlightCandidate{SourceAirportID: paris.ID, DepartureTime: dep, ArrivalTime: dep},
		previousFlight(arrival), nil, DefaultScheduleRules)
	assertKind(t, err, domain.KindInvalidTimeOrder)
}

func TestValidateFlight_TooSoonMessagesCiteEarliestDeparture(t *testing.T) {
	arrival := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	earliest := "2026-05-01T15:00:00Z"

	for _, dep := range []time.Time{arrival.Add(-time.Hour), arrival.Add(time.Hour)} {
		err := ValidateFlight(domain.FlightCandidate{SourceAirportID: london.ID, DepartureTime: dep, ArrivalTime: dep.Add(time.Hour)},
			previousFlight(arrival), nil, DefaultScheduleRules)
		require.Error(t, err)
		assert.Contains(t, err.Error(), earliest)
	}
}

func TestValidateFlight_DiscontinuousRouteMessage(t *testing.T) {
	arrival := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	candidate := domain.FlightCandidate{SourceAirportID: paris.ID, DepartureTime: arrival.Add(4 * time.Hour), ArrivalTime: arrival.Add(6 * time.Hour)}

	next := []domain.Route{
		{ID: 2, Source: london, Destination: kyiv},
		{ID: 3, Source: london, Destination: paris},
	}
	err := ValidateFlight(candidate, previousFlight(arrival), next, DefaultScheduleRules)
	assertKind(t, err, domain.KindDiscontinuousRoute)
	assert.Contains(t, err.Error(), "Heathrow - Boryspil, Heathrow - Charles de Gaulle")

	err = ValidateFlight(candidate, previousFlight(arrival), nil, DefaultScheduleRules)
	assertKind(t, err, domain.KindDiscontinuousRoute)
	assert.Contains(t, err.Error(), "You need to create a route first")
}

func TestValidateFlight_CustomRules(t *testing.T) {
	arrival := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rules := ScheduleRules{MinTurnaround: time.Hour, MaxIdleGap: 2 * time.Hour}
	dep := arrival.Add(90 * time.Minute)

	err := ValidateFlight(domain.FlightCandidate{SourceAirportID: london.ID, DepartureTime: dep, ArrivalTime: dep.Add(time.Hour)},
		previousFlight(arrival), nil, rules)
	assert.NoError(t, err)

	dep = arrival.Add(3 * time.Hour)
	err = ValidateFlight(domain.FlightCandidate{SourceAirportID: london.ID, DepartureTime: dep, ArrivalTime: dep.Add(time.Hour)},
		previousFlight(arrival), nil, rules)
	assertKind(t, err, domain.KindExcessiveIdleGap)
}

func TestValidateTicket(t *testing.T) {
	airplane := domain.Airplane{Rows: 30, SeatsInRow: 6}

	for row := 1; row <= 30; row++ {
		for seat := 1; seat <= 6; seat++ {
			require.NoError(t, ValidateTicket(row, seat, airplane))
		}
	}

	testCases := []struct {
		name      string
		row, seat int
		field     string
		message   string
	}{
		{"row too big", 31, 1, "row", "row number must be in available range: (1, rows): (1, 30)"},
		{"row zero", 0, 1, "row", "row number must be in available range: (1, rows): (1, 30)"},
		{"seat too big", 1, 7, "seat", "seat number must be in available range: (1, seats_in_row): (1, 6)"},
		{"seat negative", 5, -1, "seat", "seat number must be in available range: (1, seats_in_row): (1, 6)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTicket(tc.row, tc.seat, airplane)
			assertKind(t, err, domain.KindSeatOutOfRange)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.message, verr.Message)
		})
	}
}

func TestValidateTicketTiming(t *testing.T) {
	departure := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateTicketTiming(departure.Add(-time.Hour), departure))
	assert.NoError(t, ValidateTicketTiming(departure, departure))
	assertKind(t, ValidateTicketTiming(departure.Add(time.Second), departure), domain.KindBookingPastFlight)
}

func TestAvailableSeats(t *testing.T) {
	assert.Equal(t, 30, AvailableSeats(180, 150))
	assert.Equal(t, 0, AvailableSeats(180, 180))
	assert.Equal(t, -2, AvailableSeats(180, 182))
}
