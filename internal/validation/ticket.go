package validation

import (
	"fmt"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
)

// ValidateTicket checks the seat coordinate against the airplane geometry.
func ValidateTicket(row, seat int, airplane domain.Airplane) error {
	for _, c := range []struct {
		value      int
		name       string
		boundName  string
		boundValue int
	}{
		{row, "row", "rows", airplane.Rows},
		{seat, "seat", "seats_in_row", airplane.SeatsInRow},
	} {
		if c.value < 1 || c.value > c.boundValue {
			return domain.NewValidationError(domain.KindSeatOutOfRange, c.name,
				fmt.Sprintf("%s number must be in available range: (1, %s): (1, %d)", c.name, c.boundName, c.boundValue))
		}
	}
	return nil
}

// ValidateTicketTiming rejects bookings made after the flight has departed.
func ValidateTicketTiming(orderCreatedAt, departure time.Time) error {
	if orderCreatedAt.After(departure) {
		return domain.NewValidationError(domain.KindBookingPastFlight, "order",
			fmt.Sprintf("Booking for past flights is not available. Order created at %s but the flight departs at %s.",
				orderCreatedAt.Format(timeLayout), departure.Format(timeLayout)))
	}
	return nil
}
