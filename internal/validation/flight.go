package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
)

const timeLayout = time.RFC3339

type ScheduleRules struct {
	MinTurnaround time.Duration
	MaxIdleGap    time.Duration
}

var DefaultScheduleRules = ScheduleRules{
	MinTurnaround: 3 * time.Hour,
	MaxIdleGap:    24 * time.Hour,
}

// ValidateFlight checks a candidate against the airplane's previous flight,
// the one with the latest arrival time. previous is nil for an airplane
// without flights. nextRoutes are the routes departing from the previous
// flight's destination and only feed the continuity message.
//
// Flights are appended per airplane, so only the previous flight is looked at.
func ValidateFlight(candidate domain.FlightCandidate, previous *domain.Flight, nextRoutes []domain.Route, rules ScheduleRules) error {
	if !candidate.DepartureTime.Before(candidate.ArrivalTime) {
		return domain.NewValidationError(domain.KindInvalidTimeOrder, "arrival_time",
			fmt.Sprintf("Arrival time %s must be after departure time %s.",
				candidate.ArrivalTime.Format(timeLayout), candidate.DepartureTime.Format(timeLayout)))
	}
	if previous == nil {
		return nil
	}

	if candidate.SourceAirportID != previous.Route.Destination.ID {
		return discontinuousRouteError(nextRoutes)
	}

	prevArrival := previous.ArrivalTime
	earliest := prevArrival.Add(rules.MinTurnaround)
	if candidate.DepartureTime.Before(prevArrival) {
		return domain.NewValidationError(domain.KindDepartureBeforePriorArrival, "departure_time",
			fmt.Sprintf("The airplane is still in the air: previous flight arrives at %s. "+
				"The earliest departure is %s.", prevArrival.Format(timeLayout), earliest.Format(timeLayout)))
	}
	if candidate.DepartureTime.Before(earliest) {
		return domain.NewValidationError(domain.KindInsufficientTurnaround, "departure_time",
			fmt.Sprintf("The airplane needs %s of rest after the previous flight. "+
				"The earliest departure is %s.", formatHours(rules.MinTurnaround), earliest.Format(timeLayout)))
	}

	if candidate.DepartureTime.Sub(prevArrival) > rules.MaxIdleGap {
		return domain.NewValidationError(domain.KindExcessiveIdleGap, "departure_time",
			fmt.Sprintf("The airplane cannot stay idle for more than %s: previous flight arrives at %s, "+
				"the latest departure is %s.", formatHours(rules.MaxIdleGap),
				prevArrival.Format(timeLayout), prevArrival.Add(rules.MaxIdleGap).Format(timeLayout)))
	}

	return nil
}

func discontinuousRouteError(nextRoutes []domain.Route) error {
	msg := "Departure location should match the arrival location of the previous flight. "
	if len(nextRoutes) == 0 {
		msg += "There are no routes with the correct departure location. " +
			"You need to create a route first, then schedule the flight."
	} else {
		names := make([]string, 0, len(nextRoutes))
		for _, r := range nextRoutes {
			names = append(names, r.String())
		}
		msg += fmt.Sprintf("Available routes with the correct departure location: %s.", strings.Join(names, ", "))
	}
	return domain.NewValidationError(domain.KindDiscontinuousRoute, "route", msg)
}

func formatHours(d time.Duration) string {
	h := d.Hours()
	if h == float64(int64(h)) {
		return fmt.Sprintf("%d hours", int64(h))
	}
	return d.String()
}
