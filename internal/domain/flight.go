package domain

import "time"

type Flight struct {
	ID               int64
	Route            Route
	Airplane         Airplane
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Crew             []Crew
	TicketsSold      int
	TicketsAvailable int
	CreatedAt        time.Time
}

// FlightCandidate is a flight that has not been scheduled yet.
type FlightCandidate struct {
	SourceAirportID int64
	DepartureTime   time.Time
	ArrivalTime     time.Time
}

type FlightFilter struct {
	Date    *time.Time
	RouteID int64
}

// FlightSeating is what a ticket needs to know about its flight.
type FlightSeating struct {
	FlightID      int64
	DepartureTime time.Time
	Airplane      Airplane
}
