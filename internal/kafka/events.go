package kafka

import "time"

const (
	EventFlightScheduled = "flight_scheduled"
	EventOrderCreated    = "order_created"
)

type FlightEvent struct {
	Type          string    `json:"type"`
	FlightID      int64     `json:"flight_id"`
	RouteID       int64     `json:"route_id"`
	Route         string    `json:"route"`
	AirplaneID    int64     `json:"airplane_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

type OrderEvent struct {
	Type      string        `json:"type"`
	OrderID   int64         `json:"order_id"`
	UserID    int64         `json:"user_id"`
	CreatedAt time.Time     `json:"created_at"`
	Tickets   []TicketEvent `json:"tickets"`
}

type TicketEvent struct {
	FlightID int64 `json:"flight_id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
}

// Envelope is decoded first to route a message by its type.
type Envelope struct {
	Type string `json:"type"`
}
