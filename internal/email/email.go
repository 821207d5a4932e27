package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/logger"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Sender renders notifications for domain events. Delivery is a log line.
type Sender struct {
	log *slog.Logger
}

func NewSender() *Sender {
	return &Sender{log: logger.Get().With("component", "email")}
}

func (s *Sender) SendOrderReceipt(ctx context.Context, event kafka.OrderEvent) error {
	s.log.InfoContext(ctx, "send order receipt",
		"user_id", event.UserID, "order_id", event.OrderID, "body", OrderReceipt(event))
	return nil
}

func (s *Sender) SendFlightScheduled(ctx context.Context, event kafka.FlightEvent) error {
	s.log.InfoContext(ctx, "send crew schedule notice",
		"flight_id", event.FlightID, "route", event.Route, "departure_time", event.DepartureTime)
	return nil
}

// Handle decodes a message from the notifications topic and sends it.
// Malformed or unknown messages are skipped so the consumer keeps going.
func (s *Sender) Handle(ctx context.Context, msg kafkaGo.Message) error {
	var envelope kafka.Envelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		s.log.WarnContext(ctx, "decode event", "error", err, "offset", msg.Offset)
		return nil
	}

	switch envelope.Type {
	case kafka.EventOrderCreated:
		var event kafka.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			s.log.WarnContext(ctx, "decode order event", "error", err)
			return nil
		}
		return s.SendOrderReceipt(ctx, event)
	case kafka.EventFlightScheduled:
		var event kafka.FlightEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			s.log.WarnContext(ctx, "decode flight event", "error", err)
			return nil
		}
		return s.SendFlightScheduled(ctx, event)
	default:
		s.log.DebugContext(ctx, "skip event", "type", envelope.Type)
		return nil
	}
}

func OrderReceipt(event kafka.OrderEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d, %d ticket(s):", event.OrderID, len(event.Tickets))
	for _, t := range event.Tickets {
		fmt.Fprintf(&b, " [flight %d row %d seat %d]", t.FlightID, t.Row, t.Seat)
	}
	return b.String()
}
