package email

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Domenick1991/airport/internal/kafka"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderReceipt(t *testing.T) {
	body := OrderReceipt(kafka.OrderEvent{
		OrderID: 12,
		Tickets: []kafka.TicketEvent{{FlightID: 3, Row: 5, Seat: 2}, {FlightID: 3, Row: 5, Seat: 3}},
	})
	assert.Equal(t, "Order #12, 2 ticket(s): [flight 3 row 5 seat 2] [flight 3 row 5 seat 3]", body)
}

func TestSender_Handle(t *testing.T) {
	s := NewSender()
	ctx := context.Background()

	order, err := json.Marshal(kafka.OrderEvent{Type: kafka.EventOrderCreated, OrderID: 1})
	require.NoError(t, err)
	flight, err := json.Marshal(kafka.FlightEvent{Type: kafka.EventFlightScheduled, FlightID: 2})
	require.NoError(t, err)

	for _, value := range [][]byte{order, flight, []byte(`{"type":"unknown"}`), []byte(`not json`)} {
		assert.NoError(t, s.Handle(ctx, kafkaGo.Message{Value: value}))
	}
}
