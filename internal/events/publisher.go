// Package events publishes booking lifecycle events to an AMQP topic
// exchange so downstream consumers (notifications, analytics) can react
// without querying the primary database. Publishing is best-effort
// glue: failures are logged by callers and never block the operation
// that produced the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/venuepoint/venue-booking-backend/internal/models"
)

// Routing keys for booking lifecycle events.
const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

// BookingEvent is the payload published for every booking transition.
type BookingEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	VenueID    uuid.UUID `json:"venue_id"`
	Status     string    `json:"status"`
	EventDate  string    `json:"event_date"`
	EndDate    string    `json:"end_date"`
	OccurredAt string    `json:"occurred_at"`
}

// Publisher publishes booking lifecycle events.
type Publisher interface {
	PublishBooking(ctx context.Context, routingKey string, booking *models.Booking) error
	Close() error
}

// AMQPPublisher publishes events to a RabbitMQ topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher connects to the broker and declares the exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// PublishBooking publishes a booking event under the given routing key.
func (p *AMQPPublisher) PublishBooking(ctx context.Context, routingKey string, booking *models.Booking) error {
	event := BookingEvent{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		VenueID:    booking.VenueID,
		Status:     string(booking.Status),
		EventDate:  booking.EventDate.Format(models.BookingDateLayout),
		EndDate:    booking.EndDate.Format(models.BookingDateLayout),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
}

// Close shuts down the channel and connection.
func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// NoopPublisher is used when no AMQP broker is configured.
type NoopPublisher struct{}

// PublishBooking discards the event.
func (NoopPublisher) PublishBooking(context.Context, string, *models.Booking) error { return nil }

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
