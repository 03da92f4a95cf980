// Package notify publishes booking lifecycle events for downstream consumers
// (reminder senders, live calendar views). Publishing happens after commit and
// is fire-and-forget: a failed publish is logged and counted, never surfaced
// to the caller.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/saloniq/salon-booking-backend/internal/metrics"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingMoved     = "booking.moved"
	EventBookingResized   = "booking.resized"
	EventBookingReverted  = "booking.reverted"
	EventBookingCancelled = "booking.cancelled"
	EventBookingStatus    = "booking.status_changed"
)

// Event is the wire payload published on the booking events channel.
// ID is unique per event so consumers can deduplicate redeliveries.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SalonID    string    `json:"salon_id"`
	BookingID  string    `json:"booking_id"`
	StaffID    string    `json:"staff_id"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Dispatcher publishes booking events.
type Dispatcher interface {
	Publish(ctx context.Context, ev Event)
}

// NopDispatcher drops every event. Used when redis is not configured.
type NopDispatcher struct{}

func (NopDispatcher) Publish(context.Context, Event) {}

const channel = "saloniq.booking.events"

type redisDispatcher struct {
	client *redis.Client
}

// NewRedisDispatcher publishes events as JSON on a redis pub/sub channel.
func NewRedisDispatcher(client *redis.Client) Dispatcher {
	return &redisDispatcher{client: client}
}

func (d *redisDispatcher) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", ev.Type).Msg("marshal booking event failed")
		metrics.IncEventPublish("error")
		return
	}

	if err := d.client.Publish(ctx, channel, payload).Err(); err != nil {
		log.Error().Err(err).Str("type", ev.Type).Str("booking_id", ev.BookingID).
			Msg("publish booking event failed")
		metrics.IncEventPublish("error")
		return
	}
	metrics.IncEventPublish("ok")
}
