package events

import "context"

// Event types published on the marketplace lifecycle topic.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeStudioCreated    = "studio.created"
	TypeStudioApproved   = "studio.approved"
	TypeStudioDenied     = "studio.denied"
	TypeReviewCreated    = "review.created"
)

// Header keys attached to every published message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Event is a lifecycle fact about a marketplace entity. Key selects the
// partition so events for one entity stay ordered.
type Event struct {
	Type    string
	Key     string
	Payload any
}

// Publisher emits lifecycle events. Publishing is best-effort: failures are
// logged by implementations and never surfaced to the triggering request.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
func (NoopPublisher) Close() error                   { return nil }
