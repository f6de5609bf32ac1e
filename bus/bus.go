// Package bus publishes planner/actor trace events onto NATS core
// subjects so an out-of-process observer (a dashboard, another agent)
// can watch a run live. Grounded on eventbus/nats_bus.go's NATSBus and
// CanonicalEvent envelope.
package bus

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	htn "github.com/fire/gohtn"
)

// Config mirrors eventbus.NATSConfig: a connection URL and the subject
// events are published to.
type Config struct {
	URL     string
	Subject string
}

// Bus wraps a NATS connection bound to a single subject.
type Bus struct {
	nc      *nats.Conn
	subject string
}

// Connect dials NATS with the same reconnection posture as the rest of
// this codebase's NATS clients: unlimited reconnect attempts, 2s backoff.
func Connect(cfg Config) (*Bus, error) {
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url,
		nats.Name("gohtn-bus"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "htn.events"
	}
	return &Bus{nc: nc, subject: subject}, nil
}

// Close closes the underlying connection without draining it.
func (b *Bus) Close() {
	b.nc.Close()
}

// PublishedEvent is the wire envelope for an htn.Event, timestamped and
// attributed to the domain that produced it.
type PublishedEvent struct {
	DomainName string    `json:"domain_name"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"`
	Depth      int       `json:"depth"`
	ItemName   string    `json:"item_name,omitempty"`
	Method     string    `json:"method,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

func eventKindName(k htn.EventKind) string {
	switch k {
	case htn.EventMethodTried:
		return "method_tried"
	case htn.EventMethodSucceeded:
		return "method_succeeded"
	case htn.EventMethodFailed:
		return "method_failed"
	case htn.EventActionApplied:
		return "action_applied"
	case htn.EventActionFailed:
		return "action_failed"
	case htn.EventVerifyFailed:
		return "verify_failed"
	case htn.EventPlanFound:
		return "plan_found"
	case htn.EventPlanFailed:
		return "plan_failed"
	case htn.EventCommandFailed:
		return "command_failed"
	case htn.EventReplan:
		return "replan"
	default:
		return "unknown"
	}
}

// Publish marshals e as a PublishedEvent and publishes it to the bus's subject.
func (b *Bus) Publish(domainName string, e htn.Event) error {
	pe := PublishedEvent{
		DomainName: domainName,
		Timestamp:  time.Now().UTC(),
		Kind:       eventKindName(e.Kind),
		Depth:      e.Depth,
		ItemName:   e.ItemName,
		Method:     e.Method,
		Detail:     e.Detail,
	}
	data, err := json.Marshal(pe)
	if err != nil {
		return err
	}
	return b.nc.Publish(b.subject, data)
}

// Subscribe registers handler for every PublishedEvent seen on the
// bus's subject until the returned subscription is unsubscribed or the
// bus is closed. Messages that do not decode as a PublishedEvent are
// dropped without calling handler.
func (b *Bus) Subscribe(handler func(PublishedEvent)) (*nats.Subscription, error) {
	return b.nc.Subscribe(b.subject, func(msg *nats.Msg) {
		var pe PublishedEvent
		if err := json.Unmarshal(msg.Data, &pe); err == nil {
			handler(pe)
		}
	})
}

// EventSink adapts a Bus into an htn.EventSink, so a Planner/Actor can
// publish its trace directly without the caller wiring a bridge.
type EventSink struct {
	bus        *Bus
	domainName string
}

// NewEventSink builds an htn.EventSink that publishes every event to bus.
func NewEventSink(bus *Bus, domainName string) *EventSink {
	return &EventSink{bus: bus, domainName: domainName}
}

func (s *EventSink) Emit(e htn.Event) {
	// Publishing is best-effort observability; a broker hiccup must
	// never abort a planning/acting run.
	_ = s.bus.Publish(s.domainName, e)
}
