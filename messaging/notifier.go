package messaging

import (
	"encoding/json"
	"log"
	"time"

	"recondeck/engine"
	"recondeck/store"
)

// EventMessage is the envelope published for every queue notification.
type EventMessage struct {
	Dealership string      `json:"dealership"`
	EventType  string      `json:"event_type"`
	Timestamp  string      `json:"timestamp"`
	Data       interface{} `json:"data"`
}

// Notifier turns engine events into durable outbox messages so the
// delivery team's channels see validations, stage changes and finished
// vehicles even across broker outages.
type Notifier struct {
	db         *store.DB
	dealership string
	topic      string
	subID      engine.SubscriberID
	bus        *engine.EventBus
}

// NewNotifier creates a notifier writing to the outbox.
func NewNotifier(db *store.DB, dealership, topic string) *Notifier {
	return &Notifier{db: db, dealership: dealership, topic: topic}
}

// Start subscribes to the engine events worth broadcasting.
func (n *Notifier) Start(bus *engine.EventBus) {
	n.bus = bus
	n.subID = bus.SubscribeTypes(n.handle,
		engine.EventStatusChanged,
		engine.EventValidationChanged,
		engine.EventVehicleFinished,
	)
}

// Stop unsubscribes from the event bus.
func (n *Notifier) Stop() {
	if n.bus != nil {
		n.bus.Unsubscribe(n.subID)
	}
}

func (n *Notifier) handle(evt engine.Event) {
	msg := EventMessage{
		Dealership: n.dealership,
		EventType:  evt.Type.String(),
		Timestamp:  evt.Timestamp.UTC().Format(time.RFC3339),
		Data:       evt.Payload,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal event message: %v", err)
		return
	}
	if _, err := n.db.EnqueueNotification(n.topic, payload, msg.EventType); err != nil {
		log.Printf("enqueue %s notification: %v", msg.EventType, err)
	}
}
