package messaging

import (
	"log"
	"sync"
	"time"

	"recondeck/config"
	"recondeck/store"
)

const drainBatch = 50

// Drainer ships queued vehicle notifications to the broker. It works
// through the outbox in batches each tick; a publish failure records a
// retry and waits for the next tick rather than hammering a broker
// that just refused a message.
type Drainer struct {
	db       *store.DB
	client   *Client
	interval time.Duration
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewDrainer creates a drainer for the configured broker.
func NewDrainer(db *store.DB, client *Client, cfg *config.MessagingConfig) *Drainer {
	interval := cfg.OutboxDrainInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Drainer{
		db:       db,
		client:   client,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the drain loop.
func (d *Drainer) Start() {
	d.wg.Add(1)
	go d.drainLoop()
}

// Stop stops the drain loop.
func (d *Drainer) Stop() {
	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}
	d.wg.Wait()
}

func (d *Drainer) drainLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.drain()
		}
	}
}

// drain publishes pending notifications until the outbox is empty or
// the broker rejects one.
func (d *Drainer) drain() {
	if !d.client.IsConnected() {
		return
	}

	for {
		pending, err := d.db.PendingNotifications(drainBatch)
		if err != nil {
			log.Printf("list pending notifications: %v", err)
			return
		}
		if len(pending) == 0 {
			return
		}

		for _, n := range pending {
			if err := d.client.Publish(n.Topic, n.Payload); err != nil {
				log.Printf("publish %s notification %d: %v", n.EventType, n.ID, err)
				d.db.RecordNotificationFailure(n.ID)
				return
			}
			if err := d.db.MarkNotificationSent(n.ID); err != nil {
				log.Printf("mark notification %d sent: %v", n.ID, err)
				return
			}
		}
		if len(pending) < drainBatch {
			return
		}
	}
}
