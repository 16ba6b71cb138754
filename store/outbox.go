package store

// maxNotificationRetries parks a notification after repeated publish
// failures so one poison message cannot wedge the drain loop. Parked
// rows stay in the table for manual inspection.
const maxNotificationRetries = 10

// Notification is a queued outbound broker message. Rows stay until
// acknowledged so the dealership channels eventually hear about every
// change, broker outages included.
type Notification struct {
	ID        int64   `json:"id"`
	Topic     string  `json:"topic"`
	Payload   []byte  `json:"payload"`
	EventType string  `json:"event_type"`
	Retries   int     `json:"retries"`
	CreatedAt string  `json:"created_at"`
	SentAt    *string `json:"sent_at"`
}

func (db *DB) EnqueueNotification(topic string, payload []byte, eventType string) (int64, error) {
	res, err := db.Exec(`INSERT INTO outbox (topic, payload, event_type) VALUES (?, ?, ?)`, topic, payload, eventType)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// PendingNotifications returns unsent rows that have not exhausted
// their retries, oldest first.
func (db *DB) PendingNotifications(limit int) ([]Notification, error) {
	rows, err := db.Query(`SELECT id, topic, payload, event_type, retries, created_at
		FROM outbox WHERE sent_at IS NULL AND retries < ? ORDER BY id LIMIT ?`,
		maxNotificationRetries, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pending []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Topic, &n.Payload, &n.EventType, &n.Retries, &n.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, n)
	}
	return pending, rows.Err()
}

func (db *DB) MarkNotificationSent(id int64) error {
	_, err := db.Exec(`UPDATE outbox SET sent_at = datetime('now','localtime') WHERE id = ?`, id)
	return err
}

func (db *DB) RecordNotificationFailure(id int64) error {
	_, err := db.Exec(`UPDATE outbox SET retries = retries + 1 WHERE id = ?`, id)
	return err
}
