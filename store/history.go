package store

// StatusHistory records one process stage transition for audit.
type StatusHistory struct {
	ID        int64  `json:"id"`
	VehicleID string `json:"vehicle_id"`
	Process   string `json:"process"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

func (db *DB) InsertStatusHistory(vehicleID, process, oldStatus, newStatus, detail string) error {
	_, err := db.Exec(`INSERT INTO status_history (vehicle_id, process, old_status, new_status, detail) VALUES (?, ?, ?, ?, ?)`,
		vehicleID, process, oldStatus, newStatus, detail)
	return err
}

func (db *DB) ListStatusHistory(vehicleID string) ([]StatusHistory, error) {
	rows, err := db.Query(`SELECT id, vehicle_id, process, old_status, new_status, detail, created_at
		FROM status_history WHERE vehicle_id = ? ORDER BY id DESC`, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hist []StatusHistory
	for rows.Next() {
		var h StatusHistory
		if err := rows.Scan(&h.ID, &h.VehicleID, &h.Process, &h.OldStatus, &h.NewStatus, &h.Detail, &h.CreatedAt); err != nil {
			return nil, err
		}
		hist = append(hist, h)
	}
	return hist, rows.Err()
}
