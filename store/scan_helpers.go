package store

import (
	"database/sql"
	"time"
)

// Timestamps are stored as SQLite text. Two shapes occur in vehicle
// rows: full datetimes written by this service and bare dates carried
// over from the sales feed import.
var storedTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseStoredTime(s string) (time.Time, bool) {
	for _, layout := range storedTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func scanTime(s string) time.Time {
	t, _ := parseStoredTime(s)
	return t
}

func scanTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, ok := parseStoredTime(ns.String)
	if !ok {
		return nil
	}
	return &t
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(storedTimeLayouts[0])
}
