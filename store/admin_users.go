package store

import (
	"database/sql"
	"time"
)

// AdminUser is the back-office account that gates payment mutations.
// It is created on the first ever login rather than seeded.
type AdminUser struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (db *DB) GetAdminUser(username string) (*AdminUser, error) {
	u := &AdminUser{}
	var lastLogin sql.NullString
	var createdAt string
	err := db.QueryRow(`SELECT id, username, password_hash, last_login, created_at FROM admin_users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &lastLogin, &createdAt)
	if err != nil {
		return nil, err
	}
	u.LastLogin = scanTimePtr(lastLogin)
	u.CreatedAt = scanTime(createdAt)
	return u, nil
}

func (db *DB) CreateAdminUser(username, passwordHash string) error {
	_, err := db.Exec(`INSERT INTO admin_users (username, password_hash) VALUES (?, ?)`, username, passwordHash)
	return err
}

func (db *DB) UpdateAdminPassword(username, passwordHash string) error {
	_, err := db.Exec(`UPDATE admin_users SET password_hash = ? WHERE username = ?`, passwordHash, username)
	return err
}

// RecordAdminLogin stamps the last successful login.
func (db *DB) RecordAdminLogin(username string) error {
	_, err := db.Exec(`UPDATE admin_users SET last_login = datetime('now','localtime') WHERE username = ?`, username)
	return err
}

func (db *DB) AdminUserExists() (bool, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM admin_users`).Scan(&count)
	return count > 0, err
}
