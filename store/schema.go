package store

const schema = `
CREATE TABLE IF NOT EXISTS admin_users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    last_login    TEXT,
    created_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS vehicles (
    id                TEXT PRIMARY KEY,
    license_plate     TEXT NOT NULL,
    model             TEXT NOT NULL DEFAULT '',
    vehicle_type      TEXT NOT NULL DEFAULT 'Coche',
    brand             TEXT NOT NULL DEFAULT '',
    vin               TEXT NOT NULL DEFAULT '',
    sale_date         TEXT,
    advisor           TEXT NOT NULL DEFAULT '',
    advisor_name      TEXT NOT NULL DEFAULT '',
    price             REAL NOT NULL DEFAULT 0,
    payment_method    TEXT NOT NULL DEFAULT 'contado',
    payment_status    TEXT NOT NULL DEFAULT 'pendiente',
    document_type     TEXT NOT NULL DEFAULT '',
    client_doc_id     TEXT NOT NULL DEFAULT '',
    bank              TEXT NOT NULL DEFAULT '',
    dealership_code   TEXT NOT NULL DEFAULT '',
    delivery_center   TEXT NOT NULL DEFAULT '',
    external_provider TEXT NOT NULL DEFAULT '',
    or_value          TEXT NOT NULL DEFAULT 'ORT',
    body_status       TEXT NOT NULL DEFAULT 'pending',
    body_date         TEXT,
    mechanical_status TEXT NOT NULL DEFAULT 'pending',
    mechanical_date   TEXT,
    cyp_status        TEXT NOT NULL DEFAULT 'pending',
    cyp_date          TEXT,
    photo360_status   TEXT NOT NULL DEFAULT 'pending',
    photo360_date     TEXT,
    validated         INTEGER NOT NULL DEFAULT 0,
    validation_date   TEXT,
    created_at        TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    updated_at        TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE INDEX IF NOT EXISTS idx_vehicles_plate ON vehicles(license_plate);

CREATE TABLE IF NOT EXISTS status_history (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    vehicle_id TEXT NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
    process    TEXT NOT NULL,
    old_status TEXT NOT NULL,
    new_status TEXT NOT NULL,
    detail     TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE INDEX IF NOT EXISTS idx_status_history_vehicle ON status_history(vehicle_id);

CREATE TABLE IF NOT EXISTS outbox (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    topic      TEXT NOT NULL,
    payload    BLOB NOT NULL,
    event_type TEXT NOT NULL DEFAULT '',
    retries    INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    sent_at    TEXT
);
`
