package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Amounts are stored as TEXT (canonical decimal strings); timestamps as
// unix seconds. participants is current state, payments is the
// append-only history; both reference the same (group_id, user_id) pair.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    phone TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    total TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT 'general',
    due_date INTEGER,
    description TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (creator_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS participants (
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    share TEXT NOT NULL,
    paid INTEGER NOT NULL DEFAULT 0,
    paid_at INTEGER,
    method TEXT NOT NULL DEFAULT '',
    proof TEXT NOT NULL DEFAULT '',
    proof_status INTEGER NOT NULL DEFAULT 0,
    validated_at INTEGER,
    validated_by TEXT NOT NULL DEFAULT '',
    validation_note TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    paid_at INTEGER NOT NULL,
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_groups_creator_id ON groups(creator_id);
CREATE INDEX IF NOT EXISTS idx_participants_user_id ON participants(user_id);
CREATE INDEX IF NOT EXISTS idx_payments_group_id ON payments(group_id);
CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments(user_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
