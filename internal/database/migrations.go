package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1UserEvents,
}

// migrationV1UserEvents creates the user event table.
//
// storage_key partitions events the way a browser storage key would, so
// several widgets can share one database file. Ids are unique per key.
const migrationV1UserEvents = `
CREATE TABLE IF NOT EXISTS user_events (
    id TEXT NOT NULL,
    storage_key TEXT NOT NULL,

    -- Calendar date the event is pinned to, YYYY-MM-DD
    date TEXT NOT NULL,
    title TEXT NOT NULL CHECK (length(title) > 0),

    -- RFC 3339 timestamp with nanoseconds
    created_at TEXT NOT NULL,

    PRIMARY KEY (storage_key, id)
);

-- Month views look events up by date within a key
CREATE INDEX IF NOT EXISTS idx_user_events_key_date
    ON user_events(storage_key, date);
`
