package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS user_settings (
    user_id      TEXT PRIMARY KEY,
    document     TEXT NOT NULL,
    revision     TEXT NOT NULL,
    updated_at   TEXT NOT NULL
);
`
