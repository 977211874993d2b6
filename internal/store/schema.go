package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    fetched_at   TEXT NOT NULL,
    row_count    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_rows (
    snapshot_id      INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
    position         INTEGER NOT NULL,
    name             TEXT,
    cost_raw         REAL,
    cost_display     TEXT,
    date_remaining   INTEGER,
    status           TEXT,
    next_renewal     TEXT,
    PRIMARY KEY (snapshot_id, position)
);
`
