package audit

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS settlement_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    open_picks INTEGER NOT NULL,
    settled_picks INTEGER NOT NULL,
    recorded_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS settled_picks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES settlement_runs(id),
    pick_id TEXT NOT NULL,
    event_id TEXT NOT NULL,
    sport TEXT NOT NULL,
    market TEXT NOT NULL,
    selection TEXT NOT NULL,
    stake REAL NOT NULL,
    odds REAL NOT NULL,
    result TEXT NOT NULL,
    profit INTEGER NOT NULL,
    home_score REAL,
    away_score REAL,
    home_team TEXT,
    away_team TEXT,
    settled_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_settled_picks_pick ON settled_picks(pick_id);
CREATE INDEX IF NOT EXISTS idx_settled_picks_sport ON settled_picks(sport);
CREATE INDEX IF NOT EXISTS idx_settled_picks_run ON settled_picks(run_id);
`
