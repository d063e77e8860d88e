package store

// schemaVersionV1 is the only schema so far.
const schemaVersionV1 = 1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	ciphertext     TEXT NOT NULL,
	max_rails      INTEGER NOT NULL DEFAULT 0,
	backend        TEXT NOT NULL,
	best_rails     INTEGER NOT NULL,
	best_plaintext TEXT NOT NULL,
	best_score     REAL NOT NULL,
	total          INTEGER NOT NULL,
	duration_ms    INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
	run_id    INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	rank      INTEGER NOT NULL,
	rails     INTEGER NOT NULL,
	plaintext TEXT NOT NULL,
	score     REAL NOT NULL,
	PRIMARY KEY (run_id, rank)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
`
