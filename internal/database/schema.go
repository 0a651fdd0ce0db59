// Package database opens the model registry stores and owns their schemas.
package database

// PostgresSchema creates the registry tables on PostgreSQL.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS models (
    id              UUID PRIMARY KEY,
    name            TEXT        NOT NULL,
    version         TEXT        NOT NULL,
    model_type      TEXT        NOT NULL,
    path            TEXT        NOT NULL,
    hyperparameters JSONB,
    metrics         JSONB,
    trained_at      TIMESTAMPTZ NOT NULL,
    active          BOOLEAN     NOT NULL DEFAULT false,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (name, version)
);

CREATE TABLE IF NOT EXISTS search_candidates (
    id           UUID PRIMARY KEY,
    run_id       UUID        NOT NULL,
    position     INTEGER     NOT NULL,
    p            INTEGER     NOT NULL,
    d            INTEGER     NOT NULL,
    q            INTEGER     NOT NULL,
    rmse         DOUBLE PRECISION,
    status       TEXT        NOT NULL,
    error        TEXT        NOT NULL DEFAULT '',
    evaluated_at TIMESTAMPTZ NOT NULL,
    UNIQUE (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_models_name ON models(name, trained_at DESC);
CREATE INDEX IF NOT EXISTS idx_candidates_run ON search_candidates(run_id, position);
`

// SQLiteSchema creates the registry tables on SQLite. Timestamps are stored
// as RFC 3339 text and JSON documents as text.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS models (
    id              TEXT PRIMARY KEY,
    name            TEXT    NOT NULL,
    version         TEXT    NOT NULL,
    model_type      TEXT    NOT NULL,
    path            TEXT    NOT NULL,
    hyperparameters TEXT,
    metrics         TEXT,
    trained_at      TEXT    NOT NULL,
    active          INTEGER NOT NULL DEFAULT 0,
    created_at      TEXT    NOT NULL,
    updated_at      TEXT    NOT NULL,
    UNIQUE (name, version)
);

CREATE TABLE IF NOT EXISTS search_candidates (
    id           TEXT PRIMARY KEY,
    run_id       TEXT    NOT NULL,
    position     INTEGER NOT NULL,
    p            INTEGER NOT NULL,
    d            INTEGER NOT NULL,
    q            INTEGER NOT NULL,
    rmse         REAL,
    status       TEXT    NOT NULL,
    error        TEXT    NOT NULL DEFAULT '',
    evaluated_at TEXT    NOT NULL,
    UNIQUE (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_models_name ON models(name, trained_at DESC);
CREATE INDEX IF NOT EXISTS idx_candidates_run ON search_candidates(run_id, position);
`
