package database

// schema is idempotent and runs on every start.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             UUID PRIMARY KEY,
	email          TEXT        NOT NULL UNIQUE,
	password_hash  TEXT        NOT NULL,
	name           TEXT        NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS penalty_calculations (
	id          UUID PRIMARY KEY,
	user_id     TEXT        NOT NULL,
	domain      TEXT        NOT NULL,
	rule_key    TEXT        NOT NULL,
	request     JSONB       NOT NULL,
	result      JSONB       NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_penalty_calculations_user_created
	ON penalty_calculations (user_id, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_penalty_calculations_created
	ON penalty_calculations (created_at);
`
