package database

const postgresMigration = `
CREATE TABLE IF NOT EXISTS locations (
	id         SERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	address    TEXT NOT NULL,
	latitude   DOUBLE PRECISION NOT NULL,
	longitude  DOUBLE PRECISION NOT NULL,
	elevation  DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS markers (
	id          SERIAL PRIMARY KEY,
	location_id INTEGER REFERENCES locations(id),
	latitude    DOUBLE PRECISION NOT NULL,
	longitude   DOUBLE PRECISION NOT NULL,
	type        TEXT NOT NULL DEFAULT 'point',
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS feng_shui_analysis (
	id            SERIAL PRIMARY KEY,
	location_id   INTEGER NOT NULL REFERENCES locations(id),
	directions    TEXT NOT NULL,
	analysis_date TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS kyusei_analysis (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	location_id    INTEGER REFERENCES locations(id),
	birth_date     TEXT NOT NULL,
	move_year      INTEGER NOT NULL,
	move_month     INTEGER NOT NULL,
	home_star      INTEGER NOT NULL,
	good_sectors   TEXT NOT NULL,
	bad_directions TEXT NOT NULL,
	recommendation TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS user_profiles (
	id         SERIAL PRIMARY KEY,
	session_id TEXT NOT NULL UNIQUE,
	birth_date TEXT,
	home_star  INTEGER,
	home_lat   DOUBLE PRECISION,
	home_lng   DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_markers_location_id ON markers(location_id);
CREATE INDEX IF NOT EXISTS idx_feng_shui_analysis_location_id ON feng_shui_analysis(location_id);
CREATE INDEX IF NOT EXISTS idx_kyusei_analysis_session_id ON kyusei_analysis(session_id);
CREATE INDEX IF NOT EXISTS idx_kyusei_analysis_location_id ON kyusei_analysis(location_id);
`

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS locations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	address    TEXT NOT NULL,
	latitude   REAL NOT NULL,
	longitude  REAL NOT NULL,
	elevation  REAL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS markers (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	location_id INTEGER REFERENCES locations(id),
	latitude    REAL NOT NULL,
	longitude   REAL NOT NULL,
	type        TEXT NOT NULL DEFAULT 'point',
	is_active   BOOLEAN NOT NULL DEFAULT 1,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS feng_shui_analysis (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	location_id   INTEGER NOT NULL REFERENCES locations(id),
	directions    TEXT NOT NULL,
	analysis_date DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS kyusei_analysis (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	location_id    INTEGER REFERENCES locations(id),
	birth_date     TEXT NOT NULL,
	move_year      INTEGER NOT NULL,
	move_month     INTEGER NOT NULL,
	home_star      INTEGER NOT NULL,
	good_sectors   TEXT NOT NULL,
	bad_directions TEXT NOT NULL,
	recommendation TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS user_profiles (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL UNIQUE,
	birth_date TEXT,
	home_star  INTEGER,
	home_lat   REAL,
	home_lng   REAL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_markers_location_id ON markers(location_id);
CREATE INDEX IF NOT EXISTS idx_feng_shui_analysis_location_id ON feng_shui_analysis(location_id);
CREATE INDEX IF NOT EXISTS idx_kyusei_analysis_session_id ON kyusei_analysis(session_id);
CREATE INDEX IF NOT EXISTS idx_kyusei_analysis_location_id ON kyusei_analysis(location_id);
`
