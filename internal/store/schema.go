package store

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS colleges (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL UNIQUE,
		latitude   REAL NOT NULL DEFAULT 0,
		longitude  REAL NOT NULL DEFAULT 0,
		category   TEXT NOT NULL DEFAULT '',
		college_id INTEGER REFERENCES colleges(id)
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		course_code     TEXT NOT NULL,
		section         TEXT NOT NULL,
		title           TEXT NOT NULL DEFAULT '',
		department_code TEXT NOT NULL,
		college_id      INTEGER NOT NULL REFERENCES colleges(id),
		location_id     INTEGER REFERENCES locations(id),
		instructors     TEXT NOT NULL DEFAULT '',
		days            TEXT,
		meeting_time    TEXT,
		seats_available TEXT NOT NULL DEFAULT '',
		credit          TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		semester        TEXT NOT NULL,
		created_at      INTEGER NOT NULL,
		updated_at      INTEGER NOT NULL,
		UNIQUE (course_code, section, semester)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_semester ON courses (semester)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS colleges (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		latitude   DOUBLE PRECISION NOT NULL DEFAULT 0,
		longitude  DOUBLE PRECISION NOT NULL DEFAULT 0,
		category   TEXT NOT NULL DEFAULT '',
		college_id BIGINT REFERENCES colleges(id)
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id              BIGSERIAL PRIMARY KEY,
		course_code     TEXT NOT NULL,
		section         TEXT NOT NULL,
		title           TEXT NOT NULL DEFAULT '',
		department_code TEXT NOT NULL,
		college_id      BIGINT NOT NULL REFERENCES colleges(id),
		location_id     BIGINT REFERENCES locations(id),
		instructors     TEXT NOT NULL DEFAULT '',
		days            TEXT,
		meeting_time    TEXT,
		seats_available TEXT NOT NULL DEFAULT '',
		credit          TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		semester        TEXT NOT NULL,
		created_at      BIGINT NOT NULL,
		updated_at      BIGINT NOT NULL,
		UNIQUE (course_code, section, semester)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_semester ON courses (semester)`,
}
