package store

// Migrate brings the schema up to the current version, tracked via
// PRAGMA user_version.
func (s *Store) Migrate() error {
	tx, err := s.Pool.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	stmts := []string{`
CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  provider TEXT NOT NULL,
  provider_ref TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT 'General',
  skill_area TEXT NOT NULL DEFAULT 'General',
  duration_hours INTEGER NOT NULL DEFAULT 40,
  price_before_subsidy REAL NOT NULL DEFAULT 0,
  price_after_subsidy REAL NOT NULL DEFAULT 0,
  subsidy_percentage REAL NOT NULL DEFAULT 0,
  available_seats INTEGER NOT NULL DEFAULT 0,
  total_seats INTEGER NOT NULL DEFAULT 0,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL,
  registration_deadline TEXT NOT NULL,
  frequency TEXT NOT NULL DEFAULT 'weekday',
  mode TEXT NOT NULL DEFAULT 'in-person',
  location TEXT NOT NULL DEFAULT '',
  prerequisites TEXT NOT NULL DEFAULT '[]',
  learning_outcomes TEXT NOT NULL DEFAULT '[]',
  source_url TEXT NOT NULL DEFAULT '',
  last_updated TEXT NOT NULL,
  created_at TEXT NOT NULL
);`, `
CREATE UNIQUE INDEX IF NOT EXISTS idx_courses_identity
ON courses(provider, title, source_url);`, `
CREATE INDEX IF NOT EXISTS idx_courses_start_date ON courses(start_date);`, `
CREATE INDEX IF NOT EXISTS idx_courses_category ON courses(category);`, `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  course_id TEXT NOT NULL REFERENCES courses(id),
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);`, `
CREATE INDEX IF NOT EXISTS idx_reviews_course ON reviews(course_id);`, `
CREATE TABLE IF NOT EXISTS saved_courses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  course_id TEXT NOT NULL REFERENCES courses(id),
  saved_at TEXT NOT NULL,
  UNIQUE(user_id, course_id)
);`, `
CREATE INDEX IF NOT EXISTS idx_saved_courses_course ON saved_courses(course_id);`, `
CREATE TABLE IF NOT EXISTS ingestion_jobs (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  courses_found INTEGER NOT NULL DEFAULT 0,
  courses_updated INTEGER NOT NULL DEFAULT 0,
  errors TEXT,
  started_at TEXT NOT NULL,
  completed_at TEXT
);`, `
CREATE INDEX IF NOT EXISTS idx_ingestion_jobs_source ON ingestion_jobs(source, started_at);`,
	}
	for _, q := range stmts {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}
