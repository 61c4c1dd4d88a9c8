// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One table per AppState collection plus a key/value settings table.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		position INTEGER PRIMARY KEY,
		active INTEGER NOT NULL DEFAULT 0,
		name TEXT NOT NULL,
		username TEXT NOT NULL,
		age INTEGER,
		medical_conditions TEXT,
		avatar TEXT
	);

	CREATE TABLE IF NOT EXISTS medications (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		dosage TEXT NOT NULL,
		display_time TEXT NOT NULL,
		time_slot TEXT NOT NULL,
		taken INTEGER NOT NULL DEFAULT 0,
		color TEXT,
		category TEXT
	);

	CREATE TABLE IF NOT EXISTS vitals (
		position INTEGER PRIMARY KEY,
		id TEXT NOT NULL,
		kind TEXT NOT NULL,
		value_num REAL,
		value_text TEXT,
		unit TEXT NOT NULL,
		recorded_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		position INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		steps INTEGER NOT NULL,
		meds_completed INTEGER NOT NULL,
		avg_heart_rate INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chat_messages (
		position INTEGER PRIMARY KEY,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		emotion TEXT,
		mood_label TEXT,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_medications_id ON medications(id);
	CREATE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username);
	CREATE INDEX IF NOT EXISTS idx_history_date ON history(date);
	CREATE INDEX IF NOT EXISTS idx_vitals_kind_recorded ON vitals(kind, recorded_at DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
