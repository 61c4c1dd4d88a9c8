// ABOUTME: SQLite persistence of the full AppState.
// ABOUTME: SaveState rewrites every table inside one transaction.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/onboarding"
)

const (
	keyPlantName      = "plant_name"
	keySelectedPot    = "selected_pot"
	keyCurrentView    = "current_view"
	keyTheme          = "theme"
	keyOnboardingStep = "onboarding_step"
	keySavedAt        = "saved_at"
)

// SaveState replaces everything stored with st.
func (d *DB) SaveState(st *models.AppState) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"settings", "profiles", "medications", "vitals", "history", "chat_messages"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := saveSettings(tx, st); err != nil {
		return err
	}
	if err := saveProfiles(tx, st); err != nil {
		return err
	}
	if err := saveMedications(tx, st.Medications); err != nil {
		return err
	}
	if err := saveVitals(tx, st.Vitals); err != nil {
		return err
	}
	if err := saveHistory(tx, st.History); err != nil {
		return err
	}
	if err := saveMessages(tx, st.ChatMessages); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func saveSettings(tx *sql.Tx, st *models.AppState) error {
	pot, err := json.Marshal(st.SelectedPot)
	if err != nil {
		return fmt.Errorf("encode selected pot: %w", err)
	}
	settings := map[string]string{
		keyPlantName:      st.PlantName,
		keySelectedPot:    string(pot),
		keyCurrentView:    string(st.CurrentView),
		keyTheme:          string(st.Theme),
		keyOnboardingStep: string(st.OnboardingStep),
		keySavedAt:        time.Now().Format(time.RFC3339),
	}
	for k, v := range settings {
		if _, err := tx.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save setting %s: %w", k, err)
		}
	}
	return nil
}

func saveProfiles(tx *sql.Tx, st *models.AppState) error {
	query := `
		INSERT INTO profiles (position, active, name, username, age, medical_conditions, avatar)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	profiles := append([]models.UserProfile{st.User}, st.Accounts...)
	for i, p := range profiles {
		var age sql.NullInt64
		if p.Age != nil {
			age = sql.NullInt64{Int64: int64(*p.Age), Valid: true}
		}
		if _, err := tx.Exec(query, i, i == 0, p.Name, p.Username, age, p.MedicalConditions, p.Avatar); err != nil {
			return fmt.Errorf("save profile %s: %w", p.Username, err)
		}
	}
	return nil
}

func saveMedications(tx *sql.Tx, meds []models.Medication) error {
	query := `
		INSERT INTO medications (position, id, name, dosage, display_time, time_slot, taken, color, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, m := range meds {
		if _, err := tx.Exec(query, i, m.ID, m.Name, m.Dosage, m.Time, string(m.TimeSlot), m.Taken, m.Color, string(m.Category)); err != nil {
			return fmt.Errorf("save medication %s: %w", m.ID, err)
		}
	}
	return nil
}

func saveVitals(tx *sql.Tx, vitals []models.Vital) error {
	query := `
		INSERT INTO vitals (position, id, kind, value_num, value_text, unit, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, v := range vitals {
		var num sql.NullFloat64
		var text sql.NullString
		if f, ok := v.Value.Float(); ok {
			num = sql.NullFloat64{Float64: f, Valid: true}
		} else {
			text = sql.NullString{String: v.Value.String(), Valid: true}
		}
		if _, err := tx.Exec(query, i, v.ID, string(v.Kind), num, text, v.Unit, v.RecordedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("save vital %s: %w", v.ID, err)
		}
	}
	return nil
}

func saveHistory(tx *sql.Tx, logs []models.HistoryLog) error {
	query := `
		INSERT INTO history (position, date, steps, meds_completed, avg_heart_rate)
		VALUES (?, ?, ?, ?, ?)
	`
	for i, h := range logs {
		if _, err := tx.Exec(query, i, h.Date, h.Steps, h.MedsCompleted, h.AvgHeartRate); err != nil {
			return fmt.Errorf("save history %s: %w", h.Date, err)
		}
	}
	return nil
}

// saveMessages skips replies that are still streaming.
func saveMessages(tx *sql.Tx, msgs []models.Message) error {
	query := `
		INSERT INTO chat_messages (position, role, content, emotion, mood_label, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	pos := 0
	for _, m := range msgs {
		if m.IsStreaming {
			continue
		}
		if _, err := tx.Exec(query, pos, string(m.Role), m.Content, string(m.Emotion), m.MoodLabel, m.Timestamp); err != nil {
			return fmt.Errorf("save message %d: %w", pos, err)
		}
		pos++
	}
	return nil
}

// LoadState reads the stored state, returning ErrNoState for an empty database.
func (d *DB) LoadState() (*models.AppState, error) {
	settings, err := d.loadSettings()
	if err != nil {
		return nil, err
	}
	if _, ok := settings[keyOnboardingStep]; !ok {
		return nil, ErrNoState
	}

	st := &models.AppState{
		PlantName:      settings[keyPlantName],
		CurrentView:    models.View(settings[keyCurrentView]),
		Theme:          models.Theme(settings[keyTheme]),
		OnboardingStep: onboarding.Step(settings[keyOnboardingStep]),
	}
	if raw := settings[keySelectedPot]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &st.SelectedPot); err != nil {
			return nil, fmt.Errorf("decode selected pot: %w", err)
		}
	}

	if st.User, st.Accounts, err = d.loadProfiles(); err != nil {
		return nil, err
	}
	if st.Medications, err = d.loadMedications(); err != nil {
		return nil, err
	}
	if st.Vitals, err = d.loadVitals(); err != nil {
		return nil, err
	}
	if st.History, err = d.loadHistory(); err != nil {
		return nil, err
	}
	if st.ChatMessages, err = d.loadMessages(); err != nil {
		return nil, err
	}
	return st, nil
}

func (d *DB) loadSettings() (map[string]string, error) {
	rows, err := d.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (d *DB) loadProfiles() (models.UserProfile, []models.UserProfile, error) {
	rows, err := d.db.Query(`
		SELECT active, name, username, age, medical_conditions, avatar
		FROM profiles
		ORDER BY position
	`)
	if err != nil {
		return models.UserProfile{}, nil, fmt.Errorf("load profiles: %w", err)
	}
	defer rows.Close()

	var user models.UserProfile
	accounts := []models.UserProfile{}
	for rows.Next() {
		var (
			active     bool
			p          models.UserProfile
			age        sql.NullInt64
			conditions sql.NullString
			avatar     sql.NullString
		)
		if err := rows.Scan(&active, &p.Name, &p.Username, &age, &conditions, &avatar); err != nil {
			return models.UserProfile{}, nil, fmt.Errorf("scan profile: %w", err)
		}
		if age.Valid {
			p = p.WithAge(int(age.Int64))
		}
		p.MedicalConditions = conditions.String
		p.Avatar = avatar.String
		if active {
			user = p
		} else {
			accounts = append(accounts, p)
		}
	}
	return user, accounts, rows.Err()
}

func (d *DB) loadMedications() ([]models.Medication, error) {
	rows, err := d.db.Query(`
		SELECT id, name, dosage, display_time, time_slot, taken, color, category
		FROM medications
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("load medications: %w", err)
	}
	defer rows.Close()

	meds := []models.Medication{}
	for rows.Next() {
		var m models.Medication
		var slot string
		var color, category sql.NullString
		if err := rows.Scan(&m.ID, &m.Name, &m.Dosage, &m.Time, &slot, &m.Taken, &color, &category); err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		m.TimeSlot = models.TimeSlot(slot)
		m.Color = color.String
		m.Category = models.Category(category.String)
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

func (d *DB) loadVitals() ([]models.Vital, error) {
	rows, err := d.db.Query(`
		SELECT id, kind, value_num, value_text, unit, recorded_at
		FROM vitals
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("load vitals: %w", err)
	}
	defer rows.Close()

	vitals := []models.Vital{}
	for rows.Next() {
		var v models.Vital
		var kind, recordedAt string
		var num sql.NullFloat64
		var text sql.NullString
		if err := rows.Scan(&v.ID, &kind, &num, &text, &v.Unit, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan vital: %w", err)
		}
		v.Kind = models.VitalKind(kind)
		if text.Valid {
			v.Value = models.TextValue(text.String)
		} else {
			v.Value = models.NumberValue(num.Float64)
		}
		at, err := time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse vital %s recorded_at: %w", v.ID, err)
		}
		v.RecordedAt = at
		vitals = append(vitals, v)
	}
	return vitals, rows.Err()
}

func (d *DB) loadHistory() ([]models.HistoryLog, error) {
	rows, err := d.db.Query(`
		SELECT date, steps, meds_completed, avg_heart_rate
		FROM history
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	logs := []models.HistoryLog{}
	for rows.Next() {
		var h models.HistoryLog
		if err := rows.Scan(&h.Date, &h.Steps, &h.MedsCompleted, &h.AvgHeartRate); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		logs = append(logs, h)
	}
	return logs, rows.Err()
}

func (d *DB) loadMessages() ([]models.Message, error) {
	rows, err := d.db.Query(`
		SELECT role, content, emotion, mood_label, timestamp
		FROM chat_messages
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		var role string
		var emotion, mood sql.NullString
		if err := rows.Scan(&role, &m.Content, &emotion, &mood, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = models.Role(role)
		m.Emotion = models.Emotion(emotion.String)
		m.MoodLabel = mood.String
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SavedAt returns when the state was last saved.
func (d *DB) SavedAt() (time.Time, error) {
	var raw string
	err := d.db.QueryRow("SELECT value FROM settings WHERE key = ?", keySavedAt).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNoState
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load saved_at: %w", err)
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse saved_at: %w", err)
	}
	return at, nil
}
