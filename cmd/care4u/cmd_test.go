// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temporary sqlite backend and checks the saved state.
package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harperreed/care4u/internal/config"
	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/storage"
	"github.com/harperreed/care4u/internal/store"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"multibyte", "🌿🌿🌿🌿🌿🌿", 5, "🌿🌿..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{"needs padding", "hi", 5, "hi   "},
		{"exact length", "hello", 5, "hello"},
		{"longer than length", "hello world", 5, "hello world"},
		{"empty string", "", 3, "   "},
		{"multibyte counts runes", "·a", 3, "·a "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padRight(tt.input, tt.length); got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestTitleCaseAndShortID(t *testing.T) {
	if got := titleCase(" nIGHT "); got != "Night" {
		t.Errorf("titleCase = %q, want Night", got)
	}
	if got := titleCase(""); got != "" {
		t.Errorf("titleCase(\"\") = %q", got)
	}
	if got := shortID("m1"); got != "m1" {
		t.Errorf("shortID(m1) = %q", got)
	}
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q, want 01234567", got)
	}
}

func TestResolveMedicationID(t *testing.T) {
	meds := []models.Medication{
		{ID: "m1"},
		{ID: "abc12345-0000"},
		{ID: "abc99999-0000"},
	}

	tests := []struct {
		name    string
		prefix  string
		want    string
		wantErr bool
	}{
		{"exact", "m1", "m1", false},
		{"unique prefix", "abc1", "abc12345-0000", false},
		{"ambiguous prefix", "abc", "", true},
		{"no match", "zzz", "", true},
		{"blank", "  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveMedicationID(meds, tt.prefix)
			if tt.wantErr {
				if err == nil {
					t.Errorf("resolveMedicationID(%q) expected error", tt.prefix)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveMedicationID(%q) unexpected error: %v", tt.prefix, err)
			}
			if got != tt.want {
				t.Errorf("resolveMedicationID(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "care4u" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "care4u")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
	for _, name := range []string{"seed", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected --%s persistent flag", name)
		}
	}
}

func TestSubcommandFlags(t *testing.T) {
	tests := []struct {
		cmd  string
		flag string
	}{
		{"meds list", "slot"},
		{"meds add", "dosage"},
		{"meds add", "at"},
		{"meds add", "slot"},
		{"meds add", "category"},
		{"accounts add", "name"},
		{"accounts add", "age"},
		{"vitals", "kind"},
		{"export", "output"},
		{"migrate", "from"},
		{"migrate", "to"},
		{"migrate", "dry-run"},
		{"sync repair", "force"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd+" --"+tt.flag, func(t *testing.T) {
			c, _, err := rootCmd.Find(strings.Fields(tt.cmd))
			if err != nil {
				t.Fatalf("Find(%q) failed: %v", tt.cmd, err)
			}
			if c.Flags().Lookup(tt.flag) == nil {
				t.Errorf("Expected --%s flag on %s", tt.flag, tt.cmd)
			}
		})
	}
}

func TestConfigCommandsSkipStore(t *testing.T) {
	for _, name := range []string{"config show", "config set", "config keys", "migrate", "sync status"} {
		c, _, err := rootCmd.Find(strings.Fields(name))
		if err != nil {
			t.Fatalf("Find(%q) failed: %v", name, err)
		}
		if c.Annotations[annotationNoStore] == "" {
			t.Errorf("%s should not open the store", name)
		}
	}
}

// setupTestCLI points config and data at a temp dir using the sqlite backend.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))

	c := &config.Config{
		Backend:  config.BackendSQLite,
		DataDir:  filepath.Join(tmpDir, "data", "care4u"),
		LogLevel: "error",
	}
	if err := c.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	resetFlags()
	t.Cleanup(func() {
		_ = closeAll()
		resetFlags()
	})
	return c.DataDir
}

func resetFlags() {
	seedFile, logLevel = "", ""
	medsSlot = ""
	medAddDosage, medAddAt, medAddSlot, medAddCategory = "", "", string(models.SlotMorning), ""
	accountName, accountAge, accountConditions = "", 0, ""
	vitalsKind = ""
	exportOutput = ""
	migrateFrom, migrateTo = config.BackendSQLite, config.BackendBadger
	migrateDryRun, migrateForce = false, false
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func loadSQLite(t *testing.T, dataDir string) *models.AppState {
	t.Helper()
	db, err := storage.Open(filepath.Join(dataDir, "care4u.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	state, err := db.LoadState()
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	return state
}

func findMedication(meds []models.Medication, name string) (models.Medication, bool) {
	for _, m := range meds {
		if m.Name == name {
			return m, true
		}
	}
	return models.Medication{}, false
}

func TestMedsToggleCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "meds", "toggle", "m1"); err != nil {
		t.Fatalf("meds toggle failed: %v", err)
	}

	state := loadSQLite(t, dataDir)
	m, ok := findMedication(state.Medications, "Lisinopril")
	if !ok || !m.Taken {
		t.Errorf("Lisinopril should be taken after toggle, got %+v", m)
	}

	if err := run(t, "meds", "toggle", "m1"); err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	m, _ = findMedication(loadSQLite(t, dataDir).Medications, "Lisinopril")
	if m.Taken {
		t.Error("second toggle should untake Lisinopril")
	}
}

func TestMedsToggleUnknownID(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "meds", "toggle", "nope"); err == nil {
		t.Error("Expected error for unknown medication id")
	}
}

func TestMedsAddCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	err := run(t, "meds", "add", "Vitamin", "D", "--dosage", "1000IU", "--at", "08:00 AM", "--slot", "morning", "--category", "Other")
	if err != nil {
		t.Fatalf("meds add failed: %v", err)
	}

	state := loadSQLite(t, dataDir)
	if len(state.Medications) != 4 {
		t.Fatalf("Expected 4 medications, got %d", len(state.Medications))
	}
	m, ok := findMedication(state.Medications, "Vitamin D")
	if !ok {
		t.Fatal("Vitamin D not saved")
	}
	if m.TimeSlot != models.SlotMorning || m.Category != models.CategoryOther || m.Taken {
		t.Errorf("unexpected medication: %+v", m)
	}
	if m.Dosage != "1000IU" || m.Time != "08:00 AM" {
		t.Errorf("dosage/time not saved: %+v", m)
	}
}

func TestMedsAddRejectsBadInput(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "meds", "add", "Aspirin", "--slot", "Midnight"); err == nil {
		t.Error("Expected error for unknown slot")
	}
	resetFlags()
	if err := run(t, "meds", "add", "Aspirin", "--category", "candy"); err == nil {
		t.Error("Expected error for unknown category")
	}
}

func TestMedsListCmd(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "meds", "list", "--slot", "noon"); err != nil {
		t.Errorf("meds list failed: %v", err)
	}
	resetFlags()
	if err := run(t, "meds", "list", "--slot", "brunch"); err == nil {
		t.Error("Expected error for unknown slot")
	}
}

func TestAccountsAddAndSwitch(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "accounts", "add", "grandpa", "--name", "Joe", "--age", "81"); err != nil {
		t.Fatalf("accounts add failed: %v", err)
	}
	resetFlags()
	if err := run(t, "accounts", "switch", "@grandpa"); err != nil {
		t.Fatalf("accounts switch failed: %v", err)
	}

	state := loadSQLite(t, dataDir)
	if state.User.Username != "grandpa" || state.User.Name != "Joe" {
		t.Errorf("active user = %+v, want grandpa/Joe", state.User)
	}
	if state.User.Age == nil || *state.User.Age != 81 {
		t.Errorf("age not kept: %v", state.User.Age)
	}
	for _, a := range state.Accounts {
		if a.Username == "grandpa" {
			t.Error("active account should not also be listed as inactive")
		}
	}
}

func TestAccountsSwitchUnknown(t *testing.T) {
	setupTestCLI(t)

	err := run(t, "accounts", "switch", "ghost")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAccountsAddRejectsBadAge(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "accounts", "add", "kid", "--age", "200"); err == nil {
		t.Error("Expected error for age 200")
	}
}

func TestVitalsAndHistoryCmds(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "vitals"); err != nil {
		t.Errorf("vitals failed: %v", err)
	}
	resetFlags()
	if err := run(t, "vitals", "--kind", "glucose"); err == nil {
		t.Error("Expected error for unknown vital kind")
	}
	resetFlags()
	if err := run(t, "history"); err != nil {
		t.Errorf("history failed: %v", err)
	}
}

func TestAskCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "ask", "time", "for", "my", "walk"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	state := loadSQLite(t, dataDir)
	if len(state.ChatMessages) != 3 {
		t.Fatalf("Expected greeting, question and reply, got %d messages", len(state.ChatMessages))
	}
	user, reply := state.ChatMessages[1], state.ChatMessages[2]
	if user.Role != models.RoleUser || user.Content != "time for my walk" {
		t.Errorf("unexpected user message: %+v", user)
	}
	if reply.Role != models.RoleAI || reply.IsStreaming || reply.Content == "" {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dataDir := setupTestCLI(t)
	out := filepath.Join(t.TempDir(), "backup.json")

	if err := run(t, "meds", "toggle", "m3"); err != nil {
		t.Fatalf("meds toggle failed: %v", err)
	}
	resetFlags()
	if err := run(t, "export", "json", "-o", out); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("export permissions = %v, want 0600", info.Mode().Perm())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var exported storage.ExportData
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if exported.Tool != "care4u" || exported.State == nil {
		t.Fatalf("unexpected export envelope: %+v", exported)
	}

	// Wipe the database and restore it from the file.
	files, _ := filepath.Glob(filepath.Join(dataDir, "care4u.db*"))
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			t.Fatal(err)
		}
	}
	resetFlags()
	if err := run(t, "import", out); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	m, ok := findMedication(loadSQLite(t, dataDir).Medications, "Daily Walk")
	if !ok || !m.Taken {
		t.Errorf("imported state lost the toggle: %+v", m)
	}
}

func TestExportFormats(t *testing.T) {
	setupTestCLI(t)
	dir := t.TempDir()

	for _, format := range []string{"json", "yaml", "markdown"} {
		resetFlags()
		out := filepath.Join(dir, "export."+format)
		if err := run(t, "export", format, "-o", out); err != nil {
			t.Errorf("export %s failed: %v", format, err)
			continue
		}
		if data, err := os.ReadFile(out); err != nil || len(data) == 0 {
			t.Errorf("export %s wrote nothing: %v", format, err)
		}
	}

	resetFlags()
	if err := run(t, "export", "csv"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	setupTestCLI(t)
	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"version":"1.0"}`), 0600); err != nil {
		t.Fatal(err)
	}

	err := run(t, "import", bad)
	if !errors.Is(err, storage.ErrNoState) {
		t.Errorf("Expected ErrNoState, got %v", err)
	}
}

func TestConfigSetCmd(t *testing.T) {
	setupTestCLI(t)

	if err := run(t, "config", "set", "companion.model", "gpt-4o-mini"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}

	c, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Companion.Model != "gpt-4o-mini" {
		t.Errorf("model = %q, want gpt-4o-mini", c.Companion.Model)
	}
	if c.Backend != config.BackendSQLite {
		t.Errorf("config set clobbered backend: %q", c.Backend)
	}

	if err := run(t, "config", "set", "colour", "red"); !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
	if err := run(t, "config", "set", "theme", "neon"); err == nil {
		t.Error("Expected error for invalid theme")
	}
}

func TestConfigShowAndKeys(t *testing.T) {
	setupTestCLI(t)

	for _, args := range [][]string{{"config", "show"}, {"config", "keys"}, {"config", "json"}} {
		if err := run(t, args...); err != nil {
			t.Errorf("%v failed: %v", args, err)
		}
	}
	if repo != nil || st != nil {
		t.Error("config commands should not open storage")
	}
	if _, err := os.Stat(cfg.SQLitePath()); !os.IsNotExist(err) {
		t.Errorf("config show should not create the database, stat err = %v", err)
	}

	// once something is saved, show reports the database
	if err := run(t, "meds", "toggle", "m1"); err != nil {
		t.Fatalf("meds toggle failed: %v", err)
	}
	if err := run(t, "config", "show"); err != nil {
		t.Errorf("config show with database failed: %v", err)
	}
}

func TestMigrateCmd(t *testing.T) {
	dataDir := setupTestCLI(t)

	if err := run(t, "meds", "toggle", "m1"); err != nil {
		t.Fatalf("meds toggle failed: %v", err)
	}
	resetFlags()
	if err := run(t, "migrate", "--from", "sqlite", "--to", "badger"); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	b, err := storage.OpenBadger(filepath.Join(dataDir, "badger"))
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	defer b.Close()

	state, err := b.LoadState()
	if err != nil {
		t.Fatalf("badger LoadState failed: %v", err)
	}
	m, ok := findMedication(state.Medications, "Lisinopril")
	if !ok || !m.Taken {
		t.Errorf("migrated state lost the toggle: %+v", m)
	}
}

func TestMigrateRejects(t *testing.T) {
	setupTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"same backend", []string{"migrate", "--from", "sqlite", "--to", "sqlite"}},
		{"memory source", []string{"migrate", "--from", "memory", "--to", "badger"}},
		{"unknown backend", []string{"migrate", "--from", "sqlite", "--to", "floppy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			if err := run(t, tt.args...); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestSeedFlagReplacesSchedule(t *testing.T) {
	dataDir := setupTestCLI(t)

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	yaml := `medications:
  - id: s1
    name: Metformin
    dosage: 500mg
    time: "07:30 AM"
    time_slot: Morning
    color: emerald
    category: medicine
`
	if err := os.WriteFile(seed, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	if err := run(t, "meds", "toggle", "s1", "--seed", seed); err != nil {
		t.Fatalf("toggle with seed failed: %v", err)
	}

	state := loadSQLite(t, dataDir)
	if len(state.Medications) != 1 || state.Medications[0].Name != "Metformin" || !state.Medications[0].Taken {
		t.Errorf("seeded schedule not used: %+v", state.Medications)
	}
}

func TestPersistSkipsStreamingSnapshots(t *testing.T) {
	repo = storage.NewMemoryStore()
	cfg = &config.Config{}
	t.Cleanup(func() { repo, cfg = nil, nil })

	snap := models.NewAppState()
	snap.ChatMessages = append(snap.ChatMessages, models.Message{Role: models.RoleAI, IsStreaming: true})
	persist(*snap)
	if _, err := repo.LoadState(); !errors.Is(err, storage.ErrNoState) {
		t.Errorf("streaming snapshot should not be saved, LoadState err = %v", err)
	}

	snap.ChatMessages[len(snap.ChatMessages)-1].IsStreaming = false
	persist(*snap)
	if _, err := repo.LoadState(); err != nil {
		t.Errorf("settled snapshot should be saved: %v", err)
	}
}
