// ABOUTME: Tests for the root controller and its pure helpers.
// ABOUTME: Covers the medication, account, view, and onboarding scenarios.
package store

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/care4u/internal/auth"
	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/onboarding"
)

func setupStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	return New(models.NewAppState(), opts...)
}

func dashboardStore(t *testing.T) *Store {
	t.Helper()
	st := models.NewAppState()
	st.OnboardingStep = onboarding.StepMain
	return New(st, WithLogger(log.New(io.Discard)))
}

func TestToggleMedicationHelper(t *testing.T) {
	meds := models.InitialMedications()

	t.Run("no-op for unknown id", func(t *testing.T) {
		got, ok := ToggleMedication(meds, "nope")
		if ok {
			t.Error("expected ok=false")
		}
		if !reflect.DeepEqual(got, meds) {
			t.Error("list changed for unknown id")
		}
	})

	t.Run("double toggle is identity", func(t *testing.T) {
		once, _ := ToggleMedication(meds, "m2")
		twice, _ := ToggleMedication(once, "m2")
		if !reflect.DeepEqual(twice, meds) {
			t.Errorf("double toggle = %+v", twice)
		}
	})

	t.Run("input not mutated", func(t *testing.T) {
		_, _ = ToggleMedication(meds, "m1")
		if meds[0].Taken {
			t.Error("input slice was mutated")
		}
	})

	t.Run("only first match flips", func(t *testing.T) {
		dup := append(append([]models.Medication(nil), meds...), meds[0])
		got, _ := ToggleMedication(dup, "m1")
		if !got[0].Taken || got[3].Taken {
			t.Errorf("first=%v dup=%v", got[0].Taken, got[3].Taken)
		}
	})
}

func TestSwitchAccountHelper(t *testing.T) {
	u := models.NewUserProfile("You", "u")
	a := models.NewUserProfile("Ann", "a")
	b := models.NewUserProfile("Bo", "b")

	t.Run("switch to A", func(t *testing.T) {
		user, accounts, ok := SwitchAccount(u, []models.UserProfile{a, b}, "a")
		if !ok {
			t.Fatal("expected ok")
		}
		if user.Username != "a" {
			t.Errorf("active = %s", user.Username)
		}
		want := []models.UserProfile{u, b}
		if !reflect.DeepEqual(accounts, want) {
			t.Errorf("accounts = %+v, want %+v", accounts, want)
		}
	})

	t.Run("current user is a no-op", func(t *testing.T) {
		in := []models.UserProfile{a, b}
		user, accounts, ok := SwitchAccount(u, in, "u")
		if ok || user.Username != "u" || !reflect.DeepEqual(accounts, in) {
			t.Errorf("got %v %+v %+v", ok, user, accounts)
		}
	})

	t.Run("duplicates removed", func(t *testing.T) {
		a2 := models.NewUserProfile("Ann Two", "a")
		user, accounts, _ := SwitchAccount(u, []models.UserProfile{a, b, a2}, "a")
		if user.Name != "Ann" {
			t.Errorf("first match should win, got %s", user.Name)
		}
		if len(accounts) != 2 {
			t.Errorf("accounts = %+v", accounts)
		}
	})
}

func TestSeedMedicationToggle(t *testing.T) {
	s := dashboardStore(t)

	m, err := s.ToggleMedication("m1")
	if err != nil {
		t.Fatalf("ToggleMedication failed: %v", err)
	}
	if !m.Taken {
		t.Error("m1 should be taken")
	}

	snap := s.Snapshot()
	if !snap.Medications[0].Taken || !snap.Medications[1].Taken || snap.Medications[2].Taken {
		t.Errorf("taken flags = %v %v %v", snap.Medications[0].Taken, snap.Medications[1].Taken, snap.Medications[2].Taken)
	}
}

func TestToggleUnknownMedication(t *testing.T) {
	s := dashboardStore(t)
	before := s.Snapshot()

	calls := 0
	s.Subscribe(func(models.AppState) { calls++ })

	if _, err := s.ToggleMedication("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Error("state changed on unknown id")
	}
	if calls != 0 {
		t.Errorf("subscribers notified %d times", calls)
	}
}

func TestAddMedication(t *testing.T) {
	s := dashboardStore(t)
	m := s.AddMedication(models.Medication{Name: "Vitamin D", TimeSlot: models.SlotMorning})
	if m.ID == "" {
		t.Error("expected generated ID")
	}
	keep := s.AddMedication(models.Medication{ID: "m1", Name: "Dup"})
	if keep.ID != "m1" {
		t.Errorf("caller ID replaced: %s", keep.ID)
	}

	meds := s.Snapshot().Medications
	if len(meds) != 5 || meds[3].Name != "Vitamin D" || meds[4].Name != "Dup" {
		t.Errorf("insertion order broken: %+v", meds)
	}
}

func TestAddAccountThenSwitch(t *testing.T) {
	s := dashboardStore(t)
	s.SetUserName("Alex")
	s.SetUsername("alex_h")

	s.AddAccount(models.NewUserProfile("Mom", "mom"))
	if err := s.SwitchAccount("mom"); err != nil {
		t.Fatalf("SwitchAccount failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.User.Username != "mom" {
		t.Errorf("active = %s, want mom", snap.User.Username)
	}
	if len(snap.Accounts) != 1 || snap.Accounts[0].Username != "alex_h" {
		t.Errorf("accounts = %+v", snap.Accounts)
	}

	if err := s.SwitchAccount("mom"); !errors.Is(err, ErrNotFound) {
		t.Errorf("switch to current user: error = %v, want ErrNotFound", err)
	}
}

func TestSetView(t *testing.T) {
	s := setupStore(t)
	if err := s.SetView(models.ViewWatch); !errors.Is(err, ErrNotOnDashboard) {
		t.Errorf("before onboarding: error = %v", err)
	}

	d := dashboardStore(t)
	d.AddMedication(models.Medication{ID: "x"})
	for _, v := range models.AllViews {
		if err := d.SetView(v); err != nil {
			t.Fatalf("SetView(%s) failed: %v", v, err)
		}
		if got := d.Snapshot().CurrentView; got != v {
			t.Errorf("CurrentView = %s, want %s", got, v)
		}
	}
	if len(d.Snapshot().Medications) != 4 {
		t.Error("switching views reset state")
	}
	if err := d.SetView("dashboard"); !errors.Is(err, ErrInvalidView) {
		t.Errorf("unknown view: error = %v", err)
	}
}

func TestToggleTheme(t *testing.T) {
	s := setupStore(t)
	if got := s.ToggleTheme(); got != models.ThemeLight {
		t.Errorf("first toggle = %s", got)
	}
	if got := s.ToggleTheme(); got != models.ThemeDark {
		t.Errorf("second toggle = %s", got)
	}
}

func TestRegisterScenario(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	if _, err := s.Fire(onboarding.ActionRegister); err != nil {
		t.Fatalf("register link: %v", err)
	}
	if _, err := s.CreateAccount(ctx, "pw"); !errors.Is(err, onboarding.ErrGuardFailed) {
		t.Fatalf("empty form: error = %v", err)
	}

	s.SetUserName("Alex")
	s.SetUsername("alex_h")
	if _, err := s.CreateAccount(ctx, "pw"); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if s.Step() != onboarding.StepCompanion {
		t.Fatalf("step = %s, want companion", s.Step())
	}

	if _, err := s.SelectCompanionByID("lotus"); err != nil {
		t.Fatalf("SelectCompanionByID failed: %v", err)
	}
	if _, err := s.Fire(onboarding.ActionChooseCompanion); err != nil {
		t.Fatalf("choose companion: %v", err)
	}
	if s.CanFire(onboarding.ActionEnterCareCenter) {
		t.Error("enter care center enabled with no plant name")
	}
	s.SetPlantName("  Sprout ")
	if _, err := s.Fire(onboarding.ActionEnterCareCenter); err != nil {
		t.Fatalf("enter care center: %v", err)
	}

	snap := s.Snapshot()
	if snap.OnboardingStep != onboarding.StepMain {
		t.Errorf("step = %s", snap.OnboardingStep)
	}
	if snap.User.Name != "Alex" || snap.User.Username != "alex_h" {
		t.Errorf("user = %+v", snap.User)
	}
	if snap.PlantName != "Sprout" {
		t.Errorf("plant = %q", snap.PlantName)
	}
	if snap.SelectedPot.ID != "lotus" {
		t.Errorf("pot = %s", snap.SelectedPot.ID)
	}
}

func TestLoginScenario(t *testing.T) {
	ctx := context.Background()
	l, err := auth.NewLocal("secret", 0)
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	if _, err := l.Register(ctx, models.NewUserProfile("Alex", "alex_h"), "pw"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	s := setupStore(t, WithAuthenticator(l))

	if _, err := s.Login(ctx, "alex_h", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("bad password: error = %v", err)
	}
	if s.Step() != onboarding.StepAuth {
		t.Fatalf("rejected login moved to %s", s.Step())
	}

	if _, err := s.Login(ctx, "alex_h", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if s.Step() != onboarding.StepProfile {
		t.Errorf("step = %s, want profile", s.Step())
	}
	if _, err := s.Fire(onboarding.ActionContinue); !errors.Is(err, onboarding.ErrGuardFailed) {
		t.Errorf("continue with blank name: error = %v", err)
	}
}

func TestFireCannotSkipToMain(t *testing.T) {
	s := setupStore(t)
	s.SetPlantName("Sprout")
	if _, err := s.Fire(onboarding.ActionEnterCareCenter); !errors.Is(err, onboarding.ErrInvalidTransition) {
		t.Errorf("error = %v, want ErrInvalidTransition", err)
	}
	if _, err := s.Fire(onboarding.ActionLogin); !errors.Is(err, onboarding.ErrGuardFailed) {
		t.Errorf("unauthenticated login: error = %v", err)
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	s := dashboardStore(t)
	var got []models.View
	unsub := s.Subscribe(func(st models.AppState) { got = append(got, st.CurrentView) })

	_ = s.SetView(models.ViewAI)
	unsub()
	_ = s.SetView(models.ViewWatch)

	if len(got) != 1 || got[0] != models.ViewAI {
		t.Errorf("notifications = %v", got)
	}
}

// A slow subscriber must not let an older snapshot land after a newer one.
func TestSubscribersNeverSeeStaleState(t *testing.T) {
	s := dashboardStore(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var last models.AppState
	first := true
	s.Subscribe(func(st models.AppState) {
		if first {
			first = false
			close(entered)
			<-release
		}
		mu.Lock()
		last = st
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.ToggleTheme()
	}()
	<-entered
	go func() {
		defer wg.Done()
		s.AddAccount(models.NewUserProfile("Mom", "mom"))
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(s.Snapshot().Accounts) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("AddAccount never applied")
		}
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()

	live := s.Snapshot()
	mu.Lock()
	defer mu.Unlock()
	if last.Theme != live.Theme || len(last.Accounts) != len(live.Accounts) {
		t.Errorf("last delivered theme=%s accounts=%d, live theme=%s accounts=%d",
			last.Theme, len(last.Accounts), live.Theme, len(live.Accounts))
	}
}

func TestStepFollowsLoadedState(t *testing.T) {
	st := models.NewAppState()
	st.OnboardingStep = onboarding.StepCompanion
	s := New(st, WithLogger(log.New(io.Discard)))
	if s.Step() != onboarding.StepCompanion {
		t.Fatalf("Step() = %s, want companion", s.Step())
	}
	s.SetPlantName("Sprout")
	if _, err := s.Fire(onboarding.ActionChooseCompanion); err != nil {
		t.Fatalf("choose companion: %v", err)
	}
	if _, err := s.Fire(onboarding.ActionEnterCareCenter); err != nil {
		t.Fatalf("enter care center: %v", err)
	}
	if s.Step() != onboarding.StepMain || s.Snapshot().OnboardingStep != onboarding.StepMain {
		t.Errorf("step = %s / %s, want main", s.Step(), s.Snapshot().OnboardingStep)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	s := dashboardStore(t)
	snap := s.Snapshot()
	snap.Medications[0].Taken = true
	if s.Snapshot().Medications[0].Taken {
		t.Error("snapshot aliases live state")
	}
}

func TestNewNormalizesLoadedState(t *testing.T) {
	st := models.NewAppState()
	st.CurrentView = models.View("garden")
	st.Theme = models.Theme("sepia")
	st.OnboardingStep = onboarding.Step("splash")

	snap := New(st, WithLogger(log.New(io.Discard))).Snapshot()
	if snap.CurrentView != models.ViewHome || snap.Theme != models.ThemeDark || snap.OnboardingStep != onboarding.StepAuth {
		t.Errorf("normalized = %s/%s/%s", snap.CurrentView, snap.Theme, snap.OnboardingStep)
	}
	if st.CurrentView != "garden" {
		t.Error("New mutated the caller's state")
	}
}
