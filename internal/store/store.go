// ABOUTME: Root controller owning the single AppState for a session.
// ABOUTME: All mutations go through here and notify subscribers with a snapshot.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harperreed/care4u/internal/auth"
	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/onboarding"
)

// Store is the injectable state container.
type Store struct {
	mu         sync.RWMutex
	state      *models.AppState
	flow       *onboarding.Machine
	version    uint64
	companions []models.Pot
	auth       auth.Authenticator
	logger     *log.Logger

	subMu sync.Mutex
	subs  []func(models.AppState)

	// notifyMu serializes delivery; delivered is the newest version sent.
	notifyMu  sync.Mutex
	delivered uint64
}

// Option customizes a Store.
type Option func(*Store)

// WithCompanions sets the companion catalogue used by SelectCompanionByID.
func WithCompanions(pots []models.Pot) Option {
	return func(s *Store) {
		s.companions = append([]models.Pot(nil), pots...)
	}
}

// WithAuthenticator sets the authenticator used by Login and CreateAccount.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(s *Store) {
		s.auth = a
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a store around an initial state. A nil state starts from the built-in seed.
func New(initial *models.AppState, opts ...Option) *Store {
	if initial == nil {
		initial = models.NewAppState()
	}
	s := &Store{
		state:      initial.Clone(),
		companions: models.DefaultCompanions(),
		auth:       auth.NewOpen(),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	normalize(s.state)
	s.flow, _ = onboarding.New(s.state.OnboardingStep)
	return s
}

// normalize repairs enum fields a loaded state may carry from an older or hand-edited store.
func normalize(st *models.AppState) {
	if !models.IsValidView(string(st.CurrentView)) {
		st.CurrentView = models.ViewHome
	}
	if !models.IsValidTheme(string(st.Theme)) {
		st.Theme = models.ThemeDark
	}
	if !onboarding.IsValidStep(string(st.OnboardingStep)) {
		st.OnboardingStep = onboarding.StepAuth
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *models.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Companions returns the companion catalogue.
func (s *Store) Companions() []models.Pot {
	return append([]models.Pot(nil), s.companions...)
}

// Subscribe registers fn to be called after successful mutations.
// Deliveries are serialized and never go backwards: a snapshot older than one
// already delivered is dropped. fn must not mutate the store.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(models.AppState)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if idx < len(s.subs) {
			s.subs[idx] = nil
		}
	}
}

// update applies fn under the write lock and notifies subscribers when fn succeeds.
func (s *Store) update(fn func(st *models.AppState) error) error {
	s.mu.Lock()
	if err := fn(s.state); err != nil {
		s.mu.Unlock()
		return err
	}
	s.version++
	version := s.version
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.delivered {
		return nil
	}
	s.delivered = version

	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()
	for _, sub := range subs {
		if sub != nil {
			sub(*snap)
		}
	}
	return nil
}

// ToggleTheme flips between dark and light.
func (s *Store) ToggleTheme() models.Theme {
	var theme models.Theme
	_ = s.update(func(st *models.AppState) error {
		st.Theme = st.Theme.Toggle()
		theme = st.Theme
		return nil
	})
	s.logger.Debug("theme toggled", "theme", theme)
	return theme
}

// SetView changes the dashboard view. Any view is reachable from any view.
func (s *Store) SetView(v models.View) error {
	if !models.IsValidView(string(v)) {
		return fmt.Errorf("%q: %w", v, ErrInvalidView)
	}
	err := s.update(func(st *models.AppState) error {
		if !st.OnDashboard() {
			return ErrNotOnDashboard
		}
		st.CurrentView = v
		return nil
	})
	if err == nil {
		s.logger.Debug("view changed", "view", v)
	}
	return err
}

// AddMedication appends a medication to the schedule and returns it with its final ID.
func (s *Store) AddMedication(m models.Medication) models.Medication {
	_ = s.update(func(st *models.AppState) error {
		st.Medications = AddMedication(st.Medications, m)
		m = st.Medications[len(st.Medications)-1]
		return nil
	})
	s.logger.Info("medication added", "id", m.ID, "name", m.Name)
	return m
}

// ToggleMedication flips the taken flag of the first medication with the ID.
func (s *Store) ToggleMedication(id string) (models.Medication, error) {
	var toggled models.Medication
	err := s.update(func(st *models.AppState) error {
		meds, ok := ToggleMedication(st.Medications, id)
		if !ok {
			return fmt.Errorf("medication %q: %w", id, ErrNotFound)
		}
		st.Medications = meds
		for _, m := range meds {
			if m.ID == id {
				toggled = m
				break
			}
		}
		return nil
	})
	if err != nil {
		return models.Medication{}, err
	}
	s.logger.Debug("medication toggled", "id", id, "taken", toggled.Taken)
	return toggled, nil
}

// AddAccount appends an inactive account.
func (s *Store) AddAccount(p models.UserProfile) {
	_ = s.update(func(st *models.AppState) error {
		st.Accounts = AddAccount(st.Accounts, p)
		return nil
	})
	s.logger.Info("account added", "username", p.Username)
}

// SwitchAccount makes the named account active.
func (s *Store) SwitchAccount(username string) error {
	err := s.update(func(st *models.AppState) error {
		user, accounts, ok := SwitchAccount(st.User, st.Accounts, username)
		if !ok {
			return fmt.Errorf("account %q: %w", username, ErrNotFound)
		}
		st.User, st.Accounts = user, accounts
		return nil
	})
	if err == nil {
		s.logger.Info("account switched", "username", username)
	}
	return err
}

// SelectCompanion replaces the selected companion wholesale.
func (s *Store) SelectCompanion(p models.Pot) {
	_ = s.update(func(st *models.AppState) error {
		st.SelectedPot = p
		return nil
	})
}

// SelectCompanionByID selects a companion from the catalogue.
func (s *Store) SelectCompanionByID(id string) (models.Pot, error) {
	p, ok := models.FindPot(s.companions, id)
	if !ok {
		return models.Pot{}, fmt.Errorf("companion %q: %w", id, ErrNotFound)
	}
	s.SelectCompanion(p)
	return p, nil
}

// SetUserName edits the draft display name.
func (s *Store) SetUserName(name string) {
	_ = s.update(func(st *models.AppState) error {
		st.User.Name = name
		return nil
	})
}

// SetUsername edits the draft username.
func (s *Store) SetUsername(username string) {
	_ = s.update(func(st *models.AppState) error {
		st.User.Username = username
		return nil
	})
}

// SetUserAge sets the optional age. A nil age clears it.
func (s *Store) SetUserAge(age *int) {
	_ = s.update(func(st *models.AppState) error {
		if age == nil {
			st.User.Age = nil
		} else {
			st.User = st.User.WithAge(*age)
		}
		return nil
	})
}

// SetMedicalConditions edits the free-text conditions.
func (s *Store) SetMedicalConditions(conditions string) {
	_ = s.update(func(st *models.AppState) error {
		st.User.MedicalConditions = conditions
		return nil
	})
}

// SetPlantName edits the companion nickname.
func (s *Store) SetPlantName(name string) {
	_ = s.update(func(st *models.AppState) error {
		st.PlantName = name
		return nil
	})
}

func formFor(st *models.AppState) onboarding.Form {
	return onboarding.Form{
		Name:      st.User.Name,
		Username:  st.User.Username,
		PlantName: st.PlantName,
	}
}

// Fire runs an onboarding action against the current draft.
// Login and CreateAccount need credentials and go through Login and CreateAccount instead.
func (s *Store) Fire(action onboarding.Action) (onboarding.Step, error) {
	return s.fire(action, false)
}

func (s *Store) fire(action onboarding.Action, authenticated bool) (onboarding.Step, error) {
	var next onboarding.Step
	err := s.update(func(st *models.AppState) error {
		form := formFor(st)
		form.Authenticated = authenticated
		step, err := s.flow.Fire(action, form)
		if err != nil {
			return err
		}
		if step == onboarding.StepMain {
			st.PlantName = strings.TrimSpace(st.PlantName)
		}
		st.OnboardingStep = step
		next = step
		return nil
	})
	if err != nil {
		return s.Step(), err
	}
	s.logger.Debug("onboarding advanced", "action", action, "step", next)
	return next, nil
}

// CanFire reports whether an onboarding action is currently enabled.
func (s *Store) CanFire(action onboarding.Action) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	form := formFor(s.state)
	form.Authenticated = action == onboarding.ActionLogin
	return onboarding.CanFire(s.flow.Step(), action, form)
}

// Step returns the current onboarding step.
func (s *Store) Step() onboarding.Step {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flow.Step()
}

// Login authenticates and advances from auth to profile.
func (s *Store) Login(ctx context.Context, username, password string) (*auth.Session, error) {
	if s.Step() != onboarding.StepAuth {
		return nil, fmt.Errorf("login from %s: %w", s.Step(), onboarding.ErrInvalidTransition)
	}
	sess, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("login rejected", "username", username, "err", err)
		return nil, err
	}
	if sess.Username != "" {
		s.SetUsername(sess.Username)
	}
	if _, err := s.fire(onboarding.ActionLogin, true); err != nil {
		return nil, err
	}
	s.logger.Info("logged in", "username", sess.Username)
	return sess, nil
}

// CreateAccount registers the draft profile and advances from register to companion.
func (s *Store) CreateAccount(ctx context.Context, password string) (*auth.Session, error) {
	snap := s.Snapshot()
	if !onboarding.CanFire(snap.OnboardingStep, onboarding.ActionCreateAccount, formFor(snap)) {
		_, err := onboarding.Next(snap.OnboardingStep, onboarding.ActionCreateAccount, formFor(snap))
		return nil, err
	}
	sess, err := s.auth.Register(ctx, snap.User, password)
	if err != nil {
		s.logger.Warn("registration rejected", "username", snap.User.Username, "err", err)
		return nil, err
	}
	if _, err := s.fire(onboarding.ActionCreateAccount, false); err != nil {
		return nil, err
	}
	s.logger.Info("account created", "username", snap.User.Username)
	return sess, nil
}
