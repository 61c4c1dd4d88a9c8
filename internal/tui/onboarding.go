// ABOUTME: Onboarding screens of the root model.
// ABOUTME: Form values become the draft profile only when a step is submitted.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/onboarding"
	"github.com/harperreed/care4u/internal/tui/views"
)

// syncForm rebuilds the input form when the onboarding step has changed.
func (m *Model) syncForm() {
	snap := m.store.Snapshot()
	step := snap.OnboardingStep
	if step == m.formStep && (m.form != nil || step == onboarding.StepCompanion || step.Terminal()) {
		return
	}
	m.formStep = step
	m.form = nil

	age := ""
	if snap.User.Age != nil {
		age = strconv.Itoa(*snap.User.Age)
	}

	switch step {
	case onboarding.StepAuth:
		m.form = newForm(
			fieldSpec{label: "Username", placeholder: "alex_h", value: snap.User.Username},
			fieldSpec{label: "Password", placeholder: "••••••", secret: true},
		)
	case onboarding.StepRegister:
		m.form = newForm(
			fieldSpec{label: "Name", placeholder: "Alex", value: snap.User.Name},
			fieldSpec{label: "Username", placeholder: "alex_h", value: snap.User.Username},
			fieldSpec{label: "Age", placeholder: "optional", value: age},
			fieldSpec{label: "Medical conditions", placeholder: "optional", value: snap.User.MedicalConditions},
			fieldSpec{label: "Password", placeholder: "••••••", secret: true},
		)
	case onboarding.StepProfile:
		m.form = newForm(
			fieldSpec{label: "Name", placeholder: "What should we call you?", value: snap.User.Name},
			fieldSpec{label: "Age", placeholder: "optional", value: age},
			fieldSpec{label: "Medical conditions", placeholder: "optional", value: snap.User.MedicalConditions},
		)
	case onboarding.StepCompanion:
		m.cursor = 0
		for i, p := range m.store.Companions() {
			if p.ID == snap.SelectedPot.ID {
				m.cursor = i
			}
		}
	case onboarding.StepPlantName:
		m.form = newForm(fieldSpec{label: "Nickname", placeholder: snap.SelectedPot.Name, value: snap.PlantName})
	}
}

// draft reads the guard inputs from the visible form.
func (m *Model) draft(snap *models.AppState) onboarding.Form {
	f := onboarding.Form{Name: snap.User.Name, Username: snap.User.Username, PlantName: snap.PlantName}
	if m.form == nil {
		return f
	}
	switch snap.OnboardingStep {
	case onboarding.StepRegister:
		f.Name, f.Username = m.form.value(0), m.form.value(1)
	case onboarding.StepProfile:
		f.Name = m.form.value(0)
	case onboarding.StepPlantName:
		f.PlantName = m.form.value(0)
	}
	return f
}

func parseAge(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 150 {
		return nil, fmt.Errorf("age must be a number between 1 and 150")
	}
	return &n, nil
}

func (m *Model) updateOnboarding(msg tea.KeyMsg) tea.Cmd {
	snap := m.store.Snapshot()
	if snap.OnboardingStep == onboarding.StepCompanion {
		return m.updateCompanionStep(msg, snap)
	}
	if m.form == nil {
		m.syncForm()
		return nil
	}

	props := m.formProps(snap)
	switch {
	case msg.String() == "shift+tab":
		return m.form.move(-1)
	case keyIs(msg, m.keys.Tab):
		return m.form.move(1)
	case keyIs(msg, m.keys.Back):
		if props.OnBack != nil {
			props.OnBack()
		}
		return nil
	case keyIs(msg, m.keys.Register) && snap.OnboardingStep == onboarding.StepAuth:
		m.fire(onboarding.ActionRegister)
		return nil
	case keyIs(msg, m.keys.Enter):
		if !m.form.onLast() {
			return m.form.move(1)
		}
		props.OnSubmit()
		return nil
	}
	return m.form.Update(msg)
}

func (m *Model) updateCompanionStep(msg tea.KeyMsg, snap *models.AppState) tea.Cmd {
	p := m.companionStepProps(snap)
	n := len(p.Selector.Companions)
	switch {
	case keyIs(msg, m.keys.Left), keyIs(msg, m.keys.Up):
		if n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
			p.Selector.OnSelect(p.Selector.Companions[m.cursor])
		}
	case keyIs(msg, m.keys.Right), keyIs(msg, m.keys.Down), keyIs(msg, m.keys.Tab):
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
			p.Selector.OnSelect(p.Selector.Companions[m.cursor])
		}
	case keyIs(msg, m.keys.Enter):
		p.OnContinue()
	}
	return nil
}

// fire runs an onboarding action and rebuilds the form on success.
func (m *Model) fire(action onboarding.Action) bool {
	if _, err := m.store.Fire(action); err != nil {
		m.setError(err)
		return false
	}
	m.clearStatus()
	m.syncForm()
	return true
}

func (m *Model) login() {
	sess, err := m.store.Login(m.ctx, m.form.value(0), m.form.raw(1))
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Welcome back, @" + sess.Username)
	m.syncForm()
}

func (m *Model) createAccount() {
	age, err := parseAge(m.form.value(2))
	if err != nil {
		m.setError(err)
		return
	}
	m.store.SetUserName(m.form.value(0))
	m.store.SetUsername(m.form.value(1))
	m.store.SetUserAge(age)
	m.store.SetMedicalConditions(m.form.value(3))
	if _, err := m.store.CreateAccount(m.ctx, m.form.raw(4)); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("Account created")
	m.syncForm()
}

func (m *Model) continueProfile() {
	age, err := parseAge(m.form.value(1))
	if err != nil {
		m.setError(err)
		return
	}
	m.store.SetUserName(m.form.value(0))
	m.store.SetUserAge(age)
	m.store.SetMedicalConditions(m.form.value(2))
	m.fire(onboarding.ActionContinue)
}

func (m *Model) enterCareCenter() {
	m.store.SetPlantName(m.form.value(0))
	if m.fire(onboarding.ActionEnterCareCenter) {
		m.setStatus("Welcome to your care center")
	}
}

func (m *Model) formProps(snap *models.AppState) views.FormProps {
	step := snap.OnboardingStep
	can := func(a onboarding.Action) bool {
		f := m.draft(snap)
		f.Authenticated = a == onboarding.ActionLogin
		return onboarding.CanFire(step, a, f)
	}

	p := views.FormProps{Fields: m.form.fields()}
	switch step {
	case onboarding.StepAuth:
		p.Title, p.Subtitle = "Welcome back", "Sign in to your care center"
		p.Actions = []views.Action{
			{Key: "enter", Label: "sign in", Enabled: can(onboarding.ActionLogin)},
			{Key: "ctrl+r", Label: "create account", Enabled: can(onboarding.ActionRegister)},
		}
		p.OnSubmit = m.login
	case onboarding.StepRegister:
		p.Title, p.Subtitle = "Create account", "Tell us a little about you"
		p.Actions = []views.Action{
			{Key: "enter", Label: "create account", Enabled: can(onboarding.ActionCreateAccount)},
			{Key: "esc", Label: "back to sign in", Enabled: can(onboarding.ActionBackToLogin)},
		}
		p.OnSubmit = m.createAccount
		p.OnBack = func() { m.fire(onboarding.ActionBackToLogin) }
	case onboarding.StepProfile:
		p.Title, p.Subtitle = "Your profile", "Confirm how your companion should greet you"
		p.Actions = []views.Action{{Key: "enter", Label: "continue", Enabled: can(onboarding.ActionContinue)}}
		p.OnSubmit = m.continueProfile
	case onboarding.StepPlantName:
		p.Title, p.Subtitle = "Name your companion", views.PlantNamePreview(views.NewStyles(snap.Theme), snap.SelectedPot)
		p.Actions = []views.Action{{Key: "enter", Label: "enter care center", Enabled: can(onboarding.ActionEnterCareCenter)}}
		p.OnSubmit = m.enterCareCenter
	}
	return p
}

func (m *Model) companionStepProps(snap *models.AppState) views.CompanionStepProps {
	return views.CompanionStepProps{
		Selector: views.SelectorProps{
			Companions: m.store.Companions(),
			SelectedID: snap.SelectedPot.ID,
			Cursor:     m.cursor,
			OnSelect:   m.store.SelectCompanion,
		},
		Enabled:    m.store.CanFire(onboarding.ActionChooseCompanion),
		OnContinue: func() { m.fire(onboarding.ActionChooseCompanion) },
	}
}

func (m *Model) viewOnboarding(s views.Styles, snap *models.AppState) string {
	var body string
	switch snap.OnboardingStep {
	case onboarding.StepAuth, onboarding.StepRegister, onboarding.StepProfile, onboarding.StepPlantName:
		if m.form == nil || m.formStep != snap.OnboardingStep {
			return s.Dim.Render("Loading...")
		}
		body = views.Form(s, m.formProps(snap))
	case onboarding.StepCompanion:
		body = views.CompanionStep(s, m.companionStepProps(snap))
	case onboarding.StepMain:
		return m.viewDashboard(s, snap)
	default:
		panic(fmt.Sprintf("unreachable onboarding step %q", snap.OnboardingStep))
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("CARE4U") + " " + s.Dim.Render("your wellness companion") + "\n\n")
	b.WriteString(body + "\n")
	b.WriteString(m.statusLine(s))
	return b.String()
}
