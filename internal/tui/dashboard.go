// ABOUTME: Dashboard half of the root model: navigation, per-view keys, and rendering.
// ABOUTME: Every view is reached through one exhaustive switch over models.View.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/tui/views"
)

func (m *Model) updateDashboard(msg tea.KeyMsg) tea.Cmd {
	snap := m.store.Snapshot()

	// open forms and the focused chat input take every key
	switch {
	case m.medForm != nil:
		return m.updateMedForm(msg, snap)
	case m.accountForm != nil:
		return m.updateAccountForm(msg, snap)
	case snap.CurrentView == models.ViewAI && m.chatInput.Focused():
		return m.updateChatInput(msg, snap)
	}

	switch {
	case keyIs(msg, m.keys.Quit):
		return m.quit()
	case keyIs(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case keyIs(msg, m.keys.Nav):
		if v, ok := views.ViewForKey(msg.String()); ok {
			return m.navigate(v)
		}
		return nil
	case keyIs(msg, m.keys.Companions):
		return m.navigate(models.ViewSelector)
	case keyIs(msg, m.keys.Settings):
		return m.navigate(models.ViewSettings)
	case keyIs(msg, m.keys.Theme):
		m.toggleTheme()
		return nil
	}

	switch snap.CurrentView {
	case models.ViewHome:
		return m.updateHome(msg, snap)
	case models.ViewWatch, models.ViewHistory:
		return nil
	case models.ViewAI:
		return m.updateFlora(msg)
	case models.ViewSchedule:
		return m.updateSchedule(msg, snap)
	case models.ViewSelector:
		return m.updateSelector(msg, snap)
	case models.ViewSettings:
		return m.updateSettings(msg, snap)
	default:
		panic(fmt.Sprintf("unreachable view %q", snap.CurrentView))
	}
}

func (m *Model) navigate(v models.View) tea.Cmd {
	if err := m.store.SetView(v); err != nil {
		m.setError(err)
		return nil
	}
	m.clearStatus()
	m.chatInput.Blur()
	switch v {
	case models.ViewAI:
		m.follow = true
		return m.chatInput.Focus()
	case models.ViewSelector:
		snap := m.store.Snapshot()
		for i, p := range m.store.Companions() {
			if p.ID == snap.SelectedPot.ID {
				m.cursor = i
			}
		}
	}
	return nil
}

func (m *Model) toggleTheme() {
	theme := m.store.ToggleTheme()
	m.setStatus("Theme: " + string(theme))
}

func (m *Model) toggleMedication(id string) {
	med, err := m.store.ToggleMedication(id)
	if err != nil {
		m.setError(err)
		return
	}
	if med.Taken {
		m.setStatus(med.Name + " taken")
	} else {
		m.setStatus(med.Name + " not taken")
	}
}

// Home

func (m *Model) homeProps(snap *models.AppState) views.HomeProps {
	p := views.NewHomeProps(snap, m.now())
	p.OnNavigate = func(v models.View) { m.navigate(v) }
	p.OnToggleMedication = m.toggleMedication
	return p
}

func (m *Model) updateHome(msg tea.KeyMsg, snap *models.AppState) tea.Cmd {
	p := m.homeProps(snap)
	for _, l := range views.HomeLinks {
		if msg.String() == l.Key {
			if l.View == models.ViewAI {
				return m.navigate(l.View)
			}
			p.OnNavigate(l.View)
			return nil
		}
	}
	if keyIs(msg, m.keys.Taken) && p.NextMedication != nil {
		p.OnToggleMedication(p.NextMedication.ID)
	}
	return nil
}

// Flora

func (m *Model) floraProps(snap *models.AppState) views.FloraProps {
	return views.FloraProps{
		Pot:       snap.SelectedPot,
		PlantName: snap.PlantName,
		Messages:  snap.ChatMessages,
		Input:     m.chatInput.View(),
		Replying:  m.store.Replying(),
		Spinner:   m.spinner.View(),
		Width:     m.width,
		RenderMarkdown: func(c string) string {
			return renderMarkdown(m.rendererFor(snap.Theme), c)
		},
		OnSend: m.sendMessage,
	}
}

func (m *Model) updateFlora(msg tea.KeyMsg) tea.Cmd {
	if keyIs(msg, m.keys.Chat) {
		return m.chatInput.Focus()
	}
	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	m.follow = m.chatView.AtBottom()
	return cmd
}

func (m *Model) updateChatInput(msg tea.KeyMsg, snap *models.AppState) tea.Cmd {
	switch {
	case keyIs(msg, m.keys.Back):
		m.chatInput.Blur()
		return nil
	case keyIs(msg, m.keys.Enter):
		p := m.floraProps(snap)
		p.OnSend(m.chatInput.Value())
		if m.store.Replying() {
			return m.spinner.Tick
		}
		return nil
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return cmd
}

// Schedule

func (m *Model) scheduleProps(snap *models.AppState) views.ScheduleProps {
	p := views.ScheduleProps{
		Medications: snap.Medications,
		Cursor:      m.scheduleCursor,
		OnToggle:    m.toggleMedication,
		OnAdd: func(med models.Medication) {
			added := m.store.AddMedication(med)
			m.setStatus("Added " + added.Name)
		},
	}
	if m.medForm != nil {
		p.Adding, p.Form = true, m.medForm.view()
	}
	return p
}

func (m *Model) updateSchedule(msg tea.KeyMsg, snap *models.AppState) tea.Cmd {
	p := m.scheduleProps(snap)
	order := views.ScheduleOrder(p.Medications)
	switch {
	case keyIs(msg, m.keys.Up):
		m.scheduleCursor = clamp(m.scheduleCursor-1, len(order))
	case keyIs(msg, m.keys.Down):
		m.scheduleCursor = clamp(m.scheduleCursor+1, len(order))
	case keyIs(msg, m.keys.Toggle):
		if c := clamp(m.scheduleCursor, len(order)); c >= 0 {
			p.OnToggle(order[c].ID)
		}
	case keyIs(msg, m.keys.Add):
		m.medForm = newForm(
			fieldSpec{label: "Name", placeholder: "Vitamin D"},
			fieldSpec{label: "Dosage", placeholder: "1000 IU"},
			fieldSpec{label: "Time", placeholder: "08:00 AM"},
			fieldSpec{label: "Slot", placeholder: "Morning, Noon, Evening or Night", value: string(models.SlotMorning)},
			fieldSpec{label: "Category", placeholder: "medicine, water, walk or other", value: string(models.CategoryMedicine)},
		)
	}
	return nil
}

// parseMedication validates the add form.
func parseMedication(name, dosage, at, slot, category string) (models.Medication, error) {
	if name == "" {
		return models.Medication{}, fmt.Errorf("name is required")
	}
	ts := models.TimeSlot(titleCase(slot))
	if !models.IsValidTimeSlot(string(ts)) {
		return models.Medication{}, fmt.Errorf("unknown time slot %q", slot)
	}
	m := models.NewMedication(name, dosage, at, ts)
	if category != "" {
		c := strings.ToLower(category)
		if !models.IsValidCategory(c) {
			return models.Medication{}, fmt.Errorf("unknown category %q", category)
		}
		m = m.WithCategory(models.Category(c))
	}
	return m, nil
}

func (m *Model) updateMedForm(msg tea.KeyMsg, snap *models.AppState) tea.Cmd {
	f := m.medForm
	switch {
	case keyIs(msg, m.keys.Back):
		m.medForm = nil
		return nil
	case msg.String() == "shift+tab":
		return f.move(-1)
	case keyIs(msg, m.keys.Tab):
		return f.move(1)
	case keyIs(msg, m.keys.Enter):
		if !f.onLast() {
			return f.move(1)
		}
		med, err := parseMedication(f.value(0), f.value(1), f.value(2), f.value(3), f.value(4))
		if err != nil {
			m.setError(err)
			return nil
		}
		p := m.scheduleProps(snap)
		m.medForm = nil
		p.OnAdd(med)
		return nil
	}
	return f.Update(msg)
}

// Selector

func (m *Model) selectorProps(snap *models.AppState) views.SelectorProps {
	return views.SelectorProps{
		Companions: m.store.Companions(),
		SelectedID: snap.SelectedPot.ID,
		Cursor:     m.cursor,
		OnSelect: func(p models.Pot) {
			m.store.SelectCompanion(p)
			m.setStatus(fmt.Sprintf("%s %s is now your companion", p.Emoji, p.Name))
		},
	}
}

func (m *Model) updateSelector(msg tea.KeyMsg, snap *models.AppState) tea.Cmd {
	p := m.selectorProps(snap)
	n := len(p.Companions)
	if n == 0 {
		return nil
	}
	switch {
	case keyIs(msg, m.keys.Left), keyIs(msg, m.keys.Up):
		m.cursor = (m.cursor - 1 + n) % n
	case keyIs(msg, m.keys.Right), keyIs(msg, m.keys.Down):
		m.cursor = (m.cursor + 1) % n
	case keyIs(msg, m.keys.Enter):
		p.OnSelect(p.Companions[clamp(m.cursor, n)])
	}
	return nil
}

// Settings

func (m *Model) settingsProps(snap *models.AppState) views.SettingsProps {
	p := views.SettingsProps{
		User:          snap.User,
		Accounts:      snap.Accounts,
		Theme:         snap.Theme,
		Cursor:        m.settingsCursor,
		OnToggleTheme: m.toggleTheme,
		OnSwitchAccount: func(username string) {
			if err := m.store.SwitchAccount(username); err != nil {
				m.setError(err)
				return
			}
			m.settingsCursor = 0
			m.setStatus("Switched to @" + username)
		},
		OnAddAccount: func(u models.UserProfile) {
			m.store.AddAccount(u)
			m.setStatus("Added @" + u.Username)
		},
	}
	if m.accountForm != nil {
		p.Adding, p.Form = true, m.accountForm.view()
	}
	return p
}

func (m *Model) updateSettings(msg tea.KeyMsg, snap *models.AppState) tea.Cmd {
	p := m.settingsProps(snap)
	switch {
	case keyIs(msg, m.keys.Up):
		m.settingsCursor = clamp(m.settingsCursor-1, len(p.Accounts))
	case keyIs(msg, m.keys.Down):
		m.settingsCursor = clamp(m.settingsCursor+1, len(p.Accounts))
	case keyIs(msg, m.keys.Enter):
		if c := clamp(m.settingsCursor, len(p.Accounts)); c >= 0 {
			p.OnSwitchAccount(p.Accounts[c].Username)
		}
	case keyIs(msg, m.keys.Add):
		m.accountForm = newForm(
			fieldSpec{label: "Name", placeholder: "Mom"},
			fieldSpec{label: "Username", placeholder: "mom"},
			fieldSpec{label: "Age", placeholder: "optional"},
		)
	}
	return nil
}

func (m *Model) updateAccountForm(msg tea.KeyMsg, snap *models.AppState) tea.Cmd {
	f := m.accountForm
	switch {
	case keyIs(msg, m.keys.Back):
		m.accountForm = nil
		return nil
	case msg.String() == "shift+tab":
		return f.move(-1)
	case keyIs(msg, m.keys.Tab):
		return f.move(1)
	case keyIs(msg, m.keys.Enter):
		if !f.onLast() {
			return f.move(1)
		}
		if f.value(0) == "" || f.value(1) == "" {
			m.setError(fmt.Errorf("name and username are required"))
			return nil
		}
		age, err := parseAge(f.value(2))
		if err != nil {
			m.setError(err)
			return nil
		}
		u := models.NewUserProfile(f.value(0), f.value(1))
		if age != nil {
			u = u.WithAge(*age)
		}
		p := m.settingsProps(snap)
		m.accountForm = nil
		p.OnAddAccount(u)
		return nil
	}
	return f.Update(msg)
}

// Rendering

func (m *Model) viewDashboard(s views.Styles, snap *models.AppState) string {
	header := views.Header(s, views.HeaderProps{
		User:      snap.User,
		Pot:       snap.SelectedPot,
		PlantName: snap.PlantName,
		Theme:     snap.Theme,
		Width:     m.width,
	})

	var body string
	switch snap.CurrentView {
	case models.ViewHome:
		body = views.Home(s, m.homeProps(snap))
	case models.ViewWatch:
		body = views.Watch(s, views.WatchProps{Vitals: snap.Vitals, Now: m.now()})
	case models.ViewHistory:
		body = views.History(s, views.HistoryProps{Logs: snap.History})
	case models.ViewAI:
		p := m.floraProps(snap)
		m.chatView.SetContent(views.Conversation(s, p))
		if m.follow {
			m.chatView.GotoBottom()
		}
		p.Transcript = m.chatView.View()
		body = views.Flora(s, p)
	case models.ViewSchedule:
		body = views.Schedule(s, m.scheduleProps(snap))
	case models.ViewSelector:
		body = views.Selector(s, m.selectorProps(snap))
	case models.ViewSettings:
		body = views.Settings(s, m.settingsProps(snap))
	default:
		panic(fmt.Sprintf("unreachable view %q", snap.CurrentView))
	}

	nav := views.Nav(s, views.NavProps{Current: snap.CurrentView})
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		nav,
		m.statusLine(s),
		m.help.View(m.keys),
	)
}

func (m *Model) statusLine(s views.Styles) string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return s.Error.Render("✗ " + m.status)
	}
	return s.Success.Render("✓ " + m.status)
}

// clamp bounds a cursor to [0, n). It returns -1 when n is zero.
func clamp(i, n int) int {
	if n == 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
