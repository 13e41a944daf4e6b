package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"gmprompt/internal/errors"
	"gmprompt/internal/prompt"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		return m.handleCatalogLoaded(msg)
	case publishedMsg:
		return m.handlePublished(msg)
	case responseMsg:
		return m.handleResponse(msg)
	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case animationTickMsg:
		if m.loading || m.sending {
			m.animationFrame++
			return m, animationTimer()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		m.deps.Debug.Warnw("catalog load failed", "source", m.deps.CatalogSource, "error", msg.err)
		return m, nil
	}
	m.deps.Debug.Debugw("catalog loaded",
		"systems", len(m.deps.Store.Systems()),
		"adventure_types", len(m.deps.Store.AdventureTypes()),
		"settings", len(m.deps.Store.AllSettings()))
	return m, nil
}

func (m Model) handlePublished(msg publishedMsg) (tea.Model, tea.Cmd) {
	result := msg.result
	m.result = &result
	m.historyID = msg.historyID
	m.response = ""

	var cmds []tea.Cmd
	if msg.notification.message != "" {
		cmds = append(cmds, m.setToast(msg.notification.message, msg.notification.action, msg.notification.duration, false))
	}
	if msg.err != nil {
		m.deps.Debug.Warnw("prompt history not recorded", "error", msg.err)
	}
	if len(result.Unresolved) > 0 {
		m.deps.Debug.Printf("Unresolved titles in prompt: %s", strings.Join(result.Unresolved, ", "))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleResponse(msg responseMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	if msg.err != nil {
		return m, m.setToast(errors.GetMessage(msg.err), "Dismiss", defaultToastDuration, true)
	}
	m.response = msg.text
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.dismiss):
		m.toast = nil
		return m, nil
	case key.Matches(msg, m.keys.nextPane):
		m.focus = (m.focus + 1) % paneCount
		return m, nil
	case key.Matches(msg, m.keys.prevPane):
		m.focus = (m.focus + paneCount - 1) % paneCount
		return m, nil
	case key.Matches(msg, m.keys.up):
		if m.cursors[m.focus] > 0 {
			m.cursors[m.focus]--
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if m.cursors[m.focus] < m.paneLen(m.focus)-1 {
			m.cursors[m.focus]++
		}
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		m.toggleCurrent()
		return m, nil
	case key.Matches(msg, m.keys.reset):
		m.state.Reset()
		m.result = nil
		m.historyID = ""
		m.response = ""
		return m, nil
	case key.Matches(msg, m.keys.generate):
		return m.generate()
	case key.Matches(msg, m.keys.send):
		return m.send()
	}
	return m, nil
}

func (m Model) paneLen(p pane) int {
	switch p {
	case systemsPane:
		return len(m.deps.Store.Systems())
	case adventureTypesPane:
		return len(m.deps.Store.AdventureTypes())
	case settingsPane:
		return len(m.deps.Store.AllSettings())
	}
	return 0
}

func (m *Model) toggleCurrent() {
	i := m.cursors[m.focus]
	switch m.focus {
	case systemsPane:
		systems := m.deps.Store.Systems()
		if i < len(systems) {
			m.state.SelectSystem(systems[i])
		}
	case adventureTypesPane:
		adventureTypes := m.deps.Store.AdventureTypes()
		if i < len(adventureTypes) {
			m.state.SelectAdventureType(adventureTypes[i])
		}
	case settingsPane:
		settings := m.deps.Store.AllSettings()
		if i < len(settings) {
			m.state.SelectSetting(settings[i].Title)
		}
	}
}

func (m Model) generate() (tea.Model, tea.Cmd) {
	cat, err := m.deps.Store.Catalog()
	if err != nil {
		return m, m.setToast(errors.GetMessage(err), "Dismiss", defaultToastDuration, true)
	}

	res, err := prompt.Generate(m.state, cat)
	if err != nil {
		return m, m.setToast(errors.GetMessage(err), "Dismiss", defaultToastDuration, true)
	}

	m.deps.Debug.Debugw("prompt generated",
		"system", res.System,
		"adventure_types", res.AdventureTypes,
		"settings", res.Settings)
	return m, publishCmd(m.deps.Context, m.deps.Publish, res)
}

func (m Model) send() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	if m.result == nil {
		return m, m.setToast("Generate a prompt first (g)", "Dismiss", defaultToastDuration, true)
	}
	if !m.deps.Sender.Available() {
		return m, m.setToast("model unavailable: set OPENAI_API_KEY", "Dismiss", defaultToastDuration, true)
	}

	m.sending = true
	m.response = ""
	m.animationFrame = 0
	return m, tea.Batch(sendCmd(m.deps.Context, m.deps.Sender, *m.result, m.historyID), animationTimer())
}

// setToast replaces the current toast and schedules its expiry.
func (m *Model) setToast(message, action string, duration time.Duration, isError bool) tea.Cmd {
	if duration <= 0 {
		duration = defaultToastDuration
	}
	m.toastSeq++
	m.toast = &toast{id: m.toastSeq, message: message, action: action, isError: isError}
	if isError {
		m.deps.Debug.Printf("Toast error: %s", message)
	}
	return expireToastCmd(m.toastSeq, duration)
}

func (t *toast) String() string {
	if t.action == "" {
		return t.message
	}
	return fmt.Sprintf("%s  [esc] %s", t.message, t.action)
}
