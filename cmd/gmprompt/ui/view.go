package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gmprompt/internal/catalog"
	"gmprompt/internal/errors"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	groupStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("10")).
			Padding(0, 1)

	errorToastStyle = toastStyle.
			Background(lipgloss.Color("9"))
)

func panelStyle(focused bool) lipgloss.Style {
	border := lipgloss.Color("8")
	if focused {
		border = lipgloss.Color("12")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Adventure Prompt Builder") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(loadingStyle.Render(getLoadingAnimation(m.animationFrame)+" Loading catalog…") + "\n")
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render("Catalog unavailable: "+errors.GetMessage(m.loadErr)) + "\n")
	default:
		b.WriteString(m.listsView() + "\n")
		b.WriteString(m.detailView())
		b.WriteString(m.outputView())
	}

	if m.toast != nil {
		style := toastStyle
		if m.toast.isError {
			style = errorToastStyle
		}
		b.WriteString("\n" + style.Render(m.toast.String()) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) columnWidth() int {
	if m.width <= 0 {
		return 32
	}
	w := m.width/3 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) listsView() string {
	width := m.columnWidth()

	var systems []string
	selected, _ := m.state.System()
	for i, sys := range m.deps.Store.Systems() {
		mark := "( )"
		if sys.Name == selected {
			mark = "(•)"
		}
		systems = append(systems, m.row(systemsPane, i, mark+" "+sys.Name))
	}

	var adventureTypes []string
	for i, adv := range m.deps.Store.AdventureTypes() {
		adventureTypes = append(adventureTypes, m.row(adventureTypesPane, i, checkbox(m.state.IsAdventureTypeSelected(adv.Title))+" "+adv.Title))
	}

	var settings []string
	i := 0
	groups := map[catalog.SettingGroup][]catalog.Setting{
		catalog.GroupClassic: m.deps.Store.ClassicSettings(),
		catalog.GroupUnique:  m.deps.Store.UniqueSettings(),
		catalog.GroupTwisted: m.deps.Store.TwistedSettings(),
	}
	for _, group := range catalog.Groups {
		if len(groups[group]) == 0 {
			continue
		}
		settings = append(settings, groupStyle.Render(strings.ToUpper(string(group)[:1])+string(group)[1:]))
		for _, setting := range groups[group] {
			settings = append(settings, m.row(settingsPane, i, checkbox(m.state.IsSettingSelected(setting.Title))+" "+setting.Title))
			i++
		}
	}

	column := func(p pane, title string, rows []string) string {
		body := headerStyle.Render(title) + "\n" + strings.Join(rows, "\n")
		return panelStyle(m.focus == p).Width(width).Render(body)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		column(systemsPane, "System", systems),
		column(adventureTypesPane, "Adventure Types", adventureTypes),
		column(settingsPane, "Settings", settings),
	)
}

func (m Model) row(p pane, i int, text string) string {
	if m.focus == p && m.cursors[p] == i {
		return cursorStyle.Render("> " + text)
	}
	return messageStyle.Render("  " + text)
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) contentWidth() int {
	if w := m.width - 4; w >= 40 {
		return w
	}
	return 76
}

// detailView describes the row under the cursor in the focused list.
func (m Model) detailView() string {
	i := m.cursors[m.focus]

	var title, group string
	var lines []string
	switch m.focus {
	case systemsPane:
		systems := m.deps.Store.Systems()
		if i >= len(systems) {
			return ""
		}
		title = systems[i].Name
		lines = []string{systems[i].Description}
	case adventureTypesPane:
		adventureTypes := m.deps.Store.AdventureTypes()
		if i >= len(adventureTypes) {
			return ""
		}
		adv := adventureTypes[i]
		title = adv.Title
		lines = []string{adv.Description}
		if adv.Keywords != "" {
			lines = append(lines, "Keywords: "+adv.Keywords)
		}
		if adv.Example != "" {
			lines = append(lines, "Example: "+adv.Example)
		}
		if adv.Suitable != "" {
			lines = append(lines, "Suitable for: "+adv.Suitable)
		}
	case settingsPane:
		settings := m.deps.Store.AllSettings()
		if i >= len(settings) {
			return ""
		}
		title = settings[i].Title
		if cat, err := m.deps.Store.Catalog(); err == nil {
			if g, ok := cat.GroupOf(title); ok {
				group = " " + groupStyle.Render("("+string(g)+")")
			}
		}
		lines = []string{settings[i].Description}
	}

	width := m.contentWidth()
	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render(title) + group + "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(messageStyle.Render(wrapAndIndent(line, width, " ")) + "\n")
	}
	return b.String()
}

func (m Model) outputView() string {
	if m.result == nil {
		return ""
	}

	contentWidth := m.contentWidth()

	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render("Prompt") + "\n")
	for _, line := range strings.Split(m.result.Text, "\n") {
		b.WriteString(messageStyle.Render(wrapAndIndent(line, contentWidth, " ")) + "\n")
	}
	if len(m.result.Unresolved) > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf(" Not in catalog: %s", strings.Join(m.result.Unresolved, ", "))) + "\n")
	}

	switch {
	case m.sending:
		b.WriteString("\n" + loadingStyle.Render(" "+getLoadingAnimation(m.animationFrame)+" Waiting for model…") + "\n")
	case m.response != "":
		b.WriteString("\n" + headerStyle.Render("Response") + "\n")
		for _, line := range strings.Split(m.response, "\n") {
			b.WriteString(messageStyle.Render(wrapAndIndent(line, contentWidth, " ")) + "\n")
		}
	}
	return b.String()
}

func wrapAndIndent(text string, width int, indent string) string {
	if len(text) <= width {
		return indent + text
	}

	var result strings.Builder
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	currentLine := indent + words[0]

	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}

	result.WriteString(currentLine)
	return result.String()
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}
