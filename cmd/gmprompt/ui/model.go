package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"gmprompt/internal/catalog"
	"gmprompt/internal/debug"
	"gmprompt/internal/prompt"
	"gmprompt/internal/selection"
)

type pane int

const (
	systemsPane pane = iota
	adventureTypesPane
	settingsPane
	paneCount
)

// Dependencies are the collaborators the model drives. Publish.Notifier is
// replaced by the model so notifications become toasts.
type Dependencies struct {
	Context       context.Context
	Store         *catalog.Store
	CatalogSource string
	Publish       prompt.PublisherConfig
	Sender        *prompt.Sender
	Debug         *debug.Logger
}

type toast struct {
	id      int
	message string
	action  string
	isError bool
}

type Model struct {
	deps  Dependencies
	state *selection.State

	loading bool
	loadErr error

	focus   pane
	cursors [paneCount]int

	keys keyMap
	help help.Model

	toast    *toast
	toastSeq int

	result    *prompt.Result
	historyID string

	sending        bool
	response       string
	animationFrame int

	width  int
	height int
}

func NewModel(deps Dependencies) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Store == nil {
		deps.Store = catalog.NewStore()
	}
	return Model{
		deps:    deps,
		state:   selection.New(),
		loading: !deps.Store.Ready(),
		keys:    newKeyMap(),
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	return tea.Batch(loadCatalogCmd(m.deps.Context, m.deps.Store, m.deps.CatalogSource), animationTimer())
}

// Selection exposes the current selection state.
func (m Model) Selection() *selection.State {
	return m.state
}

type animationTickMsg struct{}

type catalogLoadedMsg struct {
	err error
}

type notification struct {
	message  string
	action   string
	duration time.Duration
}

type publishedMsg struct {
	result       prompt.Result
	historyID    string
	notification notification
	err          error
}

type toastExpiredMsg struct {
	id int
}

type responseMsg struct {
	text string
	err  error
}
