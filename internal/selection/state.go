// Package selection tracks what the user has picked from the catalog.
package selection

import (
	"slices"

	"gmprompt/internal/catalog"
)

// State is the current selection. Adventure types and settings are kept as
// ordered title lists; the zero value is an empty selection.
type State struct {
	system         string
	hasSystem      bool
	adventureTypes []string
	settings       []string
}

func New() *State {
	return &State{}
}

// SelectSystem replaces any previously selected system.
func (s *State) SelectSystem(sys catalog.System) {
	s.system = sys.Name
	s.hasSystem = true
}

func (s *State) ClearSystem() {
	s.system = ""
	s.hasSystem = false
}

// System returns the selected system name.
func (s *State) System() (string, bool) {
	return s.system, s.hasSystem
}

func (s *State) IsAdventureTypeSelected(title string) bool {
	return slices.Contains(s.adventureTypes, title)
}

// SelectAdventureType toggles adventure by title.
func (s *State) SelectAdventureType(adventure catalog.AdventureType) {
	s.adventureTypes = toggle(s.adventureTypes, adventure.Title)
}

func (s *State) IsSettingSelected(title string) bool {
	return slices.Contains(s.settings, title)
}

// SelectSetting toggles title.
func (s *State) SelectSetting(title string) {
	s.settings = toggle(s.settings, title)
}

// AdventureTypes returns the selected adventure type titles in selection order.
func (s *State) AdventureTypes() []string {
	return slices.Clone(s.adventureTypes)
}

// Settings returns the selected setting titles in selection order.
func (s *State) Settings() []string {
	return slices.Clone(s.settings)
}

// Empty reports whether nothing at all is selected.
func (s *State) Empty() bool {
	return !s.hasSystem && len(s.adventureTypes) == 0 && len(s.settings) == 0
}

func (s *State) Reset() {
	*s = State{}
}

func toggle(list []string, key string) []string {
	if i := slices.Index(list, key); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return append(list, key)
}
