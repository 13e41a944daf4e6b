package prompt

import (
	"gmprompt/internal/catalog"
	"gmprompt/internal/errors"
	"gmprompt/internal/selection"
)

// Result is a rendered prompt and the selection it was built from.
type Result struct {
	Text           string
	System         string
	AdventureTypes []string
	Settings       []string
	// Unresolved lists selected titles the catalog has no entry for. They
	// are rendered with MissingDescription.
	Unresolved []string
}

// Generate renders the prompt for state against cat. It fails with
// UNAVAILABLE when cat is nil and FAILED_PRECONDITION when no system is
// selected.
func Generate(state *selection.State, cat *catalog.Catalog) (Result, error) {
	if cat == nil {
		return Result{}, errors.Unavailable("catalog unavailable")
	}
	systemName, ok := state.System()
	if !ok {
		return Result{}, errors.FailedPrecondition("no system selected")
	}

	res := Result{
		System:         systemName,
		AdventureTypes: state.AdventureTypes(),
		Settings:       state.Settings(),
	}

	adventureTypes := make([]catalog.AdventureType, 0, len(res.AdventureTypes))
	for _, title := range res.AdventureTypes {
		adv, found := cat.AdventureType(title)
		if !found {
			adv = catalog.AdventureType{Title: title, Description: MissingDescription}
			res.Unresolved = append(res.Unresolved, title)
		}
		adventureTypes = append(adventureTypes, adv)
	}

	for _, title := range res.Settings {
		if _, found := cat.Setting(title); !found {
			res.Unresolved = append(res.Unresolved, title)
		}
	}

	res.Text = Render(systemName, adventureTypes, res.Settings, cat.AllSettings())
	return res, nil
}

// NewState builds a selection from titles, as the command line and tool
// callers supply them. The system must exist in cat; adventure types and
// settings that do not resolve are kept and reported by Generate.
func NewState(cat *catalog.Catalog, system string, adventureTypes, settings []string) (*selection.State, error) {
	if cat == nil {
		return nil, errors.Unavailable("catalog unavailable")
	}

	state := selection.New()
	if system != "" {
		sys, ok := cat.System(system)
		if !ok {
			return nil, errors.NotFoundf("unknown system %q", system)
		}
		state.SelectSystem(sys)
	}

	for _, title := range adventureTypes {
		adv, ok := cat.AdventureType(title)
		if !ok {
			adv = catalog.AdventureType{Title: title}
		}
		if !state.IsAdventureTypeSelected(adv.Title) {
			state.SelectAdventureType(adv)
		}
	}
	for _, title := range settings {
		if !state.IsSettingSelected(title) {
			state.SelectSetting(title)
		}
	}

	return state, nil
}
