// Package catalog holds the selectable systems, adventure types and settings
// a game master picks from. A Catalog is read-only once built.
package catalog

import (
	"slices"
	"strings"

	"gmprompt/internal/errors"
)

// System is a tabletop ruleset. Name is its identity.
type System struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// AdventureType is a tonal category for a session. Title is its identity.
type AdventureType struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Keywords    string `json:"keywords" yaml:"keywords"`
	Example     string `json:"example" yaml:"example"`
	Suitable    string `json:"suitable" yaml:"suitable"`
}

// Setting is a narrative backdrop. Title is its identity across all groups.
type Setting struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// SettingGroup names the curated group a setting was loaded from.
type SettingGroup string

const (
	GroupClassic SettingGroup = "classic"
	GroupUnique  SettingGroup = "unique"
	GroupTwisted SettingGroup = "twisted"
)

// Groups lists the setting groups in merge order.
var Groups = []SettingGroup{GroupClassic, GroupUnique, GroupTwisted}

type Catalog struct {
	systems        []System
	adventureTypes []AdventureType
	settings       map[SettingGroup][]Setting
	allSettings    []Setting

	systemIndex        map[string]int
	adventureTypeIndex map[string]int
	settingIndex       map[string]int
}

// New validates the five sequences and builds a Catalog. Names and titles
// must be non-empty and unique; setting titles are unique across groups.
func New(systems []System, adventureTypes []AdventureType, classic, unique, twisted []Setting) (*Catalog, error) {
	c := &Catalog{
		systems:        slices.Clone(systems),
		adventureTypes: slices.Clone(adventureTypes),
		settings: map[SettingGroup][]Setting{
			GroupClassic: slices.Clone(classic),
			GroupUnique:  slices.Clone(unique),
			GroupTwisted: slices.Clone(twisted),
		},
		systemIndex:        make(map[string]int, len(systems)),
		adventureTypeIndex: make(map[string]int, len(adventureTypes)),
		settingIndex:       make(map[string]int, len(classic)+len(unique)+len(twisted)),
	}

	for i, sys := range c.systems {
		if err := index(c.systemIndex, "systems", i, sys.Name, i); err != nil {
			return nil, err
		}
	}
	for i, adv := range c.adventureTypes {
		if err := index(c.adventureTypeIndex, "adventureTypes", i, adv.Title, i); err != nil {
			return nil, err
		}
	}

	for _, group := range Groups {
		field := string(group) + "Settings"
		for i, setting := range c.settings[group] {
			if err := index(c.settingIndex, field, i, setting.Title, len(c.allSettings)); err != nil {
				return nil, err
			}
			c.allSettings = append(c.allSettings, setting)
		}
	}

	return c, nil
}

// index records key at pos, rejecting blank and duplicate keys. at is the
// entry's position within its own field, used for messages.
func index(idx map[string]int, field string, at int, key string, pos int) error {
	if strings.TrimSpace(key) == "" {
		return errors.InvalidArgumentf("%s[%d]: name or title is required", field, at)
	}
	if _, exists := idx[key]; exists {
		return errors.AlreadyExistsf("%s: duplicate entry %q", field, key)
	}
	idx[key] = pos
	return nil
}

func (c *Catalog) Systems() []System {
	return slices.Clone(c.systems)
}

func (c *Catalog) AdventureTypes() []AdventureType {
	return slices.Clone(c.adventureTypes)
}

// Settings returns one group in load order.
func (c *Catalog) Settings(group SettingGroup) []Setting {
	return slices.Clone(c.settings[group])
}

// AllSettings returns classic, unique then twisted settings as one sequence.
func (c *Catalog) AllSettings() []Setting {
	return slices.Clone(c.allSettings)
}

func (c *Catalog) System(name string) (System, bool) {
	i, ok := c.systemIndex[name]
	if !ok {
		return System{}, false
	}
	return c.systems[i], true
}

func (c *Catalog) AdventureType(title string) (AdventureType, bool) {
	i, ok := c.adventureTypeIndex[title]
	if !ok {
		return AdventureType{}, false
	}
	return c.adventureTypes[i], true
}

func (c *Catalog) Setting(title string) (Setting, bool) {
	i, ok := c.settingIndex[title]
	if !ok {
		return Setting{}, false
	}
	return c.allSettings[i], true
}

// GroupOf reports which group a setting title was loaded from.
func (c *Catalog) GroupOf(title string) (SettingGroup, bool) {
	for _, group := range Groups {
		for _, setting := range c.settings[group] {
			if setting.Title == title {
				return group, true
			}
		}
	}
	return "", false
}
