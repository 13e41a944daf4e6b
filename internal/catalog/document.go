package catalog

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"gmprompt/internal/errors"
)

// Format is the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document mirrors { "data": { ... } }. Pointers distinguish an absent
// sequence from an empty one.
type document struct {
	Data *documentData `json:"data" yaml:"data"`
}

type documentData struct {
	AdventureTypes  *[]AdventureType `json:"adventureTypes" yaml:"adventureTypes"`
	ClassicSettings *[]Setting       `json:"classicSettings" yaml:"classicSettings"`
	UniqueSettings  *[]Setting       `json:"uniqueSettings" yaml:"uniqueSettings"`
	TwistedSettings *[]Setting       `json:"twistedSettings" yaml:"twistedSettings"`
	Systems         *[]System        `json:"systems" yaml:"systems"`
}

// Parse decodes and validates a catalog document.
func Parse(raw []byte, format Format) (*Catalog, error) {
	var doc document

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode YAML catalog")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode JSON catalog")
		}
	default:
		return nil, errors.InvalidArgumentf("unsupported catalog format %q", format)
	}

	if doc.Data == nil {
		return nil, errors.InvalidArgument("catalog document has no data field")
	}

	d := doc.Data
	required := []struct {
		field   string
		present bool
	}{
		{"adventureTypes", d.AdventureTypes != nil},
		{"classicSettings", d.ClassicSettings != nil},
		{"uniqueSettings", d.UniqueSettings != nil},
		{"twistedSettings", d.TwistedSettings != nil},
		{"systems", d.Systems != nil},
	}
	for _, r := range required {
		if !r.present {
			return nil, errors.InvalidArgumentf("catalog document is missing %q", r.field)
		}
	}

	return New(*d.Systems, *d.AdventureTypes, *d.ClassicSettings, *d.UniqueSettings, *d.TwistedSettings)
}
