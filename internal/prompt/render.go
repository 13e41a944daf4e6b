// Package prompt turns a selection into adventure prompt text and hands it
// to the output sinks.
package prompt

import (
	"strings"

	"gmprompt/internal/catalog"
)

// MissingDescription stands in for a title the catalog cannot resolve.
const MissingDescription = "No description available."

// Render builds the prompt text. Values are inserted verbatim. Setting
// descriptions are looked up by title in allSettings.
func Render(systemName string, adventureTypes []catalog.AdventureType, settingTitles []string, allSettings []catalog.Setting) string {
	var b strings.Builder

	b.WriteString("Create a " + systemName + " adventure with the following elements:\n\n")

	b.WriteString("Adventure Types:\n")
	for _, adv := range adventureTypes {
		b.WriteString("- " + adv.Title + ": " + adv.Description + "\n")
	}

	b.WriteString("\nSettings:\n")
	for _, title := range settingTitles {
		b.WriteString("- " + title + ": " + describeSetting(title, allSettings) + "\n")
	}

	b.WriteString("\nThe adventure should be engaging and suitable for a " + systemName +
		" game. Provide a brief overview, key locations, main NPCs, and potential plot hooks.")

	return b.String()
}

func describeSetting(title string, allSettings []catalog.Setting) string {
	for _, setting := range allSettings {
		if setting.Title == title {
			return setting.Description
		}
	}
	return MissingDescription
}
