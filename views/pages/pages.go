// Package pages assembles full documents from components.
package pages

import (
	"github.com/a-h/templ"

	"bemine/internal/viewmodel"
	"bemine/views/components"
)

// EntryPage renders the entry screen.
func EntryPage(data viewmodel.EntryPage) templ.Component {
	return components.Layout(data.Title, "entry", components.EntryCard(data))
}

// LinkReadyPage renders the generated link card.
func LinkReadyPage(data viewmodel.LinkReady) templ.Component {
	return components.Layout(data.Title, "entry", components.LinkReadyCard(data))
}

// PrankPage renders the prank screen.
func PrankPage(data viewmodel.PrankPage) templ.Component {
	return components.Layout(data.Title, "prank", components.PrankScreen(data))
}

// ConfirmedPage renders the confirmation screen.
func ConfirmedPage(data viewmodel.ConfirmedPage) templ.Component {
	return components.Layout(data.Title, "confirmed", components.ConfirmedCard(data))
}
