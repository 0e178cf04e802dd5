// Package share builds and reads the links a prank is shared with.
package share

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"bemine/internal/engine"
)

const (
	// MaxNameLen is the longest partner name, in characters.
	MaxNameLen = 20

	paramName  = "name"
	paramStyle = "style"

	whatsAppBase = "https://wa.me/"
)

// State is what a share link carries.
type State struct {
	Name  string
	Style engine.Style
}

// NormalizeName trims surrounding space and cuts the name to MaxNameLen characters.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxNameLen {
		return name
	}
	runes := []rune(name)
	return strings.TrimSpace(string(runes[:MaxNameLen]))
}

// Encode returns the query string for a name and style, without a leading '?'.
func Encode(name string, style engine.Style) string {
	v := url.Values{}
	v.Set(paramName, name)
	v.Set(paramStyle, string(style))
	return v.Encode()
}

// Decode reads a query string. It reports false when no usable name is present.
// Unknown or missing styles fall back to classic.
func Decode(rawQuery string) (State, bool) {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	// ParseQuery keeps every well-formed pair even when another one is broken.
	values, _ := url.ParseQuery(rawQuery)
	name := NormalizeName(values.Get(paramName))
	if name == "" {
		return State{}, false
	}
	return State{Name: name, Style: engine.ParseStyle(values.Get(paramStyle))}, true
}

// Link returns the absolute share URL under baseURL. The query of baseURL is
// replaced; its path is kept.
func Link(baseURL string, name string, style engine.Style) string {
	base := strings.TrimSpace(baseURL)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		base = "/"
	}
	return base + "?" + Encode(name, style)
}

// WhatsAppLink returns a wa.me deep link that pre-fills message.
func WhatsAppLink(message string) string {
	v := url.Values{}
	v.Set("text", message)
	return whatsAppBase + "?" + v.Encode()
}

// InviteMessage is the text sent along with a fresh prank link.
func InviteMessage(name, link string) string {
	return "Hey " + name + "! 🫣 I have a very important question for you... Check it out here: " + link
}

// ProofMessage is the text sent after the prank was accepted.
func ProofMessage(link string) string {
	return "It's official! 💘 I'm your Valentine! Check out our agreement: " + link
}
