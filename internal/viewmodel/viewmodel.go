// Package viewmodel holds render-only data for pages and JSON payloads.
// It does not import domain packages so views can depend on it freely.
package viewmodel

// StyleOption is one card of the prank style picker.
type StyleOption struct {
	ID       string
	Label    string
	Blurb    string
	Icon     string
	Popular  bool
	Selected bool
}

// EntryPage holds data for the entry screen.
type EntryPage struct {
	Title   string
	Name    string
	MaxName int
	Styles  []StyleOption
	Error   string
}

// LinkReady holds data for the "Link ready" card.
type LinkReady struct {
	Title        string
	Name         string
	Style        string
	ShareURL     string
	WhatsAppURL  string
	PreviewQuery string
}

// PrankPage holds data for the prank screen.
type PrankPage struct {
	Title     string
	PrankID   string
	Name      string
	Style     string
	StageText string
	Tooltip   string
	Query     string
}

// ConfirmedPage holds data for the confirmation screen.
type ConfirmedPage struct {
	Title       string
	Name        string
	ProofURL    string
	WhatsAppURL string
}

// Position is the button placement sent to the browser.
type Position struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Anchored bool    `json:"anchored"`
}

// Stage is the button text sent to the browser.
type Stage struct {
	Text    string  `json:"text"`
	Tooltip string  `json:"tooltip"`
	Scale   float64 `json:"scale"`
}

// Decoy is one fake button.
type Decoy struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Effect is the visual treatment of a move.
type Effect struct {
	Rotate     float64 `json:"rotate"`
	Scale      float64 `json:"scale"`
	Opacity    float64 `json:"opacity"`
	FadeIn     bool    `json:"fadeIn"`
	FromScale  float64 `json:"fromScale"`
	DurationMs int     `json:"durationMs"`
	Easing     string  `json:"easing"`
}

// Move is the JSON answer to an evasion.
type Move struct {
	Evaded   bool     `json:"evaded"`
	Trigger  string   `json:"trigger,omitempty"`
	Attempts int      `json:"attempts"`
	Position Position `json:"position"`
	Stage    Stage    `json:"stage"`
	Decoys   []Decoy  `json:"decoys"`
	Effect   Effect   `json:"effect"`
	Magnet   string   `json:"magnet"`
}
