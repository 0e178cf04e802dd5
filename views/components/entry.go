package components

import (
	"context"

	"github.com/a-h/templ"

	"bemine/internal/viewmodel"
)

// EntryCard is the name form with the style picker.
func EntryCard(data viewmodel.EntryPage) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="card entry-card"><div class="badge-heart">💗</div>`)
		h.raw(`<h1 class="title">Valentine Prank</h1>`)
		h.raw(`<p class="lede">Create a personalized <span class="accent">unclickable</span> button and send it to your Valentine!</p>`)
		if data.Error != "" {
			h.raw(`<p class="error" role="alert">`)
			h.text(data.Error)
			h.raw(`</p>`)
		}
		h.raw(`<form method="POST" action="/links" class="entry-form" data-entry-form>`)
		h.raw(`<div class="name-field"><input type="text" name="name" placeholder="Enter partner's name..." autocomplete="off" autofocus required data-name-input`)
		h.attr("maxlength", itoa(data.MaxName))
		h.attr("value", data.Name)
		h.raw(`><span class="counter" data-name-counter>`)
		h.text(itoa(len([]rune(data.Name))) + "/" + itoa(data.MaxName))
		h.raw(`</span></div>`)

		h.raw(`<fieldset class="styles"><legend>Select Prank Style <span class="pill">`)
		h.text(itoa(len(data.Styles)) + " styles")
		h.raw(`</span></legend><div class="style-row">`)
		for _, opt := range data.Styles {
			h.render(ctx, StyleCard(opt))
		}
		h.raw(`</div></fieldset>`)
		h.raw(`<button type="submit" class="primary" data-submit>✨ Create Link</button></form>`)

		h.raw(`<form method="POST" action="/start" class="skip-form">`)
		h.raw(`<input type="hidden" name="name" value="My Valentine"><input type="hidden" name="style" value="classic">`)
		h.raw(`<button type="submit" class="link-button">Skip setup, just show me the prank →</button></form>`)
		h.raw(`</section><p class="tip">Tip: The "No" button will run away when they try to click it! 🏃‍♂️</p>`)
	})
}

// StyleCard is one selectable style.
func StyleCard(opt viewmodel.StyleOption) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<label class="style-card"><input type="radio" name="style"`)
		h.attr("value", opt.ID)
		if opt.Selected {
			h.raw(` checked`)
		}
		h.raw(`>`)
		if opt.Popular {
			h.raw(`<span class="popular">POPULAR</span>`)
		}
		h.raw(`<span class="style-icon">`)
		h.text(opt.Icon)
		h.raw(`</span><span class="style-label">`)
		h.text(opt.Label)
		h.raw(`</span><span class="style-blurb">`)
		h.text(opt.Blurb)
		h.raw(`</span></label>`)
	})
}

// LinkReadyCard shows the generated share link.
func LinkReadyCard(data viewmodel.LinkReady) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="card link-card"><div class="badge-link">🔗</div>`)
		h.raw(`<h2 class="title">Link Ready! 🎉</h2><p class="lede">Share this unique link with <strong class="accent">`)
		h.text(data.Name)
		h.raw(`</strong>.</p>`)
		h.raw(`<div class="share-url"><code data-share-url>`)
		h.text(data.ShareURL)
		h.raw(`</code><button type="button" class="icon-button" title="Copy URL"`)
		h.attr("data-copy", data.ShareURL)
		h.raw(`>📋</button></div>`)

		h.raw(`<a class="whatsapp" target="_blank" rel="noopener"`)
		h.href("href", data.WhatsAppURL)
		h.raw(`>💬 Send via WhatsApp</a>`)

		h.raw(`<div class="split"><button type="button" class="dark"`)
		h.attr("data-copy", data.ShareURL)
		h.raw(`><span data-copy-label>Copy</span></button>`)
		h.raw(`<form method="POST" action="/start"><input type="hidden" name="name"`)
		h.attr("value", data.Name)
		h.raw(`><input type="hidden" name="style"`)
		h.attr("value", data.Style)
		h.raw(`><button type="submit" class="outline">▶ Preview</button></form></div>`)
		h.raw(`<a class="link-button" href="/">↺ Create another</a></section>`)
	})
}
