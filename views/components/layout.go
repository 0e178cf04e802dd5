package components

import (
	"context"

	"github.com/a-h/templ"
)

var floatingHearts = []string{"💖", "💕", "💗", "💓", "💝", "❤️", "💘", "💞"}

// Layout wraps a screen in the page chrome.
func Layout(title string, screen string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title>`)
		h.raw(`<link rel="preconnect" href="https://fonts.googleapis.com">`)
		h.raw(`<link rel="stylesheet" href="https://fonts.googleapis.com/css2?family=Pacifico&family=Nunito:wght@400;700;800&display=swap">`)
		h.raw(`<link rel="stylesheet" href="/static/app.css">`)
		h.raw(`<script defer src="/static/app.js"></script>`)
		h.raw(`</head><body`)
		h.attr("data-screen", screen)
		h.raw(`><div class="backdrop" aria-hidden="true"><div class="blob blob-a"></div><div class="blob blob-b"></div><div class="blob blob-c"></div></div>`)
		h.raw(`<div class="hearts" aria-hidden="true">`)
		for i, heart := range floatingHearts {
			h.raw(`<span class="heart"`)
			h.attr("style", "--i:"+itoa(i))
			h.raw(`>`)
			h.text(heart)
			h.raw(`</span>`)
		}
		h.raw(`</div><main id="screen">`)
		h.render(ctx, body)
		h.raw(`</main><footer class="footer">Made with ❤️ for Valentine's Day</footer></body></html>`)
	})
}
