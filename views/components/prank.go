package components

import (
	"context"

	"github.com/a-h/templ"

	"bemine/internal/viewmodel"
)

// PrankScreen is the "Will you be my Valentine?" question.
func PrankScreen(data viewmodel.PrankPage) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="prank" data-prank`)
		h.attr("data-prank-id", data.PrankID)
		h.attr("data-style", data.Style)
		h.attr("data-query", data.Query)
		h.raw(`><div class="question"><h1 class="script">Will you be my Valentine,</h1><div class="script name">`)
		h.text(data.Name)
		h.raw(`?</div></div>`)

		h.raw(`<div class="answers">`)
		h.raw(`<form method="POST" class="yes-form" data-yes`)
		h.attr("action", "/prank/"+data.PrankID+"/yes")
		h.raw(`><input type="hidden" name="name"`)
		h.attr("value", data.Name)
		h.raw(`><input type="hidden" name="style"`)
		h.attr("value", data.Style)
		h.raw(`><button type="submit" class="yes">YES! 💖</button></form>`)
		h.raw(`<button type="button" class="no" data-no`)
		if data.Tooltip != "" {
			h.attr("title", data.Tooltip)
		}
		h.raw(`>`)
		h.text(data.StageText)
		h.raw(`</button><div class="decoys" data-decoys></div></div></section>`)
	})
}
