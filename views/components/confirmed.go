package components

import (
	"context"

	"github.com/a-h/templ"

	"bemine/internal/viewmodel"
)

// ConfirmedCard is the celebration shown after "Yes". It is also served on its
// own as the fragment the prank screen swaps in.
func ConfirmedCard(data viewmodel.ConfirmedPage) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="card confirmed" data-confirmed><div class="stamp" aria-hidden="true">ACCEPTED</div>`)
		h.raw(`<div class="badge-heart wiggle">🤝</div><h1 class="script">It's Official! 💘</h1>`)
		h.raw(`<p class="lede"><strong class="accent">`)
		h.text(data.Name)
		h.raw(`</strong> is your Valentine!</p>`)

		h.raw(`<div class="coupon"><span class="coupon-tag">Official Coupon</span>`)
		h.raw(`<div class="coupon-row"><div><small>Valid For</small><strong>1 Romantic Date Night</strong></div><span>🎟️</span></div>`)
		h.raw(`<hr><div class="coupon-row"><div><small>Includes</small><strong>Unlimited Cuddles &amp; Snacks 🍫</strong></div>`)
		h.raw(`<div class="status"><small>Status</small><span class="ok">✔ CONFIRMED</span></div></div></div>`)
		h.raw(`<p class="fine-print">📷 Screenshot this as legal proof! No refunds. 😉</p>`)

		h.raw(`<div class="split"><a class="whatsapp" target="_blank" rel="noopener"`)
		h.href("href", data.WhatsAppURL)
		h.raw(`>💬 Send Proof</a><button type="button" class="dark"`)
		h.attr("data-copy", data.ProofURL)
		h.raw(`><span data-copy-label>Copy Link</span></button></div></section>`)
	})
}
