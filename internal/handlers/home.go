package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bemine/internal/engine"
	"bemine/internal/screen"
	"bemine/internal/session"
	"bemine/internal/share"
	"bemine/internal/viewmodel"
	"bemine/views/pages"
)

const (
	entryTitle     = "Valentine Prank 💘"
	prankTitle     = "Will you be my Valentine? 💘"
	confirmedTitle = "It's Official! 💘"
)

// HomeHandler serves the entry screen, link creation and the prank mount.
type HomeHandler struct {
	store   *session.Store
	log     *zap.Logger
	baseURL string
}

func NewHomeHandler(store *session.Store, log *zap.Logger, baseURL string) *HomeHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HomeHandler{store: store, log: log, baseURL: baseURL}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/links", h.createLink)
	r.Post("/start", h.start)
}

func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	st := screen.Initial(r.URL.RawQuery)
	if st.Mode != screen.ModePrank {
		render(w, r, h.log, pages.EntryPage(entryPage("", st.Style, "")))
		return
	}

	p, err := h.store.Mount(st)
	if err != nil {
		h.log.Error("mount prank", zap.Error(err))
		render(w, r, h.log, pages.EntryPage(entryPage("", engine.StyleClassic, "")))
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	render(w, r, h.log, pages.PrankPage(prankPage(p.Snapshot())))
}

func (h *HomeHandler) createLink(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := share.NormalizeName(r.FormValue("name"))
	style := engine.ParseStyle(r.FormValue("style"))
	if name == "" {
		renderStatus(w, r, h.log, http.StatusUnprocessableEntity,
			pages.EntryPage(entryPage("", style, "Enter a name to start")))
		return
	}

	link := share.Link(shareBase(h.baseURL, r), name, style)
	render(w, r, h.log, pages.LinkReadyPage(viewmodel.LinkReady{
		Title:        entryTitle,
		Name:         name,
		Style:        string(style),
		ShareURL:     link,
		WhatsAppURL:  share.WhatsAppLink(share.InviteMessage(name, link)),
		PreviewQuery: share.Encode(name, style),
	}))
}

// start is the "Preview" and "Skip setup" path: submit and show the prank.
func (h *HomeHandler) start(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	st := screen.Reduce(screen.Initial(""), screen.Submit{
		Name:  r.FormValue("name"),
		Style: engine.ParseStyle(r.FormValue("style")),
	})
	if st.Mode != screen.ModePrank {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/?"+st.Query(), http.StatusSeeOther)
}

func entryPage(name string, selected engine.Style, errMsg string) viewmodel.EntryPage {
	if !selected.Valid() {
		selected = engine.StyleClassic
	}
	styles := engine.Styles()
	options := make([]viewmodel.StyleOption, 0, len(styles))
	for _, s := range styles {
		info := s.Info()
		options = append(options, viewmodel.StyleOption{
			ID:       string(s),
			Label:    info.Label,
			Blurb:    info.Blurb,
			Icon:     info.Icon,
			Popular:  info.Popular,
			Selected: s == selected,
		})
	}
	return viewmodel.EntryPage{
		Title:   entryTitle,
		Name:    name,
		MaxName: share.MaxNameLen,
		Styles:  options,
		Error:   errMsg,
	}
}

func prankPage(snap session.Snapshot) viewmodel.PrankPage {
	return viewmodel.PrankPage{
		Title:     prankTitle,
		PrankID:   snap.ID,
		Name:      snap.Screen.Name,
		Style:     string(snap.Screen.Style),
		StageText: snap.Move.Stage.Text,
		Tooltip:   snap.Move.Stage.Tooltip,
		Query:     snap.Screen.Query(),
	}
}

func confirmedPage(base string, st screen.State) viewmodel.ConfirmedPage {
	proof := share.Link(base, st.Name, st.Style)
	return viewmodel.ConfirmedPage{
		Title:       confirmedTitle,
		Name:        st.Name,
		ProofURL:    proof,
		WhatsAppURL: share.WhatsAppLink(share.ProofMessage(proof)),
	}
}

// shareBase is the configured public URL, or the one the request came in on.
func shareBase(configured string, r *http.Request) string {
	if configured != "" {
		return configured + "/"
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}
