package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bemine/internal/engine"
	"bemine/internal/screen"
	"bemine/internal/session"
	"bemine/internal/viewmodel"
	"bemine/views/components"
	"bemine/views/pages"
)

const maxBodyBytes = 4 << 10

// PrankHandler serves the live prank screen.
type PrankHandler struct {
	store     *session.Store
	log       *zap.Logger
	baseURL   string
	keepAlive time.Duration
}

func NewPrankHandler(store *session.Store, log *zap.Logger, baseURL string) *PrankHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrankHandler{store: store, log: log, baseURL: baseURL, keepAlive: 25 * time.Second}
}

// RegisterRoutes adds the request/response routes. The event stream is
// registered separately so it can live outside the request timeout.
func (h *PrankHandler) RegisterRoutes(r chi.Router) {
	r.Post("/prank/{id}/evade", h.evade)
	r.Post("/prank/{id}/pointer", h.pointer)
	r.Post("/prank/{id}/yes", h.yes)
	r.Post("/prank/{id}/unmount", h.unmount)
}

func (h *PrankHandler) RegisterStream(r chi.Router) {
	r.Get("/prank/{id}/stream", h.stream)
}

type evadeRequest struct {
	Viewport engine.Size `json:"viewport"`
	Button   engine.Size `json:"button"`
	Trigger  string      `json:"trigger"`
}

func (h *PrankHandler) evade(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req evadeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	move, err := p.Evade(req.Viewport, req.Button, session.ParseTrigger(req.Trigger))
	if err != nil {
		h.fail(w, p.ID, err)
		return
	}
	writeJSON(w, toMove(move))
}

func (h *PrankHandler) pointer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var pt engine.Point
	if err := decodeJSON(w, r, &pt); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if _, err := p.Pointer(pt); err != nil {
		h.fail(w, p.ID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// yes confirms the prank. A page that outlived its mount still gets the
// confirmation: the form carries the name and style it was rendered with.
func (h *PrankHandler) yes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := h.confirmMounted(id)
	if !ok {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		st = screen.Reduce(screen.Initial(""), screen.Submit{
			Name:  r.FormValue("name"),
			Style: engine.ParseStyle(r.FormValue("style")),
		})
		st = screen.Reduce(st, screen.Confirm{})
		if st.Mode != screen.ModeConfirmed {
			if isFragmentRequest(r) {
				http.Error(w, "prank is over", http.StatusGone)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.log.Info("prank accepted after unmount", zap.String("prank_id", id))
	}

	data := confirmedPage(shareBase(h.baseURL, r), st)
	if isFragmentRequest(r) {
		render(w, r, h.log, components.ConfirmedCard(data))
		return
	}
	render(w, r, h.log, pages.ConfirmedPage(data))
}

// confirmMounted confirms a live prank and returns its screen state. It
// reports false when there is no such mount.
func (h *PrankHandler) confirmMounted(id string) (screen.State, bool) {
	p, ok := h.store.Get(id)
	if !ok {
		return screen.State{}, false
	}
	changed, err := p.Confirm()
	if err != nil {
		return screen.State{}, false
	}
	if changed {
		h.log.Info("prank accepted", zap.String("prank_id", id))
	}
	return p.Screen(), true
}

func (h *PrankHandler) unmount(w http.ResponseWriter, r *http.Request) {
	h.store.Unmount(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *PrankHandler) stream(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, ok := h.store.Broadcaster(p.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendMove := func(event string) {
		payload, err := json.Marshal(toMove(p.Snapshot().Move))
		if err != nil {
			h.log.Error("encode move", zap.String("prank_id", p.ID), zap.Error(err))
			return
		}
		writeSSE(w, event, string(payload))
		flusher.Flush()
	}
	sendConfirmed := func() {
		data := confirmedPage(shareBase(h.baseURL, r), p.Screen())
		html, err := renderToString(r, components.ConfirmedCard(data))
		if err != nil {
			h.log.Error("render confirmation", zap.String("prank_id", p.ID), zap.Error(err))
			return
		}
		writeSSE(w, string(session.EventConfirmed), html)
		flusher.Flush()
	}

	if p.Screen().Mode == screen.ModeConfirmed {
		sendConfirmed()
		return
	}
	sendMove("state")

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			switch event {
			case session.EventEvade:
				sendMove(string(session.EventEvade))
			case session.EventConfirmed:
				sendConfirmed()
				return
			}
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func (h *PrankHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Prank, bool) {
	p, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	return p, true
}

func (h *PrankHandler) fail(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, session.ErrGone) {
		http.Error(w, "prank is over", http.StatusGone)
		return
	}
	h.log.Error("prank action", zap.String("prank_id", id), zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func toMove(m session.Move) viewmodel.Move {
	decoys := make([]viewmodel.Decoy, 0, len(m.Decoys))
	for _, d := range m.Decoys {
		decoys = append(decoys, viewmodel.Decoy{ID: d.ID, X: d.X, Y: d.Y})
	}
	return viewmodel.Move{
		Evaded:   m.Evaded,
		Trigger:  string(m.Trigger),
		Attempts: m.Attempts,
		Position: viewmodel.Position{X: m.Position.X, Y: m.Position.Y, Anchored: m.Position.Anchored},
		Stage: viewmodel.Stage{
			Text:    m.Stage.Text,
			Tooltip: m.Stage.Tooltip,
			Scale:   m.Stage.Scale,
		},
		Decoys: decoys,
		Effect: viewmodel.Effect{
			Rotate:     m.Effect.Rotate,
			Scale:      m.Effect.Scale,
			Opacity:    m.Effect.Opacity,
			FadeIn:     m.Effect.FadeIn,
			FromScale:  m.Effect.FromScale,
			DurationMs: m.Effect.Motion.DurationMs,
			Easing:     m.Effect.Motion.Easing,
		},
		Magnet: m.Magnet.String(),
	}
}
