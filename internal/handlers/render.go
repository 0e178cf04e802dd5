package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

func render(w http.ResponseWriter, r *http.Request, log *zap.Logger, component templ.Component) {
	renderStatus(w, r, log, http.StatusOK, component)
}

func renderStatus(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		log.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func renderToString(r *http.Request, component templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}

func isFragmentRequest(r *http.Request) bool {
	return r.Header.Get("Hx-Request") == "true"
}
