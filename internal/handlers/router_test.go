package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"bemine/internal/session"
)

func TestRequestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	store := session.NewStore()
	defer store.Close()
	h := NewRouter(store, zap.New(core), RouterConfig{})

	id := mount(t, h, "name=Sam&style=magnetic")
	do(t, h, http.MethodPost, "/prank/"+id+"/pointer", `{"x":1,"y":2}`, nil)
	do(t, h, http.MethodPost, "/prank/"+id+"/evade", `{}`, nil)
	do(t, h, http.MethodPost, "/prank/"+id+"/evade", `{"viewport":`, nil)

	levels := map[string][]zapcore.Level{}
	for _, entry := range logs.FilterMessage("request").All() {
		path := entry.ContextMap()["path"].(string)
		levels[path] = append(levels[path], entry.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.InfoLevel}, levels["/"])
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel}, levels["/prank/"+id+"/pointer"])
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel}, levels["/prank/"+id+"/evade"])

	entries := logs.FilterMessage("request").FilterField(zap.Int("status", http.StatusBadRequest)).All()
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].ContextMap()["path"].(string), "/evade"))
}

func TestRequestLogger_InfoCoreDropsFrequentCalls(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequestLogger(zap.New(core))(next)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/prank/x/pointer", nil))
	assert.Zero(t, logs.Len())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/prank/x/unmount", nil))
	assert.Equal(t, 1, logs.Len())
}
