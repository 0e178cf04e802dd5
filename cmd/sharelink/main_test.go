package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun_PrintsLink(t *testing.T) {
	var out bytes.Buffer
	copied := ""
	err := run(&out, zap.NewNop(), options{
		name:  "Mia & Jo",
		style: "multiply",
		base:  "https://be.mine/",
		copy:  true,
	}, func(s string) error {
		copied = s
		return nil
	})
	require.NoError(t, err)

	want := "https://be.mine/?name=Mia+%26+Jo&style=multiply"
	assert.Equal(t, want+"\n", out.String())
	assert.Equal(t, want, copied)
}

func TestRun_WhatsApp(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, zap.NewNop(), options{name: "Sam", style: "spin", base: "https://be.mine/", whatsapp: true}, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "https://wa.me/?text="))
}

func TestRun_ClipboardFailureOnlyWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var out bytes.Buffer
	err := run(&out, zap.New(core), options{name: "Sam", style: "classic", base: "/", copy: true}, func(string) error {
		return errors.New("no clipboard utilities available")
	})
	require.NoError(t, err)
	assert.Equal(t, "/?name=Sam&style=classic\n", out.String())
	assert.Equal(t, 1, logs.FilterMessage("copy to clipboard failed").Len())
}

func TestRun_UnknownStyleFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	var out bytes.Buffer
	require.NoError(t, run(&out, zap.New(core), options{name: "Sam", style: "wobble", base: "/"}, nil))
	assert.Equal(t, "/?name=Sam&style=classic\n", out.String())
	assert.Equal(t, 1, logs.Len())
}

func TestRun_RequiresName(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, zap.NewNop(), options{name: "   ", style: "classic"}, nil)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}
