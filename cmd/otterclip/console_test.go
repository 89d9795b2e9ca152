package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/its-jojoo/otterclip/internal/adapter/clipboard"
	"github.com/its-jojoo/otterclip/internal/adapter/storage/memory"
	"github.com/its-jojoo/otterclip/internal/config"
	"github.com/its-jojoo/otterclip/internal/core"
	"github.com/its-jojoo/otterclip/internal/engine"
)

func runConsole(t *testing.T, script string) (string, *clipboard.Memory, *engine.Engine) {
	t.Helper()
	cfg := config.Default()
	cfg.MonitoringEnabled = false
	cfg.Rules = []core.Rule{{Pattern: `token=\S+`, Action: core.ActionMask, Enabled: true}}

	mem := clipboard.NewMemory()
	eng, err := engine.New(context.Background(), cfg, engine.Deps{Pasteboard: mem, Storage: memory.New()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close(context.Background()) })

	var out bytes.Buffer
	c := newConsole(eng, mem, strings.NewReader(script), &out)
	require.NoError(t, c.Run(context.Background()))
	return out.String(), mem, eng
}

func TestConsole_AddListCopy(t *testing.T) {
	out, mem, eng := runConsole(t, strings.Join([]string{
		"add hello",
		"add token=abc",
		"add hello",
		"list",
		"copy 1",
		"count",
		"quit",
	}, "\n"))

	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "(ignored)")
	assert.Contains(t, out, " 1 * [text] ********")
	assert.Contains(t, out, " 2   [text] hello")
	assert.Contains(t, out, "copied")
	assert.Contains(t, out, "2/200")

	got, _, err := mem.ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "********", got)
	assert.Equal(t, 2, eng.Len())
}

func TestConsole_CapClearPressure(t *testing.T) {
	out, _, eng := runConsole(t, strings.Join([]string{
		"add one",
		"add two",
		"cap 1",
		"cap 0",
		"pressure critical",
		"pressure nope",
		"clear",
		"list",
		"bogus",
	}, "\n"))

	assert.Contains(t, out, "capacity 1")
	assert.Contains(t, out, "usage: cap <n> (n > 0)")
	assert.Contains(t, out, "signalled critical")
	assert.Contains(t, out, "usage: pressure warning|critical")
	assert.Contains(t, out, "history cleared")
	assert.Contains(t, out, "(empty)")
	assert.Contains(t, out, "unknown command: bogus")
	assert.Equal(t, 0, eng.Len())
}

func TestConsole_AddNeedsMemoryClipboard(t *testing.T) {
	cfg := config.Default()
	cfg.MonitoringEnabled = false
	eng, err := engine.New(context.Background(), cfg, engine.Deps{Pasteboard: clipboard.NewMemory(), Storage: memory.New()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close(context.Background()) })

	var out bytes.Buffer
	c := newConsole(eng, nil, strings.NewReader("add x\n"), &out)
	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "need --memory-clipboard")
}

func TestSplitCmd(t *testing.T) {
	cmd, arg := splitCmd("FIND  some text ")
	assert.Equal(t, "find", cmd)
	assert.Equal(t, "some text", arg)

	cmd, arg = splitCmd("list")
	assert.Equal(t, "list", cmd)
	assert.Empty(t, arg)
}
