package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/its-jojoo/otterclip/internal/adapter/clipboard"
	"github.com/its-jojoo/otterclip/internal/core"
	"github.com/its-jojoo/otterclip/internal/engine"
)

const (
	listLimit = 20
	usage     = "Commands: list | find <q> | copy <n> | clear | cap <n> | pause | resume | pressure warning|critical | add <text> | paste | count | quit"
)

// console is the interactive shell of `otterclip run`.
type console struct {
	eng *engine.Engine
	mem *clipboard.Memory // nil when the system clipboard is in use
	in  io.Reader
	out io.Writer
}

func newConsole(eng *engine.Engine, mem *clipboard.Memory, in io.Reader, out io.Writer) *console {
	return &console{eng: eng, mem: mem, in: in, out: out}
}

func (c *console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "OtterClip")
	fmt.Fprintln(c.out, usage)
	if c.mem != nil {
		fmt.Fprintln(c.out, "Tip: in-process clipboard; use 'add' or 'paste' to put text on it.")
	}

	sc := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "> ")
		if !sc.Scan() {
			break
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		cmd, arg := splitCmd(line)
		switch cmd {
		case "quit", "exit":
			return nil

		case "pause":
			c.eng.StopMonitoring()
			fmt.Fprintln(c.out, "capture paused")

		case "resume":
			c.eng.StartMonitoring(ctx)
			fmt.Fprintln(c.out, "capture resumed")

		case "add":
			if arg == "" {
				fmt.Fprintln(c.out, "usage: add <text>")
				continue
			}
			c.put(ctx, arg)

		case "paste":
			fmt.Fprint(c.out, "(paste) ")
			if !sc.Scan() {
				return sc.Err()
			}
			c.put(ctx, sc.Text())

		case "list":
			c.print(c.eng.GetHistory())

		case "find":
			if arg == "" {
				fmt.Fprintln(c.out, "usage: find <query>")
				continue
			}
			c.print(c.eng.Search(arg, listLimit))

		case "copy":
			n, err := strconv.Atoi(arg)
			h := c.eng.GetHistory()
			if err != nil || n < 1 || n > len(h) {
				fmt.Fprintln(c.out, "usage: copy <n> (see list)")
				continue
			}
			if err := c.eng.CopyToClipboard(ctx, h[n-1].ID); err != nil {
				fmt.Fprintln(c.out, "error:", err)
				continue
			}
			fmt.Fprintln(c.out, "copied")

		case "clear":
			c.eng.ClearHistory()
			fmt.Fprintln(c.out, "history cleared")

		case "cap":
			n, err := strconv.Atoi(arg)
			if err != nil || !c.eng.SetMaxHistoryItems(n) {
				fmt.Fprintln(c.out, "usage: cap <n> (n > 0)")
				continue
			}
			fmt.Fprintln(c.out, "capacity", c.eng.Capacity())

		case "pressure":
			level, ok := core.ParsePressureLevel(strings.ToLower(arg))
			if !ok {
				fmt.Fprintln(c.out, "usage: pressure warning|critical")
				continue
			}
			if !c.eng.SignalPressure(level) {
				fmt.Fprintln(c.out, "pressure queue full, signal dropped")
				continue
			}
			fmt.Fprintln(c.out, "signalled", level)

		case "count":
			fmt.Fprintf(c.out, "%d/%d\n", c.eng.Len(), c.eng.Capacity())

		default:
			fmt.Fprintln(c.out, "unknown command:", cmd)
			fmt.Fprintln(c.out, usage)
		}
	}
	return sc.Err()
}

// put places text on the in-process clipboard and captures it right away.
func (c *console) put(ctx context.Context, text string) {
	if c.mem == nil {
		fmt.Fprintln(c.out, "add/paste need --memory-clipboard; copy text with the system clipboard instead")
		return
	}
	if err := c.mem.WriteText(ctx, text); err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return
	}
	saved, err := c.eng.Poll(ctx)
	if err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return
	}
	if !saved {
		fmt.Fprintln(c.out, "(ignored)")
		return
	}
	fmt.Fprintln(c.out, "saved")
}

func (c *console) print(items []engine.Summary) {
	if len(items) == 0 {
		fmt.Fprintln(c.out, "(empty)")
		return
	}
	for i, s := range items {
		if i == listLimit {
			fmt.Fprintf(c.out, "... %d more\n", len(items)-listLimit)
			return
		}
		mark := " "
		if s.Sanitized {
			mark = "*"
		}
		label := string(s.Kind)
		if s.Hint != "" {
			label = string(s.Hint)
		}
		fmt.Fprintf(c.out, "%2d %s [%s] %s\n", i+1, mark, label, s.Preview)
	}
}

func splitCmd(s string) (cmd, arg string) {
	parts := strings.Fields(s)
	cmd = strings.ToLower(parts[0])
	if len(parts) > 1 {
		arg = strings.TrimSpace(s[len(parts[0]):])
	}
	return cmd, arg
}
