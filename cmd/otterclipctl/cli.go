package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/its-jojoo/otterclip/internal/adapter/storage"
	"github.com/its-jojoo/otterclip/internal/config"
	"github.com/its-jojoo/otterclip/internal/core"
	cliperrors "github.com/its-jojoo/otterclip/internal/errors"
)

// ExportItem is one history entry in an export file. Text is what the
// entry exposes on copy, so masked secrets stay masked.
type ExportItem struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	Text           string `json:"text,omitempty"`
	Sanitized      bool   `json:"sanitized"`
	ImageSize      int    `json:"image_size,omitempty"`
	ImageAvailable bool   `json:"image_available,omitempty"`
	Fingerprint    string `json:"fingerprint,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "otterclipctl",
		Usage:   "Inspect and manage stored OtterClip history",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config file path"},
			&cli.StringFlag{Name: "data-dir", Usage: "Data directory (overrides config)"},
			&cli.StringFlag{Name: "driver", Usage: "Storage driver: sqlite|file|memory (overrides config)"},
		},
		Commands: []*cli.Command{
			exportCmd(),
			countCmd(),
			clearCmd(),
			rulesCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored history as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "-", Usage: "Output file, - for stdout"},
			&cli.IntFlag{Name: "limit", Value: 0, Usage: "Max items to export (0 = all)"},
		},
		Action: func(c *cli.Context) error {
			items, err := loadItems(c)
			if err != nil {
				return outputError(err)
			}
			if limit := c.Int("limit"); limit > 0 && limit < len(items) {
				items = items[:limit]
			}

			export := make([]ExportItem, 0, len(items))
			for i := range items {
				export = append(export, toExport(&items[i]))
			}

			path := c.String("out")
			if path == "-" {
				return outputJSON(c.App.Writer, export)
			}
			return writeExport(c.App.Writer, path, export)
		},
	}
}

// counter is implemented by stores that can count without loading payloads.
type counter interface {
	Count(ctx context.Context) (int, error)
}

func countCmd() *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "Print the number of stored items",
		Action: func(c *cli.Context) error {
			st, err := openStore(c)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			var n int
			if cn, ok := st.(counter); ok {
				n, err = cn.Count(c.Context)
			} else {
				var items []core.Item
				items, err = st.Load(c.Context)
				n = len(items)
			}
			if err != nil {
				return outputError(cliperrors.NewStorage("count", err))
			}
			fmt.Fprintln(c.App.Writer, n)
			return nil
		},
	}
}

func clearCmd() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Erase stored history (stop otterclip first)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm erasing history"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return cli.Exit("refusing to erase history without --yes", 1)
			}
			st, err := openStore(c)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			if err := st.Erase(c.Context); err != nil {
				return outputError(cliperrors.NewStorage("erase", err))
			}
			fmt.Fprintln(c.App.Writer, "history erased")
			return nil
		},
	}
}

type ruleStatus struct {
	core.Rule `yaml:",inline"`
	Status    string `yaml:"status"`
}

func rulesCmd() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "Print the effective sanitization rules as YAML",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return outputError(err)
			}

			bad := map[int]string{}
			for i, r := range cfg.Rules {
				if _, errs := core.NewSanitizer([]core.Rule{r}); len(errs) > 0 {
					bad[i] = errs[0].Error()
				}
			}

			doc := struct {
				Rules []ruleStatus `yaml:"rules"`
			}{Rules: make([]ruleStatus, 0, len(cfg.Rules))}
			for i, r := range cfg.Rules {
				status := "active"
				switch {
				case bad[i] != "":
					status = "skipped: " + bad[i]
				case !r.Enabled:
					status = "disabled"
				}
				doc.Rules = append(doc.Rules, ruleStatus{Rule: r, Status: status})
			}

			enc := yaml.NewEncoder(c.App.Writer)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(doc)
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, cliperrors.NewInternal(err)
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if drv := c.String("driver"); drv != "" {
		cfg.Storage.Driver = drv
	}
	return cfg, nil
}

func openStore(c *cli.Context) (storage.Store, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	st, err := storage.Open(cfg.Storage.Driver, cfg.DataDir)
	if err != nil {
		return nil, cliperrors.NewStorage("open", err)
	}
	return st, nil
}

func loadItems(c *cli.Context) ([]core.Item, error) {
	st, err := openStore(c)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	items, err := st.Load(c.Context)
	if err != nil {
		return nil, cliperrors.NewStorage("load", err)
	}
	return items, nil
}

func toExport(it *core.Item) ExportItem {
	e := ExportItem{
		ID:          it.ID,
		Kind:        string(it.Kind),
		Fingerprint: it.Fingerprint,
		CreatedAt:   it.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	switch it.Kind {
	case core.KindText:
		e.Text = it.Text()
		e.Sanitized = it.Sanitized()
	case core.KindImage:
		e.ImageSize = it.ImageSize
		e.ImageAvailable = it.ImageLoaded()
	}
	return e
}

// writeExport writes export to path and reports success only once the file
// has been closed without error.
func writeExport(out io.Writer, path string, export []ExportItem) error {
	f, err := os.Create(path)
	if err != nil {
		return outputError(cliperrors.NewInternal(err))
	}
	if err := outputJSON(f, export); err != nil {
		_ = f.Close()
		return outputError(cliperrors.NewInternal(err))
	}
	if err := f.Close(); err != nil {
		return outputError(cliperrors.NewInternal(err))
	}
	fmt.Fprintln(out, "exported", len(export), "items to", path)
	return nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if clipErr, ok := err.(*cliperrors.ClipError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", clipErr.Code, clipErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
