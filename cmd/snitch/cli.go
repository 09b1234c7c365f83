package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/ops"
	"github.com/snitch-dev/snitch/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "snitch",
		Usage:   "Project-scoped source capture",
		Version: Version,
		Commands: []*cli.Command{
			captureCmd(db, cfg),
			entriesCmd(cfg),
			renderCmd(),
			locateCmd(db),
			exportCmd(cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// projectConfig merges the repo-local config nearest to path over cfg.
func projectConfig(cfg *config.Config, path string) (*config.Config, error) {
	return config.WithRepo(cfg, filepath.Dir(path))
}

// captureCmd creates the capture command.
func captureCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "capture",
		Usage:     "Capture a region of a source file as a tracked entry (optionally reads body from stdin)",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "start", Usage: "Byte offset where the region starts"},
			&cli.IntFlag{Name: "end", Usage: "Byte offset where the region ends (exclusive)"},
			&cli.IntFlag{Name: "line", Aliases: []string{"l"}, Usage: "1-based line to capture instead of a byte range"},
			&cli.StringFlag{Name: "template", Aliases: []string{"k"}, Required: true, Usage: "Capture template key (e.g. nt, ni)"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Entry title"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("file argument is required"))
			}
			file := c.Args().First()

			input := ops.CaptureInput{
				File:        file,
				Start:       c.Int("start"),
				End:         c.Int("end"),
				Line:        c.Int("line"),
				TemplateKey: c.String("template"),
				Title:       c.String("title"),
			}

			// Read entry body from stdin if piped
			if stdinHasData() {
				body, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Body = body
			}

			merged, err := projectConfig(cfg, file)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.Capture(db, merged, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// entriesCmd creates the entries command.
func entriesCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "entries",
		Usage:     "List entries in the tracking document of the project containing a path",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "heading", Usage: "Restrict to one capture destination heading"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				var err error
				path, err = os.Getwd()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			merged, err := projectConfig(cfg, path)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.Entries(merged, ops.EntriesInput{
				Path:    path,
				Heading: c.String("heading"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// renderCmd creates the render command.
func renderCmd() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print a file with entry links collapsed to their labels",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "color", Usage: "Style rendered links for the terminal"},
			&cli.IntFlag{Name: "cursor", Value: -1, Usage: "Byte offset of the cursor; the link under it is shown raw"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("file argument is required"))
			}

			output, err := ops.Render(ops.RenderInput{
				File:   c.Args().First(),
				Color:  c.Bool("color"),
				Cursor: c.Int("cursor"),
			})
			if err != nil {
				return outputError(err)
			}

			fmt.Print(output.Text)
			return nil
		},
	}
}

// locateCmd creates the locate command.
func locateCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "locate",
		Usage:     "Look up which project an entry id belongs to",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}

			output, err := ops.Locate(db, ops.LocateInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a project's entries to a file",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|yaml|md|html"},
			&cli.StringFlag{Name: "heading", Usage: "Restrict to one capture destination heading"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file path (default: tracking file with the format's extension)"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				var err error
				path, err = os.Getwd()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			merged, err := projectConfig(cfg, path)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.Export(merged, ops.ExportInput{
				Path:    path,
				Heading: c.String("heading"),
				Format:  c.String("format"),
				Out:     c.String("out"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve a read-only browser view of the project's entries",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 7130, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				var err error
				path, err = os.Getwd()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			merged, err := projectConfig(cfg, path)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			srv := web.NewServer(db, merged, Version, c.String("bind"), c.Int("port"), path)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if snitchErr, ok := err.(*errors.SnitchError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", snitchErr.Code, snitchErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
