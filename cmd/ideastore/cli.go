package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/ideastore/internal/api"
	"github.com/hpungsan/ideastore/internal/client"
	"github.com/hpungsan/ideastore/internal/config"
	"github.com/hpungsan/ideastore/internal/db"
	"github.com/hpungsan/ideastore/internal/errors"
	"github.com/hpungsan/ideastore/internal/logging"
	"github.com/hpungsan/ideastore/internal/mcp"
	"github.com/hpungsan/ideastore/internal/pgstore"
)

// DefaultServer is the API address client commands use when --server is not set.
const DefaultServer = "http://localhost:3000"

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "ideastore",
		Usage:   "Markdown notes with metadata in SQL and content in a blob store",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   DefaultServer,
				EnvVars: []string{"IDEASTORE_SERVER"},
				Usage:   "API base URL for client commands",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: client.DefaultTimeout,
				Usage: "HTTP timeout for client commands",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			mcpCmd(),
			migrateCmd(),
			saveCmd(),
			listCmd(),
			getCmd(),
			contentCmd(),
			loadCmd(),
			updateCmd(),
			deleteCmd(),
			boardCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return outputError(err)
			}
			logger := logging.New(cfg.Log, os.Stdout)

			svc, closeStores, err := buildService(c.Context, cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer closeStores()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			handler := api.NewRouter(svc, api.RouterOptions{
				CORS:     cfg.CORS,
				Logger:   logger,
				Registry: reg,
			})
			srv := api.NewServer(handler, cfg.Server)
			return api.Run(c.Context, srv, logger, cfg.Server.ShutdownTimeout)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the entry tools over MCP stdio",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return outputError(err)
			}
			// stdout carries protocol frames
			logger := logging.New(cfg.Log, os.Stderr)

			svc, closeStores, err := buildService(c.Context, cfg, logger)
			if err != nil {
				return outputError(err)
			}
			defer closeStores()

			return mcp.Run(svc, Version)
		},
	}
}

// migrationResult is printed by the migrate command.
type migrationResult struct {
	Driver  string  `json:"driver"`
	Version int64   `json:"version"`
	Applied []int64 `json:"applied"`
}

// migrateCmd creates the migrate command.
func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply metadata store migrations and exit",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return outputError(err)
			}
			out, err := runMigrations(c.Context, cfg.Database)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.DatabaseConfig) (*migrationResult, error) {
	out := &migrationResult{Driver: cfg.Driver, Applied: []int64{}}

	switch cfg.Driver {
	case config.DriverPostgres:
		res, err := pgstore.Migrate(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		out.Applied = res.Applied
		out.Version = res.Version
		return out, nil

	case config.DriverSQLite:
		database, err := db.Init(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		defer database.Close()

		v, err := db.GetUserVersion(database)
		if err != nil {
			return nil, err
		}
		out.Version = int64(v)
		return out, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// saveCmd creates the save command.
func saveCmd() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save a new entry (reads text from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title override"},
		},
		Action: func(c *cli.Context) error {
			text, err := stdinText()
			if err != nil {
				return outputError(err)
			}

			out, err := newClient(c).Save(c.Context, text, c.String("title"))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

// listCmd creates the list command.
func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entries, newest first",
		Action: func(c *cli.Context) error {
			entries, err := newClient(c).List(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(entries)
		},
	}
}

// getCmd creates the get command.
func getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get an entry's metadata",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := argID(c)
			if err != nil {
				return outputError(err)
			}
			e, err := newClient(c).Get(c.Context, id)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e)
		},
	}
}

// contentCmd creates the content command.
func contentCmd() *cli.Command {
	return &cli.Command{
		Name:  "content",
		Usage: "Print an entry's text by id or exact title",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Usage: "Entry id (wins over --title)"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Exact entry title"},
		},
		Action: func(c *cli.Context) error {
			if c.Int64("id") == 0 && c.String("title") == "" {
				return outputError(errors.NewValidation("--id or --title is required"))
			}
			text, err := newClient(c).Content(c.Context, c.Int64("id"), c.String("title"))
			if err != nil {
				return outputError(err)
			}
			return outputText(text)
		},
	}
}

// loadCmd creates the load command.
func loadCmd() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Print the text stored under a blob id",
		ArgsUsage: "<blobId>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewValidation("blob id is required"))
			}
			text, err := newClient(c).Load(c.Context, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputText(text)
		},
	}
}

// updateCmd creates the update command.
func updateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Replace an entry's text (reads text from stdin)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := argID(c)
			if err != nil {
				return outputError(err)
			}
			text, err := stdinText()
			if err != nil {
				return outputError(err)
			}

			out, err := newClient(c).Update(c.Context, id, text)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an entry and its content",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := argID(c)
			if err != nil {
				return outputError(err)
			}
			out, err := newClient(c).Delete(c.Context, id)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

// boardCmd creates the board command.
func boardCmd() *cli.Command {
	return &cli.Command{
		Name:  "board",
		Usage: "Sync the idea board with the server and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Only show ideas whose title or description contains this"},
			&cli.BoolFlag{Name: "full", Usage: "Print whole descriptions instead of snippets"},
		},
		Action: func(c *cli.Context) error {
			board := client.NewBoard(nil)
			if err := client.NewSync(newClient(c), board, nil).Refresh(c.Context); err != nil {
				return outputError(err)
			}
			return outputJSON(boardView(board.Search(c.String("search")), c.Bool("full")))
		},
	}
}

// boardView shortens descriptions to card snippets unless full is set.
func boardView(ideas []client.Idea, full bool) []client.Idea {
	if full {
		return ideas
	}
	for i := range ideas {
		ideas[i].Description = ideas[i].Snippet()
	}
	return ideas
}

// Helper functions

func newClient(c *cli.Context) *client.Client {
	timeout := c.Duration("timeout")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return client.New(c.String("server"), &http.Client{Timeout: timeout})
}

// argID parses the first positional argument as an entry id.
func argID(c *cli.Context) (int64, error) {
	if c.NArg() == 0 {
		return 0, errors.NewValidation("id is required")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidation("Invalid ID")
	}
	return id, nil
}

// stdinText requires piped stdin and returns it trimmed.
func stdinText() (string, error) {
	if !stdinHasData() {
		return "", errors.NewValidation("text must be piped via stdin")
	}
	text, err := readStdin()
	if err != nil {
		return "", errors.NewInternal("failed to read stdin", err)
	}
	if text == "" {
		return "", errors.NewValidation("text is required")
	}
	return text, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputText writes text to stdout followed by a newline when missing.
func outputText(s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(os.Stdout, s)
	return err
}

// outputError formats error for CLI.
func outputError(err error) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return cli.Exit(fmt.Sprintf("[%s] %s", e.Kind, e.Message), 1)
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
