// Command console is the interactive admin console: one editing session
// per collection over the record store, with drafts, attachments, and
// bulk message operations.
package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/raunak-choudhary/portfolio-admin/internal/config"
	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
	"github.com/raunak-choudhary/portfolio-admin/internal/signal"
	"github.com/raunak-choudhary/portfolio-admin/internal/storage"
	"github.com/raunak-choudhary/portfolio-admin/internal/store/postgres"
)

// App holds the console's shared dependencies.
type App struct {
	config  *config.Config
	db      *sql.DB
	records *postgres.Store
	objects storage.System
	signals signal.Invalidator
	logger  *slog.Logger
}

var app *App

var rootCmd = &cobra.Command{
	Use:           "console",
	Short:         "Portfolio content administration console",
	Long:          "Manage portfolio collections: certifications, internships, leadership, skills, projects, and contact messages.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List the managed collections",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range schema.All() {
			fmt.Printf("%-16s %s\n", c.Name, c.Title)
		}
	},
}

var openCmd = &cobra.Command{
	Use:   "open <collection>",
	Short: "Open an interactive editing session for a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupApp()
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		teardownApp()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(openCmd)
}

func setupApp() error {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := cfg.Logging.Logger()

	db, err := postgres.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := postgres.Migrate(&cfg.Database); err != nil {
		db.Close()
		return fmt.Errorf("apply migrations: %w", err)
	}

	objects, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		db.Close()
		return fmt.Errorf("initialize storage: %w", err)
	}

	var signals signal.Invalidator = signal.Noop{}
	if cfg.Cache.Enabled {
		signals = signal.New(&cfg.Cache, logger)
	}

	app = &App{
		config:  cfg,
		db:      db,
		records: postgres.New(db, logger),
		objects: objects,
		signals: signals,
		logger:  logger,
	}
	return nil
}

func teardownApp() {
	if app == nil {
		return
	}
	if bus, ok := app.signals.(*signal.Bus); ok {
		bus.Close()
	}
	app.db.Close()
}

// terminalConfirmer blocks on a y/N prompt.
type terminalConfirmer struct {
	in *bufio.Reader
}

func (c terminalConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
