package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
)

// InitDBCommand creates the data directory and schema, then lists the tables.
type InitDBCommand struct {
	DatabasePath string

	Out io.Writer
}

func NewInitDBCommand() *InitDBCommand {
	return &InitDBCommand{Out: os.Stdout}
}

func (cmd *InitDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", envOr("DATABASE_PATH", config.DefaultDatabasePath), "Path to the SQLite database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s init-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the database file and its tables. Safe to run repeatedly.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *InitDBCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	tables, err := db.Tables()
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	fmt.Fprintf(cmd.Out, "Database initialized at %s\n", cmd.DatabasePath)
	fmt.Fprintln(cmd.Out, "Tables:")
	for _, table := range tables {
		fmt.Fprintf(cmd.Out, "  - %s\n", table)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
