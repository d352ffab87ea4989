package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	auditrepo "github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/database/books"
)

type seedAuthor struct {
	author catalog.AuthorInput
	books  []catalog.BookInput
}

var sampleLibrary = []seedAuthor{
	{
		author: catalog.AuthorInput{Name: "Jane Austen", BirthDate: "1775-12-16", DeathDate: "1817-07-18"},
		books: []catalog.BookInput{
			{Title: "Pride and Prejudice", ISBN: "978-0141439518", PublicationYear: "1813"},
			{Title: "Emma", ISBN: "978-0141439587", PublicationYear: "1815"},
		},
	},
	{
		author: catalog.AuthorInput{Name: "Charles Dickens", BirthDate: "1812-02-07", DeathDate: "1870-06-09"},
		books: []catalog.BookInput{
			{Title: "Bleak House", ISBN: "978-0141439723", PublicationYear: "1853"},
			{Title: "Great Expectations", ISBN: "978-0141439563", PublicationYear: "1861"},
		},
	},
	{
		author: catalog.AuthorInput{Name: "Charlotte Bronte", BirthDate: "1816-04-21", DeathDate: "1855-03-31"},
		books: []catalog.BookInput{
			{Title: "Jane Eyre", ISBN: "978-0141441146", PublicationYear: "1847"},
		},
	},
	{
		author: catalog.AuthorInput{Name: "Kazuo Ishiguro", BirthDate: "1954-11-08"},
		books: []catalog.BookInput{
			{Title: "The Remains of the Day", ISBN: "978-0571258246", PublicationYear: "1989"},
			{Title: "Never Let Me Go", ISBN: "978-0571224142"},
		},
	},
}

// SeedCommand fills an empty library with sample authors and books.
type SeedCommand struct {
	DatabasePath string
	Force        bool

	Out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{Out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", envOr("DATABASE_PATH", config.DefaultDatabasePath), "Path to the SQLite database file")
	fs.BoolVar(&cmd.Force, "force", false, "Seed even when the library already has authors")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add sample authors and books. Skipped when the library is not empty.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SeedCommand) Run() error {
	db, err := database.NewDatabaseWithLogLevel(cmd.DatabasePath, logger.Warn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Wait()
	service := catalog.NewService(books.NewRepository(db.DB), auditService)

	ctx := context.Background()
	existing, err := service.ListAuthors(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 && !cmd.Force {
		fmt.Fprintf(cmd.Out, "Library already has %d author(s), skipping (use -force to seed anyway)\n", len(existing))
		return nil
	}

	var authorCount, bookCount int
	for _, entry := range sampleLibrary {
		author, err := service.AddAuthor(ctx, entry.author)
		if err != nil {
			return fmt.Errorf("failed to add author %s: %w", entry.author.Name, err)
		}
		authorCount++

		for _, in := range entry.books {
			in.AuthorID = strconv.FormatUint(uint64(author.ID), 10)
			book, err := service.AddBook(ctx, in)
			if err != nil {
				return fmt.Errorf("failed to add book %s: %w", in.Title, err)
			}
			bookCount++
			fmt.Fprintf(cmd.Out, "  %s by %s\n", book, author)
		}
	}

	fmt.Fprintf(cmd.Out, "Seeded %d authors and %d books\n", authorCount, bookCount)
	return nil
}
