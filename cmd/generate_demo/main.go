// Command generate_demo creates a fresh demo database filled with the sample
// library, for running the server with READ_ONLY=true.
// Usage: go run ./cmd/generate_demo [-db path/to/demo.sqlite]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/catalog/internal/cli"
)

const defaultDemoDatabasePath = "./demo/demo.sqlite"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	seed := cli.NewSeedCommand()
	seed.DatabasePath = *dbPath
	if err := seed.Run(); err != nil {
		log.Fatalf("Failed to seed demo database: %v", err)
	}

	log.Printf("Demo database ready. Serve it with DATABASE_PATH=%s READ_ONLY=true", *dbPath)
}
