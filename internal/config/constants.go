package config

// Default paths for the catalog database and UI assets
const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./data/library.sqlite"

	// DefaultTemplatesPath holds the HTML templates rendered by the UI
	DefaultTemplatesPath = "./templates"

	// DefaultEnvFile is read on startup when it exists
	DefaultEnvFile = ".env"
)
