// Package database provides the data access layer for the catalog.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, pragmas, migrations
//	├── books/           # Author and book queries and mutations
//	└── audit/           # Audit event storage and retention
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type built on the shared *gorm.DB:
//
//	db, err := database.NewDatabase("./data/library.sqlite")
//
//	bookRepo := books.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
//	list, err := bookRepo.ListBooks(books.ListQuery{Search: "emma"})
//
// The sessions table used by scs lives in the same file but is created by
// middleware.NewSessionManager, not by AutoMigrate.
//
// Foreign keys are enforced on every connection, so a book can never point
// at an author that does not exist.
package database
