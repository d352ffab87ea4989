package http

import (
	"html/template"

	"github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/middleware"
	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Catalog  *catalog.Service
	Audit    *audit.Service

	// Sessions carry status messages across redirects (optional)
	SessionManager *middleware.SessionManager

	// CSRF protection is installed when a secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// Write protection (both optional)
	WriteGuard *middleware.WriteGuard
	ReadOnly   *middleware.ReadOnly

	// UI. Templates, when set, replaces parsing TemplatesPath.
	TemplatesPath string
	StaticPath    string
	Templates     *template.Template

	// Background work (optional)
	TaskClient     *tasks.Client
	AuditScheduler *scheduler.AuditCleanupScheduler

	// Application info
	Version string
}
