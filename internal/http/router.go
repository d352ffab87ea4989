package http

import (
	"html/template"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/middleware"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.StrictTransportSecurity())

	readOnly := cfg.ReadOnly
	if readOnly == nil {
		readOnly = middleware.NewReadOnly(false)
	}
	router.Use(readOnly.Handler())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(middleware.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	router.Use(cfg.WriteGuard.Handler())

	tmpl := cfg.Templates
	if tmpl == nil {
		tmpl = template.Must(template.New("").Funcs(TemplateFuncs()).ParseGlob(filepath.Join(cfg.TemplatesPath, "*.html")))
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	ui := NewUIController(cfg.Catalog, cfg.SessionManager)
	deletes := NewDeleteController(cfg.Catalog, cfg.SessionManager)
	booksAPI := NewBooksController(cfg.Catalog)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	// UI routes
	router.GET("/", ui.BooksPage)
	router.GET("/add_author", ui.AddAuthorPage)
	router.POST("/add_author", ui.AddAuthor)
	router.GET("/add_book", ui.AddBookPage)
	router.POST("/add_book", ui.AddBook)
	router.POST("/book/:id/delete", deletes.DeleteBookForm)

	// JSON API
	api := router.Group("/api")
	api.GET("/books", booksAPI.GetAllBooks)
	api.POST("/books", booksAPI.CreateBook)
	api.GET("/books/:id", booksAPI.GetBook)
	api.DELETE("/books/:id", deletes.DeleteBook)
	api.GET("/authors", booksAPI.GetAllAuthors)
	api.POST("/authors", booksAPI.CreateAuthor)

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit)
		api.GET("/audit", auditController.GetAuditEvents)
		api.GET("/books/:id/history", auditController.GetBookHistory)
	}

	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.AuditScheduler)
		api.GET("/tasks/schedule", tasksController.GetSchedule)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/cleanup_audit_events/run", tasksController.RunAuditCleanup)
	}

	return router
}
