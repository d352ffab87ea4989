package http

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/middleware"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// Machine-readable error codes.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeValidationFailed = "validation_failed"
	CodeAuthorNotFound   = "author_not_found"
	CodeNotFound         = "not_found"
	CodeInternal         = "internal_error"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidRequest})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// logFailure records an unexpected error together with the request id so a
// user-reported failure can be found in the log.
func logFailure(c *gin.Context, err error, context string) {
	kind := "Internal error"
	if catalog.IsPersistence(err) {
		kind = "Persistence failure"
	}
	log.Printf("[%s] %s (%s): %v", middleware.GetRequestID(c), kind, context, err)
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	logFailure(c, err, context)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: CodeInternal})
}

// respondCatalogError maps a catalog outcome onto a JSON error response.
func respondCatalogError(c *gin.Context, err error, context string) {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   ve.Message,
			Code:    CodeValidationFailed,
			Details: gin.H{"field": ve.Field},
		})
	case errors.Is(err, catalog.ErrAuthorNotFound):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeAuthorNotFound})
	case errors.Is(err, catalog.ErrBookNotFound):
		respondNotFound(c, "book")
	default:
		respondInternalError(c, err, context)
	}
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseID parses an unsigned integer id from a URL parameter.
func parseID(c *gin.Context, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	id, ok := parseID(c, paramName)
	if !ok {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return id, true
}

// parseIntQuery reads a non-negative integer query parameter, falling back
// to def when it is missing or malformed.
func parseIntQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// --- Status Messages ---

func putFlash(c *gin.Context, sm *middleware.SessionManager, kind, message string) {
	if sm == nil {
		return
	}
	sm.PutFlash(c.Request.Context(), kind, message)
}

func popFlash(c *gin.Context, sm *middleware.SessionManager) *middleware.Flash {
	if sm == nil {
		return nil
	}
	flash, ok := sm.PopFlash(c.Request.Context())
	if !ok {
		return nil
	}
	return &flash
}

// --- Templates ---

// pageData merges the values every page needs into data.
func pageData(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = nil
	}
	data["CSRFField"] = middleware.CSRFTokenField(c)
	data["ReadOnly"] = c.GetBool(middleware.ContextKeyReadOnly)
	return data
}

// TemplateFuncs are available to every HTML template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"formatYear": func(year *int) string {
			if year == nil {
				return "—"
			}
			return strconv.Itoa(*year)
		},
		"selected": func(current, option string) template.HTMLAttr {
			if current == option {
				return "selected"
			}
			return ""
		},
	}
}

// formatDate renders a time.Time or *time.Time as YYYY-MM-DD.
func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(entities.DateLayout)
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatDate(*t)
	}
	return ""
}
