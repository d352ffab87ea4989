package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/audit"
	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/database"
	auditrepo "github.com/mrlokans/catalog/internal/database/audit"
	"github.com/mrlokans/catalog/internal/database/books"
	"github.com/mrlokans/catalog/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router  *gin.Engine
	db      *database.Database
	catalog *catalog.Service
	audit   *audit.Service
	cookies []*http.Cookie
}

func newTestApp(t *testing.T, configure ...func(*RouterConfig)) *testApp {
	t.Helper()

	db, err := database.NewDatabaseWithLogLevel(filepath.Join(t.TempDir(), "library.sqlite"), logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessions, err := middleware.NewSessionManager(sqlDB, config.Session{Lifetime: time.Hour})
	require.NoError(t, err)

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	t.Cleanup(auditService.Wait)
	service := catalog.NewService(books.NewRepository(db.DB), auditService)

	cfg := RouterConfig{
		Database:       db,
		Catalog:        service,
		Audit:          auditService,
		SessionManager: sessions,
		TemplatesPath:  filepath.Join("..", "..", "templates"),
		Version:        "test",
	}
	for _, fn := range configure {
		fn(&cfg)
	}

	return &testApp{
		router:  NewRouter(cfg),
		db:      db,
		catalog: service,
		audit:   auditService,
	}
}

// do sends a request carrying the session cookies collected so far.
func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range a.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	if cookies := rr.Result().Cookies(); len(cookies) > 0 {
		a.cookies = cookies
	}
	return rr
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	var reader *strings.Reader
	switch b := body.(type) {
	case nil:
		reader = strings.NewReader("")
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *testApp) addAuthor(t *testing.T, name, birth string) uint {
	t.Helper()
	author, err := a.catalog.AddAuthor(context.Background(), catalog.AuthorInput{Name: name, BirthDate: birth})
	require.NoError(t, err)
	return author.ID
}

func (a *testApp) addBook(t *testing.T, title, isbn, year string, authorID uint) uint {
	t.Helper()
	book, err := a.catalog.AddBook(context.Background(), catalog.BookInput{
		Title:           title,
		ISBN:            isbn,
		PublicationYear: year,
		AuthorID:        uintString(authorID),
	})
	require.NoError(t, err)
	return book.ID
}

func (a *testApp) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.DB.Model(model).Count(&n).Error)
	return n
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func uintString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 7},
		{"limit=3", 3},
		{"limit=abc", 7},
		{"limit=-2", 7},
		{"limit=0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, parseIntQuery(c, "limit", 7))
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(1775, 12, 16, 0, 0, 0, 0, time.UTC)
	var nilTime *time.Time

	assert.Equal(t, "1775-12-16", formatDate(d))
	assert.Equal(t, "1775-12-16", formatDate(&d))
	assert.Equal(t, "", formatDate(nilTime))
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "", formatDate("1775-12-16"))
}

func TestRespondInternalError_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/persistence", func(c *gin.Context) {
		respondInternalError(c, &catalog.PersistenceError{Op: "insert book", Err: errors.New("disk I/O error")}, "add book")
	})
	router.GET("/other", func(c *gin.Context) {
		respondInternalError(c, errors.New("boom"), "task status")
	})

	req := httptest.NewRequest(http.MethodGet, "/persistence", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "disk I/O error")
	assert.Contains(t, buf.String(), "[req-42] Persistence failure (add book): insert book: disk I/O error")

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/other", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-43")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "[req-43] Internal error (task status): boom")
}
