package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client runs the catalog maintenance queue. The audit cleanup queue is
// registered at construction, so a Client can enqueue as soon as it exists.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int

	mu      sync.Mutex
	running bool
}

// DatabasePath returns the task database location for a catalog database:
// "data/library.sqlite" becomes "data/library-tasks.sqlite".
func DatabasePath(mainDBPath string) string {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"-tasks"+ext)
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	// one connection per worker plus headroom for enqueues and status reads
	db.SetMaxOpenConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewClient opens the task database next to the catalog database and
// registers the audit cleanup queue backed by cleaner.
func NewClient(mainDBPath string, cfg Config, cleaner AuditEventCleaner) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := openQueueDB(DatabasePath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	queue.Register(NewCleanupAuditEventsQueue(cleaner))

	return &Client{queue: queue, db: db, workers: cfg.Workers}, nil
}

// Start launches the workers and returns. Cancelling ctx hard-stops them.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.queue.Start(ctx)
	log.Printf("[TASK] Queue started with %d workers", c.workers)
}

// Shutdown waits for in-flight tasks until ctx expires, then closes the task
// database. It reports whether the workers finished in time.
func (c *Client) Shutdown(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	graceful := true
	if c.running {
		graceful = c.queue.Stop(ctx)
		c.running = false
		if !graceful {
			log.Println("[TASK] Queue stopped before all tasks finished")
		}
	}
	if err := c.db.Close(); err != nil {
		log.Printf("[TASK ERROR] Closing task database: %v", err)
	}
	return graceful
}

// EnqueueAuditCleanup queues one audit cleanup run and returns its task id.
func (c *Client) EnqueueAuditCleanup(retentionDays int) (string, error) {
	ids, err := c.queue.Add(CleanupAuditEventsTask{RetentionDays: retentionDays}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue audit cleanup: %w", err)
	}
	return ids[0], nil
}

// TaskStatus reports the state of a queued task: pending, running, success,
// failure or not_found.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (string, error) {
	status, err := c.queue.Status(ctx, taskID)
	if err != nil {
		return "", err
	}
	return statusName(status), nil
}

func statusName(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// queueLogger writes backlite's key/value log records through the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Print("[TASK] " + formatRecord(message, params))
}

func (queueLogger) Error(message string, params ...any) {
	log.Print("[TASK ERROR] " + formatRecord(message, params))
}

func formatRecord(message string, params []any) string {
	var b strings.Builder
	b.WriteString(message)
	for i := 0; i+1 < len(params); i += 2 {
		fmt.Fprintf(&b, " %v=%v", params[i], params[i+1])
	}
	if len(params)%2 == 1 {
		fmt.Fprintf(&b, " %v", params[len(params)-1])
	}
	return b.String()
}
