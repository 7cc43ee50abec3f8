// Package analytics records privacy-conscious page visits and demo launches
// and summarizes them for the admin dashboard. Client IPs are only ever
// stored as salted hashes.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reyesjorge76/jr-portfolio/internal/logging"
)

// timeLayout is how timestamps are stored so SQLite can compare them as text.
const timeLayout = "2006-01-02 15:04:05"

// untracked path prefixes
var skipPrefixes = []string{
	"/static/", "/images/", "/admin", "/favicon", "/privacy", "/api/", "/metrics", "/healthz",
}

// NewToken returns 32 random bytes, hex encoded.
func NewToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("generate token: %v", err))
	}
	return hex.EncodeToString(b)
}

// Tracker writes visits and launches to the database.
type Tracker struct {
	db        *sql.DB
	salt      string
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
	wg        sync.WaitGroup
}

type Option func(*Tracker)

// WithRetention sets how long visits are kept.
func WithRetention(d time.Duration) Option {
	return func(t *Tracker) { t.retention = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithSalt fixes the IP hashing salt. By default every process picks a new one.
func WithSalt(salt string) Option {
	return func(t *Tracker) { t.salt = salt }
}

// New creates a tracker on db.
func New(db *sql.DB, opts ...Option) *Tracker {
	t := &Tracker{
		db:        db,
		salt:      NewToken(),
		retention: 365 * 24 * time.Hour,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HashIP is a consistent, truncated salted hash of ip.
func (t *Tracker) HashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + t.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (t *Tracker) stamp() string {
	return t.now().UTC().Format(timeLayout)
}

// Middleware records page visits in the background. Static assets, admin
// and API paths are skipped, and so is any request sending DNT: 1.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != "GET" || skipped(path) || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.RecordVisit(ctx, ip, ua, path); err != nil {
				t.logger.Warn("recording visitor", "error", err)
			}
		}()
		c.Next()
	}
}

func skipped(path string) bool {
	for _, p := range skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Wait blocks until background writes have finished.
func (t *Tracker) Wait() { t.wg.Wait() }

// RecordVisit stores one page view.
func (t *Tracker) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		t.HashIP(ip), userAgent, path, t.stamp())
	return err
}

// RecordLaunch counts one opened demo of kind.
func (t *Tracker) RecordLaunch(ctx context.Context, kind string) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO demo_launches (kind, launches, last_launched) VALUES (?, 1, ?)
		ON CONFLICT(kind) DO UPDATE SET launches = launches + 1, last_launched = excluded.last_launched`,
		kind, t.stamp())
	return err
}

// Cleanup deletes visits older than the retention period and returns how
// many were removed.
func (t *Tracker) Cleanup(ctx context.Context) (int64, error) {
	cutoff := t.now().Add(-t.retention).UTC().Format(timeLayout)
	res, err := t.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		t.logger.Info("privacy cleanup removed old visitor records", "count", n, "retention", t.retention)
	}
	return n, nil
}

// RunCleanup runs Cleanup now and then every interval until ctx is done.
func (t *Tracker) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := t.Cleanup(ctx); err != nil && ctx.Err() == nil {
			t.logger.Error("cleaning up visitor data", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
