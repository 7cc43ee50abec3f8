package analytics

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyesjorge76/jr-portfolio/internal/store"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHashIPIsStableAndSalted(t *testing.T) {
	a := New(nil, WithSalt("one"))
	b := New(nil, WithSalt("two"))
	assert.Equal(t, a.HashIP("10.0.0.1"), a.HashIP("10.0.0.1"))
	assert.NotEqual(t, a.HashIP("10.0.0.1"), b.HashIP("10.0.0.1"))
	assert.Len(t, a.HashIP("10.0.0.1"), 16)
}

func TestMiddlewareSkipsAndHonoursDNT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openDB(t)
	tr := New(db)

	r := gin.New()
	r.Use(tr.Middleware())
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/static/app.css", ok)
	r.GET("/api/demos", ok)

	for _, tc := range []struct {
		path string
		dnt  bool
	}{{"/", false}, {"/static/app.css", false}, {"/api/demos", false}, {"/", true}} {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.dnt {
			req.Header.Set("DNT", "1")
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	tr.Wait()

	visitors, err := tr.Visitors(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "/", visitors[0].Path)
	assert.NotContains(t, visitors[0].HashedIP, "192.0.2.1")
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	tr := New(db, WithClock(func() time.Time { return now }))

	require.NoError(t, tr.RecordVisit(ctx, "1.1.1.1", "ua", "/"))
	require.NoError(t, tr.RecordVisit(ctx, "1.1.1.1", "ua", "/resume"))
	now = now.Add(-3 * 24 * time.Hour)
	require.NoError(t, tr.RecordVisit(ctx, "2.2.2.2", "ua", "/"))
	now = now.Add(-30 * 24 * time.Hour)
	require.NoError(t, tr.RecordVisit(ctx, "3.3.3.3", "ua", "/"))
	now = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, tr.RecordLaunch(ctx, "snake"))
	require.NoError(t, tr.RecordLaunch(ctx, "snake"))
	require.NoError(t, tr.RecordLaunch(ctx, "robot"))

	_, err := db.ExecContext(ctx, `INSERT INTO contact_messages (name, email, message) VALUES ('a', 'a@b.co', 'hi')`)
	require.NoError(t, err)

	s, err := tr.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, s.TotalVisitors)
	assert.EqualValues(t, 3, s.UniqueVisitors)
	assert.EqualValues(t, 2, s.VisitorsToday)
	assert.EqualValues(t, 3, s.VisitorsThisWeek)
	assert.EqualValues(t, 1, s.ContactMessages)
	assert.EqualValues(t, 3, s.TotalLaunches)
	require.Len(t, s.TopDemos, 2)
	assert.Equal(t, Launch{Kind: "snake", Launches: 2, LastLaunched: now}, s.TopDemos[0])
	require.Len(t, s.RecentVisitors, 4)
	assert.Equal(t, now, s.RecentVisitors[0].Timestamp)
}

func TestCleanupRespectsRetention(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	now := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tr := New(db, WithRetention(24*time.Hour), WithClock(func() time.Time { return now }))

	now = now.Add(-48 * time.Hour)
	require.NoError(t, tr.RecordVisit(ctx, "1.1.1.1", "ua", "/"))
	now = now.Add(48 * time.Hour)
	require.NoError(t, tr.RecordVisit(ctx, "1.1.1.1", "ua", "/"))

	n, err := tr.Cleanup(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	visitors, err := tr.Visitors(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, visitors, 1)
}
