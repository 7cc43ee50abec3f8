package analytics

import (
	"context"
	"fmt"
	"time"
)

// Visitor is one recorded page view.
type Visitor struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Launch is the open count for one demo kind.
type Launch struct {
	Kind         string    `json:"kind"`
	Launches     int64     `json:"launches"`
	LastLaunched time.Time `json:"last_launched"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64     `json:"total_visitors"`
	UniqueVisitors   int64     `json:"unique_visitors"`
	VisitorsToday    int64     `json:"visitors_today"`
	VisitorsThisWeek int64     `json:"visitors_this_week"`
	ContactMessages  int64     `json:"contact_messages"`
	TotalLaunches    int64     `json:"total_launches"`
	TopDemos         []Launch  `json:"top_demos"`
	RecentVisitors   []Visitor `json:"recent_visitors"`
}

// Stats gathers the dashboard numbers.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	now := t.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Format(timeLayout)
	week := now.Add(-7 * 24 * time.Hour).Format(timeLayout)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{week}},
		{&stats.ContactMessages, `SELECT COUNT(*) FROM contact_messages`, nil},
		{&stats.TotalLaunches, `SELECT COALESCE(SUM(launches), 0) FROM demo_launches`, nil},
	}
	for _, c := range counts {
		if err := t.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	var err error
	if stats.TopDemos, err = t.Launches(ctx); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = t.Visitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

// Launches lists demo kinds by popularity.
func (t *Tracker) Launches(ctx context.Context) ([]Launch, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT kind, launches, COALESCE(last_launched, '')
		FROM demo_launches
		ORDER BY launches DESC, kind`)
	if err != nil {
		return nil, fmt.Errorf("launches: %w", err)
	}
	defer rows.Close()

	var out []Launch
	for rows.Next() {
		var l Launch
		var last string
		if err := rows.Scan(&l.Kind, &l.Launches, &last); err != nil {
			continue
		}
		l.LastLaunched = parseStamp(last)
		out = append(out, l)
	}
	return out, rows.Err()
}

// Visitors returns the latest limit visits, newest first.
func (t *Tracker) Visitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("visitors: %w", err)
	}
	defer rows.Close()

	var out []Visitor
	for rows.Next() {
		var v Visitor
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			continue
		}
		v.Timestamp = parseStamp(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

func parseStamp(s string) time.Time {
	ts, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
