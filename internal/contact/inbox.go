package contact

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Message is a stored submission.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	HashedIP  string    `json:"hashed_ip"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// Inbox stores submissions in the contact_messages table.
type Inbox struct {
	db  *sql.DB
	now func() time.Time
}

func NewInbox(db *sql.DB) *Inbox {
	return &Inbox{db: db, now: time.Now}
}

// Save stores f and returns the new message id.
func (in *Inbox) Save(ctx context.Context, f Form, hashedIP string) (int64, error) {
	res, err := in.db.ExecContext(ctx, `
		INSERT INTO contact_messages (name, email, subject, message, hashed_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.Name, f.Email, f.Subject, f.Message, hashedIP, in.now().UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("save contact message: %w", err)
	}
	return res.LastInsertId()
}

// MarkDelivered flags a message as emailed.
func (in *Inbox) MarkDelivered(ctx context.Context, id int64) error {
	_, err := in.db.ExecContext(ctx, `UPDATE contact_messages SET delivered = 1 WHERE id = ?`, id)
	return err
}

// List returns the newest limit messages.
func (in *Inbox) List(ctx context.Context, limit int) ([]Message, error) {
	rows, err := in.db.QueryContext(ctx, `
		SELECT id, name, email, COALESCE(subject, ''), message, COALESCE(hashed_ip, ''), delivered, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.HashedIP, &m.Delivered, &created); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Delete removes a message. It reports whether one existed.
func (in *Inbox) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := in.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
