package contact

import (
	"context"
	"database/sql"
	"errors"
	"net/smtp"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyesjorge76/jr-portfolio/internal/config"
	"github.com/reyesjorge76/jr-portfolio/internal/ratelimit"
	"github.com/reyesjorge76/jr-portfolio/internal/store"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "contact.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var valid = Form{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Let's build a line."}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(valid))

	err := Validate(Form{})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldErrors{
		"name":    "Name is required",
		"email":   "Email is required",
		"message": "Message is required",
	}, fe)

	bad := valid
	bad.Email = "ada@example"
	require.ErrorAs(t, Validate(bad), &fe)
	assert.Equal(t, FieldErrors{"email": "Email is invalid"}, fe)

	loose := valid
	loose.Email = "x@y.z"
	assert.NoError(t, Validate(loose))
}

func TestFieldErrorsMessage(t *testing.T) {
	err := FieldErrors{"name": "Name is required", "email": "Email is invalid"}
	assert.Equal(t, "invalid contact form: email: Email is invalid; name: Name is required", err.Error())
}

func TestSubmitStoresAndNotifies(t *testing.T) {
	ctx := context.Background()
	var sent []Form
	var outcomes []Outcome
	svc := NewService(NewInbox(openDB(t)),
		WithNotifier(NotifierFunc(func(_ context.Context, f Form) error {
			sent = append(sent, f)
			return nil
		})),
		WithObserver(func(o Outcome) { outcomes = append(outcomes, o) }),
	)

	in := valid
	in.Name = "  Ada  "
	id, err := svc.Submit(ctx, in, "abc123")
	require.NoError(t, err)
	assert.Positive(t, id)

	msgs, err := svc.Inbox().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ada", msgs[0].Name)
	assert.Equal(t, "abc123", msgs[0].HashedIP)
	assert.True(t, msgs[0].Delivered)
	assert.Equal(t, []Form{valid}, sent)

	_, err = svc.Submit(ctx, Form{Name: "x"}, "abc123")
	var fe FieldErrors
	assert.ErrorAs(t, err, &fe)
	assert.Equal(t, []Outcome{Accepted, Invalid}, outcomes)
}

func TestSubmitKeepsMessageWhenMailFails(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInbox(openDB(t)), WithNotifier(NotifierFunc(func(context.Context, Form) error {
		return errors.New("relay down")
	})))

	_, err := svc.Submit(ctx, valid, "k")
	require.NoError(t, err)

	msgs, err := svc.Inbox().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].Delivered)
}

func TestSubmitRateLimited(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInbox(openDB(t)), WithLimiter(ratelimit.NewMemory(1, time.Hour)))

	_, err := svc.Submit(ctx, valid, "k")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, valid, "k")
	assert.ErrorIs(t, err, ErrRateLimited)
	_, err = svc.Submit(ctx, valid, "other")
	assert.NoError(t, err)
}

func TestInboxDelete(t *testing.T) {
	ctx := context.Background()
	in := NewInbox(openDB(t))
	id, err := in.Save(ctx, valid, "k")
	require.NoError(t, err)

	ok, err := in.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = in.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMailerCompose(t *testing.T) {
	m := NewMailer(config.SMTP{Host: "smtp.example.com", Port: "587", User: "me@example.com", Pass: "p", To: "inbox@example.com"})
	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}

	f := valid
	f.Name = "Ada\r\nBcc: evil@example.com"
	require.NoError(t, m.Notify(context.Background(), f))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"inbox@example.com"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, msg, "Subject: Portfolio Contact: Ada  Bcc: evil@example.com - Hi\r\n")
	assert.False(t, strings.Contains(msg, "\r\nBcc:"))
}

func TestMailerRequiresCredentials(t *testing.T) {
	m := NewMailer(config.SMTP{Host: "smtp.example.com", Port: "587"})
	assert.ErrorContains(t, m.Notify(context.Background(), valid), "not configured")
}
