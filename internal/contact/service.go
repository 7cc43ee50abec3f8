package contact

import (
	"context"
	"errors"
	"log/slog"

	"github.com/reyesjorge76/jr-portfolio/internal/logging"
	"github.com/reyesjorge76/jr-portfolio/internal/ratelimit"
)

var ErrRateLimited = errors.New("too many messages, please try again later")

// Outcome labels a finished submission for metrics.
type Outcome string

const (
	Accepted    Outcome = "accepted"
	Invalid     Outcome = "invalid"
	RateLimited Outcome = "rate_limited"
	Failed      Outcome = "failed"
)

// Service accepts contact form submissions.
type Service struct {
	inbox    *Inbox
	notifier Notifier
	limiter  ratelimit.Limiter
	logger   *slog.Logger
	observe  func(Outcome)
}

type Option func(*Service)

// WithNotifier forwards accepted messages, typically by email.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLimiter caps submissions per client key.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(s *Service) { s.limiter = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithObserver is called once per submission with its outcome.
func WithObserver(fn func(Outcome)) Option {
	return func(s *Service) { s.observe = fn }
}

func NewService(inbox *Inbox, opts ...Option) *Service {
	s := &Service{inbox: inbox, logger: logging.NewNop(), observe: func(Outcome) {}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates, rate limits, stores and forwards f. clientKey is the
// hashed client address. Validation failures come back as FieldErrors.
func (s *Service) Submit(ctx context.Context, f Form, clientKey string) (int64, error) {
	f = f.Trimmed()
	if err := Validate(f); err != nil {
		s.observe(Invalid)
		return 0, err
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, clientKey)
		if err != nil {
			// limiter errors fail open
			s.logger.Warn("contact rate limiter unavailable", "error", err)
		} else if !ok {
			s.observe(RateLimited)
			s.logger.Info("contact message rate limited", "client", clientKey)
			return 0, ErrRateLimited
		}
	}

	id, err := s.inbox.Save(ctx, f, clientKey)
	if err != nil {
		s.observe(Failed)
		return 0, err
	}
	s.observe(Accepted)
	s.logger.Info("contact message received", "id", id, "client", clientKey)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, f); err != nil {
			s.logger.Error("sending contact notification", "id", id, "error", err)
		} else if err := s.inbox.MarkDelivered(ctx, id); err != nil {
			s.logger.Warn("marking contact message delivered", "id", id, "error", err)
		}
	}
	return id, nil
}

// Inbox exposes the stored messages.
func (s *Service) Inbox() *Inbox { return s.inbox }
