package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmafacil/ordering/internal/client/domain"
)

// Fixed demo code; no SMS is actually sent.
const smsVerificationCode = "123456"

type Service struct {
	log      *slog.Logger
	repo     ClientRepository
	sessions SessionStore
	delay    time.Duration
}

func NewService(log *slog.Logger, repo ClientRepository, sessions SessionStore, delay time.Duration) *Service {
	return &Service{log: log, repo: repo, sessions: sessions, delay: delay}
}

// Login authenticates a pharmacy account by email and password.
func (s *Service) Login(ctx context.Context, email, password string) (domain.Session, error) {
	if err := s.wait(ctx); err != nil {
		return domain.Session{}, err
	}

	c, err := s.repo.ByEmail(ctx, email)
	if err != nil {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) != nil {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	return s.open(ctx, c)
}

// LoginWithQR authenticates a client identified by a scanned QR through an
// SMS verification code.
func (s *Service) LoginWithQR(ctx context.Context, phone, code string) (domain.Session, error) {
	if err := s.wait(ctx); err != nil {
		return domain.Session{}, err
	}

	if code != smsVerificationCode {
		return domain.Session{}, domain.ErrInvalidCode
	}
	c, err := s.repo.ByPhone(ctx, phone)
	if err != nil {
		return domain.Session{}, domain.ErrInvalidCode
	}
	return s.open(ctx, c)
}

// Logout tears the session down. Unknown sessions are not an error: the
// caller's state is already what logout would produce.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

func (s *Service) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *Service) open(ctx context.Context, c domain.Client) (domain.Session, error) {
	sess := domain.Session{
		ID:        uuid.NewString(),
		ClientID:  c.ID,
		Role:      c.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	s.log.Info("session opened", "client_id", c.ID, "role", c.Role)
	return sess, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
