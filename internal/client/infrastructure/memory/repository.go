package memory

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/farmafacil/ordering/internal/client/domain"
)

type Repository struct {
	clients []domain.Client
}

// NewRepository loads the demo accounts: one pharmacy login and one client
// reachable through the QR flow.
func NewRepository() *Repository {
	return &Repository{clients: fixtures()}
}

func (r *Repository) ByEmail(ctx context.Context, email string) (domain.Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, c := range r.clients {
		if strings.ToLower(c.Email) == email {
			return c, nil
		}
	}
	return domain.Client{}, domain.ErrNotFound
}

func (r *Repository) ByPhone(ctx context.Context, phone string) (domain.Client, error) {
	for _, c := range r.clients {
		if c.Phone == phone {
			return c, nil
		}
	}
	return domain.Client{}, domain.ErrNotFound
}

func fixtures() []domain.Client {
	return []domain.Client{
		{
			ID:           "1",
			Email:        "farmacia@farmafacil.es",
			Name:         "Farmacia Centro",
			Role:         domain.RolePharmacy,
			PasswordHash: mustHash("farmacia123"),
		},
		{
			ID:      "2",
			Email:   "maria@email.com",
			Name:    "María García López",
			Role:    domain.RoleClient,
			Phone:   "+34654321987",
			Address: "Calle Mayor 15, Madrid",
		},
	}
}

func mustHash(password string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}

// SessionStore keeps live sessions behind a mutex.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Put(ctx context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}
