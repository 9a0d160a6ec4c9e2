package application

import (
	"context"

	"github.com/farmafacil/ordering/internal/client/domain"
)

type ClientRepository interface {
	ByEmail(ctx context.Context, email string) (domain.Client, error)
	ByPhone(ctx context.Context, phone string) (domain.Client, error)
}

type SessionStore interface {
	Put(ctx context.Context, s domain.Session) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}
