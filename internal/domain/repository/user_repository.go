package repository

import (
	"context"

	"github.com/jhoicas/Clicheria-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// List filtra por rol si role no está vacío.
	List(ctx context.Context, role string, limit, offset int) ([]*entity.User, error)
	ListIDsByRole(ctx context.Context, role string) ([]string, error)
}
