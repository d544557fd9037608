package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/pedidos-api/internal/domain/entity"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns every order, oldest first
	List(ctx context.Context) ([]entity.Order, error)
}
