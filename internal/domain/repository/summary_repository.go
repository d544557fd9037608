package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sangkips/pedidos-api/internal/domain/entity"
)

// SummaryRepository stores summaries together with their details. Summaries
// are never updated.
type SummaryRepository interface {
	Create(ctx context.Context, summary *entity.Summary) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Summary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns every summary with its details, newest first
	List(ctx context.Context) ([]entity.Summary, error)
}
