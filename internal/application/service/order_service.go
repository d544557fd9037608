package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/pedidos-api/internal/domain/entity"
	"github.com/sangkips/pedidos-api/internal/domain/repository"
	"github.com/sangkips/pedidos-api/pkg/apperror"
	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// OrderService handles order CRUD. Incoming bodies are normalized with the
// same lenient rules the dashboard applies, so writes never fail on a bad
// amount.
type OrderService struct {
	orderRepo repository.OrderRepository
	log       *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository, log *zap.Logger) *OrderService {
	return &OrderService{orderRepo: orderRepo, log: log}
}

// ListOrders returns every order, oldest first
func (s *OrderService) ListOrders(ctx context.Context) ([]entity.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to list orders", err)
	}
	return orders, nil
}

// Records returns every order as engine records
func (s *OrderService) Records(ctx context.Context) ([]orderview.Record, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]orderview.Record, 0, len(orders))
	for i := range orders {
		records = append(records, orders[i].Record())
	}
	return records, nil
}

// GetOrder gets an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to load order", err)
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Pedido")
	}
	return order, nil
}

// CreateOrder stores a new order built from a raw JSON object
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, raw map[string]any) (*entity.Order, error) {
	order := &entity.Order{CreatedBy: userID}
	order.Apply(orderview.Normalize(raw))

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, apperror.NewInternalError("Failed to create order", err)
	}
	s.log.Info("order created", zap.String("order_id", order.ID.String()), zap.String("pedido", order.OrderLabel))
	return order, nil
}

// UpdateOrder replaces every editable field of an order
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, raw map[string]any) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Apply(orderview.Normalize(raw))

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, apperror.NewInternalError("Failed to update order", err)
	}
	s.log.Info("order updated", zap.String("order_id", order.ID.String()))
	return order, nil
}

// DeleteOrder removes an order
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return apperror.NewInternalError("Failed to delete order", err)
	}
	s.log.Info("order deleted", zap.String("order_id", id.String()))
	return nil
}
