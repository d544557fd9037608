package response

import (
	"time"

	"github.com/sangkips/pedidos-api/internal/domain/entity"
	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// OrderResponse is an order as returned by /pedidos: the engine record fields
// plus timestamps
type OrderResponse struct {
	orderview.Record
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewOrderResponse converts an order entity
func NewOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		Record:    o.Record(),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// NewOrderListResponse converts a list of orders, never returning nil
func NewOrderListResponse(orders []entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
