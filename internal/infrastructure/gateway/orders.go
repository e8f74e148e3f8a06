package gateway

import (
	"context"
	"net/http"

	"github.com/futuremakers/market-client/internal/core/domain"
)

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var ws []orderWire
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/mine", endpoint: "orders.mine"}, &ws); err != nil {
		return nil, err
	}
	out := make([]domain.Order, len(ws))
	for i, w := range ws {
		out[i] = toOrder(w)
	}
	return out, nil
}

// PlaceOrder submits product ids and quantities only. The server prices the order.
func (c *Client) PlaceOrder(ctx context.Context, items []domain.OrderRequestItem) (*domain.Order, error) {
	var w orderWire
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/orders/",
		endpoint: "orders.create",
		body:     orderCreateWire{Items: items},
	}, &w)
	if err != nil {
		return nil, err
	}
	o := toOrder(w)
	return &o, nil
}
