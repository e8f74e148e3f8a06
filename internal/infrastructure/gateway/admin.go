package gateway

import (
	"context"
	"net/http"

	"github.com/futuremakers/market-client/internal/core/domain"
)

func (c *Client) AdminUsers(ctx context.Context) ([]domain.Identity, error) {
	var ws []userWire
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/users", endpoint: "admin.users"}, &ws); err != nil {
		return nil, err
	}
	out := make([]domain.Identity, len(ws))
	for i, w := range ws {
		out[i] = *toIdentity(w)
	}
	return out, nil
}

func (c *Client) AdminStorefronts(ctx context.Context) ([]domain.Storefront, error) {
	var ws []storefrontWire
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/storefronts", endpoint: "admin.storefronts"}, &ws); err != nil {
		return nil, err
	}
	out := make([]domain.Storefront, len(ws))
	for i, w := range ws {
		out[i] = *toStorefront(w)
	}
	return out, nil
}

func (c *Client) AdminProducts(ctx context.Context) ([]domain.Product, error) {
	var ws []productWire
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/products", endpoint: "admin.products"}, &ws); err != nil {
		return nil, err
	}
	return toProducts(ws), nil
}
