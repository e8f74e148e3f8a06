package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// Marketplace lists active listings, optionally filtered by a search term.
func (c *Client) Marketplace(ctx context.Context, search string) ([]domain.Product, error) {
	var q url.Values
	if s := strings.TrimSpace(search); s != "" {
		q = url.Values{"search": []string{s}}
	}
	var ws []productWire
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/products/marketplace",
		endpoint: "products.marketplace",
		query:    q,
	}, &ws)
	if err != nil {
		return nil, err
	}
	return toProducts(ws), nil
}

func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	var w productWire
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/products/" + url.PathEscape(id),
		endpoint: "products.get",
	}, &w)
	if err != nil {
		return nil, err
	}
	p := toProduct(w)
	return &p, nil
}

func (c *Client) MyProducts(ctx context.Context) ([]domain.Product, error) {
	var ws []productWire
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products/mine", endpoint: "products.mine"}, &ws); err != nil {
		return nil, err
	}
	return toProducts(ws), nil
}

func (c *Client) CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	var w productWire
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/products/",
		endpoint: "products.create",
		body:     in,
	}, &w)
	if err != nil {
		return nil, err
	}
	p := toProduct(w)
	return &p, nil
}

// UpdateProduct sends only the non-nil fields of upd.
func (c *Client) UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	var w productWire
	err := c.do(ctx, request{
		method:   http.MethodPatch,
		path:     "/products/" + url.PathEscape(id),
		endpoint: "products.update",
		body:     upd,
	}, &w)
	if err != nil {
		return nil, err
	}
	p := toProduct(w)
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/products/" + url.PathEscape(id),
		endpoint: "products.delete",
	}, nil)
}
