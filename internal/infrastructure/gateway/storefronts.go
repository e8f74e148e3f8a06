package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

func (c *Client) Storefront(ctx context.Context, id string) (*domain.Storefront, error) {
	var w storefrontWire
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/storefronts/" + url.PathEscape(id),
		endpoint: "storefronts.get",
	}, &w)
	if err != nil {
		return nil, err
	}
	return toStorefront(w), nil
}

func (c *Client) MyStorefront(ctx context.Context) (*domain.Storefront, error) {
	var w storefrontWire
	if err := c.do(ctx, request{method: http.MethodGet, path: "/storefronts/mine", endpoint: "storefronts.mine"}, &w); err != nil {
		return nil, err
	}
	return toStorefront(w), nil
}

func (c *Client) CreateStorefront(ctx context.Context, in ports.StorefrontInput) (*domain.Storefront, error) {
	var w storefrontWire
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/storefronts/",
		endpoint: "storefronts.create",
		body:     in,
	}, &w)
	if err != nil {
		return nil, err
	}
	return toStorefront(w), nil
}

func (c *Client) UpdateStorefront(ctx context.Context, id string, upd domain.StorefrontUpdate) (*domain.Storefront, error) {
	var w storefrontWire
	err := c.do(ctx, request{
		method:   http.MethodPatch,
		path:     "/storefronts/" + url.PathEscape(id),
		endpoint: "storefronts.update",
		body:     upd,
	}, &w)
	if err != nil {
		return nil, err
	}
	return toStorefront(w), nil
}
