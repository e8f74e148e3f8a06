package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/futuremakers/market-client/internal/core/domain"
)

// PendingApprovals lists the guardian's children's listings awaiting a decision.
func (c *Client) PendingApprovals(ctx context.Context) ([]domain.Product, error) {
	var ws []productWire
	if err := c.do(ctx, request{method: http.MethodGet, path: "/parent/approvals", endpoint: "approvals.list"}, &ws); err != nil {
		return nil, err
	}
	return toProducts(ws), nil
}

func (c *Client) DecideApproval(ctx context.Context, productID string, action domain.Action) error {
	if action != domain.ActionApprove && action != domain.ActionReject {
		return fmt.Errorf("approvals.decide: %w: %s", domain.ErrActionNotAllowed, action)
	}
	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/parent/approvals/" + url.PathEscape(productID),
		endpoint: "approvals.decide",
		body:     approvalWire{Action: string(action)},
	}, nil)
}
