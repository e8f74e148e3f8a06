package ports

import (
	"context"

	"github.com/futuremakers/market-client/internal/core/domain"
)

// ProductView is a listing ready for display to a specific actor.
type ProductView struct {
	Product         domain.Product  `json:"product"`
	Label           string          `json:"status_label"`
	ApprovalReading string          `json:"approval,omitempty"`
	StorefrontLabel string          `json:"storefront_status,omitempty"`
	Actions         []domain.Action `json:"actions"`
	InFlight        bool            `json:"in_flight,omitempty"`
}

// TransitionResult is the server's view of a listing after a transition request.
type TransitionResult struct {
	Product *domain.Product `json:"product,omitempty"`
	Removed bool            `json:"removed,omitempty"`
}

// LifecycleService projects listing status into labels and legal actions and
// forwards transition requests. It never changes a status value itself.
type LifecycleService interface {
	Load(ctx context.Context, productID string) (domain.ProductContext, error)
	View(actor SessionSnapshot, pc domain.ProductContext) ProductView
	Actions(actor SessionSnapshot, pc domain.ProductContext) []domain.Action
	Request(ctx context.Context, actor SessionSnapshot, pc domain.ProductContext, action domain.Action, edits *domain.ProductUpdate) (TransitionResult, error)
	PendingApprovals(ctx context.Context) ([]domain.Product, error)
}
