package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

type adminService struct {
	gw ports.AdminGateway
}

func NewAdminService(gw ports.AdminGateway) ports.AdminService {
	return &adminService{gw: gw}
}

// Overview fetches the three admin listings in parallel and counts them.
func (s *adminService) Overview(ctx context.Context) (*ports.AdminOverview, error) {
	var (
		users       []domain.Identity
		storefronts []domain.Storefront
		products    []domain.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.gw.AdminUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		storefronts, err = s.gw.AdminStorefronts(gctx)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.gw.AdminProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("admin overview: %w", err)
	}

	out := &ports.AdminOverview{
		Users:       len(users),
		Storefronts: len(storefronts),
		Products:    len(products),
	}
	for _, sf := range storefronts {
		if sf.Status.VisibleToBuyers() {
			out.ActiveStorefronts++
		}
	}
	for _, p := range products {
		if p.Status == domain.ProductPendingApproval {
			out.PendingListings++
		}
	}
	return out, nil
}
