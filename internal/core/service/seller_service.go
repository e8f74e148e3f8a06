package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// SellerGateway is the write side of the remote service a minor seller uses
// outside the listing lifecycle.
type SellerGateway interface {
	CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error)
	CreateStorefront(ctx context.Context, in ports.StorefrontInput) (*domain.Storefront, error)
	UpdateStorefront(ctx context.Context, id string, upd domain.StorefrontUpdate) (*domain.Storefront, error)
}

type sellerService struct {
	gw  SellerGateway
	log zerolog.Logger
}

func NewSellerService(gw SellerGateway, log zerolog.Logger) ports.SellerService {
	return &sellerService{gw: gw, log: log}
}

// requireSeller refuses locally, without a request, when the actor is not a
// signed-in minor seller.
func requireSeller(actor ports.SessionSnapshot, op string) error {
	if !actor.IsMinorSeller() {
		return fmt.Errorf("%s: %w", op, domain.ErrActionNotAllowed)
	}
	return nil
}

func (s *sellerService) CreateListing(ctx context.Context, actor ports.SessionSnapshot, in ports.ProductInput) (*domain.Product, error) {
	if err := requireSeller(actor, "create listing"); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)

	p, err := s.gw.CreateProduct(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	s.log.Info().
		Str("product_id", p.ID).
		Str("status", string(p.Status)).
		Msg("listing created")
	return p, nil
}

func (s *sellerService) OpenStorefront(ctx context.Context, actor ports.SessionSnapshot, in ports.StorefrontInput) (*domain.Storefront, error) {
	if err := requireSeller(actor, "open storefront"); err != nil {
		return nil, err
	}
	in.DisplayName = strings.TrimSpace(in.DisplayName)

	sf, err := s.gw.CreateStorefront(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("open storefront: %w", err)
	}
	s.log.Info().
		Str("storefront_id", sf.ID).
		Str("status", string(sf.Status)).
		Msg("storefront opened")
	return sf, nil
}

func (s *sellerService) EditStorefront(ctx context.Context, actor ports.SessionSnapshot, id string, upd domain.StorefrontUpdate) (*domain.Storefront, error) {
	if err := requireSeller(actor, "edit storefront"); err != nil {
		return nil, err
	}
	upd.Status = nil

	sf, err := s.gw.UpdateStorefront(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("edit storefront %s: %w", id, err)
	}
	return sf, nil
}
