package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

const (
	defaultSearchCacheSize = 64
	defaultSearchCacheTTL  = 5 * time.Minute
)

// CatalogGateway is the read side of the remote service.
type CatalogGateway interface {
	ports.ProductReader
	Marketplace(ctx context.Context, search string) ([]domain.Product, error)
	MyProducts(ctx context.Context) ([]domain.Product, error)
	Storefront(ctx context.Context, id string) (*domain.Storefront, error)
	MyStorefront(ctx context.Context) (*domain.Storefront, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
}

type catalogService struct {
	gw      CatalogGateway
	results *expirable.LRU[string, []domain.Product]
	group   singleflight.Group
	log     zerolog.Logger
}

// NewCatalogService caches marketplace searches by normalised term for ttl.
// Concurrent searches for the same term share one remote call.
func NewCatalogService(gw CatalogGateway, size int, ttl time.Duration, log zerolog.Logger) ports.CatalogService {
	if size <= 0 {
		size = defaultSearchCacheSize
	}
	if ttl <= 0 {
		ttl = defaultSearchCacheTTL
	}
	return &catalogService{
		gw:      gw,
		results: expirable.NewLRU[string, []domain.Product](size, nil, ttl),
		log:     log,
	}
}

// normalizeTerm collapses whitespace and folds case. The remote search is
// case-insensitive, so terms differing only in case share a cache entry.
func normalizeTerm(term string) string {
	return strings.ToLower(strings.Join(strings.Fields(term), " "))
}

// Search returns the active listings matching term. The remote treats term as a
// pattern, so it is sent trimmed but otherwise untouched; only the cache key is
// normalised. A caller that gives up does not cancel the shared request.
func (s *catalogService) Search(ctx context.Context, term string) ([]domain.Product, error) {
	key := normalizeTerm(term)
	if cached, ok := s.results.Get(key); ok {
		return cloneProducts(cached), nil
	}

	sent := strings.TrimSpace(term)
	ch := s.group.DoChan(key, func() (any, error) {
		ps, err := s.gw.Marketplace(context.WithoutCancel(ctx), sent)
		if err != nil {
			return nil, err
		}
		s.results.Add(key, ps)
		return ps, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("search %q: %w", sent, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("search %q: %w", sent, res.Err)
		}
		if res.Shared {
			s.log.Debug().Str("term", key).Msg("search coalesced")
		}
		return cloneProducts(res.Val.([]domain.Product)), nil
	}
}

func cloneProducts(ps []domain.Product) []domain.Product {
	out := make([]domain.Product, len(ps))
	copy(out, ps)
	return out
}

func (s *catalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.gw.Product(ctx, id)
}

func (s *catalogService) Storefront(ctx context.Context, id string) (*domain.Storefront, error) {
	return s.gw.Storefront(ctx, id)
}

func (s *catalogService) MyStorefront(ctx context.Context) (*domain.Storefront, error) {
	return s.gw.MyStorefront(ctx)
}

func (s *catalogService) MyProducts(ctx context.Context) ([]domain.Product, error) {
	return s.gw.MyProducts(ctx)
}

func (s *catalogService) MyOrders(ctx context.Context) ([]domain.Order, error) {
	return s.gw.MyOrders(ctx)
}

func (s *catalogService) Invalidate() {
	s.results.Purge()
}
