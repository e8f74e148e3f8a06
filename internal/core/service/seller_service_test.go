package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

func newSeller(t *testing.T) (ports.SellerService, *stubGateway) {
	t.Helper()
	gw := newStubGateway()
	gw.storefronts["sf1"] = &domain.Storefront{ID: "sf1", OwnerID: "k1", DisplayName: "Bead Shop", Status: domain.StorefrontActive}
	return NewSellerService(gw, zerolog.Nop()), gw
}

func TestSeller_OnlyMinorSellersReachTheRemote(t *testing.T) {
	svc, gw := newSeller(t)
	ctx := context.Background()
	name := "x"

	for _, a := range []ports.SessionSnapshot{guardian, buyer, admin, {State: ports.SessionAnonymous}} {
		if _, err := svc.CreateListing(ctx, a, ports.ProductInput{Name: "Ring", Price: 2, Quantity: 1}); !errors.Is(err, domain.ErrActionNotAllowed) {
			t.Errorf("%s create listing: err = %v", a.Role(), err)
		}
		if _, err := svc.OpenStorefront(ctx, a, ports.StorefrontInput{DisplayName: "Shop"}); !errors.Is(err, domain.ErrActionNotAllowed) {
			t.Errorf("%s open storefront: err = %v", a.Role(), err)
		}
		if _, err := svc.EditStorefront(ctx, a, "sf1", domain.StorefrontUpdate{DisplayName: &name}); !errors.Is(err, domain.ErrActionNotAllowed) {
			t.Errorf("%s edit storefront: err = %v", a.Role(), err)
		}
	}
	if gw.callCount() != 0 {
		t.Fatalf("local refusals sent %d requests", gw.callCount())
	}
}

func TestSeller_CreateListingReturnsServerProjection(t *testing.T) {
	svc, gw := newSeller(t)

	p, err := svc.CreateListing(context.Background(), kid, ports.ProductInput{Name: "  Ring ", Price: 2.5, Quantity: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "new-Ring" || p.Status != domain.ProductDraft {
		t.Errorf("got %+v, want the server's draft", p)
	}
	if gw.callCount() != 1 {
		t.Errorf("calls = %d, want 1", gw.callCount())
	}
}

func TestSeller_OpenStorefront(t *testing.T) {
	svc, _ := newSeller(t)

	sf, err := svc.OpenStorefront(context.Background(), kid, ports.StorefrontInput{DisplayName: " Knots ", Description: "rope things"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sf.DisplayName != "Knots" || sf.Status != domain.StorefrontDraft {
		t.Errorf("got %+v", sf)
	}
}

func TestSeller_EditStorefrontNeverSendsStatus(t *testing.T) {
	svc, gw := newSeller(t)
	name := "Bead Palace"
	inactive := domain.StorefrontInactive

	sf, err := svc.EditStorefront(context.Background(), kid, "sf1", domain.StorefrontUpdate{DisplayName: &name, Status: &inactive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.storefrontEdits) != 1 || gw.storefrontEdits[0].Status != nil {
		t.Fatalf("sent %+v, want no status", gw.storefrontEdits)
	}
	if sf.DisplayName != name || sf.Status != domain.StorefrontActive {
		t.Errorf("got %+v, want renamed and still active", sf)
	}
}

func TestSeller_EditUnknownStorefront(t *testing.T) {
	svc, _ := newSeller(t)
	desc := "d"

	_, err := svc.EditStorefront(context.Background(), kid, "missing", domain.StorefrontUpdate{Description: &desc})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
