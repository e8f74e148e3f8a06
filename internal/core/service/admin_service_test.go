package service

import (
	"context"
	"testing"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

func TestAdminOverview(t *testing.T) {
	gw := newStubGateway()
	gw.addProduct(listing(domain.ProductPendingApproval))
	active := listing(domain.ProductActive)
	active.ID = "p2"
	gw.addProduct(active)

	got, err := NewAdminService(gw).Overview(context.Background())

	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	want := ports.AdminOverview{Users: 3, Storefronts: 2, ActiveStorefronts: 1, Products: 2, PendingListings: 1}
	if *got != want {
		t.Fatalf("overview = %+v, want %+v", *got, want)
	}
}
