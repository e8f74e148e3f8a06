package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
	"github.com/futuremakers/market-client/internal/infrastructure/gateway"
	"github.com/futuremakers/market-client/internal/infrastructure/gateway/gatewaytest"
)

type staticCreds string

func (s staticCreds) Credential() string { return string(s) }

type fixture struct {
	srv      *gatewaytest.Server
	client   *gateway.Client
	guardian domain.Identity
	kid      domain.Identity
	buyer    domain.Identity
	shop     domain.Storefront
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := gatewaytest.New(t)
	f := &fixture{srv: srv}
	f.guardian = srv.AddUser(gatewaytest.User{Email: "mum@example.com", Password: "pw", DisplayName: "Mum", Role: domain.RoleGuardian})
	f.kid = srv.AddUser(gatewaytest.User{Email: "kid@example.com", Password: "pw", DisplayName: "Kid", Role: domain.RoleMinorSeller, ParentID: f.guardian.ID})
	f.buyer = srv.AddUser(gatewaytest.User{Email: "buyer@example.com", Password: "pw", DisplayName: "Buyer", Role: domain.RoleBuyer})
	f.shop = srv.AddStorefront(f.kid.ID, "Kid Crafts", domain.StorefrontActive)
	f.client = gateway.New(gateway.Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, zerolog.Nop())
	return f
}

func (f *fixture) as(email string) string {
	tok := f.srv.Token(email)
	f.client.UseCredentials(staticCreds(tok))
	return tok
}

func TestLogin_PostsFormWithoutCredential(t *testing.T) {
	f := newFixture(t)
	f.client.UseCredentials(staticCreds("stale-token"))

	tok, err := f.client.Login(context.Background(), "buyer@example.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	reqs := f.srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/auth/login", reqs[0].Path)
	assert.Empty(t, reqs[0].Authorization, "login must not carry a bearer credential")
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Login(context.Background(), "buyer@example.com", "nope")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe_AttachesBearerAndMapsUnderscoreID(t *testing.T) {
	f := newFixture(t)
	tok := f.as("kid@example.com")

	id, err := f.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.kid.ID, id.ID)
	assert.Equal(t, domain.RoleMinorSeller, id.Role)
	assert.Equal(t, f.guardian.ID, id.GuardianID)

	reqs := f.srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer "+tok, reqs[0].Authorization)
}

func TestMe_WithoutCredentialIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, f.srv.Requests()[0].Authorization)
}

func TestRequestIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _ = f.client.Marketplace(ctx, "")
	_, _ = f.client.Marketplace(ctx, "")

	reqs := f.srv.Requests()
	require.Len(t, reqs, 2)
	assert.NotEqual(t, reqs[0].RequestID, reqs[1].RequestID)
}

func TestMarketplace_SearchAndStorefrontName(t *testing.T) {
	f := newFixture(t)
	f.srv.AddProduct(domain.Product{StorefrontID: f.shop.ID, Name: "Blue Bracelet", Price: 5, Quantity: 2, Status: domain.ProductActive})
	f.srv.AddProduct(domain.Product{StorefrontID: f.shop.ID, Name: "Red Mug", Price: 8, Quantity: 1, Status: domain.ProductActive})
	f.srv.AddProduct(domain.Product{StorefrontID: f.shop.ID, Name: "Draft Bracelet", Price: 5, Quantity: 1, Status: domain.ProductDraft})

	all, err := f.client.Marketplace(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hits, err := f.client.Marketplace(context.Background(), "bracelet")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Blue Bracelet", hits[0].Name)
	assert.Equal(t, "Kid Crafts", hits[0].StorefrontName)
	assert.NotEmpty(t, hits[0].ID)
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusBadRequest, domain.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.code), func(t *testing.T) {
			f := newFixture(t)
			f.srv.Fail(http.MethodGet, "/products/:id", tc.code)

			_, err := f.client.Product(context.Background(), "x")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStatusMapping_UnmappedCodeIsStatusError(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(http.MethodGet, "/products/:id", http.StatusBadGateway)

	_, err := f.client.Product(context.Background(), "x")
	var se *gateway.StatusError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "injected failure", se.Detail)
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.srv.Close()

	_, err := f.client.Marketplace(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestUpdateProduct_SendsOnlyEdits(t *testing.T) {
	f := newFixture(t)
	p := f.srv.AddProduct(domain.Product{StorefrontID: f.shop.ID, Name: "Mug", Price: 8, Quantity: 3, Status: domain.ProductDraft})
	f.as("kid@example.com")

	status := domain.ProductPendingApproval
	price := 9.5
	got, err := f.client.UpdateProduct(context.Background(), p.ID, domain.ProductUpdate{Status: &status, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, domain.ProductPendingApproval, got.Status)
	assert.Equal(t, 9.5, got.Price)
	assert.Equal(t, "Mug", got.Name)
	assert.Equal(t, 3, got.Quantity)
}

func TestDecideApproval(t *testing.T) {
	f := newFixture(t)
	p := f.srv.AddProduct(domain.Product{StorefrontID: f.shop.ID, Name: "Mug", Quantity: 1, Status: domain.ProductPendingApproval})
	ctx := context.Background()

	f.as("kid@example.com")
	assert.ErrorIs(t, f.client.DecideApproval(ctx, p.ID, domain.ActionApprove), domain.ErrForbidden)

	f.as("mum@example.com")
	pending, err := f.client.PendingApprovals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Kid Crafts", pending[0].StorefrontName)

	require.NoError(t, f.client.DecideApproval(ctx, p.ID, domain.ActionApprove))
	stored, _ := f.srv.Product(p.ID)
	assert.Equal(t, domain.ProductActive, stored.Status)

	// a second decision on a listing that is no longer pending is a conflict
	assert.ErrorIs(t, f.client.DecideApproval(ctx, p.ID, domain.ActionReject), domain.ErrConflict)
}

func TestDecideApproval_RejectsOtherActionsLocally(t *testing.T) {
	f := newFixture(t)

	err := f.client.DecideApproval(context.Background(), "x", domain.ActionSubmit)
	assert.ErrorIs(t, err, domain.ErrActionNotAllowed)
	assert.Empty(t, f.srv.Requests())
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	p := f.srv.AddProduct(domain.Product{StorefrontID: f.shop.ID, Name: "Mug", Price: 8, Quantity: 3, Status: domain.ProductActive})
	f.as("buyer@example.com")
	ctx := context.Background()

	order, err := f.client.PlaceOrder(ctx, []domain.OrderRequestItem{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 16.0, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Mug", order.Items[0].ProductName)

	_, err = f.client.PlaceOrder(ctx, []domain.OrderRequestItem{{ProductID: p.ID, Quantity: 2}})
	assert.ErrorIs(t, err, domain.ErrConflict, "only one unit left")

	orders, err := f.client.MyOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestSignupAndUpdateMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.client.Signup(ctx, ports.SignupInput{Email: "kid2@example.com", Password: "pw", DisplayName: "K2", Role: domain.RoleMinorSeller, GuardianEmail: "nobody@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	id, err := f.client.Signup(ctx, ports.SignupInput{Email: "kid2@example.com", Password: "pw", DisplayName: "K2", Role: domain.RoleMinorSeller, GuardianEmail: "mum@example.com"})
	require.NoError(t, err)
	assert.Equal(t, f.guardian.ID, id.GuardianID)

	f.as("kid2@example.com")
	upd, err := f.client.UpdateMe(ctx, ports.ProfileUpdate{DisplayName: "Kiddo"})
	require.NoError(t, err)
	assert.Equal(t, "Kiddo", upd.DisplayName)
	assert.Equal(t, "kid2@example.com", upd.Email)
}

func TestStorefrontsAndAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.as("kid@example.com")
	sf, err := f.client.MyStorefront(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.shop.ID, sf.ID)
	assert.Equal(t, f.kid.ID, sf.OwnerID)

	_, err = f.client.AdminUsers(ctx)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	f.srv.AddUser(gatewaytest.User{Email: "admin@example.com", Password: "pw", Role: domain.RoleAdmin})
	f.as("admin@example.com")
	users, err := f.client.AdminUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
	shops, err := f.client.AdminStorefronts(ctx)
	require.NoError(t, err)
	assert.Len(t, shops, 1)
}

func TestObserverSeesEveryRequest(t *testing.T) {
	srv := gatewaytest.New(t)
	var (
		mu   sync.Mutex
		seen []string
	)
	c := gateway.New(gateway.Config{BaseURL: srv.URL}, zerolog.Nop(), gateway.WithObserver(func(endpoint string, code int, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, endpoint)
		assert.Equal(t, http.StatusNotFound, code)
	}))

	_, err := c.Product(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"products.get"}, seen)
}
