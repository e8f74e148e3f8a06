package service

import (
	"context"
	"errors"
	"sync"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub store
// ---------------------------------------------------------------------------

type stubStore struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error // if set, Get returns this error
	setErr  error // if set, Set returns this error
	sets    int
	deletes int
}

func newStubStore() *stubStore {
	return &stubStore{data: make(map[string]string)}
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	delete(s.data, key)
	return nil
}

func (s *stubStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// ---------------------------------------------------------------------------
// In-memory stub gateway
// ---------------------------------------------------------------------------

var errTransport = errors.New("connection reset")

type stubGateway struct {
	mu sync.Mutex

	// auth
	tokens     map[string]string           // email+"|"+password → token
	identities map[string]*domain.Identity // token → identity
	loginErr   error
	meErr      error
	signupErr  error
	meGate     chan struct{} // if set, Me blocks until it is closed
	updateHook func()        // if set, runs after UpdateMe has built its answer
	updateMe   []ports.ProfileUpdate
	signups    []ports.SignupInput

	// catalog
	products    map[string]*domain.Product
	storefronts map[string]*domain.Storefront
	productErr  map[string]error // per-id Product error
	searches    []string
	searchErr   error
	searchGate  chan struct{}

	// transitions
	updates       []domain.ProductUpdate
	decisions     []domain.Action
	deletes       []string
	transitionErr error
	requestGate   chan struct{}

	// storefronts
	storefrontEdits []domain.StorefrontUpdate

	// orders
	orders   [][]domain.OrderRequestItem
	orderErr error

	creds ports.CredentialSource
	calls int
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		tokens:      make(map[string]string),
		identities:  make(map[string]*domain.Identity),
		products:    make(map[string]*domain.Product),
		storefronts: make(map[string]*domain.Storefront),
		productErr:  make(map[string]error),
	}
}

func (g *stubGateway) addAccount(email, password, token string, id domain.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens[email+"|"+password] = token
	g.identities[token] = &id
}

func (g *stubGateway) addProduct(p domain.Product) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cp := p
	g.products[p.ID] = &cp
}

func (g *stubGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *stubGateway) Login(_ context.Context, email, password string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.loginErr != nil {
		return "", g.loginErr
	}
	tok, ok := g.tokens[email+"|"+password]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return tok, nil
}

func (g *stubGateway) Me(_ context.Context) (*domain.Identity, error) {
	g.mu.Lock()
	gate := g.meGate
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.meErr != nil {
		return nil, g.meErr
	}
	tok := ""
	if g.creds != nil {
		tok = g.creds.Credential()
	}
	id, ok := g.identities[tok]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	cp := *id
	return &cp, nil
}

func (g *stubGateway) UpdateMe(_ context.Context, in ports.ProfileUpdate) (*domain.Identity, error) {
	tok := g.creds.Credential()
	g.mu.Lock()
	g.calls++
	g.updateMe = append(g.updateMe, in)
	id, ok := g.identities[tok]
	if !ok {
		g.mu.Unlock()
		return nil, domain.ErrUnauthorized
	}
	if in.DisplayName != "" {
		id.DisplayName = in.DisplayName
	}
	cp := *id
	after := g.updateHook
	g.mu.Unlock()

	if after != nil {
		after()
	}
	return &cp, nil
}

func (g *stubGateway) Signup(_ context.Context, in ports.SignupInput) (*domain.Identity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.signups = append(g.signups, in)
	if g.signupErr != nil {
		return nil, g.signupErr
	}
	return &domain.Identity{ID: "new", Email: in.Email, DisplayName: in.DisplayName, Role: in.Role}, nil
}

func (g *stubGateway) Product(_ context.Context, id string) (*domain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if err := g.productErr[id]; err != nil {
		return nil, err
	}
	p, ok := g.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (g *stubGateway) Marketplace(ctx context.Context, search string) ([]domain.Product, error) {
	g.mu.Lock()
	gate := g.searchGate
	g.searches = append(g.searches, search)
	g.calls++
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	var out []domain.Product
	for _, p := range g.products {
		if p.Status == domain.ProductActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (g *stubGateway) MyProducts(context.Context) ([]domain.Product, error) { return nil, nil }

func (g *stubGateway) CreateProduct(_ context.Context, in ports.ProductInput) (*domain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	p := &domain.Product{ID: "new-" + in.Name, Name: in.Name, Price: in.Price, Quantity: in.Quantity, Status: domain.ProductDraft}
	g.products[p.ID] = p
	cp := *p
	return &cp, nil
}

func (g *stubGateway) CreateStorefront(_ context.Context, in ports.StorefrontInput) (*domain.Storefront, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	sf := &domain.Storefront{ID: "sf-new", DisplayName: in.DisplayName, Description: in.Description, Status: domain.StorefrontDraft}
	g.storefronts[sf.ID] = sf
	cp := *sf
	return &cp, nil
}

func (g *stubGateway) UpdateStorefront(_ context.Context, id string, upd domain.StorefrontUpdate) (*domain.Storefront, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.storefrontEdits = append(g.storefrontEdits, upd)
	sf, ok := g.storefronts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.DisplayName != nil {
		sf.DisplayName = *upd.DisplayName
	}
	if upd.Description != nil {
		sf.Description = *upd.Description
	}
	if upd.Status != nil {
		sf.Status = *upd.Status
	}
	cp := *sf
	return &cp, nil
}

func (g *stubGateway) Storefront(_ context.Context, id string) (*domain.Storefront, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	sf, ok := g.storefronts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sf
	return &cp, nil
}

func (g *stubGateway) MyStorefront(context.Context) (*domain.Storefront, error) {
	return nil, domain.ErrNotFound
}

func (g *stubGateway) MyOrders(context.Context) ([]domain.Order, error) { return nil, nil }

func (g *stubGateway) waitRequestGate() {
	g.mu.Lock()
	gate := g.requestGate
	g.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (g *stubGateway) UpdateProduct(_ context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error) {
	g.waitRequestGate()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.updates = append(g.updates, upd)
	if g.transitionErr != nil {
		return nil, g.transitionErr
	}
	p, ok := g.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	cp := *p
	return &cp, nil
}

func (g *stubGateway) DeleteProduct(_ context.Context, id string) error {
	g.waitRequestGate()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.deletes = append(g.deletes, id)
	if g.transitionErr != nil {
		return g.transitionErr
	}
	delete(g.products, id)
	return nil
}

func (g *stubGateway) PendingApprovals(context.Context) ([]domain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	var out []domain.Product
	for _, p := range g.products {
		if p.Status == domain.ProductPendingApproval {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (g *stubGateway) DecideApproval(_ context.Context, productID string, action domain.Action) error {
	g.waitRequestGate()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.decisions = append(g.decisions, action)
	if g.transitionErr != nil {
		return g.transitionErr
	}
	p, ok := g.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	if target, ok := action.RequestedTarget(); ok {
		p.Status = target
	}
	return nil
}

func (g *stubGateway) PlaceOrder(_ context.Context, items []domain.OrderRequestItem) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.orders = append(g.orders, items)
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return &domain.Order{ID: "o1", Status: "completed"}, nil
}

func (g *stubGateway) AdminUsers(context.Context) ([]domain.Identity, error) {
	return []domain.Identity{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}}, nil
}

func (g *stubGateway) AdminStorefronts(context.Context) ([]domain.Storefront, error) {
	return []domain.Storefront{
		{ID: "s1", Status: domain.StorefrontActive},
		{ID: "s2", Status: domain.StorefrontDraft},
	}, nil
}

func (g *stubGateway) AdminProducts(context.Context) ([]domain.Product, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.Product, 0, len(g.products))
	for _, p := range g.products {
		out = append(out, *p)
	}
	return out, nil
}

var _ ports.Gateway = (*stubGateway)(nil)
