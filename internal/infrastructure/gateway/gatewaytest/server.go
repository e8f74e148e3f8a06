// Package gatewaytest runs an in-memory stand-in for the remote marketplace
// service. It mirrors the routes, payload shapes and status codes the real service
// uses, so gateway and service tests can exercise the full HTTP path.
package gatewaytest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/futuremakers/market-client/internal/core/domain"
)

// Recorded is one request as the server received it.
type Recorded struct {
	Method        string
	Path          string
	Route         string
	Authorization string
	RequestID     string
}

// User seeds an account.
type User struct {
	Email       string
	Password    string
	DisplayName string
	Role        domain.Role
	ParentID    string
	Birthday    string
}

type account struct {
	identity domain.Identity
	hash     []byte
}

// Server is the fake remote service.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	secret      []byte
	seq         int
	users       map[string]*account // by id
	storefronts map[string]*domain.Storefront
	products    map[string]*domain.Product
	orders      []domain.Order
	requests    []Recorded
	faults      map[string]int // "METHOD route" → status
}

// New starts a fake service that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:      []byte("gatewaytest-secret"),
		users:       make(map[string]*account),
		storefronts: make(map[string]*domain.Storefront),
		products:    make(map[string]*domain.Product),
		faults:      make(map[string]int),
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(he.Code, map[string]any{"detail": he.Message})
			return
		}
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"detail": err.Error()})
	}
	e.Use(s.recordAndFault)

	e.POST("/auth/login", s.login)
	e.POST("/auth/signup", s.signup)
	e.GET("/auth/me", s.me)
	e.PUT("/auth/me", s.updateMe)

	e.GET("/products/marketplace", s.marketplace)
	e.GET("/products/mine", s.myProducts)
	e.GET("/products/:id", s.getProduct)
	e.POST("/products/", s.createProduct)
	e.PATCH("/products/:id", s.updateProduct)
	e.DELETE("/products/:id", s.deleteProduct)

	e.GET("/storefronts/mine", s.myStorefront)
	e.GET("/storefronts/:id", s.getStorefront)
	e.POST("/storefronts/", s.createStorefront)
	e.PATCH("/storefronts/:id", s.updateStorefront)

	e.GET("/parent/approvals", s.pendingApprovals)
	e.POST("/parent/approvals/:id", s.decideApproval)

	e.POST("/orders/", s.createOrder)
	e.GET("/orders/mine", s.myOrders)

	e.GET("/admin/users", s.adminUsers)
	e.GET("/admin/storefronts", s.adminStorefronts)
	e.GET("/admin/products", s.adminProducts)
	return e
}

func (s *Server) recordAndFault(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		rec := Recorded{
			Method:        req.Method,
			Path:          req.URL.Path,
			Route:         c.Path(),
			Authorization: req.Header.Get("Authorization"),
			RequestID:     req.Header.Get("X-Request-ID"),
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		code, fail := s.faults[req.Method+" "+c.Path()]
		s.mu.Unlock()
		if fail {
			return echo.NewHTTPError(code, "injected failure")
		}
		return next(c)
	}
}

// --- Test controls ---

// Fail makes every request matching method and echo route pattern (for example
// "PATCH", "/products/:id") answer with code until Heal is called.
func (s *Server) Fail(method, route string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method+" "+route] = code
}

// Heal removes all injected failures.
func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]int)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// CountRequests returns how many requests hit method and route.
func (s *Server) CountRequests(method, route string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Route == route {
			n++
		}
	}
	return n
}

func (s *Server) nextID() string {
	s.seq++
	return fmt.Sprintf("%024x", s.seq)
}

// AddUser seeds an account and returns its identity.
func (s *Server) AddUser(u User) domain.Identity {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.Identity{
		ID:          s.nextID(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		GuardianID:  u.ParentID,
		Birthday:    u.Birthday,
	}
	s.users[id.ID] = &account{identity: id, hash: hash}
	return id
}

// AddStorefront seeds a storefront owned by ownerID.
func (s *Server) AddStorefront(ownerID, name string, status domain.StorefrontStatus) domain.Storefront {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf := &domain.Storefront{ID: s.nextID(), OwnerID: ownerID, DisplayName: name, Status: status}
	s.storefronts[sf.ID] = sf
	return *sf
}

// AddProduct seeds a listing. An empty ID is assigned.
func (s *Server) AddProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.nextID()
	}
	cp := p
	s.products[p.ID] = &cp
	return p
}

// UpdateProduct mutates a stored listing in place.
func (s *Server) UpdateProduct(id string, fn func(*domain.Product)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		fn(p)
	}
}

// RemoveProduct deletes a stored listing.
func (s *Server) RemoveProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
}

// Product returns the stored listing.
func (s *Server) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, false
	}
	return *p, true
}

// Orders returns every placed order.
func (s *Server) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

// Token mints a valid credential for email, as login would.
func (s *Server) Token(email string) string {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

// --- Auth ---

func (s *Server) currentUser(c echo.Context) (*account, error) {
	h := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
	}
	email, _ := claims["sub"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if a.identity.Email == email {
			return a, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
}

func (s *Server) requireRole(c echo.Context, role domain.Role, detail string) (*account, error) {
	a, err := s.currentUser(c)
	if err != nil {
		return nil, err
	}
	if a.identity.Role != role {
		return nil, echo.NewHTTPError(http.StatusForbidden, detail)
	}
	return a, nil
}

func (s *Server) login(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")

	s.mu.Lock()
	var found *account
	for _, a := range s.users {
		if a.identity.Email == email {
			found = a
			break
		}
	}
	s.mu.Unlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.hash, []byte(password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"access_token": s.Token(email),
		"token_type":   "bearer",
	})
}

type signupBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	ParentEmail string `json:"parent_email"`
	Birthday    string `json:"birthday"`
}

func (s *Server) signup(c echo.Context) error {
	var body signupBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	if body.Email == "" || body.Password == "" || !domain.Role(body.Role).Valid() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	s.mu.Lock()
	var parentID string
	for _, a := range s.users {
		if a.identity.Email == body.Email {
			s.mu.Unlock()
			return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
		}
		if body.ParentEmail != "" && a.identity.Email == body.ParentEmail && a.identity.Role == domain.RoleGuardian {
			parentID = a.identity.ID
		}
	}
	s.mu.Unlock()

	if domain.Role(body.Role) == domain.RoleMinorSeller {
		if body.ParentEmail == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent email is required for kid accounts")
		}
		if parentID == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent account not found with provided email")
		}
	}

	id := s.AddUser(User{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		Role:        domain.Role(body.Role),
		ParentID:    parentID,
		Birthday:    body.Birthday,
	})
	return c.JSON(http.StatusCreated, userResponse(id))
}

func (s *Server) me(c echo.Context) error {
	a, err := s.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse(a.identity))
}

func (s *Server) updateMe(c echo.Context) error {
	a, err := s.currentUser(c)
	if err != nil {
		return err
	}
	var body struct {
		DisplayName *string `json:"display_name"`
		Password    *string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	var hash []byte
	if body.Password != nil {
		if hash, err = bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.MinCost); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if body.DisplayName != nil {
		a.identity.DisplayName = *body.DisplayName
	}
	if hash != nil {
		a.hash = hash
	}
	return c.JSON(http.StatusOK, userResponse(a.identity))
}

// --- Products ---

func (s *Server) sortedProducts(keep func(*domain.Product) bool) []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if keep(p) {
			cp := *p
			if sf, ok := s.storefronts[p.StorefrontID]; ok {
				cp.StorefrontName = sf.DisplayName
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) marketplace(c echo.Context) error {
	term := strings.ToLower(strings.TrimSpace(c.QueryParam("search")))

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.sortedProducts(func(p *domain.Product) bool {
		if p.Status != domain.ProductActive || p.Quantity <= 0 {
			return false
		}
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	})
	return c.JSON(http.StatusOK, productsResponse(list))
}

func (s *Server) myProducts(c echo.Context) error {
	a, err := s.requireRole(c, domain.RoleMinorSeller, "Only kids have products")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.sortedProducts(func(p *domain.Product) bool {
		sf, ok := s.storefronts[p.StorefrontID]
		return ok && sf.OwnerID == a.identity.ID
	})
	return c.JSON(http.StatusOK, productsResponse(list))
}

func (s *Server) getProduct(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[c.Param("id")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return c.JSON(http.StatusOK, productResponse(*p))
}

type productBody struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Quantity     *int     `json:"quantity"`
	Images       []string `json:"images"`
	Status       *string  `json:"status"`
	Size         *string  `json:"size"`
	Materials    *string  `json:"materials"`
	TimeRequired *string  `json:"time_required"`
}

func (b productBody) apply(p *domain.Product) {
	if b.Name != nil {
		p.Name = *b.Name
	}
	if b.Description != nil {
		p.Description = *b.Description
	}
	if b.Price != nil {
		p.Price = *b.Price
	}
	if b.Quantity != nil {
		p.Quantity = *b.Quantity
	}
	if b.Images != nil {
		p.Images = b.Images
	}
	if b.Status != nil {
		p.Status = domain.ProductStatus(*b.Status)
	}
	if b.Size != nil {
		p.Size = *b.Size
	}
	if b.Materials != nil {
		p.Materials = *b.Materials
	}
	if b.TimeRequired != nil {
		p.TimeRequired = *b.TimeRequired
	}
}

func (s *Server) createProduct(c echo.Context) error {
	a, err := s.requireRole(c, domain.RoleMinorSeller, "Only kids can create products")
	if err != nil {
		return err
	}
	var body productBody
	if err := c.Bind(&body); err != nil || body.Name == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var sf *domain.Storefront
	for _, x := range s.storefronts {
		if x.OwnerID == a.identity.ID {
			sf = x
		}
	}
	if sf == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "You must create a storefront first")
	}
	p := &domain.Product{ID: s.nextID(), StorefrontID: sf.ID, Status: domain.ProductDraft}
	body.Status = nil
	body.apply(p)
	s.products[p.ID] = p
	return c.JSON(http.StatusCreated, productResponse(*p))
}

// ownedProduct loads a listing and checks the caller owns its storefront.
// Callers hold s.mu.
func (s *Server) ownedProduct(a *account, id, detail string) (*domain.Product, *domain.Storefront, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	sf, ok := s.storefronts[p.StorefrontID]
	if !ok || sf.OwnerID != a.identity.ID {
		return nil, nil, echo.NewHTTPError(http.StatusForbidden, detail)
	}
	return p, sf, nil
}

func (s *Server) updateProduct(c echo.Context) error {
	a, err := s.currentUser(c)
	if err != nil {
		return err
	}
	var body productBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, sf, err := s.ownedProduct(a, c.Param("id"), "You can only edit your own products")
	if err != nil {
		return err
	}
	if body.Status != nil && domain.ProductStatus(*body.Status) == domain.ProductPendingApproval {
		if sf.Status == domain.StorefrontInactive {
			return echo.NewHTTPError(http.StatusBadRequest, "Storefront is inactive")
		}
		if p.Status != domain.ProductDraft && p.Status != domain.ProductRejected {
			return echo.NewHTTPError(http.StatusConflict, "Product cannot be submitted from its current status")
		}
	}
	body.apply(p)
	return c.JSON(http.StatusOK, productResponse(*p))
}

func (s *Server) deleteProduct(c echo.Context) error {
	a, err := s.currentUser(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _, err := s.ownedProduct(a, c.Param("id"), "You can only delete your own products")
	if err != nil {
		return err
	}
	delete(s.products, p.ID)
	return c.NoContent(http.StatusNoContent)
}

// --- Storefronts ---

func (s *Server) getStorefront(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, ok := s.storefronts[c.Param("id")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Storefront not found")
	}
	return c.JSON(http.StatusOK, storefrontResponse(*sf))
}

func (s *Server) myStorefront(c echo.Context) error {
	a, err := s.requireRole(c, domain.RoleMinorSeller, "Only kids have storefronts")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sf := range s.storefronts {
		if sf.OwnerID == a.identity.ID {
			return c.JSON(http.StatusOK, storefrontResponse(*sf))
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Storefront not found")
}

type storefrontBody struct {
	DisplayName *string `json:"display_name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (b storefrontBody) apply(sf *domain.Storefront) {
	if b.DisplayName != nil {
		sf.DisplayName = *b.DisplayName
	}
	if b.Description != nil {
		sf.Description = *b.Description
	}
	if b.Status != nil {
		sf.Status = domain.StorefrontStatus(*b.Status)
	}
}

func (s *Server) createStorefront(c echo.Context) error {
	a, err := s.requireRole(c, domain.RoleMinorSeller, "Only kids can create storefronts")
	if err != nil {
		return err
	}
	var body storefrontBody
	if err := c.Bind(&body); err != nil || body.DisplayName == nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sf := range s.storefronts {
		if sf.OwnerID == a.identity.ID {
			return echo.NewHTTPError(http.StatusBadRequest, "Storefront already exists")
		}
	}
	sf := &domain.Storefront{ID: s.nextID(), OwnerID: a.identity.ID, Status: domain.StorefrontDraft}
	body.Status = nil
	body.apply(sf)
	s.storefronts[sf.ID] = sf
	return c.JSON(http.StatusCreated, storefrontResponse(*sf))
}

func (s *Server) updateStorefront(c echo.Context) error {
	a, err := s.currentUser(c)
	if err != nil {
		return err
	}
	var body storefrontBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, ok := s.storefronts[c.Param("id")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Storefront not found")
	}
	if sf.OwnerID != a.identity.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not your storefront")
	}
	body.apply(sf)
	return c.JSON(http.StatusOK, storefrontResponse(*sf))
}

// --- Guardian approvals ---

func (s *Server) childStorefronts(guardianID string) map[string]bool {
	ids := make(map[string]bool)
	for _, sf := range s.storefronts {
		if owner, ok := s.users[sf.OwnerID]; ok && owner.identity.GuardianID == guardianID {
			ids[sf.ID] = true
		}
	}
	return ids
}

func (s *Server) pendingApprovals(c echo.Context) error {
	a, err := s.requireRole(c, domain.RoleGuardian, "Only parents can view pending approvals")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := s.childStorefronts(a.identity.ID)
	list := s.sortedProducts(func(p *domain.Product) bool {
		return mine[p.StorefrontID] && p.Status == domain.ProductPendingApproval
	})
	return c.JSON(http.StatusOK, productsResponse(list))
}

func (s *Server) decideApproval(c echo.Context) error {
	a, err := s.requireRole(c, domain.RoleGuardian, "Only parents can approve/reject products")
	if err != nil {
		return err
	}
	var body struct {
		Action string `json:"action"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}
	if body.Action != "approve" && body.Action != "reject" {
		return echo.NewHTTPError(http.StatusBadRequest, "Action must be 'approve' or 'reject'")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[c.Param("id")]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if !s.childStorefronts(a.identity.ID)[p.StorefrontID] {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the parent of this seller")
	}
	if p.Status != domain.ProductPendingApproval {
		return echo.NewHTTPError(http.StatusConflict, "Product is not awaiting approval")
	}
	if body.Action == "approve" {
		p.Status = domain.ProductActive
	} else {
		p.Status = domain.ProductRejected
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product " + body.Action + "d successfully"})
}

// --- Orders ---

func (s *Server) createOrder(c echo.Context) error {
	a, err := s.currentUser(c)
	if err != nil {
		return err
	}
	var body struct {
		Items []domain.OrderRequestItem `json:"items"`
	}
	if err := c.Bind(&body); err != nil || len(body.Items) == 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// validate everything before touching stock
	for _, it := range body.Items {
		p, ok := s.products[it.ProductID]
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found: "+it.ProductID)
		}
		if p.Quantity < it.Quantity {
			return echo.NewHTTPError(http.StatusBadRequest, "Not enough stock for product: "+p.Name)
		}
	}

	order := domain.Order{
		ID:        s.nextID(),
		BuyerID:   a.identity.ID,
		Status:    "completed",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, it := range body.Items {
		p := s.products[it.ProductID]
		p.Quantity -= it.Quantity
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    p.ID,
			Quantity:     it.Quantity,
			Price:        p.Price,
			ProductName:  p.Name,
			StorefrontID: p.StorefrontID,
		})
		order.Total += p.Price * float64(it.Quantity)
	}
	s.orders = append(s.orders, order)
	return c.JSON(http.StatusCreated, orderResponse(order))
}

func (s *Server) myOrders(c echo.Context) error {
	a, err := s.currentUser(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []map[string]any{}
	for _, o := range s.orders {
		if o.BuyerID == a.identity.ID {
			out = append(out, orderResponse(o))
		}
	}
	return c.JSON(http.StatusOK, out)
}

// --- Admin ---

func (s *Server) adminUsers(c echo.Context) error {
	if _, err := s.requireRole(c, domain.RoleAdmin, "Admin access required"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, userResponse(s.users[id].identity))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) adminStorefronts(c echo.Context) error {
	if _, err := s.requireRole(c, domain.RoleAdmin, "Admin access required"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.storefronts))
	for id := range s.storefronts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, storefrontResponse(*s.storefronts[id]))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) adminProducts(c echo.Context) error {
	if _, err := s.requireRole(c, domain.RoleAdmin, "Admin access required"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.sortedProducts(func(*domain.Product) bool { return true })
	return c.JSON(http.StatusOK, productsResponse(list))
}

// --- Response shapes: ids are serialised as "_id" like the real service ---

func userResponse(i domain.Identity) map[string]any {
	m := map[string]any{
		"_id":          i.ID,
		"email":        i.Email,
		"display_name": i.DisplayName,
		"role":         string(i.Role),
		"parent_id":    nil,
		"birthday":     nil,
	}
	if i.GuardianID != "" {
		m["parent_id"] = i.GuardianID
	}
	if i.Birthday != "" {
		m["birthday"] = i.Birthday
	}
	return m
}

func productResponse(p domain.Product) map[string]any {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	m := map[string]any{
		"_id":           p.ID,
		"storefront_id": p.StorefrontID,
		"name":          p.Name,
		"description":   p.Description,
		"price":         p.Price,
		"quantity":      p.Quantity,
		"images":        images,
		"status":        string(p.Status),
	}
	if p.StorefrontName != "" {
		m["storefront_name"] = p.StorefrontName
	}
	if p.Size != "" {
		m["size"] = p.Size
	}
	if p.Materials != "" {
		m["materials"] = p.Materials
	}
	if p.TimeRequired != "" {
		m["time_required"] = p.TimeRequired
	}
	return m
}

func productsResponse(ps []domain.Product) []map[string]any {
	out := make([]map[string]any, 0, len(ps))
	for _, p := range ps {
		out = append(out, productResponse(p))
	}
	return out
}

func storefrontResponse(sf domain.Storefront) map[string]any {
	return map[string]any{
		"_id":          sf.ID,
		"kid_id":       sf.OwnerID,
		"display_name": sf.DisplayName,
		"description":  sf.Description,
		"status":       string(sf.Status),
	}
}

func orderResponse(o domain.Order) map[string]any {
	return map[string]any{
		"_id":        o.ID,
		"buyer_id":   o.BuyerID,
		"items":      o.Items,
		"total":      o.Total,
		"status":     o.Status,
		"created_at": o.CreatedAt,
	}
}
