package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/futuremakers/market-client/internal/core/domain"
	"github.com/futuremakers/market-client/internal/core/ports"
)

// LifecycleGateway is the part of the remote service listing transitions need.
type LifecycleGateway interface {
	ports.ProductReader
	UpdateProduct(ctx context.Context, id string, upd domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	Storefront(ctx context.Context, id string) (*domain.Storefront, error)
	ports.ApprovalGateway
}

type lifecycleService struct {
	gw  LifecycleGateway
	log zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]domain.Action
}

func NewLifecycleService(gw LifecycleGateway, log zerolog.Logger) ports.LifecycleService {
	return &lifecycleService{
		gw:       gw,
		log:      log,
		inFlight: make(map[string]domain.Action),
	}
}

// Load reads a listing and its storefront. A storefront that cannot be read
// leaves owner and storefront status unknown, which withholds owner-only actions.
func (s *lifecycleService) Load(ctx context.Context, productID string) (domain.ProductContext, error) {
	p, err := s.gw.Product(ctx, productID)
	if err != nil {
		return domain.ProductContext{}, fmt.Errorf("load product %s: %w", productID, err)
	}
	pc := domain.ProductContext{Product: *p}

	if p.StorefrontID == "" {
		return pc, nil
	}
	sf, err := s.gw.Storefront(ctx, p.StorefrontID)
	if err != nil {
		s.log.Warn().Err(err).Str("storefront_id", p.StorefrontID).Msg("storefront unreadable, owner unknown")
		return pc, nil
	}
	pc.OwnerID = sf.OwnerID
	pc.StorefrontStatus = sf.Status
	if pc.Product.StorefrontName == "" {
		pc.Product.StorefrontName = sf.DisplayName
	}
	return pc, nil
}

func (s *lifecycleService) Actions(actor ports.SessionSnapshot, pc domain.ProductContext) []domain.Action {
	s.mu.Lock()
	_, busy := s.inFlight[pc.Product.ID]
	s.mu.Unlock()
	if busy {
		return nil
	}
	return domain.ProductActions(actor.Role(), actor.ActorID(), pc)
}

func (s *lifecycleService) View(actor ports.SessionSnapshot, pc domain.ProductContext) ports.ProductView {
	s.mu.Lock()
	_, busy := s.inFlight[pc.Product.ID]
	s.mu.Unlock()

	v := ports.ProductView{
		Product:         pc.Product,
		Label:           pc.Product.Status.Label(),
		ApprovalReading: pc.Product.Status.ApprovalReading(),
		Actions:         []domain.Action{},
		InFlight:        busy,
	}
	if pc.StorefrontStatus != "" {
		v.StorefrontLabel = pc.StorefrontStatus.Label()
	}
	if !busy {
		if acts := domain.ProductActions(actor.Role(), actor.ActorID(), pc); acts != nil {
			v.Actions = acts
		}
	}
	return v
}

// Request forwards one transition request and re-reads the listing afterwards.
// The status is whatever the server reports; nothing is changed locally.
func (s *lifecycleService) Request(
	ctx context.Context,
	actor ports.SessionSnapshot,
	pc domain.ProductContext,
	action domain.Action,
	edits *domain.ProductUpdate,
) (ports.TransitionResult, error) {
	id := pc.Product.ID

	s.mu.Lock()
	if prev, busy := s.inFlight[id]; busy {
		s.mu.Unlock()
		return ports.TransitionResult{}, fmt.Errorf("%s %s: %w (%s in flight)", action, id, domain.ErrActionNotAllowed, prev)
	}
	if !domain.HasAction(domain.ProductActions(actor.Role(), actor.ActorID(), pc), action) {
		s.mu.Unlock()
		return ports.TransitionResult{}, fmt.Errorf("%s %s: %w (role %q, status %q)", action, id, domain.ErrActionNotAllowed, actor.Role(), pc.Product.Status)
	}
	s.inFlight[id] = action
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}()

	reqErr := s.send(ctx, id, action, edits)
	if reqErr != nil {
		s.log.Info().Err(reqErr).Str("product_id", id).Str("action", string(action)).Msg("transition refused")
	} else {
		s.log.Info().Str("product_id", id).Str("action", string(action)).Msg("transition requested")
	}

	res := s.resync(ctx, pc)
	if reqErr != nil {
		return res, fmt.Errorf("%s %s: %w", action, id, reqErr)
	}
	return res, nil
}

func (s *lifecycleService) send(ctx context.Context, id string, action domain.Action, edits *domain.ProductUpdate) error {
	switch action {
	case domain.ActionSubmit, domain.ActionResubmit:
		var upd domain.ProductUpdate
		if edits != nil {
			upd = *edits
		}
		target, _ := action.RequestedTarget()
		upd.Status = &target
		_, err := s.gw.UpdateProduct(ctx, id, upd)
		return err
	case domain.ActionApprove, domain.ActionReject:
		return s.gw.DecideApproval(ctx, id, action)
	case domain.ActionDelete:
		return s.gw.DeleteProduct(ctx, id)
	}
	return domain.ErrActionNotAllowed
}

// resync re-reads the listing. When the read fails the last known projection is
// returned unchanged.
func (s *lifecycleService) resync(ctx context.Context, pc domain.ProductContext) ports.TransitionResult {
	p, err := s.gw.Product(ctx, pc.Product.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ports.TransitionResult{Removed: true}
	case err != nil:
		s.log.Warn().Err(err).Str("product_id", pc.Product.ID).Msg("re-read after transition failed")
		last := pc.Product
		return ports.TransitionResult{Product: &last}
	}
	if p.StorefrontName == "" {
		p.StorefrontName = pc.Product.StorefrontName
	}
	return ports.TransitionResult{Product: p}
}

func (s *lifecycleService) PendingApprovals(ctx context.Context) ([]domain.Product, error) {
	ps, err := s.gw.PendingApprovals(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending approvals: %w", err)
	}
	return ps, nil
}
