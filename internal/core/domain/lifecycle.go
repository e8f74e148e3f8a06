package domain

import "strings"

// Action is a client-initiated transition request on a product.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionResubmit Action = "resubmit"
	ActionDelete   Action = "delete"
)

// ProductContext is everything the projector needs to know about one listing.
type ProductContext struct {
	Product Product
	// OwnerID is the identity that owns the listing's storefront. Empty when unknown.
	OwnerID string
	// StorefrontStatus is the owning storefront's status. Empty when unknown.
	StorefrontStatus StorefrontStatus
}

type actionRule struct {
	role      Role
	from      ProductStatus // empty matches any status
	action    Action
	ownerOnly bool
}

// productRules is the complete set of mutating actions the client offers.
// The server may still refuse any of them.
var productRules = []actionRule{
	{role: RoleMinorSeller, from: ProductDraft, action: ActionSubmit, ownerOnly: true},
	{role: RoleGuardian, from: ProductPendingApproval, action: ActionApprove},
	{role: RoleGuardian, from: ProductPendingApproval, action: ActionReject},
	{role: RoleMinorSeller, from: ProductRejected, action: ActionResubmit, ownerOnly: true},
	{role: RoleMinorSeller, action: ActionDelete, ownerOnly: true},
}

// requestedTargets maps an action to the status it asks the server for.
// ActionDelete has no target: the listing is removed.
var requestedTargets = map[Action]ProductStatus{
	ActionSubmit:   ProductPendingApproval,
	ActionApprove:  ProductActive,
	ActionReject:   ProductRejected,
	ActionResubmit: ProductPendingApproval,
}

// RequestedTarget returns the status an action asks the server for.
func (a Action) RequestedTarget() (ProductStatus, bool) {
	s, ok := requestedTargets[a]
	return s, ok
}

// ProductActions returns the actions an actor with the given role and id may request
// on the listing. It never changes the listing.
func ProductActions(role Role, actorID string, pc ProductContext) []Action {
	var out []Action
	for _, r := range productRules {
		if r.role != role {
			continue
		}
		if r.from != "" && r.from != pc.Product.Status {
			continue
		}
		if r.ownerOnly && (actorID == "" || pc.OwnerID != actorID) {
			continue
		}
		if (r.action == ActionSubmit || r.action == ActionResubmit) && !pc.StorefrontStatus.AcceptsSubmissions() {
			continue
		}
		out = append(out, r.action)
	}
	return out
}

// HasAction reports whether a is in actions.
func HasAction(actions []Action, a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

var productLabels = map[ProductStatus]string{
	ProductDraft:           "Draft",
	ProductPendingApproval: "Awaiting approval",
	ProductActive:          "Active",
	ProductRejected:        "Rejected",
	ProductSoldOut:         "Sold out",
}

// Label is the human-readable status. Unknown values are shown as sent.
func (s ProductStatus) Label() string {
	if l, ok := productLabels[s]; ok {
		return l
	}
	return humanize(string(s))
}

// ApprovalReading is the guardian-facing reading of a status: "pending", "approved"
// or "rejected". It is display-only and empty for statuses with no reading.
func (s ProductStatus) ApprovalReading() string {
	switch s {
	case ProductPendingApproval:
		return "pending"
	case ProductActive:
		return "approved"
	case ProductRejected:
		return "rejected"
	}
	return ""
}

// Purchasable reports whether buyers may add the listing to a cart.
func (s ProductStatus) Purchasable() bool {
	return s == ProductActive
}

var storefrontLabels = map[StorefrontStatus]string{
	StorefrontDraft:    "Draft",
	StorefrontActive:   "Active",
	StorefrontInactive: "Inactive",
}

// Label is the human-readable status. Unknown values are shown as sent.
func (s StorefrontStatus) Label() string {
	if l, ok := storefrontLabels[s]; ok {
		return l
	}
	return humanize(string(s))
}

// VisibleToBuyers reports whether the storefront is published.
func (s StorefrontStatus) VisibleToBuyers() bool {
	return s == StorefrontActive
}

// AcceptsSubmissions reports whether listings in the storefront may be submitted for
// approval. An unknown (empty) status does not block submission.
func (s StorefrontStatus) AcceptsSubmissions() bool {
	return s != StorefrontInactive
}

func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
