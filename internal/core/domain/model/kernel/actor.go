package kernel

import (
	"errors"
	"fmt"
	"strings"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var (
	// ErrForbidden is returned when an actor lacks the capability an operation requires.
	ErrForbidden = errors.New("actor is not permitted to perform this action")

	ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor constructor")
)

// Role tags the kind of principal acting on the marketplace.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RolePartner
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleCustomer: "customer",
		RolePartner:  "partner",
		RoleAdmin:    "admin",
	}
}

// ParseRole maps the textual role ("customer", "partner" or "mitra", "admin") to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, nil
	case "partner", "mitra":
		return RolePartner, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

// Capability is a single permission checked at workflow entry.
type Capability int

const (
	CapCreateOrder Capability = iota + 1
	CapTransitionOrder
	CapConfirmDelivery
	CapRepriceOrder
	CapSubmitPayment
	CapVerifyPayment
	CapSettleOrder
	CapManageTransfers
	CapSubmitReview
	CapModerateReview
	CapViewEarnings
)

func (c Capability) String() string {
	switch c {
	case CapCreateOrder:
		return "create orders"
	case CapTransitionOrder:
		return "change order status"
	case CapConfirmDelivery:
		return "confirm delivery"
	case CapRepriceOrder:
		return "reprice orders"
	case CapSubmitPayment:
		return "submit payments"
	case CapVerifyPayment:
		return "verify payments"
	case CapSettleOrder:
		return "settle orders"
	case CapManageTransfers:
		return "manage payout transfers"
	case CapSubmitReview:
		return "submit reviews"
	case CapModerateReview:
		return "moderate reviews"
	case CapViewEarnings:
		return "view partner earnings"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

func getRoleCapabilities() map[Role][]Capability {
	return map[Role][]Capability{
		RoleCustomer: {CapCreateOrder, CapConfirmDelivery, CapSubmitPayment, CapSubmitReview},
		RolePartner:  {CapTransitionOrder, CapRepriceOrder, CapViewEarnings},
		RoleAdmin: {
			CapTransitionOrder, CapRepriceOrder, CapVerifyPayment, CapSettleOrder,
			CapManageTransfers, CapModerateReview, CapViewEarnings,
		},
	}
}

// Actor is the authenticated principal behind a request: a role plus the
// identifier of the customer, partner or admin account. Authentication itself
// happens upstream; the domain only checks capabilities.
type Actor struct { //nolint:recvcheck //using for validation
	role  Role
	id    UUID
	guard guard.ConstructorGuard
}

// NewActor validates that role is known and id is set.
func NewActor(role Role, id UUID) (Actor, error) {
	a := Actor{guard: guard.NewConstructorGuard()}

	var roleErr error
	if _, ok := getRoleCapabilities()[role]; !ok {
		roleErr = errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%s is not a valid actor role", role))
	}

	if err := errors.Join(roleErr, id.Validate()); err != nil {
		return Actor{}, err
	}

	a.role = role
	a.id = id
	return a, nil
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// Can reports whether the actor's role carries capability c.
func (a Actor) Can(c Capability) bool {
	if a.Validate() != nil {
		return false
	}
	for _, granted := range getRoleCapabilities()[a.role] {
		if granted == c {
			return true
		}
	}
	return false
}

// Require returns an error wrapping ErrForbidden when the actor cannot perform c.
func (a Actor) Require(c Capability) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !a.Can(c) {
		return fmt.Errorf("%w: %s cannot %s", ErrForbidden, a.role, c)
	}
	return nil
}

// Is reports whether the actor is the account id acting in role.
func (a Actor) Is(role Role, id UUID) bool {
	return a.role == role && a.id.IsEqual(id)
}
