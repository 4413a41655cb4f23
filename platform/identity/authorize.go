package identity

import (
	"context"

	"github.com/foodcourt-platform/platform/apierr"
)

// Verb is one column of the authorization matrix (spec §4.1).
type Verb string

const (
	VerbReadOrder            Verb = "ReadOrder"
	VerbTransitionOrderStatus Verb = "TransitionOrderStatus"
	VerbCancelOrder           Verb = "CancelOrder"
	VerbCreatePayment         Verb = "CreatePayment"
	VerbProcessCashOrTerminal Verb = "ProcessCashOrTerminal"
	VerbRefundPayment         Verb = "RefundPayment"
	VerbManageEmployee        Verb = "ManageEmployee"
	VerbClockInOut            Verb = "ClockInOut"
	VerbCreateInviteToken     Verb = "CreateInviteToken"
	VerbConsumeInviteToken    Verb = "ConsumeInviteToken"
)

// Resource carries whatever scoping facts a verb needs to decide allow/deny.
type Resource struct {
	RestaurantID string
	OrderID      string
	// OrderStatus, when set, lets CancelOrder enforce "customer may cancel only while Pending".
	OrderStatus string
	// EmployeePrincipalID, when set, lets ClockInOut enforce "employee only self".
	EmployeePrincipalID string
}

// Authorize implements the matrix of spec §4.1 exactly. It returns an *apierr.Error with code
// Forbidden on a scope failure; callers are expected to have already turned "no principal" into
// Unauthenticated before reaching here.
func Authorize(ctx context.Context, scope ScopeResolver, p Principal, verb Verb, res Resource) error {
	if p.Role == Superadmin {
		return nil
	}

	switch verb {
	case VerbReadOrder:
		switch p.Role {
		case RestaurantOwner:
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		case Employee:
			return requireEmployeeScope(ctx, scope, p, res.RestaurantID)
		case Customer:
			return requireSelfPlaced(ctx, scope, p, res.OrderID)
		}

	case VerbTransitionOrderStatus:
		switch p.Role {
		case RestaurantOwner:
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		case Employee:
			return requireEmployeeScope(ctx, scope, p, res.RestaurantID)
		}
		return forbidden("customers may not transition order status")

	case VerbCancelOrder:
		switch p.Role {
		case RestaurantOwner:
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		case Employee:
			return requireEmployeeScope(ctx, scope, p, res.RestaurantID)
		case Customer:
			if err := requireSelfPlaced(ctx, scope, p, res.OrderID); err != nil {
				return err
			}
			if res.OrderStatus != "Pending" {
				return forbidden("customers may cancel only a Pending order")
			}
			return nil
		}

	case VerbCreatePayment:
		switch p.Role {
		case RestaurantOwner:
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		case Employee:
			return requireEmployeeScope(ctx, scope, p, res.RestaurantID)
		case Customer:
			return requireSelfPlaced(ctx, scope, p, res.OrderID)
		}

	case VerbProcessCashOrTerminal:
		switch p.Role {
		case RestaurantOwner:
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		case Employee:
			return requireEmployeeScope(ctx, scope, p, res.RestaurantID)
		}
		return forbidden("customers may not process cash or terminal payments")

	case VerbRefundPayment:
		if p.Role == RestaurantOwner {
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		}
		return forbidden("only an owner (or superadmin) may refund")

	case VerbManageEmployee:
		if p.Role == RestaurantOwner {
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		}
		return forbidden("only an owner (or superadmin) may manage employees")

	case VerbClockInOut:
		switch p.Role {
		case RestaurantOwner:
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		case Employee:
			if res.EmployeePrincipalID != p.ID {
				return forbidden("employees may only clock themselves in or out")
			}
			return nil
		}
		return forbidden("customers may not clock in or out")

	case VerbCreateInviteToken:
		if p.Role == RestaurantOwner {
			return requireOwnerScope(ctx, scope, p, res.RestaurantID)
		}
		return forbidden("only an owner (or superadmin) may create invite tokens")

	case VerbConsumeInviteToken:
		if p.Role == Customer {
			return nil
		}
		return forbidden("only a customer may consume an invite token")
	}

	return forbidden("verb not permitted for this role")
}

func requireOwnerScope(ctx context.Context, scope ScopeResolver, p Principal, restaurantID string) error {
	ok, err := scope.OwnerOwnsRestaurant(ctx, p.ID, restaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("restaurant is outside this owner's scope")
	}
	return nil
}

func requireEmployeeScope(ctx context.Context, scope ScopeResolver, p Principal, restaurantID string) error {
	ok, err := scope.EmployeeAssignedTo(ctx, p.ID, restaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("restaurant is outside this employee's assignment")
	}
	return nil
}

func requireSelfPlaced(ctx context.Context, scope ScopeResolver, p Principal, orderID string) error {
	ok, err := scope.OrderPlacedBy(ctx, orderID, p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden("order was not placed by this customer")
	}
	return nil
}

func forbidden(msg string) error {
	return apierr.New(apierr.Forbidden, msg)
}
