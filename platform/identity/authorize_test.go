package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodcourt-platform/platform/apierr"
)

type fakeScope struct {
	ownerRestaurants    map[string]bool
	employeeRestaurants map[string]bool
	orderOwners         map[string]string
}

func (f *fakeScope) OwnerOwnsRestaurant(ctx context.Context, ownerID, restaurantID string) (bool, error) {
	return f.ownerRestaurants[ownerID+":"+restaurantID], nil
}

func (f *fakeScope) EmployeeAssignedTo(ctx context.Context, employeeID, restaurantID string) (bool, error) {
	return f.employeeRestaurants[employeeID+":"+restaurantID], nil
}

func (f *fakeScope) OrderPlacedBy(ctx context.Context, orderID, customerPrincipalID string) (bool, error) {
	return f.orderOwners[orderID] == customerPrincipalID, nil
}

func (f *fakeScope) OrderStatus(ctx context.Context, orderID string) (string, error) {
	return "Pending", nil
}

func newFakeScope() *fakeScope {
	return &fakeScope{
		ownerRestaurants:    map[string]bool{"owner-1:rest-1": true},
		employeeRestaurants: map[string]bool{"emp-1:rest-1": true},
		orderOwners:         map[string]string{"order-1": "cust-1"},
	}
}

func TestAuthorize_SuperadminAlwaysAllowed(t *testing.T) {
	scope := newFakeScope()
	p := Principal{ID: "root", Role: Superadmin}
	err := Authorize(context.Background(), scope, p, VerbRefundPayment, Resource{RestaurantID: "anything"})
	assert.NoError(t, err)
}

func TestAuthorize_OwnerScoped(t *testing.T) {
	scope := newFakeScope()
	owner := Principal{ID: "owner-1", Role: RestaurantOwner}

	assert.NoError(t, Authorize(context.Background(), scope, owner, VerbTransitionOrderStatus, Resource{RestaurantID: "rest-1"}))

	err := Authorize(context.Background(), scope, owner, VerbTransitionOrderStatus, Resource{RestaurantID: "rest-2"})
	assert.True(t, apierr.Is(err, apierr.Forbidden))
}

func TestAuthorize_EmployeeCannotRefund(t *testing.T) {
	scope := newFakeScope()
	emp := Principal{ID: "emp-1", Role: Employee}

	err := Authorize(context.Background(), scope, emp, VerbRefundPayment, Resource{RestaurantID: "rest-1"})
	assert.True(t, apierr.Is(err, apierr.Forbidden))
}

func TestAuthorize_CustomerCanReadOwnOrderOnly(t *testing.T) {
	scope := newFakeScope()
	cust := Principal{ID: "cust-1", Role: Customer}

	assert.NoError(t, Authorize(context.Background(), scope, cust, VerbReadOrder, Resource{OrderID: "order-1"}))

	other := Principal{ID: "cust-2", Role: Customer}
	err := Authorize(context.Background(), scope, other, VerbReadOrder, Resource{OrderID: "order-1"})
	assert.True(t, apierr.Is(err, apierr.Forbidden))
}

func TestAuthorize_CustomerCannotTransitionStatus(t *testing.T) {
	scope := newFakeScope()
	cust := Principal{ID: "cust-1", Role: Customer}

	err := Authorize(context.Background(), scope, cust, VerbTransitionOrderStatus, Resource{})
	assert.True(t, apierr.Is(err, apierr.Forbidden))
}

func TestAuthorize_CustomerCancelOnlyWhenPending(t *testing.T) {
	scope := newFakeScope()
	cust := Principal{ID: "cust-1", Role: Customer}

	assert.NoError(t, Authorize(context.Background(), scope, cust, VerbCancelOrder,
		Resource{OrderID: "order-1", OrderStatus: "Pending"}))

	err := Authorize(context.Background(), scope, cust, VerbCancelOrder,
		Resource{OrderID: "order-1", OrderStatus: "Preparing"})
	assert.True(t, apierr.Is(err, apierr.Forbidden))
}

func TestAuthorize_ClockInOutSelfOnly(t *testing.T) {
	scope := newFakeScope()
	emp := Principal{ID: "emp-1", Role: Employee}

	assert.NoError(t, Authorize(context.Background(), scope, emp, VerbClockInOut,
		Resource{RestaurantID: "rest-1", EmployeePrincipalID: "emp-1"}))

	err := Authorize(context.Background(), scope, emp, VerbClockInOut,
		Resource{RestaurantID: "rest-1", EmployeePrincipalID: "emp-2"})
	assert.True(t, apierr.Is(err, apierr.Forbidden))
}

func TestAuthorize_ConsumeInviteCustomerOnly(t *testing.T) {
	scope := newFakeScope()
	cust := Principal{ID: "cust-1", Role: Customer}
	assert.NoError(t, Authorize(context.Background(), scope, cust, VerbConsumeInviteToken, Resource{}))

	owner := Principal{ID: "owner-1", Role: RestaurantOwner}
	err := Authorize(context.Background(), scope, owner, VerbConsumeInviteToken, Resource{})
	assert.True(t, apierr.Is(err, apierr.Forbidden))
}
