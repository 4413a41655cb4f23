// Package domain holds the aggregates of spec §3: Restaurant, Order(+Items), Payment(+Refunds),
// Employee, Shift, InviteToken. Principal lives in platform/identity since the oracle owns it.
package domain

import "time"

type Foodcourt struct {
	ID       string
	Name     string
	Active   bool
	Timezone string // IANA name, e.g. "Europe/Moscow"
}

type Restaurant struct {
	ID                string
	OwnerPrincipalID  string
	FoodcourtID       string
	CommissionRate    float64 // [0,1], read at payment creation; Foodcourt carries no rate of its own
	PublishedFlag     bool
	Timezone          string
}

type Table struct {
	ID          string
	FoodcourtID string
}

type DeliveryType string

const (
	DineIn   DeliveryType = "DineIn"
	Takeaway DeliveryType = "Takeaway"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderPreparing OrderStatus = "Preparing"
	OrderReady     OrderStatus = "Ready"
	OrderCompleted OrderStatus = "Completed"
	OrderCancelled OrderStatus = "Cancelled"
)

type Order struct {
	ID                   string
	OrderNumber          string
	RestaurantID         string
	TableID              *string
	CustomerPrincipalID  *string
	CustomerName         string
	CustomerPhone        string
	DeliveryType         DeliveryType
	TotalMinor           int64
	Status               OrderStatus
	Items                []OrderItem
	SpecialInstructions  *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type OrderItem struct {
	ID                  string
	OrderID             string
	ProductID           string
	VariantLabel        *string
	Quantity            int
	UnitPriceMinor      int64
	LineTotalMinor      int64
	SpecialInstructions *string
}

type PaymentMethod string

const (
	CardPSPA PaymentMethod = "CardPSPA"
	CardPSPB PaymentMethod = "CardPSPB"
	Cash     PaymentMethod = "Cash"
	Terminal PaymentMethod = "Terminal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

type Payment struct {
	ID               string
	OrderID          string
	AmountMinor      int64
	Currency         string
	Method           PaymentMethod
	Status           PaymentStatus
	CommissionMinor  int64
	NetMinor         int64
	ProviderRef      *string
	RedirectURL      *string
	ProviderMetadata map[string]any
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Refund struct {
	ID          string
	PaymentID   string
	AmountMinor int64
	Reason      string
	RefundRef   string
	CreatedAt   time.Time
}

type EmployeeRole string

const (
	RoleManager EmployeeRole = "Manager"
	RoleCashier EmployeeRole = "Cashier"
	RoleCook    EmployeeRole = "Cook"
	RoleWaiter  EmployeeRole = "Waiter"
	RoleCleaner EmployeeRole = "Cleaner"
)

type Employee struct {
	ID              string
	RestaurantID    string
	PrincipalID     *string
	Name            string
	Phone           string
	Email           *string
	EmployeeRole    EmployeeRole
	HourlyWageMinor *int64
	ActiveFlag      bool
}

type ShiftStatus string

const (
	ShiftScheduled ShiftStatus = "Scheduled"
	ShiftActive    ShiftStatus = "Active"
	ShiftCompleted ShiftStatus = "Completed"
	ShiftCancelled ShiftStatus = "Cancelled"
)

type Shift struct {
	ID             string
	EmployeeID     string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	BreakMinutes   int
	Status         ShiftStatus
	Notes          *string
}

type InviteStatus string

const (
	InviteActive   InviteStatus = "Active"
	InviteConsumed InviteStatus = "Consumed"
	InviteExpired  InviteStatus = "Expired"
	InviteRevoked  InviteStatus = "Revoked"
)

type InviteToken struct {
	ID                  string
	Token               string
	RestaurantID        string
	GrantedRole         EmployeeRole
	HourlyWageMinor     *int64
	ExpiresAt           time.Time
	MaxUses             int
	UsedCount           int
	Status              InviteStatus
	CreatedByPrincipalID string
}
