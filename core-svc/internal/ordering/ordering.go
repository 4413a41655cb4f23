// Package ordering is the C4 order engine: owns the Order aggregate, its lifecycle state
// machine, and per-restaurant monotonic numbering. Grounded on dish-svc's OrderService but
// generalized from a single-restaurant checkout into the full order lifecycle of §4.4.
package ordering

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/foodcourt-platform/core-svc/internal/catalog"
	"github.com/foodcourt-platform/core-svc/internal/domain"
	"github.com/foodcourt-platform/core-svc/internal/storage"
	"github.com/foodcourt-platform/platform/apierr"
	"github.com/foodcourt-platform/platform/dbtx"
	"github.com/foodcourt-platform/platform/eventbus"
)

type ItemInput struct {
	ProductID           string
	VariantLabel        *string
	Quantity            int
	SpecialInstructions *string
}

type CreateOrderInput struct {
	RestaurantID        string
	TableID             *string
	CustomerPrincipalID *string
	CustomerName        string
	CustomerPhone       string
	DeliveryType        domain.DeliveryType
	SpecialInstructions *string
	Items               []ItemInput
}

type Engine struct {
	DB      *sql.DB
	Catalog catalog.Client
	Bus     *eventbus.Dispatcher
}

func NewEngine(db *sql.DB, cat catalog.Client, bus *eventbus.Dispatcher) *Engine {
	return &Engine{DB: db, Catalog: cat, Bus: bus}
}

// CreateOrder runs spec §4.4's six steps inside one serializable transaction, retried on
// conflict per §4.3 (the order-number counter row is the usual contention point under §8's
// S7 scenario: 50 concurrent creations for the same restaurant/day).
func (e *Engine) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, apierr.New(apierr.ValidationFailed, "order must contain at least one item")
	}

	var order *domain.Order
	err := dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, e.DB, func(ctx context.Context, tx *sql.Tx) error {
			o, err := e.createOrderTx(ctx, tx, in)
			if err != nil {
				return err
			}
			order = o
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (e *Engine) createOrderTx(ctx context.Context, tx *sql.Tx, in CreateOrderInput) (*domain.Order, error) {
	rest, err := storage.GetRestaurantTx(ctx, tx, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return nil, apierr.New(apierr.NotFound, "restaurant not found")
	}

	fc, err := storage.GetFoodcourtTx(ctx, tx, rest.FoodcourtID)
	if err != nil {
		return nil, err
	}
	if !rest.PublishedFlag || fc == nil || !fc.Active {
		return nil, apierr.New(apierr.ValidationFailed, "restaurant not active")
	}

	if in.TableID != nil {
		ok, err := storage.TableBelongsToFoodcourtTx(ctx, tx, *in.TableID, rest.FoodcourtID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apierr.New(apierr.ValidationFailed, "table does not belong to this foodcourt")
		}
	}

	items, totalMinor, err := e.priceItems(ctx, in.RestaurantID, in.Items)
	if err != nil {
		return nil, err
	}
	if totalMinor == 0 {
		return nil, apierr.New(apierr.ValidationFailed, "order total must be greater than zero")
	}

	localDate := localCalendarDate(time.Now().UTC(), rest.Timezone)
	orderNumber, err := storage.AllocateOrderNumberTx(ctx, tx, rest.ID, localDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:                  uuid.NewString(),
		OrderNumber:         orderNumber,
		RestaurantID:        rest.ID,
		TableID:             in.TableID,
		CustomerPrincipalID: in.CustomerPrincipalID,
		CustomerName:        in.CustomerName,
		CustomerPhone:       in.CustomerPhone,
		DeliveryType:        in.DeliveryType,
		TotalMinor:          totalMinor,
		Status:              domain.OrderPending,
		Items:               items,
		SpecialInstructions: in.SpecialInstructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := storage.InsertOrderTx(ctx, tx, order); err != nil {
		return nil, err
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.NewString()
		order.Items[i].OrderID = order.ID
		if err := storage.InsertOrderItemTx(ctx, tx, &order.Items[i]); err != nil {
			return nil, err
		}
	}

	if _, err := eventbus.Append(ctx, tx, order.ID, eventbus.OrderCreated, map[string]any{
		"orderId":      order.ID,
		"restaurantId": order.RestaurantID,
		"totalMinor":   order.TotalMinor,
	}); err != nil {
		return nil, err
	}

	return order, nil
}

func (e *Engine) priceItems(ctx context.Context, restaurantID string, inputs []ItemInput) ([]domain.OrderItem, int64, error) {
	items := make([]domain.OrderItem, 0, len(inputs))
	var total int64

	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, 0, apierr.New(apierr.ValidationFailed, "quantity must be at least 1")
		}

		snapshot, err := e.Catalog.GetProduct(ctx, restaurantID, in.ProductID)
		if err != nil {
			return nil, 0, apierr.Wrap(apierr.Internal, "catalog lookup failed", err)
		}
		if snapshot == nil || !snapshot.Available {
			return nil, 0, apierr.WithDetails(apierr.ValidationFailed, "product unavailable", map[string]any{"productId": in.ProductID})
		}

		unitPrice := snapshot.BasePriceMinor
		if in.VariantLabel != nil {
			modifier, ok := snapshot.Variants[*in.VariantLabel]
			if !ok {
				return nil, 0, apierr.WithDetails(apierr.ValidationFailed, "unknown variant", map[string]any{"variantLabel": *in.VariantLabel})
			}
			unitPrice += modifier
		}

		lineTotal := unitPrice * int64(in.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:           in.ProductID,
			VariantLabel:        in.VariantLabel,
			Quantity:            in.Quantity,
			UnitPriceMinor:      unitPrice,
			LineTotalMinor:      lineTotal,
			SpecialInstructions: in.SpecialInstructions,
		})
		total += lineTotal
	}

	return items, total, nil
}

// localCalendarDate computes the restaurant-local calendar date spec §4.4 describes:
// "localDate = (now UTC + restaurantTzOffset)". Falls back to UTC if the stored timezone
// name cannot be loaded, rather than failing order creation outright.
func localCalendarDate(nowUTC time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return nowUTC.In(loc).Format("20060102")
}

var allowedTransitions = map[domain.OrderStatus]map[domain.OrderStatus]bool{
	domain.OrderPending:   {domain.OrderPreparing: true, domain.OrderCancelled: true},
	domain.OrderPreparing: {domain.OrderReady: true, domain.OrderCancelled: true},
	domain.OrderReady:     {domain.OrderCompleted: true, domain.OrderCancelled: true},
	domain.OrderCompleted: {},
	domain.OrderCancelled: {},
}

// TransitionStatus implements the exhaustive table in §4.4. estimatedMinutes is accepted
// for future kitchen-display use but not yet persisted; negative values are rejected.
func (e *Engine) TransitionStatus(ctx context.Context, orderID string, to domain.OrderStatus, estimatedMinutes *int) error {
	if estimatedMinutes != nil && *estimatedMinutes < 0 {
		return apierr.New(apierr.ValidationFailed, "estimatedMinutes must not be negative")
	}

	return dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, e.DB, func(ctx context.Context, tx *sql.Tx) error {
			order, err := storage.GetOrderForUpdateTx(ctx, tx, orderID)
			if err != nil {
				return err
			}
			if order == nil {
				return apierr.New(apierr.NotFound, "order not found")
			}

			allowed := allowedTransitions[order.Status]
			if !allowed[to] {
				return apierr.New(apierr.IllegalTransition, fmt.Sprintf("cannot transition from %s to %s", order.Status, to))
			}

			if err := storage.UpdateOrderStatusTx(ctx, tx, orderID, to); err != nil {
				return err
			}

			_, err = eventbus.Append(ctx, tx, orderID, eventbus.OrderStatusChanged, map[string]any{
				"orderId": orderID,
				"from":    string(order.Status),
				"to":      string(to),
			})
			return err
		})
	})
}

// RefundIssuer is implemented by internal/payments.Broker; kept as an interface here to
// avoid an import cycle between ordering and payments (both depend on storage, neither
// on the other).
type RefundIssuer interface {
	RefundFullWithinTx(ctx context.Context, tx *sql.Tx, orderID, reason string) error
}

// Cancel implements spec §4.4's two-phase cancel: if refund=true and a Completed payment
// exists, the refund must succeed before the order is marked Cancelled, all within one
// transaction (§4.4: "if refund fails the cancel is rejected with RefundFailed").
func (e *Engine) Cancel(ctx context.Context, orderID, reason string, refund bool, refunder RefundIssuer) error {
	if reason == "" {
		return apierr.New(apierr.ValidationFailed, "cancellation reason is required")
	}

	return dbtx.RetrySerializable(ctx, func() error {
		return dbtx.WithTx(ctx, e.DB, func(ctx context.Context, tx *sql.Tx) error {
			order, err := storage.GetOrderForUpdateTx(ctx, tx, orderID)
			if err != nil {
				return err
			}
			if order == nil {
				return apierr.New(apierr.NotFound, "order not found")
			}
			if order.Status == domain.OrderCompleted || order.Status == domain.OrderCancelled {
				return apierr.New(apierr.IllegalTransition, "order is already terminal")
			}

			if refund {
				payment, err := storage.GetPaymentByOrderIDTx(ctx, tx, orderID)
				if err != nil {
					return err
				}
				if payment != nil && payment.Status == domain.PaymentCompleted {
					if err := refunder.RefundFullWithinTx(ctx, tx, orderID, reason); err != nil {
						return apierr.Wrap(apierr.RefundFailed, "refund failed during cancellation", err)
					}
				}
			}

			if err := storage.UpdateOrderStatusTx(ctx, tx, orderID, domain.OrderCancelled); err != nil {
				return err
			}

			_, err = eventbus.Append(ctx, tx, orderID, eventbus.OrderCancelled, map[string]any{
				"orderId": orderID,
				"reason":  reason,
			})
			return err
		})
	})
}

type BulkStatusResult struct {
	OrderID string
	Error   error
}

// BulkTransition processes each order in its own transaction per spec §4.4: "partial
// failure is reported per-id without affecting others."
func (e *Engine) BulkTransition(ctx context.Context, orderIDs []string, to domain.OrderStatus) []BulkStatusResult {
	results := make([]BulkStatusResult, 0, len(orderIDs))
	for _, id := range orderIDs {
		err := e.TransitionStatus(ctx, id, to, nil)
		results = append(results, BulkStatusResult{OrderID: id, Error: err})
	}
	return results
}

func (e *Engine) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	repo := storage.NewPostgresRepository(e.DB)
	order, err := repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apierr.New(apierr.NotFound, "order not found")
	}
	return order, nil
}
