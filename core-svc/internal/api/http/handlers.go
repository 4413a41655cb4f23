package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/foodcourt-platform/core-svc/internal/domain"
	"github.com/foodcourt-platform/core-svc/internal/ordering"
	"github.com/foodcourt-platform/core-svc/internal/payments"
	"github.com/foodcourt-platform/core-svc/internal/storage"
	"github.com/foodcourt-platform/core-svc/internal/workforce"
	"github.com/foodcourt-platform/platform/apierr"
	"github.com/foodcourt-platform/platform/httpmw"
	"github.com/foodcourt-platform/platform/identity"
)

type Handler struct {
	Oracle        *identity.Oracle
	Orders        *ordering.Engine
	Payments      *payments.Broker
	Workforce     *workforce.Ledger
	Repo          *storage.PostgresRepository
	PublicBaseURL string
}

func NewHandler(oracle *identity.Oracle, orders *ordering.Engine, broker *payments.Broker, ledger *workforce.Ledger, repo *storage.PostgresRepository, publicBaseURL string) *Handler {
	return &Handler{
		Oracle:        oracle,
		Orders:        orders,
		Payments:      broker,
		Workforce:     ledger,
		Repo:          repo,
		PublicBaseURL: publicBaseURL,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", httpmw.Health("core-svc")).Methods("GET")

	r.HandleFunc("/api/auth/session", h.authSession).Methods("POST")

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(RequireAuth(h.Oracle))

	protected.HandleFunc("/orders", h.createOrder).Methods("POST")
	protected.HandleFunc("/orders/{id}", h.getOrder).Methods("GET")
	protected.HandleFunc("/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
	protected.HandleFunc("/orders/{id}/status", h.transitionOrderStatus).Methods("PATCH")
	protected.HandleFunc("/orders/{id}/cancel", h.cancelOrder).Methods("POST")
	protected.HandleFunc("/orders/bulk/status", h.bulkTransition).Methods("POST")

	protected.HandleFunc("/payments", h.createPayment).Methods("POST")
	protected.HandleFunc("/payments/cash", h.createCashPayment).Methods("POST")
	protected.HandleFunc("/payments/terminal", h.createTerminalPayment).Methods("POST")
	protected.HandleFunc("/payments/{id}/refund", h.refundPayment).Methods("POST")

	protected.HandleFunc("/employees/invites", h.createInvite).Methods("POST")
	protected.HandleFunc("/employees/invites/consume", h.consumeInvite).Methods("POST")
	protected.HandleFunc("/employees/clock-in", h.clockIn).Methods("POST")
	protected.HandleFunc("/employees/clock-out", h.clockOut).Methods("POST")
	protected.HandleFunc("/employees/{id}/payroll", h.payrollRollup).Methods("GET")

	// Webhooks are unauthenticated at the transport layer; the provider's own signature
	// check inside Payments.HandleWebhook is the real gate (spec §6).
	r.HandleFunc("/api/payments/webhooks/{provider}", h.paymentWebhook).Methods("POST")
}

type sessionRequest struct {
	InitData string `json:"initData"`
}

func (h *Handler) authSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	principal, err := h.Oracle.ResolveOrBootstrap(r.Context(), req.InitData)
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{
		"accessToken": req.InitData,
		"principal":   principal,
	})
}

type itemRequest struct {
	ProductID           string  `json:"productId"`
	VariantLabel        *string `json:"variantLabel"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"specialInstructions"`
}

type createOrderRequest struct {
	RestaurantID        string        `json:"restaurantId"`
	TableID             *string       `json:"tableId"`
	CustomerName        string        `json:"customerName"`
	CustomerPhone       string        `json:"customerPhone"`
	DeliveryType        string        `json:"deliveryType"`
	SpecialInstructions *string       `json:"specialInstructions"`
	Items               []itemRequest `json:"items"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	// Order creation itself has no dedicated matrix row (spec §4.1 lists verbs on an
	// existing order); any authenticated principal may place one, scoped implicitly by
	// whatever customerPrincipalId gets attached below.
	items := make([]ordering.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ordering.ItemInput{
			ProductID:           it.ProductID,
			VariantLabel:        it.VariantLabel,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		})
	}

	var customerPrincipalID *string
	if principal.Role == identity.Customer {
		id := principal.ID
		customerPrincipalID = &id
	}

	order, err := h.Orders.CreateOrder(r.Context(), ordering.CreateOrderInput{
		RestaurantID:        req.RestaurantID,
		TableID:             req.TableID,
		CustomerPrincipalID: customerPrincipalID,
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		DeliveryType:        domain.DeliveryType(req.DeliveryType),
		SpecialInstructions: req.SpecialInstructions,
		Items:               items,
	})
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	id := mux.Vars(r)["id"]

	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	res := identity.Resource{RestaurantID: order.RestaurantID, OrderID: order.ID}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbReadOrder, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, order)
}

// getOrderQRCode serves a pickup QR code encoding the order's lookup URL, adapted from
// dish-svc's QRGenerator (there it pointed at a review page; here at pickup status).
func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	id := mux.Vars(r)["id"]

	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	res := identity.Resource{RestaurantID: order.RestaurantID, OrderID: order.ID}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbReadOrder, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	png, err := qrcode.Encode(h.PublicBaseURL+"/orders/"+order.ID+"/pickup", qrcode.Medium, 256)
	if err != nil {
		httpmw.WriteError(w, apierr.Wrap(apierr.Internal, "failed to render qr code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type transitionRequest struct {
	Status           string `json:"status"`
	EstimatedMinutes *int   `json:"estimatedMinutes"`
}

func (h *Handler) transitionOrderStatus(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	id := mux.Vars(r)["id"]

	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	res := identity.Resource{RestaurantID: order.RestaurantID}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbTransitionOrderStatus, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	if err := h.Orders.TransitionStatus(r.Context(), id, domain.OrderStatus(req.Status), req.EstimatedMinutes); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{"orderId": id, "status": req.Status})
}

type cancelRequest struct {
	Reason string `json:"reason"`
	Refund bool   `json:"refund"`
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	id := mux.Vars(r)["id"]

	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	res := identity.Resource{RestaurantID: order.RestaurantID, OrderID: order.ID, OrderStatus: string(order.Status)}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbCancelOrder, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	if err := h.Orders.Cancel(r.Context(), id, req.Reason, req.Refund, h.Payments); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{"orderId": id, "status": "Cancelled"})
}

type bulkStatusRequest struct {
	OrderIDs []string `json:"orderIds"`
	Status   string   `json:"status"`
}

func (h *Handler) bulkTransition(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	type itemResult struct {
		OrderID string `json:"orderId"`
		OK      bool   `json:"ok"`
		Error   string `json:"error,omitempty"`
	}
	out := make([]itemResult, 0, len(req.OrderIDs))

	// Authorize per order before handing it to BulkTransition: a bulk request must not let a
	// principal transition orders individual transitionOrderStatus would have rejected.
	authorized := make([]string, 0, len(req.OrderIDs))
	for _, id := range req.OrderIDs {
		order, err := h.Orders.GetOrder(r.Context(), id)
		if err != nil {
			out = append(out, itemResult{OrderID: id, OK: false, Error: err.Error()})
			continue
		}
		res := identity.Resource{RestaurantID: order.RestaurantID}
		if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbTransitionOrderStatus, res); err != nil {
			out = append(out, itemResult{OrderID: id, OK: false, Error: err.Error()})
			continue
		}
		authorized = append(authorized, id)
	}

	results := h.Orders.BulkTransition(r.Context(), authorized, domain.OrderStatus(req.Status))
	for _, res := range results {
		ir := itemResult{OrderID: res.OrderID, OK: res.Error == nil}
		if res.Error != nil {
			ir.Error = res.Error.Error()
		}
		out = append(out, ir)
	}

	httpmw.WriteJSON(w, http.StatusOK, out)
}

type createPaymentRequest struct {
	OrderID     string `json:"orderId"`
	Method      string `json:"method"`
	AmountMinor int64  `json:"amountMinor"`
	Currency    string `json:"currency"`
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	res := identity.Resource{OrderID: req.OrderID}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbCreatePayment, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	payment, err := h.Payments.CreatePayment(r.Context(), payments.CreatePaymentInput{
		OrderID:     req.OrderID,
		Method:      domain.PaymentMethod(req.Method),
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
	})
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusCreated, payment)
}

type cashPaymentRequest struct {
	OrderID             string `json:"orderId"`
	AmountMinor         int64  `json:"amountMinor"`
	Currency            string `json:"currency"`
	AmountReceivedMinor *int64 `json:"amountReceivedMinor"`
	ChangeGivenMinor    *int64 `json:"changeGivenMinor"`
}

func (h *Handler) createCashPayment(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	var req cashPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	res := identity.Resource{OrderID: req.OrderID}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbProcessCashOrTerminal, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	payment, err := h.Payments.CreatePayment(r.Context(), payments.CreatePaymentInput{
		OrderID:              req.OrderID,
		Method:               domain.Cash,
		AmountMinor:          req.AmountMinor,
		Currency:             req.Currency,
		AmountReceivedMinor:  req.AmountReceivedMinor,
		ChangeGivenMinor:     req.ChangeGivenMinor,
		ProcessedByPrincipal: &principal.ID,
	})
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusCreated, payment)
}

type terminalPaymentRequest struct {
	OrderID      string  `json:"orderId"`
	AmountMinor  int64   `json:"amountMinor"`
	Currency     string  `json:"currency"`
	TerminalTxID *string `json:"terminalTxId"`
	TerminalID   *string `json:"terminalId"`
	CardLast4    *string `json:"cardLast4"`
	CardBrand    *string `json:"cardBrand"`
}

func (h *Handler) createTerminalPayment(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	var req terminalPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	res := identity.Resource{OrderID: req.OrderID}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbProcessCashOrTerminal, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	payment, err := h.Payments.CreatePayment(r.Context(), payments.CreatePaymentInput{
		OrderID:      req.OrderID,
		Method:       domain.Terminal,
		AmountMinor:  req.AmountMinor,
		Currency:     req.Currency,
		TerminalTxID: req.TerminalTxID,
		TerminalID:   req.TerminalID,
		CardLast4:    req.CardLast4,
		CardBrand:    req.CardBrand,
	})
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusCreated, payment)
}

type refundRequest struct {
	AmountMinor int64  `json:"amountMinor"`
	Reason      string `json:"reason"`
}

func (h *Handler) refundPayment(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	id := mux.Vars(r)["id"]

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	payment, err := h.Repo.GetPaymentByID(r.Context(), id)
	if err != nil || payment == nil {
		httpmw.WriteError(w, apierr.New(apierr.NotFound, "payment not found"))
		return
	}
	order, err := h.Repo.GetOrder(r.Context(), payment.OrderID)
	if err != nil || order == nil {
		httpmw.WriteError(w, apierr.New(apierr.NotFound, "order not found"))
		return
	}

	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbRefundPayment, identity.Resource{RestaurantID: order.RestaurantID}); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	if err := h.Payments.Refund(r.Context(), payments.RefundInput{
		PaymentID:   id,
		AmountMinor: req.AmountMinor,
		Reason:      req.Reason,
	}); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{"paymentId": id, "status": "refunded"})
}

func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "unreadable request body"))
		return
	}

	headers := map[string]string{"X-Signature": r.Header.Get("X-Signature")}

	if err := h.Payments.HandleWebhook(r.Context(), provider, body, headers); err != nil {
		if apierr.Is(err, apierr.InvalidWebhookSignature) {
			httpmw.WriteError(w, err)
			return
		}
		// Every other failure (unknown provider, unknown provider reference, store error)
		// is reported with its own status. A duplicate delivery is not a failure:
		// HandleWebhook returns nil for it and the 200 below acknowledges it.
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{"received": true})
}

type createInviteRequest struct {
	RestaurantID    string  `json:"restaurantId"`
	GrantedRole     string  `json:"grantedRole"`
	HourlyWageMinor *int64  `json:"hourlyWageMinor"`
	ExpiresAt       string  `json:"expiresAt"`
	MaxUses         int     `json:"maxUses"`
}

func (h *Handler) createInvite(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	res := identity.Resource{RestaurantID: req.RestaurantID}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbCreateInviteToken, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "expiresAt must be RFC3339"))
		return
	}

	invite, err := h.Workforce.CreateInvite(r.Context(), workforce.CreateInviteInput{
		RestaurantID:         req.RestaurantID,
		GrantedRole:          domain.EmployeeRole(req.GrantedRole),
		HourlyWageMinor:      req.HourlyWageMinor,
		ExpiresAt:            expiresAt,
		MaxUses:              req.MaxUses,
		CreatedByPrincipalID: principal.ID,
	})
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusCreated, invite)
}

type consumeInviteRequest struct {
	Token string `json:"token"`
}

func (h *Handler) consumeInvite(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbConsumeInviteToken, identity.Resource{}); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	var req consumeInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	if err := h.Workforce.ConsumeInvite(r.Context(), req.Token, principal.ID); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{"consumed": true})
}

type clockRequest struct {
	EmployeeID         string `json:"employeeId"`
	RestaurantTimezone string `json:"restaurantTimezone"`
}

// employeePrincipalID returns the principal bound to employee, or "" if the employee row has
// none yet — that never equals a real principal ID, so Authorize correctly denies the clock
// action rather than vacuously allowing it.
func employeePrincipalID(employee *domain.Employee) string {
	if employee.PrincipalID == nil {
		return ""
	}
	return *employee.PrincipalID
}

func (h *Handler) clockIn(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	employee, err := h.Repo.GetEmployee(r.Context(), req.EmployeeID)
	if err != nil || employee == nil {
		httpmw.WriteError(w, apierr.New(apierr.NotFound, "employee not found"))
		return
	}

	res := identity.Resource{RestaurantID: employee.RestaurantID, EmployeePrincipalID: employeePrincipalID(employee)}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbClockInOut, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	shift, err := h.Workforce.ClockIn(r.Context(), req.EmployeeID, req.RestaurantTimezone)
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, shift)
}

func (h *Handler) clockOut(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpmw.WriteError(w, apierr.New(apierr.ValidationFailed, "malformed request body"))
		return
	}

	employee, err := h.Repo.GetEmployee(r.Context(), req.EmployeeID)
	if err != nil || employee == nil {
		httpmw.WriteError(w, apierr.New(apierr.NotFound, "employee not found"))
		return
	}

	res := identity.Resource{RestaurantID: employee.RestaurantID, EmployeePrincipalID: employeePrincipalID(employee)}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbClockInOut, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	shift, err := h.Workforce.ClockOut(r.Context(), req.EmployeeID, employee.HourlyWageMinor)
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, shift)
}

// payrollRollup is the supplemented payroll endpoint (not in the distilled spec's endpoint
// table; grounded on analytics-svc's rollup shape — see SPEC_FULL.md §4).
func (h *Handler) payrollRollup(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)
	employeeID := mux.Vars(r)["id"]

	employee, err := h.Repo.GetEmployee(r.Context(), employeeID)
	if err != nil || employee == nil {
		httpmw.WriteError(w, apierr.New(apierr.NotFound, "employee not found"))
		return
	}

	res := identity.Resource{RestaurantID: employee.RestaurantID}
	if err := h.Oracle.Authorize(r.Context(), *principal, identity.VerbManageEmployee, res); err != nil {
		httpmw.WriteError(w, err)
		return
	}

	period := r.URL.Query().Get("period")
	payMinor, err := h.Workforce.PayrollRollup(r.Context(), employeeID, period)
	if err != nil {
		httpmw.WriteError(w, err)
		return
	}

	httpmw.WriteJSON(w, http.StatusOK, map[string]any{
		"employeeId":    employeeID,
		"period":        period,
		"totalPayMinor": payMinor,
	})
}
