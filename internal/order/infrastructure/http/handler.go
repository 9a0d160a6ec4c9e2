package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	catalogapp "github.com/farmafacil/ordering/internal/catalog/application"
	catalogdomain "github.com/farmafacil/ordering/internal/catalog/domain"
	clientapp "github.com/farmafacil/ordering/internal/client/application"
	clientdomain "github.com/farmafacil/ordering/internal/client/domain"
	orderapp "github.com/farmafacil/ordering/internal/order/application"
	"github.com/farmafacil/ordering/internal/order/domain"
	payapp "github.com/farmafacil/ordering/internal/payment/application"
	paydomain "github.com/farmafacil/ordering/internal/payment/domain"
	"github.com/farmafacil/ordering/pkg/idempotency"
)

type Handler struct {
	log      *slog.Logger
	tracer   trace.Tracer
	orders   *orderapp.Service
	catalog  *catalogapp.Service
	clients  *clientapp.Service
	methods  payapp.MethodDirectory
	terminal *payapp.Terminal
	idem     idempotency.Store
}

func NewHandler(log *slog.Logger, orders *orderapp.Service, catalog *catalogapp.Service, clients *clientapp.Service, methods payapp.MethodDirectory, terminal *payapp.Terminal, idem idempotency.Store) *Handler {
	return &Handler{
		log:      log,
		tracer:   otel.Tracer("ordering-http"),
		orders:   orders,
		catalog:  catalog,
		clients:  clients,
		methods:  methods,
		terminal: terminal,
		idem:     idem,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/products", h.listProducts)
	r.Get("/products/search", h.searchProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Get("/payment-methods", h.listPaymentMethods)

	r.Post("/auth/login", h.login)
	r.Post("/auth/qr", h.loginWithQR)
	r.Post("/auth/logout", h.logout)

	r.Post("/checkout", h.checkout)
	r.Post("/kiosk/charge", h.kioskCharge)
	r.Get("/kiosk/terminal", h.terminalState)

	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)

	r.Get("/stats/searches", h.searchStats)

	return r
}

type checkoutReq struct {
	Items           []domain.LineItem    `json:"items"`
	Disposition     domain.PaymentStatus `json:"disposition"`
	PaymentMethodID string               `json:"payment_method_id,omitempty"`
	Phone           string               `json:"phone,omitempty"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Checkout")
	defer span.End()

	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key != "" {
		seen, err := h.idem.Seen(ctx, idempotency.Key("checkout", key))
		if err != nil {
			h.writeError(w, err)
			return
		}
		if seen {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": "duplicate checkout request"})
			return
		}
	}

	var (
		o   domain.Order
		err error
	)
	switch req.Disposition {
	case domain.PaymentPaid:
		o, err = h.orders.CheckoutCard(ctx, req.Items, req.PaymentMethodID, req.Phone)
	case domain.PaymentPending:
		o, err = h.orders.Place(ctx, req.Items, domain.PaymentPending, req.Phone)
	default:
		http.Error(w, "invalid disposition", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	// The key is consumed only by a created order. A declined or otherwise
	// failed attempt leaves it free for a retry.
	if key != "" {
		if err := h.idem.Mark(ctx, idempotency.Key("checkout", key)); err != nil {
			h.log.Error("idempotency mark failed", "order_id", o.ID, "err", err)
		}
	}
	h.writeJSON(w, http.StatusCreated, o)
}

type kioskChargeReq struct {
	Items []domain.LineItem `json:"items"`
}

// kioskCharge runs the in-person terminal flow: charge through the terminal
// state machine, then materialize the paid order for the printed ticket. No
// confirmation message is queued; the kiosk hands over a paper ticket.
func (h *Handler) kioskCharge(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "KioskCharge")
	defer span.End()

	var req kioskChargeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := domain.ValidateItems(req.Items); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.terminal.Charge(ctx, domain.Total(req.Items)); err != nil {
		h.writeError(w, err)
		return
	}
	o, err := h.orders.Place(ctx, req.Items, domain.PaymentPaid, "")
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) terminalState(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"state":      h.terminal.State(),
		"can_cancel": h.terminal.CanCancel(),
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "SearchProducts")
	defer span.End()

	products, err := h.catalog.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []catalogdomain.Product{}
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) listPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.methods.Methods(r.Context(), r.URL.Query().Get("payer"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, methods)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	sess, err := h.clients.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

type qrLoginReq struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (h *Handler) loginWithQR(w http.ResponseWriter, r *http.Request) {
	var req qrLoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	sess, err := h.clients.LoginWithQR(r.Context(), req.Phone, req.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

type logoutReq struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req logoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.clients.Logout(r.Context(), req.SessionID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) searchStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"top":       h.catalog.TopSearches(10),
		"not_found": h.catalog.NotFoundSearches(5),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("response encode failed", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidLineItem),
		errors.Is(err, paydomain.ErrInvalidAmount),
		errors.Is(err, paydomain.ErrMissingPaymentMethod):
		status = http.StatusBadRequest
	case errors.Is(err, clientdomain.ErrInvalidCredentials),
		errors.Is(err, clientdomain.ErrInvalidCode),
		errors.Is(err, clientdomain.ErrSessionNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, orderapp.ErrPaymentRejected),
		errors.Is(err, paydomain.ErrDeclined):
		status = http.StatusPaymentRequired
	case errors.Is(err, paydomain.ErrInvalidState),
		errors.Is(err, paydomain.ErrAlreadySettled),
		errors.Is(err, orderapp.ErrStockUnavailable):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound):
		status = http.StatusNotFound
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
