package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/rl1809/order-fulfillment/internal/core/domain"
	"github.com/rl1809/order-fulfillment/internal/core/service"
)

const idempotencyHeader = "Idempotency-Key"

type HTTPHandler struct {
	orderService *service.OrderService
}

type LineItemHTTP struct {
	SKUCode   string          `json:"skuCode"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

type PlaceOrderHTTPRequest struct {
	RequestID string         `json:"request_id,omitempty"`
	Items     []LineItemHTTP `json:"items"`
	// OrderItemsDtoList is accepted for clients of the earlier API.
	OrderItemsDtoList []LineItemHTTP `json:"orderItemsDtoList,omitempty"`
}

type PlaceOrderHTTPResponse struct {
	OrderNumber string `json:"orderNumber"`
}

type OrderHTTPResponse struct {
	OrderNumber string         `json:"orderNumber"`
	LineItems   []LineItemHTTP `json:"lineItems"`
}

type ErrorHTTPResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message,omitempty"`
}

func NewHTTPHandler(orderService *service.OrderService) *HTTPHandler {
	return &HTTPHandler{orderService: orderService}
}

func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", HealthCheck)
	mux.HandleFunc("POST /api/order", h.PlaceOrder)
	mux.HandleFunc("GET /api/order/{orderNumber}", h.GetOrder)
}

func (h *HTTPHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{
			Reason:  ReasonInvalidRequest,
			Message: "invalid request body",
		})
		return
	}

	items := req.Items
	if len(items) == 0 {
		items = req.OrderItemsDtoList
	}
	requestID := r.Header.Get(idempotencyHeader)
	if requestID == "" {
		requestID = req.RequestID
	}

	order, err := h.orderService.PlaceOrder(r.Context(), requestID, toLineItemRequests(items))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PlaceOrderHTTPResponse{OrderNumber: order.OrderNumber})
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.GetOrder(r.Context(), r.PathValue("orderNumber"))
	if err != nil {
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderHTTPResponse(order))
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toLineItemRequests(items []LineItemHTTP) []service.LineItemRequest {
	out := make([]service.LineItemRequest, len(items))
	for i, it := range items {
		out[i] = service.LineItemRequest{
			SKUCode:   it.SKUCode,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	return out
}

func toOrderHTTPResponse(order *domain.Order) OrderHTTPResponse {
	resp := OrderHTTPResponse{
		OrderNumber: order.OrderNumber,
		LineItems:   make([]LineItemHTTP, len(order.LineItems)),
	}
	for i, it := range order.LineItems {
		resp.LineItems[i] = LineItemHTTP{
			SKUCode:   it.SKUCode,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}
	return resp
}

func writeFailure(w http.ResponseWriter, err error) {
	f := classify(err)
	if f.reason == ReasonInternal {
		log.Error().Err(err).Msg("unclassified error")
	}

	// Server-side failures do not leak storage or transport details.
	message := err.Error()
	if f.httpStatus >= http.StatusInternalServerError {
		message = http.StatusText(f.httpStatus)
	}
	writeJSON(w, f.httpStatus, ErrorHTTPResponse{
		Reason:  f.reason,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
