package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/rl1809/order-fulfillment/internal/core/service"
)

type InventoryHTTPHandler struct {
	inventoryService *service.InventoryService
}

type InventoryHTTPResponse struct {
	SKUCode string `json:"skuCode"`
	InStock bool   `json:"inStock"`
}

type SetStockHTTPRequest struct {
	Quantity *int `json:"quantity"`
}

func NewInventoryHTTPHandler(inventoryService *service.InventoryService) *InventoryHTTPHandler {
	return &InventoryHTTPHandler{inventoryService: inventoryService}
}

func (h *InventoryHTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", HealthCheck)
	mux.HandleFunc("GET /api/inventory", h.CheckStock)
	mux.HandleFunc("PUT /api/inventory/{skuCode}", h.SetStock)
}

// CheckStock answers GET /api/inventory?skuCode=A&skuCode=B with one entry per distinct code.
func (h *InventoryHTTPHandler) CheckStock(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	availability, err := h.inventoryService.CheckStock(ctx, r.URL.Query()["skuCode"])
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Reason: ReasonInvalidRequest, Message: err.Error()})
			return
		}
		log.Error().Err(err).Msg("check stock failed")
		writeJSON(w, http.StatusInternalServerError, ErrorHTTPResponse{Reason: ReasonInternal})
		return
	}

	resp := make([]InventoryHTTPResponse, len(availability))
	for i, a := range availability {
		resp[i] = InventoryHTTPResponse{SKUCode: a.SKUCode, InStock: a.InStock}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *InventoryHTTPHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req SetStockHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{
			Reason:  ReasonInvalidRequest,
			Message: "body must be {\"quantity\": n}",
		})
		return
	}

	if err := h.inventoryService.SetStock(r.Context(), r.PathValue("skuCode"), *req.Quantity); err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{Reason: ReasonInvalidRequest, Message: err.Error()})
			return
		}
		log.Error().Err(err).Msg("set stock failed")
		writeJSON(w, http.StatusInternalServerError, ErrorHTTPResponse{Reason: ReasonInternal})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
