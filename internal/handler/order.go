package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/abdougarali/Perfume-Order-Store/internal/order"
)

// OrderHandler serves the public order submission endpoint. This is the one
// order operation that does not require an admin session.
type OrderHandler struct {
	svc      order.Service
	validate *validator.Validate
}

func NewOrderHandler(svc order.Service) *OrderHandler {
	return &OrderHandler{
		svc:      svc,
		validate: validator.New(),
	}
}

type createOrderRequest struct {
	CustomerName    string               `json:"customerName" validate:"required"`
	CustomerPhone   string               `json:"customerPhone" validate:"required"`
	CustomerAddress string               `json:"customerAddress" validate:"required"`
	Products        []order.OrderProduct `json:"products" validate:"required,min=1"`
	Notes           string               `json:"notes,omitempty"`
}

// CreateOrder accepts a checkout payload with the product snapshots supplied
// by the client. The service recomputes the total; a client-supplied total
// is never trusted.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "incomplete data, please enter name, phone number, and address")
		return
	}

	ord, err := h.svc.Submit(r.Context(), order.SubmitInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Notes:           req.Notes,
		Items:           req.Products,
	})
	if err != nil {
		mapOrderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"orderId": ord.ID.String(),
		"message": "Your order has been submitted successfully! We will contact you soon.",
	})
}
