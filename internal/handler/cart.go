package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/abdougarali/Perfume-Order-Store/internal/cart"
	"github.com/abdougarali/Perfume-Order-Store/internal/catalog"
	"github.com/abdougarali/Perfume-Order-Store/internal/order"
)

const (
	cartCookieName = "cart_id"
	cartCookieAge  = 30 * 24 * time.Hour
)

// CartHandler serves the session cart. The cart id travels in a cookie; the
// cart contents live in the injected storage backend.
type CartHandler struct {
	storage  cart.Storage
	catalog  *catalog.Catalog
	orders   order.Service
	validate *validator.Validate
}

func NewCartHandler(storage cart.Storage, c *catalog.Catalog, orders order.Service) *CartHandler {
	return &CartHandler{
		storage:  storage,
		catalog:  c,
		orders:   orders,
		validate: validator.New(),
	}
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Volume    string `json:"volume,omitempty"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items      []cart.LineItem `json:"items"`
	TotalPrice int64           `json:"totalPrice"`
	TotalItems int             `json:"totalItems"`
}

// cartStore resolves the cart id cookie (issuing one when absent) and
// rehydrates the store for it.
func (h *CartHandler) cartStore(w http.ResponseWriter, r *http.Request) (*cart.Store, error) {
	var cartID string
	if c, err := r.Cookie(cartCookieName); err == nil && c.Value != "" {
		cartID = c.Value
	} else {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		cartID = id.String()
		http.SetCookie(w, &http.Cookie{
			Name:     cartCookieName,
			Value:    cartID,
			Path:     "/",
			MaxAge:   int(cartCookieAge.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return cart.NewStore(r.Context(), h.storage, cartID), nil
}

func (h *CartHandler) respondCart(w http.ResponseWriter, s *cart.Store) {
	respondWithJSON(w, http.StatusOK, cartResponse{
		Items:      s.Items(),
		TotalPrice: s.TotalPrice(),
		TotalItems: s.TotalItems(),
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, err := h.cartStore(w, r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "an error occurred, please try again")
		return
	}
	h.respondCart(w, s)
}

// AddItem resolves the product from the catalog and snapshots its fields
// into the cart. The price is volume-adjusted server-side; the client never
// supplies a price.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "productId is required")
		return
	}

	product, ok := h.catalog.Product(req.ProductID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	// the volume must be one of the product's listed volumes; it is never
	// taken on faith, since it scales the price snapshot
	volume := req.Volume
	if len(product.Volumes) > 0 {
		if volume == "" {
			volume = product.Volumes[0]
		} else if !product.HasVolume(volume) {
			respondWithError(w, http.StatusBadRequest, "unknown volume for this product")
			return
		}
	} else if volume != "" {
		respondWithError(w, http.StatusBadRequest, "unknown volume for this product")
		return
	}

	s, err := h.cartStore(w, r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "an error occurred, please try again")
		return
	}

	s.Add(r.Context(), cart.Selection{
		ProductID:      product.ID,
		Name:           product.Name,
		Category:       product.Category,
		Volume:         volume,
		FragranceNotes: product.FragranceNotes,
		Price:          catalog.VolumePrice(volume, product.Price),
		Image:          product.Image,
	})

	h.respondCart(w, s)
}

// UpdateItem changes a line's quantity. A quantity below one removes the
// line; the store itself never keeps a zero-quantity entry.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineId")
	if lineID == "" {
		respondWithError(w, http.StatusBadRequest, "line id is required")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.cartStore(w, r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "an error occurred, please try again")
		return
	}

	if req.Quantity < 1 {
		s.Remove(r.Context(), lineID)
		h.respondCart(w, s)
		return
	}

	if !s.Update(r.Context(), lineID, cart.Patch{Quantity: &req.Quantity}) {
		respondWithError(w, http.StatusNotFound, "cart item not found")
		return
	}

	h.respondCart(w, s)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineId")
	if lineID == "" {
		respondWithError(w, http.StatusBadRequest, "line id is required")
		return
	}

	s, err := h.cartStore(w, r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "an error occurred, please try again")
		return
	}

	s.Remove(r.Context(), lineID)
	h.respondCart(w, s)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, err := h.cartStore(w, r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "an error occurred, please try again")
		return
	}

	s.Clear(r.Context())
	h.respondCart(w, s)
}

type checkoutRequest struct {
	CustomerName    string `json:"customerName" validate:"required"`
	CustomerPhone   string `json:"customerPhone" validate:"required"`
	CustomerAddress string `json:"customerAddress" validate:"required"`
	Notes           string `json:"notes,omitempty"`
}

// Checkout submits the session cart as an order and clears the cart on
// success.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "please enter name, phone number, and address")
		return
	}

	s, err := h.cartStore(w, r)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "an error occurred, please try again")
		return
	}

	items := s.Items()
	products := make([]order.OrderProduct, len(items))
	for i, item := range items {
		products[i] = order.OrderProduct{
			ID:             item.ProductID,
			Name:           item.Name,
			Category:       item.Category,
			Volume:         item.Volume,
			FragranceNotes: item.FragranceNotes,
			Price:          item.Price,
			Image:          item.Image,
			Quantity:       item.Quantity,
		}
	}

	ord, err := h.orders.Submit(r.Context(), order.SubmitInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Notes:           req.Notes,
		Items:           products,
	})
	if err != nil {
		mapOrderError(w, err)
		return
	}

	s.Clear(r.Context())

	log.Info().Stringer("order_id", ord.ID).Msg("handler: checkout completed, cart cleared")

	respondWithJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"orderId": ord.ID.String(),
		"message": "Your order has been submitted successfully! We will contact you soon.",
	})
}
