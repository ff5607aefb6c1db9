package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/abdougarali/Perfume-Order-Store/internal/admin"
	"github.com/abdougarali/Perfume-Order-Store/internal/order"
)

const adminCookieName = "admin_session"

// AdminHandler serves the password-gated order management API.
type AdminHandler struct {
	auth *admin.Auth
	svc  order.Service
}

func NewAdminHandler(auth *admin.Auth, svc order.Service) *AdminHandler {
	return &AdminHandler{auth: auth, svc: svc}
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "password is required")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidPassword):
			respondWithError(w, http.StatusUnauthorized, "incorrect password")
		case errors.Is(err, admin.ErrNotConfigured):
			respondWithError(w, http.StatusInternalServerError, "server configuration error")
		default:
			log.Error().Err(err).Msg("handler: admin login failed")
			respondWithError(w, http.StatusInternalServerError, "an error occurred during login")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.SessionTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
	})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(adminCookieName); err == nil {
		token = c.Value
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		log.Error().Err(err).Msg("handler: admin logout failed")
		respondWithError(w, http.StatusInternalServerError, "an error occurred during logout")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logout successful",
	})
}

type paginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ListOrders returns one page of orders, newest first, optionally filtered
// by status. An unrecognized status value is ignored, matching the public
// listing contract.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *order.Status
	if s := order.Status(q.Get("status")); s.Valid() {
		status = &s
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = order.DefaultPageSize
	}
	if limit > order.MaxPageSize {
		limit = order.MaxPageSize
	}

	orders, total, err := h.svc.List(r.Context(), status, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to list orders")
		respondWithError(w, http.StatusInternalServerError, "an error occurred while fetching orders")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
		"pagination": paginationResponse{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetOrder returns one order with its full product snapshot.
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		mapOrderError(w, errInvalidOrderID)
		return
	}

	ord, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ord)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderSummaryResponse struct {
	ID            string       `json:"id"`
	CustomerName  string       `json:"customerName"`
	CustomerPhone string       `json:"customerPhone"`
	Status        order.Status `json:"status"`
	TotalPrice    int64        `json:"totalPrice"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// UpdateOrderStatus applies a lifecycle transition to one order.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		mapOrderError(w, errInvalidOrderID)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	newStatus := order.Status(req.Status)
	if !newStatus.Valid() {
		respondWithError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	ord, err := h.svc.UpdateStatus(r.Context(), id, newStatus)
	if err != nil {
		mapOrderError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order": orderSummaryResponse{
			ID:            ord.ID.String(),
			CustomerName:  ord.CustomerName,
			CustomerPhone: ord.CustomerPhone,
			Status:        ord.Status,
			TotalPrice:    ord.TotalPrice,
			CreatedAt:     ord.CreatedAt,
			UpdatedAt:     ord.UpdatedAt,
		},
		"message": "Order status updated successfully",
	})
}
