package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdougarali/Perfume-Order-Store/internal/admin"
	"github.com/abdougarali/Perfume-Order-Store/internal/order"
)

func testAuth() *admin.Auth {
	return admin.NewAuth("hunter2", "", 7*24*time.Hour, admin.NewMemorySessionStore())
}

func adminRouter(auth *admin.Auth, svc order.Service) *chi.Mux {
	h := NewAdminHandler(auth, svc)
	r := chi.NewRouter()
	r.Post("/api/admin/login", h.Login)
	r.Post("/api/admin/logout", h.Logout)
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin(auth))
		r.Get("/api/admin/orders", h.ListOrders)
		r.Get("/api/admin/orders/{id}", h.GetOrder)
		r.Patch("/api/admin/orders/{id}", h.UpdateOrderStatus)
	})
	return r
}

func loginCookie(t *testing.T, r *chi.Mux) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"hunter2"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_session" {
			return c
		}
	}
	t.Fatal("admin_session cookie not set")
	return nil
}

func TestAdminHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "success", body: `{"password":"hunter2"}`, expectedStatus: http.StatusOK},
		{name: "wrong_password", body: `{"password":"letmein"}`, expectedStatus: http.StatusUnauthorized},
		{name: "missing_password", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "invalid_json", body: `{`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := adminRouter(testAuth(), &mockOrderService{})

			req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdminHandler_LoginNotConfigured(t *testing.T) {
	auth := admin.NewAuth("", "", 7*24*time.Hour, admin.NewMemorySessionStore())
	r := adminRouter(auth, &mockOrderService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewBufferString(`{"password":"anything"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "server configuration error")
}

func TestAdminHandler_ListOrdersRequiresSession(t *testing.T) {
	svc := &mockOrderService{
		listFunc: func(ctx context.Context, status *order.Status, page, pageSize int) ([]order.Order, int, error) {
			return []order.Order{}, 0, nil
		},
	}
	r := adminRouter(testAuth(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminHandler_ListOrders(t *testing.T) {
	var gotStatus *order.Status
	svc := &mockOrderService{
		listFunc: func(ctx context.Context, status *order.Status, page, pageSize int) ([]order.Order, int, error) {
			gotStatus = status
			return []order.Order{{Status: order.StatusNew}}, 9, nil
		},
	}
	r := adminRouter(testAuth(), svc)
	cookie := loginCookie(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=new&page=2&limit=4", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotStatus)
	assert.Equal(t, order.StatusNew, *gotStatus)

	var resp struct {
		Pagination struct {
			Total      int `json:"total"`
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 9, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 4, resp.Pagination.Limit)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

// an oversized limit is capped before the envelope is built, so the echoed
// limit and totalPages match the page size the repository was asked for
func TestAdminHandler_ListOrdersCapsLimit(t *testing.T) {
	var gotPageSize int
	svc := &mockOrderService{
		listFunc: func(ctx context.Context, status *order.Status, page, pageSize int) ([]order.Order, int, error) {
			gotPageSize = pageSize
			return []order.Order{}, 250, nil
		},
	}
	r := adminRouter(testAuth(), svc)
	cookie := loginCookie(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?limit=1000", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, order.MaxPageSize, gotPageSize)

	var resp struct {
		Pagination struct {
			Total      int `json:"total"`
			Limit      int `json:"limit"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, order.MaxPageSize, resp.Pagination.Limit)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

// an unknown status value is ignored rather than rejected
func TestAdminHandler_ListOrdersIgnoresUnknownStatus(t *testing.T) {
	var gotStatus *order.Status
	svc := &mockOrderService{
		listFunc: func(ctx context.Context, status *order.Status, page, pageSize int) ([]order.Order, int, error) {
			gotStatus = status
			return []order.Order{}, 0, nil
		},
	}
	r := adminRouter(testAuth(), svc)
	cookie := loginCookie(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=shipped", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, gotStatus)
}

func TestAdminHandler_GetOrder(t *testing.T) {
	orderID, _ := uuid.NewV4()

	tests := []struct {
		name           string
		id             string
		getByIDFunc    func(ctx context.Context, id uuid.UUID) (*order.Order, error)
		expectedStatus int
	}{
		{
			name: "success",
			id:   orderID.String(),
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*order.Order, error) {
				return &order.Order{ID: id, Status: order.StatusNew, CustomerName: "Jane Doe"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed_id",
			id:             "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "not_found",
			id:   orderID.String(),
			getByIDFunc: func(ctx context.Context, id uuid.UUID) (*order.Order, error) {
				return nil, order.ErrOrderNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{getByIDFunc: tt.getByIDFunc}
			r := adminRouter(testAuth(), svc)
			cookie := loginCookie(t, r)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders/"+tt.id, nil)
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdminHandler_UpdateOrderStatus(t *testing.T) {
	orderID, _ := uuid.NewV4()

	tests := []struct {
		name             string
		id               string
		body             string
		updateStatusFunc func(ctx context.Context, id uuid.UUID, newStatus order.Status) (*order.Order, error)
		expectedStatus   int
	}{
		{
			name: "success",
			id:   orderID.String(),
			body: `{"status":"confirmed"}`,
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.Status) (*order.Order, error) {
				return &order.Order{ID: id, Status: newStatus, CustomerName: "Jane Doe", TotalPrice: 120000}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed_id",
			id:             "not-a-uuid",
			body:           `{"status":"confirmed"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown_status_value",
			id:             orderID.String(),
			body:           `{"status":"shipped"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "not_found",
			id:   orderID.String(),
			body: `{"status":"confirmed"}`,
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.Status) (*order.Order, error) {
				return nil, order.ErrOrderNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "illegal_transition",
			id:   orderID.String(),
			body: `{"status":"new"}`,
			updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.Status) (*order.Order, error) {
				return nil, order.ErrInvalidStatusTransition
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockOrderService{updateStatusFunc: tt.updateStatusFunc}
			r := adminRouter(testAuth(), svc)
			cookie := loginCookie(t, r)

			req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+tt.id, bytes.NewBufferString(tt.body))
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdminHandler_UpdateOrderStatusRequiresSession(t *testing.T) {
	orderID, _ := uuid.NewV4()
	called := false
	svc := &mockOrderService{
		updateStatusFunc: func(ctx context.Context, id uuid.UUID, newStatus order.Status) (*order.Order, error) {
			called = true
			return nil, nil
		},
	}
	r := adminRouter(testAuth(), svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+orderID.String(), bytes.NewBufferString(`{"status":"delivered"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called, "service must not be reached without a session")
}

func TestAdminHandler_LogoutInvalidatesSession(t *testing.T) {
	svc := &mockOrderService{
		listFunc: func(ctx context.Context, status *order.Status, page, pageSize int) ([]order.Order, int, error) {
			return []order.Order{}, 0, nil
		},
	}
	r := adminRouter(testAuth(), svc)
	cookie := loginCookie(t, r)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
