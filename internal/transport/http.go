package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abdougarali/Perfume-Order-Store/internal/admin"
	"github.com/abdougarali/Perfume-Order-Store/internal/cart"
	"github.com/abdougarali/Perfume-Order-Store/internal/catalog"
	"github.com/abdougarali/Perfume-Order-Store/internal/handler"
	"github.com/abdougarali/Perfume-Order-Store/internal/order"
)

// NewRouter wires every handler into the HTTP API.
func NewRouter(cat *catalog.Catalog, cartStorage cart.Storage, orderSvc order.Service, auth *admin.Auth) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	catalogHandler := handler.NewCatalogHandler(cat)
	cartHandler := handler.NewCartHandler(cartStorage, cat, orderSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	adminHandler := handler.NewAdminHandler(auth, orderSvc)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{lineId}", cartHandler.UpdateItem)
			r.Delete("/items/{lineId}", cartHandler.RemoveItem)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Post("/orders", orderHandler.CreateOrder)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)
			r.Post("/logout", adminHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(handler.RequireAdmin(auth))
				r.Get("/orders", adminHandler.ListOrders)
				r.Get("/orders/{id}", adminHandler.GetOrder)
				r.Patch("/orders/{id}", adminHandler.UpdateOrderStatus)
			})
		})
	})

	return r
}
