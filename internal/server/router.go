package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"phonestore/internal/auth"
	"phonestore/internal/brand"
	"phonestore/internal/domain"
	ordercontroller "phonestore/internal/order/controller"
	"phonestore/internal/phone"
	"phonestore/internal/user"
)

type Controllers struct {
	Brands     *brand.Controller
	Phones     *phone.Controller
	Users      *user.Controller
	Orders     *ordercontroller.OrderController
	OrderItems *ordercontroller.OrderItemController
}

// NewRouter mounts the API. Catalog reads and account creation are public,
// order operations need a customer account, everything else needs admin.
func NewRouter(c Controllers, tokens *auth.Manager, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(auth.Verifier(tokens, logger))

	admin := auth.Require(logger, domain.UserTypeAdmin)
	customer := auth.Require(logger, domain.UserTypeCustomer, domain.UserTypeAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/brands", c.Brands.GetAll)
		r.Get("/brands/{brandID}", c.Brands.GetByID)
		r.Get("/brands/name/{brandName}", c.Brands.GetByName)
		r.Get("/brands/{brandID}/phones", c.Brands.GetPhones)
		r.Get("/phones", c.Phones.GetAll)
		r.Get("/phones/{phoneID}", c.Phones.GetByID)
		r.Post("/users/login", c.Users.Login)
		r.Post("/users/register", c.Users.Register)

		r.Group(func(r chi.Router) {
			r.Use(admin)

			r.Post("/brands", c.Brands.Create)
			r.Put("/brands/{brandID}", c.Brands.Update)
			r.Delete("/brands/{brandID}", c.Brands.Delete)

			r.Post("/phones", c.Phones.Create)
			r.Put("/phones/{phoneID}", c.Phones.Update)
			r.Delete("/phones/{phoneID}", c.Phones.Delete)

			r.Get("/users", c.Users.GetAll)
			r.Get("/users/{username}", c.Users.GetByUsername)
			r.Post("/users", c.Users.Create)
			r.Put("/users/{username}", c.Users.Update)
			r.Delete("/users/{username}", c.Users.Delete)

			r.Get("/orders", c.Orders.GetAll)
		})

		r.Group(func(r chi.Router) {
			r.Use(customer)

			r.Get("/users/@self/orders", c.Users.SelfOrders)

			r.Post("/orders", c.Orders.Create)
			r.Get("/orders/{orderID}", c.Orders.GetByID)
			r.Put("/orders/{orderID}", c.Orders.UpdateStatus)
			r.Delete("/orders/{orderID}", c.Orders.Delete)

			r.Get("/orders/{orderID}/items", c.OrderItems.GetAll)
			r.Post("/orders/{orderID}/items", c.OrderItems.Create)
			r.Put("/orders/{orderID}/items/{itemID}", c.OrderItems.Update)
			r.Delete("/orders/{orderID}/items/{itemID}", c.OrderItems.Delete)
		})
	})

	return r
}
