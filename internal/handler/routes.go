package handler

import "github.com/gofiber/fiber/v2"

type Handlers struct {
	Auth         *AuthHandler
	Users        *UserHandler
	Catalog      *CatalogHandler
	Transactions *TransactionHandler
	Reports      *ReportHandler
}

// RegisterAPI mounts the POS routes on api. loginGuard runs in front of the
// login handler only (rate limiting).
func RegisterAPI(api fiber.Router, h Handlers, loginGuard ...fiber.Handler) {
	api.Post("/login", append(loginGuard, h.Auth.Login)...)

	// stats routes go first so "stats" is not parsed as an id
	api.Get("/users", h.Users.GetUsers)
	api.Get("/users/stats", h.Reports.GetEmployeeStats)
	api.Get("/users/:id", h.Users.GetUser)
	api.Post("/users", h.Users.CreateUser)
	api.Put("/users/:id", h.Users.UpdateUser)
	api.Delete("/users/:id", h.Users.DeleteUser)

	api.Get("/categories", h.Catalog.GetCategories)

	api.Get("/products", h.Catalog.GetProducts)
	api.Get("/products/stats", h.Reports.GetProductStats)
	api.Get("/products/:id", h.Catalog.GetProduct)
	api.Post("/products", h.Catalog.CreateProduct)
	api.Put("/products/:id", h.Catalog.UpdateProduct)
	api.Delete("/products/:id", h.Catalog.DeleteProduct)

	api.Post("/transactions", h.Transactions.CreateTransaction)
	api.Get("/transactions", h.Transactions.GetTransactions)
	api.Get("/transactions/:id", h.Transactions.GetTransaction)

	api.Get("/dashboard/stats", h.Reports.GetDashboardStats)
	api.Get("/dashboard/sales", h.Reports.GetDailySales)
}
