package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/emporia/internal/config"
	"github.com/example/emporia/internal/events"
	"github.com/example/emporia/internal/handlers"
	"github.com/example/emporia/internal/middleware"
	"github.com/example/emporia/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, gateway services.Gateway, producer *events.Producer) {
	authHandler := handlers.NewAuthHandler(db, cfg, producer)
	profileHandler := handlers.NewProfileHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	productHandler := handlers.NewProductHandler(db, producer)
	orderHandler := handlers.NewOrderHandler(db, producer)
	paymentHandler := handlers.NewPaymentHandler(db, gateway, producer)

	signedIn := middleware.RequireSignIn(cfg)
	admin := middleware.IsAdmin(db)

	api := app.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Put("/profile", signedIn, profileHandler.UpdateProfile)
	auth.Get("/test", signedIn, admin, authHandler.Test)
	auth.Get("/user-auth", signedIn, authHandler.Check)
	auth.Get("/admin-auth", signedIn, admin, authHandler.Check)

	// Orders
	auth.Get("/orders", signedIn, orderHandler.GetOrders)
	auth.Get("/all-orders", signedIn, admin, orderHandler.GetAllOrders)
	auth.Put("/order-status/:orderId", signedIn, admin, orderHandler.OrderStatus)

	// Categories
	category := api.Group("/category")
	category.Post("/create-category", signedIn, admin, categoryHandler.Create)
	category.Put("/update-category/:id", signedIn, admin, categoryHandler.Update)
	category.Delete("/delete-category/:id", signedIn, admin, categoryHandler.Delete)
	category.Get("/get-category", categoryHandler.List)
	category.Get("/single-category/:slug", categoryHandler.Get)

	// Products
	product := api.Group("/product")
	product.Post("/create-product", signedIn, admin, productHandler.Create)
	product.Put("/update-product/:pid", signedIn, admin, productHandler.Update)
	product.Delete("/delete-product/:pid", signedIn, admin, productHandler.Delete)
	product.Get("/get-product", productHandler.List)
	product.Get("/get-product/:slug", productHandler.Get)
	product.Get("/product-photo/:pid", productHandler.Photo)
	product.Post("/product-filters", productHandler.Filters)
	product.Get("/product-count", productHandler.Count)
	product.Get("/product-list/:page", productHandler.ListPage)
	product.Get("/search/:keyword", productHandler.Search)
	product.Get("/related-product/:pid/:cid", productHandler.Related)
	product.Get("/product-category/:slug", productHandler.CategoryProducts)

	// Payments
	product.Get("/braintree/token", signedIn, paymentHandler.Token)
	product.Post("/braintree/payment", signedIn, paymentHandler.Payment)
}
