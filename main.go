package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/events"
	"marketplace/internal/handlers"
	"marketplace/internal/middleware"
	"marketplace/internal/redisx"
	"marketplace/internal/services"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("⚠️ product index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureSellerOrderIndexes(db); err != nil {
		log.Printf("⚠️ seller order index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("⚠️ cart index warning: %v", err)
	}
	if err := database.EnsureResellProductIndexes(db); err != nil {
		log.Printf("⚠️ resell product index warning: %v", err)
	}
	if err := database.EnsureNegotiatedProductIndexes(db); err != nil {
		log.Printf("⚠️ negotiated product index warning: %v", err)
	}

	rdb := redisx.New(config.AppEnv.RedisAddr)
	if rdb != nil {
		log.Println("Redis connected to:", config.AppEnv.RedisAddr)
	}

	publisher := events.NewPublisher(
		config.AppEnv.KafkaBrokers,
		config.AppEnv.EventTopic,
		config.AppEnv.ServiceName,
		256,
	)
	publisher.Start(context.Background())
	defer publisher.WaitClosed()

	catalog := services.NewProductCatalog(db)
	carts := services.NewCartStore(db, catalog)
	sellerOrders := services.NewSellerOrderService(db, catalog, publisher)
	orders := services.NewOrderService(db, carts, catalog, sellerOrders, rdb, publisher)
	reviews := services.NewReviewService(db, catalog)
	wishlists := services.NewWishlistService(db, catalog)
	resell := services.NewResellService(db, catalog)
	negotiations := services.NewNegotiationService(db, catalog)

	secret := config.AppEnv.JWTSecret
	userAuth := middleware.UserAuth(secret)
	sellerAuth := middleware.SellerAuth(secret)

	r := gin.Default()

	r.GET("/health", handlers.Health(db))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register(db))
		auth.POST("/login", handlers.Login(db, secret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
		auth.POST("/refresh", handlers.Refresh(db, secret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
		auth.POST("/logout", handlers.Logout(db))
		auth.GET("/me", userAuth, handlers.Me(db))
	}

	order := api.Group("/order")
	order.Use(userAuth)
	{
		order.POST("/from-cart", handlers.CreateOrderFromCart(orders))
		order.POST("/single-product", handlers.CreateOrderForSingleProduct(orders))
		order.GET("/user/:userId", handlers.GetUserOrders(orders))
		order.GET("/sellerOrders", handlers.GetSellerOrders(sellerOrders))
		order.GET("/:orderId", handlers.GetOrderByID(orders))
		order.PUT("/:orderId/items/:itemId/status", handlers.UpdateProductOrderStatus(orders))
		order.PATCH("/cancel", handlers.CancelOrder(orders))
	}

	seller := api.Group("/seller-orders")
	seller.Use(sellerAuth...)
	{
		seller.GET("", handlers.GetSellerOrders(sellerOrders))
		seller.GET("/stats", handlers.GetSellerOrderStats(sellerOrders))
		seller.GET("/sales-data", handlers.GetSellerSalesData(sellerOrders))
		seller.GET("/:sellerOrderId", handlers.GetSellerOrderByID(sellerOrders))
		seller.PUT("/:sellerOrderId/status", handlers.UpdateSellerOrderStatus(sellerOrders))
	}

	cart := api.Group("/cart")
	cart.Use(userAuth)
	{
		cart.GET("", handlers.GetCart(carts))
		cart.DELETE("", handlers.ClearCart(carts))
		cart.POST("/items", handlers.AddCartItem(carts))
		cart.PUT("/items/:productId", handlers.UpdateCartItem(carts))
		cart.DELETE("/items/:productId", handlers.RemoveCartItem(carts))
	}

	products := api.Group("/products")
	{
		products.POST("", append(sellerAuth, handlers.CreateProduct(catalog))...)
		products.GET("/mine", append(sellerAuth, handlers.GetSellerProducts(catalog))...)
		products.GET("/stock", append(sellerAuth, handlers.GetSellerStockLevels(catalog))...)
		products.PUT("/:productId/stock", append(sellerAuth, handlers.UpdateVariantStock(catalog))...)
		products.GET("/:productId", handlers.GetProductByID(catalog))
	}

	resellGroup := api.Group("/resell-products")
	resellGroup.Use(sellerAuth...)
	{
		resellGroup.POST("", handlers.CreateResellListing(resell))
		resellGroup.GET("", handlers.GetSellerResellListings(resell))
		resellGroup.PUT("/:resellProductId", handlers.UpdateResellListing(resell))
		resellGroup.DELETE("/:resellProductId", handlers.DeleteResellListing(resell))
	}

	negotiated := api.Group("/negotiated-products")
	{
		negotiated.POST("", append(sellerAuth, handlers.CreateNegotiation(negotiations))...)
		negotiated.GET("", append(sellerAuth, handlers.GetSellerNegotiations(negotiations))...)
		negotiated.GET("/:negotiationId", userAuth, handlers.GetNegotiation(negotiations))
		negotiated.DELETE("/:negotiationId", append(sellerAuth, handlers.DeleteNegotiation(negotiations))...)
	}

	review := api.Group("/reviews")
	{
		review.GET("/product/:productId", handlers.ListProductReviews(reviews))
		review.POST("", userAuth, handlers.CreateReview(reviews))
		review.PUT("/:reviewId", userAuth, handlers.UpdateReview(reviews))
		review.DELETE("/:reviewId", userAuth, handlers.DeleteReview(reviews))
		review.POST("/:reviewId/replies", append(sellerAuth, handlers.AddReviewReply(reviews))...)
	}

	wishlist := api.Group("/wishlist")
	wishlist.Use(userAuth)
	{
		wishlist.GET("", handlers.GetWishlist(wishlists))
		wishlist.DELETE("", handlers.ClearWishlist(wishlists))
		wishlist.POST("/items", handlers.AddToWishlist(wishlists))
		wishlist.DELETE("/items/:productId", handlers.RemoveFromWishlist(wishlists))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
