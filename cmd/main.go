package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "github.com/dailypizza/pizza-orders-api/docs" // Import generated docs
	"github.com/dailypizza/pizza-orders-api/internal/auth"
	"github.com/dailypizza/pizza-orders-api/internal/config"
	"github.com/dailypizza/pizza-orders-api/internal/controllers"
	"github.com/dailypizza/pizza-orders-api/internal/middleware"
	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/services"
	"github.com/dailypizza/pizza-orders-api/internal/store"
)

var (
	configuration *config.Config

	authService    *auth.AuthService
	oauthService   *auth.OAuthService
	catalogService *services.CatalogService
	cartService    *services.CartService
	orderService   *services.OrderService
	profileService *services.ProfileService

	authController          *controllers.AuthController
	pizzaController         controllers.PizzaController
	cartController          *controllers.CartController
	orderController         *controllers.OrderController
	profileController       *controllers.ProfileController
	customizationController *controllers.CustomizationController
)

// @title Daily Pizza Orders API
// @version 1.0
// @description State-synchronization backend for the Daily Pizza ordering client
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize the local store (accounts, oauth clients/tokens, durable cache)
	db := setupDatabase(configuration)

	// Connect to the remote document store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoDB, err := store.Connect(ctx, configuration.MongoURI, configuration.MongoDatabase)
	checkPanicErr(err)

	documents := store.NewMongoStore(mongoDB)
	localCache := store.NewLocalCache(db)

	// Identity provider and token endpoint
	authService = auth.NewAuthService(db, configuration.JWTSecret)
	oauthService = auth.NewOAuthService(db, configuration.JWTSecret)

	// State-synchronization services. Registration order fixes the order
	// handlers run on sign-in: cart, then orders, then profile.
	customizationService := services.NewCustomizationService()
	catalogService = services.NewCatalogService(documents)
	cartService = services.NewCartService(documents, localCache, customizationService, authService)
	orderService = services.NewOrderService(documents, localCache, cartService, authService)
	profileService = services.NewProfileService(documents, localCache, authService)

	catalogService.Load(ctx)

	authController = controllers.NewAuthController(authService)
	pizzaController = controllers.NewPizzaController(catalogService)
	cartController = controllers.NewCartController(cartService)
	orderController = controllers.NewOrderController(orderService)
	profileController = controllers.NewProfileController(profileService)
	customizationController = controllers.NewCustomizationController(customizationService)

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase opens the embedded sqlite store and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(conf.SQLitePath), &gorm.Config{})
	checkPanicErr(err)

	err = db.AutoMigrate(
		&models.Account{},
		&models.OAuthClient{},
		&models.OAuthToken{},
		&store.CacheEntry{},
	)
	checkPanicErr(err)
	return db
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	router := gin.Default()
	setupRoutes(router)
	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	v1 := router.Group("/api/v1")
	{
		publicApi := v1.Group("/public")
		{
			publicApi.GET("/pizzas", pizzaController.GetAllPizzas)
			publicApi.GET("/pizzas/:id", pizzaController.GetPizzaByID)

			publicApi.GET("/customization/toppings", customizationController.GetToppings)
			publicApi.GET("/customization/crusts", customizationController.GetCrusts)
			publicApi.GET("/customization/extras", customizationController.GetExtras)
			publicApi.POST("/customization/price", customizationController.PriceCustomization)

			publicApi.GET("/theme", profileController.GetTheme)
			publicApi.PUT("/theme", profileController.SetTheme)
			publicApi.POST("/feedback", profileController.SubmitFeedback)
		}

		authApi := v1.Group("/auth")
		{
			authApi.POST("/register", authController.Register)
			authApi.POST("/login", authController.Login)
			authApi.POST("/logout", authController.Logout)
		}

		// OAuth2 token endpoint for first-party and service clients
		v1.POST("/oauth/token", oauthService.HandleToken)

		// Protected routes: the token must be valid and must belong to the
		// active identity the services are synchronizing for.
		protectedApi := v1.Group("")
		protectedApi.Use(
			middleware.JWTAuth([]byte(configuration.JWTSecret)),
			middleware.RequireActiveIdentity(authService.Current),
		)
		{
			protectedApi.GET("/auth/me", authController.Me)

			protectedApi.GET("/cart", cartController.GetCart)
			protectedApi.DELETE("/cart", cartController.ClearCart)
			protectedApi.POST("/cart/items", cartController.AddItem)
			protectedApi.DELETE("/cart/items/:id", cartController.RemoveItem)
			protectedApi.PUT("/cart/items/:id/quantity", cartController.UpdateQuantity)
			protectedApi.POST("/cart/items/:id/increase", cartController.IncreaseQuantity)
			protectedApi.POST("/cart/items/:id/decrease", cartController.DecreaseQuantity)

			protectedApi.POST("/orders/checkout", orderController.Checkout)
			protectedApi.GET("/orders", orderController.GetOrders)
			protectedApi.GET("/orders/pending", orderController.GetPendingOrders)
			protectedApi.GET("/orders/latest", orderController.GetLatestOrder)
			protectedApi.GET("/orders/:id", orderController.GetOrderByID)
			protectedApi.PUT("/orders/:id/status", orderController.UpdateOrderStatus)

			protectedApi.GET("/profile", profileController.GetProfile)
			protectedApi.PUT("/profile", profileController.UpdateProfile)
			protectedApi.GET("/profile/favorites", profileController.GetFavorites)
			protectedApi.POST("/profile/favorites/:id", profileController.ToggleFavorite)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pizza-orders-api",
	})
}
