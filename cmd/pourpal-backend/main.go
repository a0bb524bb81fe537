package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pourpal/pourpal-backend/internal/api/handlers"
	"github.com/pourpal/pourpal-backend/internal/api/middleware"
	"github.com/pourpal/pourpal-backend/internal/cache"
	"github.com/pourpal/pourpal-backend/internal/config"
	"github.com/pourpal/pourpal-backend/internal/health"
	"github.com/pourpal/pourpal-backend/internal/metrics"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
	service "github.com/pourpal/pourpal-backend/internal/services"
	"github.com/pourpal/pourpal-backend/internal/telemetry"
	"github.com/pourpal/pourpal-backend/pkg/sendgrid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						PourPal API
//	@version					1.0
//	@description				REST API of the PourPal online beverage store.
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStartup()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(startupCtx, cfg)
	if err != nil {
		slog.Error("❌ Error setting up tracing", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}
	}()

	// Database setup
	db, err := repository.Connect(startupCtx, &cfg.Mongo)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := db.Close(closeCtx); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if err := db.EnsureIndexes(startupCtx); err != nil {
		slog.Error("❌ Error creating database indexes", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)

	cartRepo := repository.NewCartRepo(db.DB)
	counterRepo := repository.NewCounterRepo(db.DB)
	itemRepo := repository.NewItemRepo(db.DB)
	orderRepo := repository.NewOrderRepo(db.DB)
	userRepo := repository.NewUserRepo(db.DB)
	brandRepo := repository.NewBrandRepo(db.DB)
	typeRepo := repository.NewBeverageTypeRepo(db.DB)
	countryRepo := repository.NewCountryRepo(db.DB)

	jwtKey := []byte(cfg.Security.JWTKey)
	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	notificationService := service.NewNotificationService(emailService)
	userService := service.NewUserService(userRepo, rateLimitRepo, notificationService, jwtKey)
	userHandler := handlers.NewUserHandler(userService)
	catalogService := service.NewCatalogService(itemRepo, typeRepo, brandRepo, countryRepo, counterRepo, redisCache, cfg.Cache.DefaultTTL)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	referenceService := service.NewReferenceService(brandRepo, typeRepo, countryRepo)
	referenceHandler := handlers.NewReferenceHandler(referenceService)
	cartService := service.NewCartService(cartRepo, itemRepo, redisCache, cfg.Cache.CartTTL)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(orderRepo, cartRepo, itemRepo, userRepo, counterRepo, notificationService, redisCache)
	orderHandler := handlers.NewOrderHandler(orderService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Database: db})
	if err != nil {
		slog.Error("❌ Error setting up health checks", "error", err.Error())
		os.Exit(1)
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	if cfg.CartSweep.Enabled {
		sweeper := service.NewCartSweeper(cartRepo, redisCache, cfg.CartSweep.MaxAge, cfg.CartSweep.Interval)
		go sweeper.Run(sweepCtx)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("POST /api/v1/users/register-admin", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.RegisterAdmin())))

	routerMux.HandleFunc("GET /api/v1/items", catalogHandler.ListItems())
	routerMux.HandleFunc("GET /api/v1/items/{id}", catalogHandler.GetItem())
	routerMux.HandleFunc("POST /api/v1/items", authMiddleware.Authenticate(authMiddleware.RequireAdmin(catalogHandler.CreateItem())))
	routerMux.HandleFunc("PUT /api/v1/items/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(catalogHandler.UpdateItem())))
	routerMux.HandleFunc("DELETE /api/v1/items/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(catalogHandler.DeleteItem())))

	routerMux.HandleFunc("GET /api/v1/brands", referenceHandler.ListBrands())
	routerMux.HandleFunc("GET /api/v1/brands/{id}", referenceHandler.GetBrand())
	routerMux.HandleFunc("POST /api/v1/brands", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.CreateBrand())))
	routerMux.HandleFunc("PUT /api/v1/brands/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.UpdateBrand())))
	routerMux.HandleFunc("DELETE /api/v1/brands/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.DeleteBrand())))

	routerMux.HandleFunc("GET /api/v1/types", referenceHandler.ListTypes())
	routerMux.HandleFunc("GET /api/v1/types/{id}", referenceHandler.GetType())
	routerMux.HandleFunc("POST /api/v1/types", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.CreateType())))
	routerMux.HandleFunc("PUT /api/v1/types/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.UpdateType())))
	routerMux.HandleFunc("DELETE /api/v1/types/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.DeleteType())))

	routerMux.HandleFunc("GET /api/v1/countries", referenceHandler.ListCountries())
	routerMux.HandleFunc("GET /api/v1/countries/{code}", referenceHandler.GetCountry())
	routerMux.HandleFunc("POST /api/v1/countries", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.CreateCountry())))
	routerMux.HandleFunc("PUT /api/v1/countries/{code}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.UpdateCountry())))
	routerMux.HandleFunc("DELETE /api/v1/countries/{code}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(referenceHandler.DeleteCountry())))

	routerMux.HandleFunc("GET /api/v1/carts", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("DELETE /api/v1/carts", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("PUT /api/v1/carts/items/{item_id}", authMiddleware.Authenticate(cartHandler.SetItemQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/carts/items/{item_id}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("POST /api/v1/carts/items/{item_id}/increment", authMiddleware.Authenticate(cartHandler.IncrementItem()))
	routerMux.HandleFunc("POST /api/v1/carts/items/{item_id}/decrement", authMiddleware.Authenticate(cartHandler.DecrementItem()))

	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	// "all" is a literal segment, so it wins over the {id} pattern below
	routerMux.HandleFunc("GET /api/v1/orders/all", authMiddleware.Authenticate(authMiddleware.RequireAdmin(orderHandler.ListAllOrders())))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/status", authMiddleware.Authenticate(authMiddleware.RequireAdmin(orderHandler.UpdateOrderStatus())))

	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "pourpal-backend")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() { // Starts the HTTP server in a new goroutine so it doesn't block the main thread.

		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done // blocking, until no signal is added to "done" channel, after the some signal is received the code after this point would be executed

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	stopSweeper()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

}
