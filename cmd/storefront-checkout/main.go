package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/cache"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/config"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/health"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/identity"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/observability"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/pending"
	repository "github.com/aaravmahajanofficial/storefront-checkout/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront-checkout/internal/services"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/payu"
	"github.com/aaravmahajanofficial/storefront-checkout/pkg/sendgrid"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("⚠️ Could not load .env file", slog.String("error", err.Error()))
	}

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error setting up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if cfg.Database.MigrationsEnabled {
		if err := repos.RunMigrations(); err != nil {
			slog.Error("❌ Error running migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		slog.Info("✅ Database migrations applied")
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer redisCache.Close()

	pendingStore := newPendingStore(ctx, cfg, redisCache)

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error initializing identity provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	outbound := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	gateway := payu.NewClient(payu.Config{
		Key:           cfg.PayU.Key,
		Salt:          cfg.PayU.Salt,
		PaymentURL:    cfg.PayU.PaymentURL,
		VerifyURL:     cfg.PayU.VerifyURL,
		BackendURL:    cfg.PayU.BackendURL,
		VerifyTimeout: cfg.PayU.VerifyTimeout,
	}, outbound)

	emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	rateLimiter := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	productService := service.NewProductService(repos.Product, redisCache, cfg.Cache.DefaultTTL)
	cartService := service.NewCartService(repos.Cart)
	notificationService := service.NewNotificationService(repos.Notification, emailService, cfg.Checkout.OperationsEmail)
	checkoutService := service.NewCheckoutService(productService, pendingStore, gateway, rateLimiter)
	orderService := service.NewOrderService(repos.Order, productService, pendingStore, gateway, notificationService, cfg.Checkout.NotifyTimeout)

	cartHandler := handlers.NewCartHandler(cartService)
	productHandler := handlers.NewProductHandler(productService)
	paymentHandler := handlers.NewPaymentHandler(checkoutService, orderService, cfg.PayU.FrontendURL)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(orderService, notificationService)
	authMiddleware := middleware.NewAuthMiddleware(verifier, cfg.Security.AdminRole)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", health.Version))

	// Setup router
	auth := authMiddleware.Authenticate
	admin := func(h http.Handler) http.HandlerFunc { return auth(authMiddleware.RequireAdmin(h)) }

	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/carts", auth(cartHandler.GetCart()))
	routerMux.HandleFunc("PUT /api/v1/carts", auth(cartHandler.ReplaceCart()))
	routerMux.HandleFunc("POST /api/v1/products/lookup", productHandler.LookupProducts())
	routerMux.HandleFunc("POST /api/v1/payments/payu/initiate", auth(paymentHandler.InitiateCheckout()))
	routerMux.HandleFunc("POST /api/v1/payments/payu/success/{txnid}", paymentHandler.PayUSuccess())
	routerMux.HandleFunc("POST /api/v1/payments/payu/failure/{txnid}", paymentHandler.PayUFailure())
	routerMux.HandleFunc("POST /api/v1/orders", auth(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", auth(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{orderId}", auth(orderHandler.GetOrder()))
	routerMux.HandleFunc("PUT /api/v1/orders/{orderId}/cancel", auth(orderHandler.CancelOrder()))
	routerMux.HandleFunc("GET /api/v1/admin/orders", admin(adminHandler.ListOrders()))
	routerMux.HandleFunc("PATCH /api/v1/admin/orders/{orderId}/status", admin(adminHandler.UpdateOrderStatus()))
	routerMux.HandleFunc("DELETE /api/v1/admin/orders/{orderId}", admin(adminHandler.DeleteOrder()))
	routerMux.HandleFunc("GET /api/v1/admin/orders/{orderId}/notifications", admin(adminHandler.ListNotifications()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining. Metrics sits inside Logging so it sees the
	// request the mux annotates with the matched pattern.
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, cfg.OTel.ServiceName)

	// Setup http server
	server := http.Server{
		Addr:              cfg.HTTPServer.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.HTTPServer.Addr))

	go func() { // Starts the HTTP server in a new goroutine so it doesn't block the main thread.

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}

func newPendingStore(ctx context.Context, cfg *config.Config, c cache.Cache) pending.Store {

	if cfg.Checkout.PendingStore == "memory" {
		slog.Warn("⚠️ Pending payments are held in process memory. Payments in flight across a restart cannot be finalized.",
			slog.Duration("ttl", cfg.Checkout.PendingTTL))

		store := pending.NewMemoryStore(cfg.Checkout.PendingTTL)
		go store.RunSweeper(ctx, cfg.Checkout.SweepInterval, slog.Default())

		return store
	}

	return pending.NewRedisStore(c, cfg.Checkout.PendingTTL)
}

func newVerifier(ctx context.Context, cfg *config.Config) (identity.Verifier, error) {

	if cfg.Identity.Provider == "firebase" {
		slog.Info("Using Firebase identity provider", slog.String("project", cfg.Identity.ProjectID))
		return identity.NewFirebaseVerifier(ctx, cfg.Identity.ProjectID, cfg.Identity.CredentialsFile)
	}

	return identity.NewJWTVerifier([]byte(cfg.Security.JWTKey)), nil
}
