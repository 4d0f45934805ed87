package main

import (
	"context"
	"errors"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rookgm/foodorder/config"
	"github.com/rookgm/foodorder/internal/auth"
	handler "github.com/rookgm/foodorder/internal/handler/http"
	"github.com/rookgm/foodorder/internal/logger"
	"github.com/rookgm/foodorder/internal/middleware"
	"github.com/rookgm/foodorder/internal/ratelimit"
	"github.com/rookgm/foodorder/internal/repository"
	"github.com/rookgm/foodorder/internal/repository/postgres"
	"github.com/rookgm/foodorder/internal/service"
	"github.com/rookgm/foodorder/internal/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

type routes struct {
	token         service.TokenService
	authCookie    string
	orders        *handler.OrderHandler
	admin         *handler.AdminHandler
	loyalty       *handler.LoyaltyHandler
	orderLimit    handler.Limiter
	referralLimit handler.Limiter
	requestLogger *zap.Logger
}

func newRouter(rt routes) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.RealIP)
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Use(middleware.Logging(rt.requestLogger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(rt.token, rt.authCookie))

		group.With(handler.RateLimitMiddleware(rt.orderLimit)).Post("/orders", rt.orders.CreateOrder())
		group.Get("/orders", rt.orders.ListUserOrders())
		group.Post("/orders/cancel", rt.orders.CancelOrder())

		group.Get("/admin/orders", rt.admin.ListOrders())
		group.Put("/admin/orders", rt.admin.UpdateOrder())

		group.Get("/loyalty/balance", rt.loyalty.GetBalance())
		group.Get("/loyalty/transactions", rt.loyalty.GetTransactions())
		group.With(handler.RateLimitMiddleware(rt.referralLimit)).Post("/referrals/apply", rt.loyalty.ApplyReferral())
	})

	return router
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	if cfg.AuthSecret == "" {
		logger.Log.Fatal("auth secret is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	token := auth.NewAuthToken([]byte(cfg.AuthSecret))

	// dependency injection
	orderRepo := repository.NewOrderRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)

	orderService := service.NewOrderService(orderRepo, profileRepo, loyaltyRepo,
		service.WithCancellationWindow(cfg.CancellationWindow))
	loyaltyService := service.NewLoyaltyService(loyaltyRepo, profileRepo, cfg.ReferralBonusPoints)

	orderLimiter, err := ratelimit.New(cfg.OrderRateLimit, cfg.OrderRateWindow)
	if err != nil {
		logger.Log.Fatal("Error creating order rate limiter", zap.Error(err))
	}
	referralLimiter, err := ratelimit.New(cfg.ReferralRateLimit, cfg.ReferralRateWindow)
	if err != nil {
		logger.Log.Fatal("Error creating referral rate limiter", zap.Error(err))
	}

	router := newRouter(routes{
		token:         token,
		authCookie:    cfg.AuthCookie,
		orders:        handler.NewOrderHandler(orderService),
		admin:         handler.NewAdminHandler(orderService),
		loyalty:       handler.NewLoyaltyHandler(loyaltyService),
		orderLimit:    orderLimiter,
		referralLimit: referralLimiter,
		requestLogger: logger.Log,
	})

	server := &http.Server{Addr: cfg.ServerAddr, Handler: router}
	sweeper := worker.NewBucketSweeper(cfg.SweepInterval, map[string]worker.Sweeper{
		"orders":    orderLimiter,
		"referrals": referralLimiter,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
	}
}
