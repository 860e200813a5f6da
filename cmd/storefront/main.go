package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csmith-03/alliger-house-of-wings/internal/cart"
	"github.com/csmith-03/alliger-house-of-wings/internal/catalog"
	"github.com/csmith-03/alliger-house-of-wings/internal/checkout"
	"github.com/csmith-03/alliger-house-of-wings/internal/config"
	"github.com/csmith-03/alliger-house-of-wings/internal/email"
	"github.com/csmith-03/alliger-house-of-wings/internal/events"
	"github.com/csmith-03/alliger-house-of-wings/internal/httpapi"
	"github.com/csmith-03/alliger-house-of-wings/internal/orders"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
	"github.com/csmith-03/alliger-house-of-wings/internal/shipping"
)

func main() {
	cfg := config.Load()
	if cfg.StripeSecretKey == "" {
		log.Fatal("STRIPE_SECRET_KEY is required")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("failed to connect to redis at %s: %v", cfg.RedisAddr, err)
	}

	platform := payments.NewStripeClient(cfg.StripeSecretKey)

	origin := shipping.ShippoAddress{
		Name:    "Alliger House of Wings",
		Street1: cfg.ShipFromStreet,
		City:    cfg.ShipFromCity,
		State:   cfg.ShipFromState,
		Zip:     cfg.ShipFromZip,
		Country: "US",
		Phone:   cfg.ShipFromPhone,
		Email:   cfg.ShipFromEmail,
	}
	quoter := shipping.NewQuoter(shipping.NewShippoClient(cfg.ShippoAPIKey), origin, cfg.ShippoUPSAccountID)

	tax := checkout.TaxPolicy{
		Rate:            cfg.TaxRate,
		ApplyToShipping: cfg.TaxApplyToShip,
		OriginState:     cfg.TaxOriginState,
	}

	carts := cart.NewService(cart.NewRedisStorage(redisClient))
	catalogSvc := catalog.NewService(platform, catalog.NewRedisCache(redisClient))
	checkoutSvc := checkout.NewService(checkout.NewRedisSessionStore(redisClient), carts, quoter, platform, tax)
	ordersSvc := orders.NewService(platform)
	sender := email.NewResendSender(cfg.ResendAPIKey, cfg.ContactFromEmail, cfg.ContactToEmail)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kp.Close()
		publisher = kp
	}

	cartHandler := httpapi.NewCartHandler(carts)
	router := httpapi.NewRouter(httpapi.Handlers{
		Contact:  httpapi.NewContactHandler(sender),
		Shipping: httpapi.NewShippingHandler(quoter),
		Payments: httpapi.NewPaymentHandler(platform, tax),
		Orders:   httpapi.NewOrdersHandler(ordersSvc),
		Cart:     cartHandler,
		Checkout: httpapi.NewCheckoutHandler(checkoutSvc, cartHandler),
		Products: httpapi.NewProductsHandler(catalogSvc),
		Redirect: httpapi.NewRedirectHandler(cfg.SiteURL, publisher, carts),
	}, cfg.RequestTimeout, cfg.MaxRequestBodySize)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
