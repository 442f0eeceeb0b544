package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"settlement-service/internal/config"
	handlers "settlement-service/internal/controllers/http"
	"settlement-service/internal/courier"
	"settlement-service/internal/infra"
	mmysql "settlement-service/internal/infra/mysql"
	"settlement-service/internal/infra/rabbitmq"
	"settlement-service/internal/payment"
	mysqlrepo "settlement-service/internal/repository/mysql"
	"settlement-service/internal/services"
)

func main() {
	config.LoadEnv()

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	addressRepo := mysqlrepo.NewAddressRepository(db)
	cartRepo := mysqlrepo.NewCartRepository(db)

	productClient := infra.NewProductClient(os.Getenv("PRODUCT_SERVICE_URL"), 2*time.Second)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "order.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	jazzCashCfg, err := config.JazzCashFromEnv()
	if err != nil {
		log.Fatalf("jazzcash config: %v", err)
	}
	easyPaisaCfg, err := config.EasyPaisaFromEnv()
	if err != nil {
		log.Fatalf("easypaisa config: %v", err)
	}
	payProCfg, err := config.PayProFromEnv()
	if err != nil {
		log.Fatalf("paypro config: %v", err)
	}
	tcsCfg, err := config.TCSFromEnv()
	if err != nil {
		log.Fatalf("tcs config: %v", err)
	}
	mpCfg, err := config.MPFromEnv()
	if err != nil {
		log.Fatalf("mnp config: %v", err)
	}

	courierSvc := services.NewCourierService(orderRepo, addressRepo,
		courier.NewTCSAdapter(tcsCfg),
		courier.NewMPAdapter(mpCfg),
	)
	paymentSvc := services.NewPaymentService(orderRepo,
		payment.NewPayProAdapter(payProCfg),
		payment.NewJazzCashAdapter(jazzCashCfg),
		payment.NewEasyPaisaAdapter(easyPaisaCfg),
	)
	orderSvc := services.NewOrderService(orderRepo, addressRepo, cartRepo, productClient, publisher, courierSvc)

	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		orderSvc.SetRedisClient(redis.NewClient(&redis.Options{
			Addr:         redisHost + ":6379",
			DB:           0,
			PoolSize:     100,
			MinIdleConns: 10,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		}))
	}

	handler := handlers.NewHandler(orderSvc, paymentSvc, courierSvc, os.Getenv("BASE_URL"))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", os.Getenv("BASE_URL")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}

	go func() {
		log.Printf("starting settlement service on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server run: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
