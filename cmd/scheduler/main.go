package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/ffelipeandres24/banco-maria/internal/config"
	"github.com/ffelipeandres24/banco-maria/internal/repository"
	"github.com/ffelipeandres24/banco-maria/internal/service"
)

// The scheduler logs a morning digest of the day's collections so the lender
// knows who to visit. It only reads; collections themselves stay computed on
// demand by the server.
func main() {
	log.Println("Starting collections scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanService := service.NewLoanService(
		repository.NewLoanRepository(db),
		repository.NewClientRepository(db),
		repository.NewReportRepository(db),
		repository.NewRedisCache(redisClient),
		cfg,
	)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	_, err = c.AddFunc(cfg.Scheduler.DigestSpec, func() {
		runCollectionsDigest(loanService)
	})
	if err != nil {
		log.Fatalf("Failed to schedule collections digest: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func runCollectionsDigest(loanService *service.LoanService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collections, err := loanService.Collections(ctx, time.Now())
	if err != nil {
		log.Printf("Collections digest failed: %v", err)
		return
	}

	total := decimal.Zero
	for _, due := range collections {
		total = total.Add(due.Amount)
	}

	log.Printf("Collections digest: %d installments due or overdue, %s to collect", len(collections), total.StringFixed(2))
}
