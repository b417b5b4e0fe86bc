package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rollbook/internal/cache"
	"rollbook/internal/config"
	"rollbook/internal/queue"
	"rollbook/internal/store"
)

// Worker consumes marked-attendance messages and drops the cached reports
// they invalidate. The report cache TTL covers any window where the worker
// is down.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Fatalf("redis not reachable at %s", cfg.RedisAddr)
	}

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		log.Println("WARNING: memory queue backend shares no state with the api process")
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "rollbook:marked")
	}

	reportCache := cache.New(redisClient.Client, cfg.ReportCacheTTL)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeMarked {
			continue
		}

		evt, err := queue.DecodeMarked(msg)
		if err != nil {
			log.Printf("decode marked event failed: %v", err)
			continue
		}

		if err := reportCache.InvalidateSubject(ctx, evt.SubjectID); err != nil {
			log.Printf("invalidate subject %s failed: %v", evt.SubjectID, err)
			continue
		}
		log.Printf("invalidated cached reports for subject %s (date %s)", evt.SubjectID, evt.Date)
	}

	log.Println("worker stopped")
}
