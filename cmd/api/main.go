package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rollbook/internal/attendance"
	"rollbook/internal/auth"
	"rollbook/internal/cache"
	"rollbook/internal/config"
	"rollbook/internal/handler"
	"rollbook/internal/httpmiddleware"
	"rollbook/internal/queue"
	"rollbook/internal/report"
	"rollbook/internal/roster"
	"rollbook/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	if cfg.SeedDemo {
		if err := db.Seed(ctx); err != nil {
			log.Printf("warning: seed failed: %v", err)
		}
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "rollbook:marked")
	}

	rosterRepo := roster.NewRepository(db.Client)
	logRepo := attendance.NewRepository(db.Client)
	markSvc := attendance.NewService(logRepo)

	var reportCache report.Cache
	if redisClient.Healthy(ctx) {
		reportCache = cache.New(redisClient.Client, cfg.ReportCacheTTL)
	} else {
		log.Println("redis not reachable, report cache disabled")
	}
	reportSvc := report.NewService(rosterRepo, logRepo, reportCache)

	h := handler.New(cfg, rosterRepo, markSvc, logRepo, reportSvc, q)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	api := r.Group("/api")
	api.POST("/signup", h.Signup)
	api.POST("/login", h.Login)
	api.GET("/batches", h.ListBatches)
	api.GET("/semesters", h.ListSemesters)
	api.GET("/subjects", h.ListSubjects)
	api.GET("/subjects/:semesterId", h.ListSubjectsBySemester)

	authed := api.Group("", auth.Bearer(cfg.JWTSigningKey, cfg.JWTIssuer))
	authed.GET("/students/:batchId/:semesterId", h.ListStudents)
	authed.GET("/attendance/:date/:subjectId", h.DayMarks)
	authed.GET("/student-attendance/:studentId", h.History)
	authed.GET("/reports/student/:studentId", h.StudentReport)

	teacherOnly := authed.Group("", auth.RequireRole(auth.RoleTeacher))
	teacherOnly.POST("/batches", h.CreateBatch)
	teacherOnly.POST("/semesters", h.CreateSemester)
	teacherOnly.POST("/subjects", h.CreateSubject)
	teacherOnly.POST("/attendance", h.Mark)
	teacherOnly.POST("/attendance/bulk", h.BulkMark)
	teacherOnly.PATCH("/attendance/:id", h.Correct)
	teacherOnly.GET("/reports/attendance", h.DayReport)
	teacherOnly.GET("/reports/attendance-range", h.RangeReport)
	teacherOnly.GET("/reports/attendance-range/export", h.ExportRangeReport)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
