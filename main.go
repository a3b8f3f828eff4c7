package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studioerp/assign"
	"studioerp/booking"
	"studioerp/config"
	"studioerp/db"
	"studioerp/middleware"
	"studioerp/mq"
	"studioerp/ratelim"
	"studioerp/rdx"
	"studioerp/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	cfg := config.Load()
	if len(cfg.JwtSecret) == 0 {
		log.Fatal("❌ JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := db.Connect(startCtx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ MongoDB: %v", err)
	}
	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(startCtx, database); err != nil {
		log.Fatalf("❌ MongoDB indexes: %v", err)
	}
	if _, err := db.MigrateStaffRoles(startCtx, database); err != nil {
		log.Printf("⚠️ [Mongo] staff role migration failed: %v", err)
	}
	store := db.NewStore(database, cfg.RequestTimeout)

	hub := booking.NewHub()
	opts := []assign.Option{assign.WithScope(assign.ParseScope(cfg.ConflictScope))}

	var conn *redis.Client
	if cfg.RedisAddr != "" {
		conn, err = rdx.Connect(startCtx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("❌ Redis: %v", err)
		}
		opts = append(opts,
			assign.WithLocker(rdx.NewLock(conn, 30*time.Second)),
			assign.WithNotifier(mq.NewPublisher(conn)),
		)
		go mq.StartRelay(ctx, conn, hub.Deliver)
	} else {
		log.Println("[Redis] REDIS_ADDR not set; using in-process locks and local push")
		opts = append(opts, assign.WithNotifier(hub))
	}

	engine := assign.NewEngine(store, opts...)
	auth := middleware.NewAuth(cfg.JwtSecret)
	rateLimiter := ratelim.NewRateLimiter(30, 5)

	router := httprouter.New()
	router.GET("/health", Index)
	handlers := booking.NewHandlers(engine, store)
	routes.AddSchedulingRoutes(router, handlers, auth, rateLimiter)
	routes.AddLiveRoutes(router, handlers, hub, auth)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           loggingMiddleware(securityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing booking sockets...")
		hub.Close()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			log.Printf("[Redis] close: %v", err)
		}
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("[Mongo] disconnect: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
