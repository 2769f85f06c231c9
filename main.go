package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bulentgercek/ibkr-options-journal/src/config"
	"github.com/bulentgercek/ibkr-options-journal/src/database"
	"github.com/bulentgercek/ibkr-options-journal/src/handlers"
	"github.com/bulentgercek/ibkr-options-journal/src/logger"
	"github.com/bulentgercek/ibkr-options-journal/src/processors"
	"github.com/bulentgercek/ibkr-options-journal/src/security"
	"github.com/bulentgercek/ibkr-options-journal/src/services"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.CORSAllowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Options journal backend starting...")

	if len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid. Must be at least 32 bytes.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)

	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	journalService := services.NewJournalService(
		processors.NewRealizationProcessor(),
		processors.NewComboProcessor(),
		reportCache,
	)

	userHandler := handlers.NewUserHandler(authService)
	uploadHandler := handlers.NewUploadHandler(journalService)
	comboHandler := handlers.NewComboHandler(journalService)
	preferencesHandler := handlers.NewPreferencesHandler(journalService)

	logger.L.Info("Configuring routes...")
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", userHandler.RegisterUserHandler)
		r.Post("/auth/login", userHandler.LoginUserHandler)
		r.Post("/auth/refresh", userHandler.RefreshTokenHandler)
		r.Post("/auth/logout", userHandler.AuthMiddleware(userHandler.LogoutUserHandler))

		r.Post("/upload", userHandler.AuthMiddleware(uploadHandler.HandleUpload))
		r.Get("/combos", userHandler.AuthMiddleware(comboHandler.HandleGetCombos))
		r.Get("/combos/export", userHandler.AuthMiddleware(comboHandler.HandleExportCombos))
		r.Delete("/combos", userHandler.AuthMiddleware(comboHandler.HandleClearCombos))
		r.Get("/preferences/filters", userHandler.AuthMiddleware(preferencesHandler.HandleGetFilterPreferences))
		r.Put("/preferences/filters", userHandler.AuthMiddleware(preferencesHandler.HandleSaveFilterPreferences))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "IBKR Options Journal backend is running"})
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
