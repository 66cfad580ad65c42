package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spellmaster/internal/config"
	"spellmaster/internal/database"
	"spellmaster/internal/handlers"
	"spellmaster/internal/models"
	"spellmaster/internal/repository"
	"spellmaster/internal/security"
	"spellmaster/internal/service"
	"spellmaster/internal/storage"
	"spellmaster/internal/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Repositories
	kvRepo := repository.NewKVRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Typed storage over the KV table
	store := storage.NewStore(kvRepo)

	// Services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	profileService := service.NewProfileService(store)
	progressService := service.NewProgressService(store)
	rewardService := service.NewRewardService(store)
	childService := service.NewChildService(store)
	pinGate := service.NewPinGateService(credentialRepo, store, cfg.PinMaxAttempts, cfg.PinLockoutWindow)

	tokens := security.NewTokenIssuer(cfg.DeviceTokenKey, cfg.DeviceTokenTTL)
	authService := service.NewAuthService(userRepo, emailService, pinGate, tokens, cfg.SessionDuration)

	if err := childService.Init(context.Background()); err != nil {
		log.Fatalf("Failed to initialize child profiles: %v", err)
	}

	// Live update hub
	hub := ws.NewHub()
	go hub.Run()

	// every active-child switch reaches connected devices
	childService.Subscribe(func(child models.ChildProfile) {
		hub.Broadcast("active_child_changed", child)
	})

	// Handlers
	oauthGoogle := handlers.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBase)
	authHandler := handlers.NewAuthHandler(authService, oauthGoogle)
	profileHandler := handlers.NewProfileHandler(profileService, hub)
	progressHandler := handlers.NewProgressHandler(progressService, profileService, rewardService, childService, hub)
	rewardsHandler := handlers.NewRewardsHandler(rewardService, childService, hub)
	childHandler := handlers.NewChildHandler(childService)
	pinHandler := handlers.NewPinHandler(pinGate)
	settingsHandler := handlers.NewSettingsHandler(store)

	rateLimiter := security.NewRateLimiter(30, time.Minute)
	middleware := handlers.NewMiddleware(authService, rateLimiter)

	mux := http.NewServeMux()

	// Parent account routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("POST /api/auth/device-token", middleware.RequireAuth(authHandler.DeviceToken))
	mux.HandleFunc("GET /auth/google", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Profile and levels
	mux.HandleFunc("GET /api/profile", middleware.RequireDevice(profileHandler.GetProfile))
	mux.HandleFunc("POST /api/profile/xp", middleware.RequireDevice(profileHandler.AddXP))
	mux.HandleFunc("GET /api/levels", middleware.RequireDevice(profileHandler.GetLevels))

	// Trackers, words and chores
	mux.HandleFunc("GET /api/progress/{tracker}", middleware.RequireDevice(progressHandler.GetTracker))
	mux.HandleFunc("POST /api/progress/{tracker}/attempt", middleware.RequireDevice(progressHandler.RecordAttempt))
	mux.HandleFunc("POST /api/chores/complete", middleware.RequireDevice(progressHandler.CompleteChore))
	mux.HandleFunc("GET /api/words/learned", middleware.RequireDevice(progressHandler.GetLearnedWords))
	mux.HandleFunc("POST /api/words/learned", middleware.RequireDevice(progressHandler.MarkWordLearned))
	mux.HandleFunc("POST /api/words/{id}/attempt", middleware.RequireDevice(progressHandler.RecordWordAttempt))

	// Rewards
	mux.HandleFunc("GET /api/rewards", middleware.RequireDevice(rewardsHandler.GetRewards))
	mux.HandleFunc("PUT /api/rewards/{id}", middleware.RequireDevice(rewardsHandler.UpdateReward))

	// Child profiles
	mux.HandleFunc("GET /api/children", middleware.RequireDevice(childHandler.ListChildren))
	mux.HandleFunc("POST /api/children", middleware.RequireDevice(childHandler.CreateChild))
	mux.HandleFunc("GET /api/children/active", middleware.RequireDevice(childHandler.GetActiveChild))
	mux.HandleFunc("PUT /api/children/active", middleware.RequireDevice(childHandler.SetActiveChild))

	// PIN gate. Setup and outright reset need the parent's session;
	// the rest is driven from the device.
	mux.HandleFunc("GET /api/pin/status", middleware.RequireDevice(pinHandler.Status))
	mux.HandleFunc("POST /api/pin/setup", middleware.RequireAuth(pinHandler.Setup))
	mux.HandleFunc("POST /api/pin/verify", middleware.RateLimit(middleware.RequireDevice(pinHandler.Verify)))
	mux.HandleFunc("POST /api/pin/dismiss", middleware.RequireDevice(pinHandler.Dismiss))
	mux.HandleFunc("POST /api/pin/lock", middleware.RequireDevice(pinHandler.Lock))
	mux.HandleFunc("POST /api/pin/reset", middleware.RequireAuth(pinHandler.Reset))
	mux.HandleFunc("POST /api/pin/reset-request", middleware.RateLimit(authHandler.RequestPinReset))
	mux.HandleFunc("POST /api/pin/reset-confirm", middleware.RateLimit(authHandler.ConfirmPinReset))

	// Settings
	mux.HandleFunc("GET /api/settings/theme", middleware.RequireDevice(settingsHandler.GetTheme))
	mux.HandleFunc("PUT /api/settings/theme", middleware.RequireDevice(settingsHandler.SetTheme))
	mux.HandleFunc("GET /api/settings/sound", middleware.RequireDevice(settingsHandler.GetSound))
	mux.HandleFunc("PUT /api/settings/sound", middleware.RequireDevice(settingsHandler.SetSound))
	mux.HandleFunc("GET /api/settings/tutorial", middleware.RequireDevice(settingsHandler.GetTutorialFlags))
	mux.HandleFunc("POST /api/settings/tutorial", middleware.RequireDevice(settingsHandler.MarkTutorialSeen))

	// Live updates
	mux.HandleFunc("GET /ws", middleware.RequireAuth(hub.ServeHTTP))

	handler := middleware.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background session cleanup
	go cleanupExpiredSessions(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions drops dead sessions once an hour
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		deleted, err := authService.CleanupExpiredSessions()
		if err != nil {
			log.Printf("Session cleanup failed: %v", err)
			continue
		}
		if deleted > 0 {
			log.Printf("Cleaned up %d expired sessions", deleted)
		}
	}
}
