// Package main is the entry point for the folio portfolio server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/internal/authgate"
	"folio/internal/cache"
	"folio/internal/catalog"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/handlers"
	"folio/internal/mailer"
	"folio/internal/middleware"
	"folio/internal/oauth"
	"folio/internal/render"
	"folio/internal/router"
	"folio/internal/session"
	"folio/internal/settings"
	"folio/internal/storage"
	"folio/internal/store"
)

func main() {
	// Structured logger, text output.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	staticAdmins := cfg.AdminEmails
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
		if len(staticAdmins) == 0 {
			staticAdmins = []string{database.DevAdminEmail}
			slog.Warn("ADMIN_EMAILS is empty, allowing the seeded development account", "email", database.DevAdminEmail)
		}
	}

	// Connect to Valkey (sessions + rendered post cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Outside development, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	flashes := session.NewFlashes(cfg.SessionSecret, secureCookies)

	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	pageCache.InvalidateAll(context.Background())

	renderer, err := render.New(cfg.IsDev(), flashes)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	projectStore := store.NewProjectStore(db)
	skillStore := store.NewSkillStore(db)
	blogStore := store.NewBlogStore(db)
	profileStore := store.NewProfileStore(db)

	cat := catalog.New(projectStore, skillStore, blogStore, profileStore)

	// Runtime settings. A failed first load is retried on the next read.
	appSettings := settings.New(store.NewConfigStore(db))
	if err := appSettings.Ensure(context.Background()); err != nil {
		slog.Warn("settings not loaded at startup", "error", err)
	}

	gate := authgate.New(sessionStore, appSettings, staticAdmins)

	// Optional integrations: each is disabled when unconfigured.
	var media handlers.Uploader
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		media = storageClient
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, media uploads disabled")
	}

	var mail handlers.ContactSender
	if cfg.EmailJSConfigured() {
		mail = mailer.NewEmailJS(cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey)
	} else {
		slog.Warn("emailjs not configured, contact form cannot send")
	}

	var google *oauth.Google
	if cfg.GoogleConfigured() {
		google = oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BaseURL+"/admin/oauth/callback")
	} else {
		slog.Info("google sign-in disabled")
	}

	adminHandlers := handlers.NewAdmin(handlers.AdminDeps{
		Renderer:         renderer,
		Flashes:          flashes,
		Catalog:          cat,
		Projects:         projectStore,
		Skills:           skillStore,
		Blog:             blogStore,
		Profile:          profileStore,
		Users:            userStore,
		Settings:         appSettings,
		Pages:            pageCache,
		Media:            media,
		StaticAdmins:     staticAdmins,
		AnalyticsDefault: cfg.AnalyticsEmbedURL,
		ContactDefault:   cfg.EmailFormEnabled,
	})
	authHandlers := handlers.NewAuth(renderer, sessionStore, flashes, userStore, google)
	publicHandlers := handlers.NewPublic(handlers.PublicDeps{
		Renderer:       renderer,
		Flashes:        flashes,
		Catalog:        cat,
		Settings:       appSettings,
		Pages:          pageCache,
		Mail:           mail,
		ContactDefault: cfg.EmailFormEnabled,
		SecureCookies:  secureCookies,
	})

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()
	contactLimiter := middleware.NewRateLimiter(5, 10*time.Minute)
	defer contactLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:       sessionStore,
		Flashes:        flashes,
		Gate:           gate,
		Admin:          adminHandlers,
		Auth:           authHandlers,
		Public:         publicHandlers,
		LoginLimiter:   loginLimiter,
		ContactLimiter: contactLimiter,
		SecureCookies:  secureCookies,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
