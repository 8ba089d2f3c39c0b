// cmd/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu_admin/internal/assets"
	"menu_admin/internal/config"
	"menu_admin/internal/docstore"
	"menu_admin/internal/handlers"
	appmiddleware "menu_admin/internal/middleware"
	"menu_admin/internal/repository"
	"menu_admin/internal/service"
	"menu_admin/internal/webutil"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, logger)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close document store", "error", err)
		}
	}()

	mailer, err := newMailer(ctx, logger)
	if err != nil {
		logger.Error("Failed to initialize mailer", "error", err)
		os.Exit(1)
	}

	uploader, err := newUploader(ctx, logger)
	if err != nil {
		logger.Error("Failed to initialize asset uploader", "error", err)
		os.Exit(1)
	}

	// 依存の組み立て
	profileRepo := repository.NewDocProfileRepository(store)
	categoryRepo := repository.NewDocCategoryRepository(store)
	menuItemRepo := repository.NewDocMenuItemRepository(store)
	credentialRepo := repository.NewDocCredentialRepository(store)
	tokenRepo := repository.NewDocTokenRepository(store)

	authService := service.NewAuthService(credentialRepo, profileRepo, tokenRepo, mailer)
	profileService := service.NewProfileService(profileRepo, credentialRepo)
	menuService := service.NewMenuService(categoryRepo, menuItemRepo)
	platformService := service.NewPlatformService(profileRepo, categoryRepo, menuItemRepo)
	authzService := service.NewAuthzService(profileRepo)

	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	categoryHandler := handlers.NewCategoryHandler(menuService)
	menuItemHandler := handlers.NewMenuItemHandler(menuService)
	adminHandler := handlers.NewAdminHandler(platformService)
	uploadHandler := handlers.NewUploadHandler(uploader)

	router := newRouter(logger, authHandler, profileHandler, categoryHandler, menuItemHandler, adminHandler, uploadHandler, authzService)

	server := &http.Server{
		Addr:              ":" + config.Cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", config.Cfg.Server.Port, "store_driver", config.Cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(config.Cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
		return
	}
	logger.Info("Server stopped")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch config.Cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if config.Cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func newStore(ctx context.Context, logger *slog.Logger) (docstore.Store, error) {
	switch config.Cfg.Store.Driver {
	case "firestore":
		return docstore.NewFirestoreStore(ctx, config.Cfg.Store.ProjectID, config.Cfg.Store.CredentialsFile, logger)
	default:
		logger.Warn("Using in-memory document store; data will not survive restarts")
		return docstore.NewMemoryStore(), nil
	}
}

func newMailer(ctx context.Context, logger *slog.Logger) (service.Mailer, error) {
	if config.Cfg.Mail.Driver == "ses" {
		return service.NewSESMailer(ctx, config.Cfg.Mail.Region, config.Cfg.Mail.Sender, logger)
	}
	return service.NewLogMailer(logger), nil
}

func newUploader(ctx context.Context, logger *slog.Logger) (assets.Uploader, error) {
	if config.Cfg.Assets.Driver == "s3" {
		return assets.NewS3Uploader(ctx, config.Cfg.Assets.Region, config.Cfg.Assets.Bucket, config.Cfg.Assets.BaseURL, logger)
	}
	return assets.NewNopUploader(logger), nil
}

func newRouter(
	logger *slog.Logger,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	categoryHandler *handlers.CategoryHandler,
	menuItemHandler *handlers.MenuItemHandler,
	adminHandler *handlers.AdminHandler,
	uploadHandler *handlers.UploadHandler,
	authzService service.AuthzService,
) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(appmiddleware.Logging(logger))
	router.Use(chimiddleware.Recoverer)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	router.Use(corsHandler.Handler)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.AuthMiddleware)

			r.Get("/profile", profileHandler.GetProfile)
			r.Patch("/profile", profileHandler.UpdateProfile)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.ListCategories)
				r.Post("/", categoryHandler.CreateCategory)
				r.Get("/{categoryID}", categoryHandler.GetCategory)
				r.Patch("/{categoryID}", categoryHandler.UpdateCategory)
				r.Delete("/{categoryID}", categoryHandler.DeleteCategory)
			})

			r.Route("/menu-items", func(r chi.Router) {
				r.Get("/", menuItemHandler.ListMenuItems)
				r.Post("/", menuItemHandler.CreateMenuItem)
				r.Get("/{itemID}", menuItemHandler.GetMenuItem)
				r.Patch("/{itemID}", menuItemHandler.UpdateMenuItem)
				r.Delete("/{itemID}", menuItemHandler.DeleteMenuItem)
			})

			r.Post("/uploads/images", uploadHandler.UploadImage)

			r.Route("/admin", func(r chi.Router) {
				r.Use(appmiddleware.RequireSuperAdmin(authzService))

				r.Get("/restaurants", adminHandler.ListRestaurants)
				r.Get("/users", adminHandler.ListUsers)
				r.Get("/restaurants/{tenantID}/stats", adminHandler.GetRestaurantStats)
				r.Put("/restaurants/{tenantID}/role", adminHandler.UpdateRestaurantRole)
				r.Put("/restaurants/{tenantID}/active", adminHandler.UpdateRestaurantActive)
				r.Get("/stats", adminHandler.ListAllStats)
				r.Get("/stats/summary", adminHandler.GetPlatformSummary)
			})
		})
	})

	return router
}
