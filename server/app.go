package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/config"
	"github.com/princinho/dealsbackend/controllers"
	"github.com/princinho/dealsbackend/database"
	"github.com/princinho/dealsbackend/mailer"
	"github.com/princinho/dealsbackend/repositories"
	"github.com/princinho/dealsbackend/services"
	"github.com/princinho/dealsbackend/storage"
	"github.com/princinho/dealsbackend/utils"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// App owns the long-lived connections behind the HTTP server.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *gorm.DB
	handler http.Handler
	closers []func(context.Context) error
}

func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			app.Close(context.Background())
		}
	}()

	db, err := database.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.closers = append(app.closers, func(context.Context) error { return CloseDB(db) })
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	mongoClient, err := database.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, mongoClient.Disconnect)
	messagesCol := database.OpenCollection(mongoClient, cfg.MongoDatabase, database.MessagesCollection)
	if err := database.EnsureMessageIndexes(ctx, messagesCol); err != nil {
		return nil, err
	}

	store, err := app.openObjectStore(ctx)
	if err != nil {
		return nil, err
	}

	var rdb redis.UniversalClient
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { return client.Close() })
		rdb = client
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	users := repositories.NewUserRepository(db)
	svc := buildServices(db, messagesCol, users, tokens, app.mailer(), store, cfg, logger)

	app.handler = NewRouter(logger, tokens, users, svc, Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Cookies: controllers.CookieConfig{
			Secure: cfg.CookieSecure,
			Domain: cfg.CookieDomain,
			TTL:    tokens.TTL(),
		},
		Redis:               rdb,
		AuthRateLimitPerMin: cfg.AuthRateLimitPerMin,
	})
	ok = true
	return app, nil
}

func buildServices(db *gorm.DB, messagesCol *mongo.Collection, users repositories.UserRepository, tokens *auth.TokenManager,
	mail mailer.Mailer, store storage.ObjectStore, cfg *config.Config, logger *slog.Logger) Services {
	roles := repositories.NewRoleRepository(db)
	perms := repositories.NewPermissionRepository(db)
	categories := repositories.NewCategoryRepository(db)
	deals := repositories.NewDealRepository(db)
	likes := repositories.NewLikeRepository(db)

	templates := mailer.Templates{VerifyEmailURL: cfg.VerifyEmailURL, ResetPasswordURL: cfg.ResetPasswordURL}
	validator := utils.NewFileValidator(cfg.AllowedFileExtensions, cfg.AllowedFileMimeTypes, cfg.MaxUploadSizeMB)

	return Services{
		Accounts:    services.NewAccountService(users, tokens, mail, templates, logger),
		Categories:  services.NewCategoryService(categories),
		Deals:       services.NewDealService(deals, categories, likes, store, validator, logger),
		Likes:       services.NewLikeService(likes, deals),
		Messages:    services.NewMessageService(repositories.NewMessageRepository(messagesCol), users),
		Links:       services.NewLinkService(repositories.NewLinkRepository(db)),
		Roles:       services.NewRoleService(roles, perms),
		Permissions: services.NewPermissionService(perms),
		Profiles:    services.NewUserProfileService(users, roles),
	}
}

func (a *App) mailer() mailer.Mailer {
	if a.cfg.SMTPHost == "" {
		a.logger.Warn("SMTP_HOST not set, emails will only be logged")
		return mailer.NewLogMailer(a.logger)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     a.cfg.SMTPHost,
		Port:     a.cfg.SMTPPort,
		Username: a.cfg.SMTPUsername,
		Password: a.cfg.SMTPPassword,
		From:     a.cfg.MailFrom,
	})
}

func (a *App) openObjectStore(ctx context.Context) (storage.ObjectStore, error) {
	switch a.cfg.StorageProvider {
	case "gcs":
		s, err := storage.NewGCSStore(ctx, a.cfg.GCSBucket, a.cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return s.Close() })
		return s, nil
	case "r2":
		return storage.NewR2Store(ctx, storage.R2Options{
			Bucket:          a.cfg.R2Bucket,
			AccessKeyID:     a.cfg.R2AccessKeyID,
			SecretAccessKey: a.cfg.R2SecretAccessKey,
			Endpoint:        a.cfg.R2Endpoint,
			PublicDomain:    a.cfg.R2PublicDomain,
		})
	default:
		a.logger.Warn("STORAGE_PROVIDER not set, deal image uploads are disabled")
		return nil, nil
	}
}

func (a *App) Handler() http.Handler { return a.handler }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", a.cfg.HTTPPort),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

// Close releases connections in reverse order of opening.
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

// SeedAdmin grants the configured admin account its role, creating it if
// needed. It is a no-op when ADMIN_EMAIL is unset.
func (a *App) SeedAdmin(ctx context.Context) error {
	if a.cfg.AdminEmail == "" {
		return nil
	}
	return database.SeedAdminUser(ctx, a.db, a.logger, a.cfg.AdminEmail, a.cfg.AdminPassword)
}

func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
