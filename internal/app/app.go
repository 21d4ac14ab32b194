package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/templui/profiledesk/internal/config"
	"github.com/templui/profiledesk/internal/db"
	"github.com/templui/profiledesk/internal/keylock"
	"github.com/templui/profiledesk/internal/repository"
	"github.com/templui/profiledesk/internal/service"
	"github.com/templui/profiledesk/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB      // nil when DB_DRIVER is mongodb
	Mongo          *mongo.Client // nil for SQL drivers
	Storage        storage.Storage
	AuthService    *service.AuthService
	PhotoService   *service.PhotoService
	ProfileService *service.ProfileService
	EmailService   *service.EmailService
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	a := &App{Cfg: cfg}

	// Record store
	userRepository, err := a.openUsers(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = fileStorage

	return a.wire(userRepository, fileStorage), nil
}

// NewWithDeps builds an App around an existing record store and blob backend.
func NewWithDeps(cfg *config.Config, users repository.UserRepository, fileStorage storage.Storage) *App {
	a := &App{Cfg: cfg, Storage: fileStorage}
	return a.wire(users, fileStorage)
}

func (a *App) wire(userRepository repository.UserRepository, fileStorage storage.Storage) *App {
	cfg := a.Cfg

	profileBlobs := storage.NewBlobStore(fileStorage, storage.ProfileFolder)
	certificateBlobs := storage.NewBlobStore(fileStorage, storage.CertificateFolder)

	// Photo and profile edits serialize on the same account lock
	locks := keylock.New()

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		cfg.JWTSecret,
		cfg.SessionExpiry,
		cfg.SecureCookies(),
	)
	photoService := service.NewPhotoService(userRepository, profileBlobs, locks, cfg.PhotoMaxSize)
	profileService := service.NewProfileService(
		userRepository,
		photoService,
		certificateBlobs,
		locks,
		emailService,
		cfg.CertificateMaxSize,
	)

	a.AuthService = authService
	a.PhotoService = photoService
	a.ProfileService = profileService
	a.EmailService = emailService
	return a
}

func (a *App) openUsers(ctx context.Context) (repository.UserRepository, error) {
	cfg := a.Cfg

	if cfg.DBDriver == "mongodb" {
		client, database, err := db.ConnectMongo(ctx, cfg.DBConnection, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.Mongo = client

		users, err := repository.NewMongoUserRepository(ctx, database)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare users collection: %w", err)
		}
		return users, nil
	}

	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = database

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repository.NewUserRepository(database), nil
}

// Ping checks the record store. Used by the health endpoint.
func (a *App) Ping(ctx context.Context) error {
	switch {
	case a.DB != nil:
		return a.DB.PingContext(ctx)
	case a.Mongo != nil:
		return a.Mongo.Ping(ctx, readpref.Primary())
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Mongo != nil {
		errs = append(errs, a.Mongo.Disconnect(context.Background()))
	}
	return errors.Join(errs...)
}
