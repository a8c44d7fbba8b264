package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"rentalsBack/internal/config"
	"rentalsBack/internal/handlers"
	"rentalsBack/internal/notify"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/services"
	"rentalsBack/internal/session"
	"rentalsBack/internal/uploads"
)

type application struct {
	cfg      config.Config
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	sessions       *session.Manager
	memorySessions *session.MemoryStore
	redis          *redis.Client
	media          uploads.Store
	hub            *notify.Hub

	userService *services.UserService

	authHandler     *handlers.AuthHandler
	propertyHandler *handlers.PropertyHandler
	listingHandler  *handlers.ListingHandler
	favoriteHandler *handlers.FavoriteHandler
	messageHandler  *handlers.MessageHandler
}

func initializeApp(ctx context.Context, cfg config.Config, db *sql.DB, errorLog, infoLog *log.Logger) (*application, error) {
	app := &application{cfg: cfg, errorLog: errorLog, infoLog: infoLog, db: db}

	store, err := app.newSessionStore(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewManager(store, cfg.Session.SigningKey, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}
	sessions.CookieName = cfg.Session.CookieName
	sessions.Secure = cfg.Session.Secure
	app.sessions = sessions

	media, err := newUploadStore(cfg)
	if err != nil {
		return nil, err
	}
	app.media = media

	templates, err := handlers.NewTemplates(media)
	if err != nil {
		return nil, err
	}

	app.hub = notify.NewHub(hubLogger{infoLog: infoLog, errorLog: errorLog})

	userRepo := &repositories.UserRepository{DB: db}
	propertyRepo := &repositories.PropertyRepository{DB: db}
	imageRepo := &repositories.PropertyImageRepository{DB: db}
	favoriteRepo := &repositories.FavoriteRepository{DB: db}
	messageRepo := &repositories.MessageRepository{DB: db}

	userService := &services.UserService{UserRepo: userRepo}
	propertyService := &services.PropertyService{
		PropertyRepo: propertyRepo,
		ImageRepo:    imageRepo,
		Uploads:      media,
		ErrorLog:     errorLog,
	}
	favoriteService := &services.FavoriteService{
		PropertyRepo: propertyRepo,
		FavoriteRepo: favoriteRepo,
		StalePolicy:  services.StalePolicy(cfg.Favorites.StalePolicy),
	}
	messageService := &services.MessageService{MessageRepo: messageRepo, Notifier: app.hub}
	app.userService = userService

	views := &handlers.Views{Templates: templates, Sessions: sessions, ErrorLog: errorLog}
	app.authHandler = &handlers.AuthHandler{Views: views, Service: userService, Properties: propertyService}
	app.propertyHandler = &handlers.PropertyHandler{
		Views:          views,
		Service:        propertyService,
		Messages:       messageService,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
	}
	app.listingHandler = &handlers.ListingHandler{
		Views:      views,
		Properties: propertyService,
		Messages:   messageService,
		Favorites:  favoriteService,
	}
	app.favoriteHandler = &handlers.FavoriteHandler{Views: views, Service: favoriteService}
	app.messageHandler = &handlers.MessageHandler{Views: views, Service: messageService, Hub: app.hub}

	return app, nil
}

func (app *application) newSessionStore(ctx context.Context) (session.Store, error) {
	cfg := app.cfg.Session
	if cfg.Backend == "memory" {
		app.memorySessions = session.NewMemoryStore()
		return app.memorySessions, nil
	}

	app.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := app.redis.Ping(ctx).Err(); err != nil {
		app.redis.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	app.infoLog.Printf("Session store connected to redis at %s", cfg.RedisAddr)
	return session.NewRedisStore(app.redis), nil
}

func newUploadStore(cfg config.Config) (uploads.Store, error) {
	u := cfg.Uploads
	switch u.Backend {
	case "s3":
		return uploads.NewS3Store(uploads.S3Config{
			Bucket:    u.S3Bucket,
			Region:    u.S3Region,
			Endpoint:  u.S3Endpoint,
			AccessKey: u.S3AccessKey,
			SecretKey: u.S3SecretKey,
			PublicURL: u.S3PublicURL,
		})
	case "cloudinary":
		return uploads.NewCloudinaryStore(u.CloudinaryURL, u.Folder)
	default:
		return uploads.NewLocalStore(u.Dir, u.BaseURL), nil
	}
}

func (app *application) close() {
	if app.hub != nil {
		app.hub.Close()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.errorLog.Printf("redis close: %v", err)
		}
	}
}

// hubLogger adapts the application loggers to notify.Logger.
type hubLogger struct {
	infoLog  *log.Logger
	errorLog *log.Logger
}

func (l hubLogger) Infof(format string, args ...interface{}) {
	l.infoLog.Printf(format, args...)
}

func (l hubLogger) Errorf(format string, args ...interface{}) {
	l.errorLog.Output(2, fmt.Sprintf(format, args...))
}
