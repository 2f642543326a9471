// Package app wires configuration, the gateway, stores, the chat
// controller and the HTTP surface into one runnable service.
package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"santachat/internal/ai"
	"santachat/internal/chat"
	"santachat/internal/config"
	"santachat/internal/handler"
	"santachat/internal/media"
	"santachat/internal/retail"
	"santachat/internal/server"
	"santachat/internal/session"
	"santachat/pkg/logger"
)

type App struct {
	server *server.Server
	log    *logrus.Logger
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	gw, err := newGateway(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	mediaStore, err := newMediaStore(cfg, log)
	if err != nil {
		return nil, err
	}

	// Dependencies
	store := session.New()
	ctrl := chat.NewController(gw, store, mediaStore, log)
	retailCache := retail.NewCache(gw, log)

	authHandler := handler.NewAuthHandler(log)
	wishHandler := handler.NewWishHandler(store, log)
	noteHandler := handler.NewNoteHandler(store, log)
	personaHandler := handler.NewPersonaHandler(store, ctrl, log)
	retailHandler := handler.NewRetailHandler(retailCache)
	chatWSHandler := handler.NewChatWSHandler(ctrl, store, log)
	mediaHandler := handler.NewMediaHandler(mediaStore)

	// Routing & Server
	mux := server.NewMux(authHandler, wishHandler, noteHandler, personaHandler, retailHandler, chatWSHandler, mediaHandler)
	srv := server.New(cfg.Port, mux, log)

	return &App{server: srv, log: log}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func (a *App) Logger() *logrus.Logger {
	return a.log
}

func newGateway(ctx context.Context, cfg *config.Config, log *logrus.Logger) (ai.Gateway, error) {
	if cfg.FakeAI {
		log.Warn("SANTA_FAKE_AI is set; using the offline gateway")
		return &ai.Fake{Wishes: map[string]string{"bicycle": "bicycle"}}, nil
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required (or set SANTA_FAKE_AI=1)")
	}
	gw, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, log)
	if err != nil {
		return nil, fmt.Errorf("init gemini gateway: %w", err)
	}
	return gw, nil
}

func newMediaStore(cfg *config.Config, log *logrus.Logger) (media.Store, error) {
	if cfg.Media.Backend == "s3" {
		s3Store, err := media.NewS3Store(media.S3Config{
			Endpoint:  cfg.Media.Endpoint,
			Region:    cfg.Media.Region,
			AccessKey: cfg.Media.AccessKey,
			SecretKey: cfg.Media.SecretKey,
			Bucket:    cfg.Media.Bucket,
			UseSSL:    cfg.Media.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init media s3 store: %w", err)
		}
		log.WithFields(logrus.Fields{"bucket": cfg.Media.Bucket, "endpoint": cfg.Media.Endpoint}).Info("media store: s3")
		return s3Store, nil
	}
	return media.NewMemoryStore(cfg.Media.MaxClips)
}
