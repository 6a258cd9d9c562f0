package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safecity/backend/internal/api"
	"safecity/backend/internal/api/handler"
	"safecity/backend/internal/config"
	"safecity/backend/internal/feed"
	"safecity/backend/internal/localization"
	"safecity/backend/internal/logger"
	"safecity/backend/internal/notify"
	"safecity/backend/internal/storage"
	"safecity/backend/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const sessionSweepInterval = 10 * time.Minute

// setupStorage picks postgres when a DSN is configured and the in-memory
// provider otherwise. The returned client is nil without redis.
func setupStorage(ctx context.Context, cfg config.Config) (storage.Storage, *storage.Service, error) {
	seed, err := storage.DefaultSeed()
	if err != nil {
		return nil, nil, err
	}

	if !cfg.UsesDatabase() {
		logger.Info("No DATABASE_DSN set, using in-memory provider (latency %t)", cfg.Provider.LatencyEnabled())
		return storage.NewMemoryStore(cfg.Delays(), seed), nil, nil
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}

	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return nil, nil, err
		}
	}

	svc := storage.NewStorageService(db, rdb)
	if err := svc.Migrate(); err != nil {
		return nil, nil, err
	}
	if err := svc.SeedIfEmpty(ctx, seed); err != nil {
		return nil, nil, err
	}

	logger.Success("Database connected, migrations complete (redis %t)", rdb != nil)
	return svc, svc, nil
}

func setupNotifier(cfg config.Config) notify.Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.DispatchChatID == 0 {
		return notify.Nop{}
	}
	d, err := notify.NewTelegramDispatcher(cfg.Telegram.BotToken, cfg.Telegram.DispatchChatID)
	if err != nil {
		logger.Warning("Telegram dispatch disabled: %v", err)
		return notify.Nop{}
	}
	logger.Info("Telegram dispatch enabled for chat %d", cfg.Telegram.DispatchChatID)
	return d
}

func setupLocalizer(cfg config.Config) (*localization.Localizer, error) {
	if cfg.LocalesDir != "" {
		return localization.NewLocalizer(cfg.LocalesDir)
	}
	return localization.NewEmbeddedLocalizer()
}

func main() {
	logger.Info("Starting SafeCity backend...")

	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file loaded")
	}
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, svc, err := setupStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}

	localizer, err := setupLocalizer(cfg)
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	hub := feed.NewManagerService()
	if svc != nil && svc.Redis != nil {
		hub.StartPubSubListener(ctx, svc.SubscribeCreated(ctx))
	}
	go hub.Run(ctx)

	wizards := wizard.NewSessions(config.WizardSessionTTL)
	go wizards.RunSweeper(ctx, sessionSweepInterval)

	h := handler.NewHandler(store, wizards, hub, setupNotifier(cfg), localizer)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        api.SetupRouter(h),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown: %v", err)
		}
	}()

	logger.Success("Listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	logger.Info("Server stopped")
}
