// Package app wires configuration into the services shared by the api,
// worker and cli binaries.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"outfitbot/briefing"
	"outfitbot/config"
	"outfitbot/dbhelper"
	"outfitbot/models"
	"outfitbot/outfit"
	"outfitbot/services"
	"outfitbot/tasks"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Wardrobe  outfit.WardrobeStore
	Weather   outfit.WeatherSource
	Messenger services.Messenger
	Pusher    *tasks.Pusher
}

func InitSentry(cfg *config.Config, release string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Env,
		Release:          release,
		Debug:            false,
		TracesSampleRate: 1.0,
	})
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.Database.Enabled {
		db, err := dbhelper.SetupDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.DB = db
	}

	wardrobe, err := a.wardrobeStore()
	if err != nil {
		return nil, err
	}
	a.Wardrobe = wardrobe

	var weather outfit.WeatherSource = services.NewQWeatherClient(cfg.Weather)
	if cfg.Weather.CacheTTL > 0 {
		cached, err := services.NewCachedWeatherSource(weather, cfg.Weather.CacheTTL)
		if err != nil {
			return nil, err
		}
		weather = cached
	}
	a.Weather = weather

	var publisher services.ImagePublisher
	if cfg.Storage.Enabled {
		archive, err := newImageArchive(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		publisher = archive
	}

	messenger, err := services.NewMessenger(ctx, cfg.Messenger, publisher)
	if err != nil {
		return nil, err
	}
	a.Messenger = messenger

	calendar, err := newCalendar(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pusher := &tasks.Pusher{
		Recommender: outfit.NewRecommender(weather, wardrobe, nil),
		Briefing: &briefing.Service{
			City:     cfg.City,
			Weather:  weather,
			Calendar: calendar,
			Location: cfg.Location(),
		},
		Messenger: messenger,
		Platform:  models.Platform(cfg.Messenger.Platform),
	}
	if cfg.Image.Enabled {
		pusher.Images = services.NewGeminiImageGenerator(cfg.Image)
	}
	if a.DB != nil {
		pusher.Logs = services.DBPushLog{DB: a.DB}
	}
	a.Pusher = pusher

	log.Printf("[App] platform=%s wardrobe=%s calendar=%s images=%v queue=%s",
		cfg.Messenger.Platform, cfg.Wardrobe.Source, cfg.Calendar.Provider, cfg.Image.Enabled, cfg.Queue.Mode)
	return a, nil
}

func (a *App) wardrobeStore() (outfit.WardrobeStore, error) {
	switch a.Config.Wardrobe.Source {
	case "file":
		return services.NewFileWardrobe(a.Config.Wardrobe.Path), nil
	case "db":
		if a.DB == nil {
			return nil, fmt.Errorf("wardrobe source db needs a database")
		}
		return services.DBWardrobe{DB: a.DB}, nil
	}
	return services.NewEmbeddedWardrobe(), nil
}

func newImageArchive(ctx context.Context, cfg config.StorageConfig) (*services.ImageArchive, error) {
	awsService, err := services.NewAWSService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	urlCache, err := services.NewURLCacheService(awsService, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	return &services.ImageArchive{
		AWS:    awsService,
		URLs:   urlCache,
		Bucket: cfg.Bucket,
		Prefix: cfg.Prefix,
		HTTP:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func newCalendar(ctx context.Context, cfg *config.Config) (briefing.CalendarSource, error) {
	switch cfg.Calendar.Provider {
	case "feishu":
		return &services.FeishuCalendar{Client: services.NewFeishuClient(cfg.Messenger.Feishu), Location: cfg.Location()}, nil
	case "google":
		return services.NewGoogleCalendar(ctx, cfg.Calendar, cfg.Location())
	}
	return briefing.MockCalendar{}, nil
}

// NewDispatcher returns the configured dispatcher and a function releasing it.
func (a *App) NewDispatcher() (tasks.Dispatcher, func()) {
	if a.Config.Queue.Mode == "asynq" {
		client := tasks.NewClient(a.Config.Queue)
		return &tasks.AsynqDispatcher{Client: client, Queue: a.Config.Queue.Name}, func() {
			if err := client.Close(); err != nil {
				log.Printf("[Queue] close client: %v", err)
			}
		}
	}
	local := tasks.NewLocalDispatcher(tasks.NewServeMux(a.Pusher), a.Config.Queue.Concurrency)
	return local, local.Wait
}
