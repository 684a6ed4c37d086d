package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"outfitbot/models"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the api, worker and cli binaries.
type Config struct {
	Env       string          `yaml:"env"`
	HTTP      HTTPConfig      `yaml:"http"`
	City      string          `yaml:"city" validate:"required"`
	Weather   WeatherConfig   `yaml:"weather"`
	Wardrobe  WardrobeConfig  `yaml:"wardrobe"`
	Messenger MessengerConfig `yaml:"messenger"`
	Image     ImageConfig     `yaml:"image"`
	Storage   StorageConfig   `yaml:"storage"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Queue     QueueConfig     `yaml:"queue"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Database  DatabaseConfig  `yaml:"database"`
	Sentry    SentryConfig    `yaml:"sentry"`
}

type HTTPConfig struct {
	Address       string `yaml:"address" validate:"required"`
	DedupCapacity int    `yaml:"dedupCapacity" validate:"min=1"`
}

type WeatherConfig struct {
	APIKey   string        `yaml:"apiKey"`
	Location string        `yaml:"location" validate:"required"`
	BaseURL  string        `yaml:"baseUrl" validate:"required"`
	CacheTTL time.Duration `yaml:"cacheTtl"`
	Timeout  time.Duration `yaml:"timeout"`
}

// WardrobeConfig picks the catalog source: embedded, file or db.
type WardrobeConfig struct {
	Source string `yaml:"source" validate:"oneof=embedded file db"`
	Path   string `yaml:"path"`
}

type MessengerConfig struct {
	Platform string         `yaml:"platform" validate:"platform"`
	Telegram TelegramConfig `yaml:"telegram"`
	Feishu   FeishuConfig   `yaml:"feishu"`
	FCM      FCMConfig      `yaml:"fcm"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chatId"`
	// Polling runs a long-poll loop in the api binary instead of relying on the webhook.
	Polling bool `yaml:"polling"`
}

type FeishuConfig struct {
	AppID             string `yaml:"appId"`
	AppSecret         string `yaml:"appSecret"`
	OpenID            string `yaml:"openId"`
	BaseURL           string `yaml:"baseUrl"`
	VerificationToken string `yaml:"verificationToken"`
}

type FCMConfig struct {
	ProjectID       string   `yaml:"projectId"`
	CredentialsFile string   `yaml:"credentialsFile"`
	Tokens          []string `yaml:"tokens"`
}

type ImageConfig struct {
	Enabled       bool    `yaml:"enabled"`
	APIKey        string  `yaml:"apiKey"`
	Model         string  `yaml:"model" validate:"omitempty,oneof=gemini-3-pro-image-preview gemini-2.5-flash-image-preview"`
	BaseImagePath string  `yaml:"baseImagePath"`
	OutputDir     string  `yaml:"outputDir"`
	MaxSide       int     `yaml:"maxSide" validate:"min=0"`
	Temperature   float32 `yaml:"temperature" validate:"min=0,max=2"`
}

// StorageConfig points at an R2 bucket used to publish generated images.
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	AccountID       string `yaml:"accountId"`
	AccessKeyID     string `yaml:"accessKeyId"`
	AccessKeySecret string `yaml:"accessKeySecret"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
}

type CalendarConfig struct {
	Provider              string `yaml:"provider" validate:"oneof=feishu google mock"`
	GoogleCredentialsFile string `yaml:"googleCredentialsFile"`
	GoogleAPIKey          string `yaml:"googleApiKey"`
	GoogleCalendarID      string `yaml:"googleCalendarId"`
}

type QueueConfig struct {
	// Mode is "local" for in-process dispatch or "asynq" for the redis-backed worker.
	Mode          string `yaml:"mode" validate:"oneof=local asynq"`
	BrokerAddress string `yaml:"brokerAddress"`
	Name          string `yaml:"name" validate:"required"`
	Concurrency   int    `yaml:"concurrency" validate:"min=1"`
}

type ScheduleConfig struct {
	PushTime    string `yaml:"pushTime" validate:"required"`
	MorningTime string `yaml:"morningTime"`
	Timezone    string `yaml:"timezone" validate:"required"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Name     string `yaml:"name"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.Username, d.Password, d.Host, d.Port, d.Name)
}

type SentryConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env:  "development",
		City: "北京",
		HTTP: HTTPConfig{
			Address:       ":5000",
			DedupCapacity: 1000,
		},
		Weather: WeatherConfig{
			Location: "101010100",
			BaseURL:  "https://devapi.qweather.com",
			CacheTTL: 10 * time.Minute,
			Timeout:  10 * time.Second,
		},
		Wardrobe: WardrobeConfig{Source: "embedded"},
		Messenger: MessengerConfig{
			Platform: "feishu",
			Feishu:   FeishuConfig{BaseURL: "https://open.feishu.cn"},
		},
		Image: ImageConfig{
			Model:         "gemini-3-pro-image-preview",
			BaseImagePath: "assets/base_character.png",
			OutputDir:     os.TempDir(),
			MaxSide:       1536,
			Temperature:   0.8,
		},
		Storage: StorageConfig{Prefix: "outfits/"},
		Calendar: CalendarConfig{
			Provider:         "mock",
			GoogleCalendarID: "primary",
		},
		Queue: QueueConfig{
			Mode:          "local",
			BrokerAddress: "localhost:6379",
			Name:          "outfit",
			Concurrency:   4,
		},
		Schedule: ScheduleConfig{
			PushTime:    "08:00",
			MorningTime: "08:00",
			Timezone:    "Asia/Shanghai",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("CITY"); v != "" {
		cfg.City = v
	}
	if v := os.Getenv("CITY_ID"); v != "" {
		cfg.Weather.Location = v
	}
	if v := os.Getenv("QWEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("QWEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.CacheTTL = parsed
		}
	}
	if v := os.Getenv("WARDROBE_SOURCE"); v != "" {
		cfg.Wardrobe.Source = v
	}
	if v := os.Getenv("WARDROBE_PATH"); v != "" {
		cfg.Wardrobe.Path = v
	}
	if v := os.Getenv("MESSENGER_PLATFORM"); v != "" {
		cfg.Messenger.Platform = v
	}
	if v := os.Getenv("TG_TOKEN"); v != "" {
		cfg.Messenger.Telegram.Token = v
	}
	if v := os.Getenv("TG_CHAT_ID"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Messenger.Telegram.ChatID = parsed
		}
	}
	if v := os.Getenv("TG_POLLING"); v != "" {
		cfg.Messenger.Telegram.Polling = parseBool(v)
	}
	if v := os.Getenv("FEISHU_APP_ID"); v != "" {
		cfg.Messenger.Feishu.AppID = v
	}
	if v := os.Getenv("FEISHU_APP_SECRET"); v != "" {
		cfg.Messenger.Feishu.AppSecret = v
	}
	if v := os.Getenv("FEISHU_OPEN_ID"); v != "" {
		cfg.Messenger.Feishu.OpenID = v
	}
	if v := os.Getenv("FEISHU_VERIFICATION_TOKEN"); v != "" {
		cfg.Messenger.Feishu.VerificationToken = v
	}
	if v := os.Getenv("FIREBASE_PROJECT_ID"); v != "" {
		cfg.Messenger.FCM.ProjectID = v
	}
	if v := os.Getenv("FIREBASE_CREDENTIALS_FILE"); v != "" {
		cfg.Messenger.FCM.CredentialsFile = v
	}
	if v := os.Getenv("FCM_TOKENS"); v != "" {
		cfg.Messenger.FCM.Tokens = splitList(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Image.APIKey = v
		cfg.Image.Enabled = true
	}
	if v := os.Getenv("GEMINI_IMAGE_MODEL"); v != "" {
		cfg.Image.Model = v
	}
	if v := os.Getenv("IMAGE_ENABLED"); v != "" {
		cfg.Image.Enabled = parseBool(v)
	}
	if v := os.Getenv("BASE_IMAGE_PATH"); v != "" {
		cfg.Image.BaseImagePath = v
	}
	if v := os.Getenv("IMAGE_OUTPUT_DIR"); v != "" {
		cfg.Image.OutputDir = v
	}
	if v := os.Getenv("R2_ACCOUNT_ID"); v != "" {
		cfg.Storage.AccountID = v
		cfg.Storage.Enabled = true
	}
	if v := os.Getenv("R2_ACCESS_KEY_ID"); v != "" {
		cfg.Storage.AccessKeyID = v
	}
	if v := os.Getenv("R2_ACCESS_KEY_SECRET"); v != "" {
		cfg.Storage.AccessKeySecret = v
	}
	if v := os.Getenv("R2_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("CALENDAR_PROVIDER"); v != "" {
		cfg.Calendar.Provider = v
	}
	if v := os.Getenv("GOOGLE_CALENDAR_CREDENTIALS"); v != "" {
		cfg.Calendar.GoogleCredentialsFile = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Calendar.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_CALENDAR_ID"); v != "" {
		cfg.Calendar.GoogleCalendarID = v
	}
	if v := os.Getenv("QUEUE_MODE"); v != "" {
		cfg.Queue.Mode = v
	}
	if v := os.Getenv("ASYNC_BROKER_ADDRESS"); v != "" {
		cfg.Queue.BrokerAddress = v
	}
	if v := os.Getenv("PUSH_TIME"); v != "" {
		cfg.Schedule.PushTime = v
	}
	if v := os.Getenv("MORNING_PUSH_TIME"); v != "" {
		cfg.Schedule.MorningTime = v
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Schedule.Timezone = v
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		cfg.Database.Username = v
		cfg.Database.Enabled = true
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" {
		cfg.Sentry.DSN = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate ensures mandatory configuration is present.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("platform", models.ValidatePlatform); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return err
	}

	if _, err := PushTimeToCron(c.Schedule.PushTime); err != nil {
		return err
	}
	if c.Schedule.MorningTime != "" {
		if _, err := PushTimeToCron(c.Schedule.MorningTime); err != nil {
			return err
		}
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}

	switch c.Messenger.Platform {
	case "telegram":
		if c.Messenger.Telegram.Token == "" {
			return errors.New("messenger.telegram.token is required")
		}
	case "feishu":
		if c.Messenger.Feishu.AppID == "" || c.Messenger.Feishu.AppSecret == "" {
			return errors.New("messenger.feishu.appId and appSecret are required")
		}
	case "fcm":
		if c.Messenger.FCM.ProjectID == "" {
			return errors.New("messenger.fcm.projectId is required")
		}
		if !c.Storage.Enabled {
			return errors.New("fcm delivery needs storage to publish images")
		}
	}

	if c.Wardrobe.Source == "file" && c.Wardrobe.Path == "" {
		return errors.New("wardrobe.path is required for the file source")
	}
	if c.Wardrobe.Source == "db" && !c.Database.Enabled {
		return errors.New("wardrobe source db needs database settings")
	}
	if c.Image.Enabled && c.Image.APIKey == "" {
		return errors.New("image.apiKey is required when image generation is enabled")
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return errors.New("storage.bucket is required")
	}
	if c.Calendar.Provider == "google" && c.Calendar.GoogleCredentialsFile == "" && c.Calendar.GoogleAPIKey == "" {
		return errors.New("calendar.googleCredentialsFile or googleApiKey is required")
	}
	if c.Queue.Mode == "asynq" && c.Queue.BrokerAddress == "" {
		return errors.New("queue.brokerAddress is required for asynq mode")
	}
	return nil
}

// Location returns the configured schedule timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// PushTimeToCron turns "HH:MM" into a daily cron expression.
func PushTimeToCron(pushTime string) (string, error) {
	parts := strings.Split(strings.TrimSpace(pushTime), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("push time %q must be HH:MM", pushTime)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("push time %q has an invalid hour", pushTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("push time %q has an invalid minute", pushTime)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
