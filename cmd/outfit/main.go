package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"outfitbot/app"
	"outfitbot/assets"
	"outfitbot/config"
	"outfitbot/models"
	"outfitbot/outfit"
	"outfitbot/services"
	"outfitbot/tasks"

	"github.com/getsentry/sentry-go"
	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "outfit",
		Usage: "Daily outfit assistant",
		Commands: []*cli.Command{
			pushCmd(),
			morningCmd(),
			previewCmd(),
			seedCmd(),
		},
	}

	defer sentry.Flush(2 * time.Second)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := app.InitSentry(cfg, "outfitbot-cli@1.0.0"); err != nil {
		return nil, fmt.Errorf("sentry.Init: %w", err)
	}
	return app.New(ctx, cfg)
}

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Recommend today's outfit and send it",
		ArgsUsage: "[style request...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Usage: "Recipient (defaults to the configured one)"},
			&cli.BoolFlag{Name: "card", Usage: "Send a single card instead of image + text"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			return a.Pusher.PushOutfit(ctx, tasks.OutfitPushPayload{
				Text:      strings.Join(cmd.Args().Slice(), " "),
				Recipient: cmd.String("to"),
				Source:    tasks.SourceCLI,
				Card:      cmd.Bool("card"),
			})
		},
	}
}

func morningCmd() *cli.Command {
	return &cli.Command{
		Name:  "morning",
		Usage: "Send the morning briefing card",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "mock", Usage: "Use mock weather and calendar data"},
			&cli.BoolFlag{Name: "with-outfit", Usage: "Include an outfit recommendation"},
			&cli.StringFlag{Name: "to", Usage: "Recipient (defaults to the configured one)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			return a.Pusher.PushMorning(ctx, tasks.MorningPushPayload{
				Recipient:  cmd.String("to"),
				Mock:       cmd.Bool("mock"),
				WithOutfit: cmd.Bool("with-outfit"),
				Source:     tasks.SourceCLI,
			})
		},
	}
}

func previewCmd() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Print a recommendation without sending anything",
		ArgsUsage: "[style request...]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "temp", Usage: "Use a mock reading at this temperature"},
			&cli.StringFlag{Name: "weather", Usage: "Condition text for the mock reading", Value: "晴"},
			&cli.StringFlag{Name: "wardrobe", Usage: "Wardrobe JSON file (defaults to the built-in catalog)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var store outfit.WardrobeStore = services.NewEmbeddedWardrobe()
			if path := cmd.String("wardrobe"); path != "" {
				store = services.NewFileWardrobe(path)
			}

			var reading *models.WeatherReading
			var source outfit.WeatherSource
			if cmd.IsSet("temp") {
				w := outfit.MockWeather(int(cmd.Int("temp")), cmd.String("weather"))
				reading = &w
			} else {
				source = previewWeatherSource(config.Load)
			}

			rec, err := outfit.NewRecommender(source, store, nil).Build(ctx, reading, strings.Join(cmd.Args().Slice(), " "))
			if err != nil {
				return err
			}
			printRecommendation(os.Stdout, rec)
			return nil
		},
	}
}

// previewWeatherSource returns the live weather client, or nil when the
// config cannot be loaded so the fallback reading is used.
func previewWeatherSource(load func() (*config.Config, error)) outfit.WeatherSource {
	cfg, err := load()
	if err != nil {
		log.Printf("[Weather] config not loaded, using fallback reading: %v", err)
		return nil
	}
	return services.NewQWeatherClient(cfg.Weather)
}

func printRecommendation(w io.Writer, rec models.Recommendation) {
	fmt.Fprintf(w, "📍 天气: %s %d°C (体感 %d°C)\n", rec.Weather.Text, rec.Weather.Temp, rec.Weather.FeelsLike)
	fmt.Fprintf(w, "👔 %s\n", rec.Suggestion.Text)
	if len(rec.StyleTags) > 0 {
		fmt.Fprintf(w, "🎀 风格: %s\n", strings.Join(rec.StyleTags, ", "))
	}
	fmt.Fprintf(w, "\n%s\n\n%s\n", rec.OutfitText, rec.MoodText)
	fmt.Fprintf(w, "\n🎨 Prompt:\n%s\n", rec.Prompt)
}

func seedCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load the wardrobe catalog into the database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "Wardrobe JSON file (defaults to the built-in catalog)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			if a.DB == nil {
				return fmt.Errorf("database is not configured")
			}

			data := assets.WardrobeJSON
			if path := cmd.String("file"); path != "" {
				data, err = os.ReadFile(path)
				if err != nil {
					return err
				}
			}
			wardrobe, err := services.ParseWardrobe(data)
			if err != nil {
				return err
			}
			added, err := services.SeedWardrobe(ctx, a.DB, wardrobe)
			if err != nil {
				return err
			}
			log.Printf("[Seed] added %d of %d items", added, wardrobe.Count())
			return nil
		},
	}
}
