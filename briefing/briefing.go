package briefing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"outfitbot/languageutil"
	"outfitbot/models"
	"outfitbot/outfit"
)

// Briefing is a composed morning card.
type Briefing struct {
	Title    string
	Content  string
	Weather  models.WeatherReading
	Today    []models.CalendarEvent
	Tomorrow []models.CalendarEvent
}

// BuildMorningMessage renders the morning card title and body. weather may be
// nil, in which case the weather and suggestion lines are omitted.
func BuildMorningMessage(now time.Time, city string, weather *models.WeatherReading, today, tomorrow []models.CalendarEvent, outfitText string) (string, string) {
	title := fmt.Sprintf("%s，今天是 %s", languageutil.Greeting(now.Hour()), languageutil.DateString(now))

	var sections []string
	if weather != nil {
		sections = append(sections, fmt.Sprintf("🌡️ %s | %s %d°C | 体感%d°C", city, weather.Text, weather.Temp, weather.FeelsLike))
	}

	if outfitText != "" {
		sections = append(sections, "\n👔 今日穿搭\n"+outfitText)
	} else if weather != nil {
		sections = append(sections, "\n👔 "+outfit.SuggestWarmth(weather.Temp).Text)
	}

	sections = append(sections, fmt.Sprintf("\n📅 今日日程（%d件）", len(today)))
	sections = append(sections, FormatEvents(today, DefaultTodayLimit))

	if len(tomorrow) > 0 {
		sections = append(sections, "\n👀 明日预告")
		sections = append(sections, FormatEvents(tomorrow, DefaultTomorrowLimit))
	}

	sections = append(sections, "\n祝你开工顺利 🚀")
	return title, strings.Join(sections, "\n")
}

// Service gathers weather and calendar data for the morning card.
type Service struct {
	City     string
	Weather  outfit.WeatherSource
	Calendar CalendarSource
	Location *time.Location
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if s.Location != nil {
		now = now.In(s.Location)
	}
	return now
}

// CurrentWeather returns the mock reading (-2°C, 晴) when mock is set, and
// falls back to 15°C 多云 when the live fetch fails.
func (s *Service) CurrentWeather(ctx context.Context, mock bool) models.WeatherReading {
	if mock {
		return outfit.MockWeather(-2, "晴")
	}
	if s.Weather != nil {
		reading, err := s.Weather.Fetch(ctx)
		if err == nil {
			return reading
		}
		log.Printf("[Morning] weather fetch failed, using mock data: %v", err)
	}
	return outfit.MockWeather(15, "多云")
}

func (s *Service) events(ctx context.Context, calendar CalendarSource, start time.Time) []models.CalendarEvent {
	events, err := calendar.FetchEvents(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("[Morning] calendar fetch for %s failed: %v", start.Format("2006-01-02"), err)
		return nil
	}
	return events
}

// Compose builds the briefing. A non-nil weather is used as is.
func (s *Service) Compose(ctx context.Context, mock bool, weather *models.WeatherReading, outfitText string) Briefing {
	now := s.now()

	var reading models.WeatherReading
	if weather != nil {
		reading = *weather
	} else {
		reading = s.CurrentWeather(ctx, mock)
	}

	var calendar CalendarSource = MockCalendar{Now: func() time.Time { return now }}
	if !mock && s.Calendar != nil {
		calendar = s.Calendar
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := s.events(ctx, calendar, startOfDay)
	tomorrow := s.events(ctx, calendar, startOfDay.AddDate(0, 0, 1))
	log.Printf("[Morning] today: %d events, tomorrow: %d events", len(today), len(tomorrow))

	title, content := BuildMorningMessage(now, s.City, &reading, today, tomorrow, outfitText)
	return Briefing{
		Title:    title,
		Content:  content,
		Weather:  reading,
		Today:    today,
		Tomorrow: tomorrow,
	}
}
