package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"outfitbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shanghai = time.FixedZone("CST", 8*3600)

// Thursday
var morning = time.Date(2025, 1, 16, 8, 0, 0, 0, shanghai)

func TestFormatEvents(t *testing.T) {
	assert.Equal(t, "今天没有日程安排，轻松一天 ☕", FormatEvents(nil, 5))

	events := MockTodayEvents(morning)
	assert.Equal(t, "• 09:30-10:30 S9项目周会\n• 14:00-15:00 产品需求评审\n• 16:00-16:30 和leader 1:1", FormatEvents(events, 5))

	var many []models.CalendarEvent
	for i := 0; i < 7; i++ {
		many = append(many, models.CalendarEvent{Title: fmt.Sprintf("会议%d", i), IsAllDay: true})
	}
	text := FormatEvents(many, 5)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "• 全天 会议0", lines[0])
	assert.Equal(t, "  ...还有 2 件事", lines[5])

	assert.Equal(t, "• 全天 无标题", FormatEvents([]models.CalendarEvent{{IsAllDay: true}}, 3))
}

func TestBuildMorningMessage(t *testing.T) {
	weather := models.WeatherReading{Temp: -2, FeelsLike: -4, Text: "晴"}
	title, content := BuildMorningMessage(morning, "北京", &weather, MockTodayEvents(morning), MockTomorrowEvents(morning), "")

	assert.Equal(t, "☀️ 早安，今天是 1月16日 周四", title)
	expected := strings.Join([]string{
		"🌡️ 北京 | 晴 -2°C | 体感-4°C",
		"\n👔 很冷！记得穿羽绒服",
		"\n📅 今日日程（3件）",
		"• 09:30-10:30 S9项目周会\n• 14:00-15:00 产品需求评审\n• 16:00-16:30 和leader 1:1",
		"\n👀 明日预告",
		"• 10:00-11:00 全员大会",
		"\n祝你开工顺利 🚀",
	}, "\n")
	assert.Equal(t, expected, content)
}

func TestBuildMorningMessageWithOutfitAndNoTomorrow(t *testing.T) {
	evening := time.Date(2025, 1, 19, 19, 0, 0, 0, shanghai)
	weather := models.WeatherReading{Temp: 22, FeelsLike: 20, Text: "多云"}
	title, content := BuildMorningMessage(evening, "上海", &weather, nil, nil, "📍 今日穿搭：\n上装：衬衫（白色）")

	assert.Equal(t, "🌆 晚上好，今天是 1月19日 周日", title)
	assert.Contains(t, content, "\n👔 今日穿搭\n📍 今日穿搭：")
	assert.Contains(t, content, "📅 今日日程（0件）\n今天没有日程安排，轻松一天 ☕")
	assert.NotContains(t, content, "明日预告")
	assert.NotContains(t, content, "温度适宜")
}

func TestBuildMorningMessageWithoutWeather(t *testing.T) {
	_, content := BuildMorningMessage(morning, "北京", nil, nil, nil, "")
	assert.True(t, strings.HasPrefix(content, "\n📅 今日日程（0件）"))
}

func TestMockCalendar(t *testing.T) {
	cal := MockCalendar{Now: func() time.Time { return morning }}
	start := time.Date(2025, 1, 16, 0, 0, 0, 0, shanghai)

	today, err := cal.FetchEvents(context.Background(), start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, today, 3)

	tomorrow, err := cal.FetchEvents(context.Background(), start.AddDate(0, 0, 1), start.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, tomorrow, 1)
	assert.Equal(t, 17, tomorrow[0].Start.Day())

	later, err := cal.FetchEvents(context.Background(), start.AddDate(0, 0, 5), start.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Empty(t, later)
}

type brokenWeather struct{}

func (brokenWeather) Fetch(ctx context.Context) (models.WeatherReading, error) {
	return models.WeatherReading{}, errors.New("timeout")
}

type brokenCalendar struct{}

func (brokenCalendar) FetchEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	return nil, errors.New("no permission")
}

func TestServiceComposeMock(t *testing.T) {
	s := &Service{City: "北京", Weather: brokenWeather{}, Calendar: brokenCalendar{}, Location: shanghai, Now: func() time.Time { return morning }}
	b := s.Compose(context.Background(), true, nil, "")

	assert.Equal(t, -2, b.Weather.Temp)
	assert.Equal(t, "晴", b.Weather.Text)
	assert.Len(t, b.Today, 3)
	assert.Len(t, b.Tomorrow, 1)
	assert.Contains(t, b.Content, "🌡️ 北京 | 晴 -2°C | 体感-4°C")
}

func TestServiceComposeLiveFailures(t *testing.T) {
	s := &Service{City: "北京", Weather: brokenWeather{}, Calendar: brokenCalendar{}, Location: shanghai, Now: func() time.Time { return morning }}
	b := s.Compose(context.Background(), false, nil, "")

	assert.Equal(t, 15, b.Weather.Temp)
	assert.Equal(t, "多云", b.Weather.Text)
	assert.Empty(t, b.Today)
	assert.Empty(t, b.Tomorrow)
	assert.Contains(t, b.Content, "今天没有日程安排")
}

func TestServiceComposeUsesGivenWeather(t *testing.T) {
	s := &Service{City: "北京", Location: shanghai, Now: func() time.Time { return morning }}
	w := models.WeatherReading{Temp: 30, FeelsLike: 33, Text: "晴"}
	b := s.Compose(context.Background(), false, &w, "")
	assert.Equal(t, 30, b.Weather.Temp)
	assert.Contains(t, b.Content, "今天很热")
	// no calendar configured falls back to the mock day
	assert.Len(t, b.Today, 3)
}
