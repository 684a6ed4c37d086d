package briefing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"outfitbot/models"
)

const (
	DefaultTodayLimit    = 5
	DefaultTomorrowLimit = 3
	noEventsText         = "今天没有日程安排，轻松一天 ☕"
)

// CalendarSource returns events overlapping [start, end), sorted by start.
type CalendarSource interface {
	FetchEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error)
}

// FormatEvents renders one bullet per event, at most max lines plus an
// overflow line.
func FormatEvents(events []models.CalendarEvent, max int) string {
	if len(events) == 0 {
		return noEventsText
	}
	if max <= 0 {
		max = DefaultTodayLimit
	}
	lines := make([]string, 0, max+1)
	for i, event := range events {
		if i == max {
			break
		}
		title := event.Title
		if title == "" {
			title = "无标题"
		}
		lines = append(lines, fmt.Sprintf("• %s %s", event.DisplayTime(), title))
	}
	if len(events) > max {
		lines = append(lines, fmt.Sprintf("  ...还有 %d 件事", len(events)-max))
	}
	return strings.Join(lines, "\n")
}

// MockCalendar serves a fixed working day. Ranges starting on the day of Now
// get the today list, the following day gets the tomorrow list.
type MockCalendar struct {
	Now func() time.Time
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func MockTodayEvents(day time.Time) []models.CalendarEvent {
	return []models.CalendarEvent{
		{Title: "S9项目周会", Start: at(day, 9, 30), End: at(day, 10, 30)},
		{Title: "产品需求评审", Start: at(day, 14, 0), End: at(day, 15, 0)},
		{Title: "和leader 1:1", Start: at(day, 16, 0), End: at(day, 16, 30)},
	}
}

func MockTomorrowEvents(day time.Time) []models.CalendarEvent {
	return []models.CalendarEvent{
		{Title: "全员大会", Start: at(day, 10, 0), End: at(day, 11, 0)},
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func (m MockCalendar) FetchEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	now = now.In(start.Location())
	switch {
	case sameDay(start, now):
		return MockTodayEvents(start), nil
	case sameDay(start, now.AddDate(0, 0, 1)):
		return MockTomorrowEvents(start), nil
	}
	return nil, nil
}
