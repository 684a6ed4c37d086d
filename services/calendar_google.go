package services

import (
	"context"
	"fmt"
	"time"

	"outfitbot/config"
	"outfitbot/models"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendar reads events from a single Google calendar.
type GoogleCalendar struct {
	Service    *calendar.Service
	CalendarID string
	Location   *time.Location
}

func NewGoogleCalendar(ctx context.Context, cfg config.CalendarConfig, loc *time.Location, extra ...option.ClientOption) (*GoogleCalendar, error) {
	opts := append([]option.ClientOption{}, extra...)
	switch {
	case cfg.GoogleCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	case cfg.GoogleAPIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.GoogleAPIKey))
	}
	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google calendar service: %w", err)
	}
	calendarID := cfg.GoogleCalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{Service: srv, CalendarID: calendarID, Location: loc}, nil
}

func (g *GoogleCalendar) FetchEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	loc := g.Location
	if loc == nil {
		loc = time.Local
	}
	resp, err := g.Service.Events.List(g.CalendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list google events: %w", err)
	}

	events := make([]models.CalendarEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Start == nil {
			continue
		}
		title := item.Summary
		if title == "" {
			title = "无标题"
		}
		event := models.CalendarEvent{Title: title}
		if item.Start.Date != "" {
			event.IsAllDay = true
			event.Start, _ = time.ParseInLocation("2006-01-02", item.Start.Date, loc)
			if item.End != nil {
				event.End, _ = time.ParseInLocation("2006-01-02", item.End.Date, loc)
			}
		} else {
			event.Start, err = time.Parse(time.RFC3339, item.Start.DateTime)
			if err != nil {
				continue
			}
			event.Start = event.Start.In(loc)
			if item.End != nil {
				if parsed, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
					event.End = parsed.In(loc)
				}
			}
		}
		events = append(events, event)
	}
	SortEvents(events)
	return events, nil
}
