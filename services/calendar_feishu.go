package services

import (
	"context"
	"log"
	"sort"
	"strconv"
	"time"

	"outfitbot/models"

	larkcalendar "github.com/larksuite/oapi-sdk-go/v3/service/calendar/v4"
)

// FeishuCalendar lists events across every calendar the app can see.
type FeishuCalendar struct {
	Client   *FeishuClient
	Location *time.Location
}

func (c *FeishuCalendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *FeishuCalendar) FetchEvents(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	calendarIDs, err := c.Client.CalendarIDs(ctx)
	if err != nil {
		return nil, err
	}

	var events []models.CalendarEvent
	for _, id := range calendarIDs {
		items, err := c.Client.CalendarEvents(ctx, id, start, end)
		if err != nil {
			log.Printf("[Calendar] skipping calendar %s: %v", id, err)
			continue
		}
		for _, item := range items {
			event, ok := c.parseEvent(item)
			if ok {
				events = append(events, event)
			}
		}
	}
	SortEvents(events)
	return events, nil
}

func eventTime(t *larkcalendar.TimeInfo) (date, timestamp string) {
	if t == nil {
		return "", ""
	}
	return deref(t.Date), deref(t.Timestamp)
}

func (c *FeishuCalendar) parseEvent(item *larkcalendar.CalendarEvent) (models.CalendarEvent, bool) {
	if item == nil {
		return models.CalendarEvent{}, false
	}
	title := deref(item.Summary)
	if title == "" {
		title = "无标题"
	}
	loc := c.location()
	startDate, startStamp := eventTime(item.StartTime)
	endDate, endStamp := eventTime(item.EndTime)

	if startDate != "" {
		start, err := time.ParseInLocation("2006-01-02", startDate, loc)
		if err != nil {
			log.Printf("[Calendar] bad all-day date %q: %v", startDate, err)
			return models.CalendarEvent{}, false
		}
		end, err := time.ParseInLocation("2006-01-02", endDate, loc)
		if err != nil {
			end = start.AddDate(0, 0, 1)
		}
		return models.CalendarEvent{Title: title, Start: start, End: end, IsAllDay: true}, true
	}

	startTS, err := strconv.ParseInt(startStamp, 10, 64)
	if err != nil {
		log.Printf("[Calendar] bad timestamp %q: %v", startStamp, err)
		return models.CalendarEvent{}, false
	}
	endTS, err := strconv.ParseInt(endStamp, 10, 64)
	if err != nil {
		endTS = startTS
	}
	return models.CalendarEvent{
		Title: title,
		Start: time.Unix(startTS, 0).In(loc),
		End:   time.Unix(endTS, 0).In(loc),
	}, true
}

// SortEvents orders events by start time, earliest first.
func SortEvents(events []models.CalendarEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
