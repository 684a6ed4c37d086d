package models

import "time"

type CalendarEvent struct {
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	IsAllDay bool      `json:"is_all_day"`
}

func (e CalendarEvent) DisplayTime() string {
	if e.IsAllDay {
		return "全天"
	}
	return e.Start.Format("15:04") + "-" + e.End.Format("15:04")
}
