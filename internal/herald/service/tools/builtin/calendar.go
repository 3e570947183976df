package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/domain/service"
	wsEntity "github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
)

func registerCalendar(r *service.Registry, deps Deps) {
	r.Register(GetCalendarEvents, entity.ToolFunc(func(ctx context.Context, userID string, params map[string]any) (any, error) {
		loc := entity.LocationFrom(ctx)
		q := wsEntity.EventQuery{Text: str(params, "query"), Limit: num(params, "limit", 50)}

		var label string
		if days := num(params, "days", 0); days > 1 {
			from, err := resolveDay(str(params, "date"), deps.Now(), loc)
			if err != nil {
				return nil, err
			}
			q.From, q.To = from, from.AddDate(0, 0, days)
			label = fmt.Sprintf("%s +%dd", from.Format("2006-01-02"), days)
		} else if q.Text == "" || str(params, "date") != "" {
			day, err := resolveDay(str(params, "date"), deps.Now(), loc)
			if err != nil {
				return nil, err
			}
			q.From, q.To = day, day.AddDate(0, 0, 1)
			label = day.Format("2006-01-02")
		}

		events, err := deps.Workspace.ListEvents(ctx, userID, q)
		if err != nil {
			return nil, fmt.Errorf("failed to load calendar: %w", err)
		}
		return &entity.EventList{Date: label, Count: len(events), Events: events}, nil
	}), &entity.ToolMetadata{
		Description: "Get the user's calendar events for a day or date range, optionally filtered by text. Omit date for today.",
		Category:    entity.CategoryCalendar,
		Parameters: []entity.ParameterSpec{
			{Name: "date", Type: entity.ParamString, Description: "Day to look at: today, tomorrow, yesterday, a weekday name or YYYY-MM-DD", Examples: []string{"tomorrow", "2026-03-02"}},
			{Name: "days", Type: entity.ParamNumber, Description: "Number of days from date to include"},
			{Name: "query", Type: entity.ParamString, Description: "Text to match in title, description or location"},
			{Name: "limit", Type: entity.ParamNumber, Description: "Maximum number of events"},
		},
		Examples: []entity.ToolExample{
			{Query: "What's on my calendar today?", ExpectedParams: map[string]any{}},
			{Query: "Do I have meetings tomorrow?", ExpectedParams: map[string]any{"date": "tomorrow"}},
			{Query: "When is my dentist appointment?", ExpectedParams: map[string]any{"query": "dentist"}},
		},
		TimeContext: entity.TimeCurrent,
		DataAccess:  entity.AccessRead,
	})

	r.Register(CreateCalendarEvent, entity.ToolFunc(func(ctx context.Context, userID string, params map[string]any) (any, error) {
		loc := entity.LocationFrom(ctx)
		start, err := parseDateTime(str(params, "start"), loc)
		if err != nil {
			return nil, err
		}
		duration := time.Duration(num(params, "duration_minutes", 60)) * time.Minute

		event := &wsEntity.Event{
			ID:          uuid.NewString(),
			UserID:      userID,
			Title:       str(params, "title"),
			Description: str(params, "description"),
			Location:    str(params, "location"),
			Start:       start,
			End:         start.Add(duration),
			Attendees:   strList(params, "attendees"),
		}
		if err := deps.Workspace.SaveEvent(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to create event: %w", err)
		}
		return event, nil
	}), &entity.ToolMetadata{
		Description: "Create a calendar event for the user.",
		Category:    entity.CategoryCalendar,
		Parameters: []entity.ParameterSpec{
			{Name: "title", Type: entity.ParamString, Description: "Event title", Required: true},
			{Name: "start", Type: entity.ParamString, Description: "Start time, RFC3339 or YYYY-MM-DD HH:MM", Required: true},
			{Name: "duration_minutes", Type: entity.ParamNumber, Description: "Length in minutes, default 60"},
			{Name: "location", Type: entity.ParamString, Description: "Where the event takes place"},
			{Name: "description", Type: entity.ParamString, Description: "Notes for the event"},
			{Name: "attendees", Type: entity.ParamArray, Description: "Attendee email addresses"},
		},
		Examples: []entity.ToolExample{
			{Query: "Schedule a call with Sam tomorrow at 3pm", ExpectedParams: map[string]any{"title": "Call with Sam", "start": "2026-03-03 15:00"}},
		},
		TimeContext: entity.TimeFuture,
		DataAccess:  entity.AccessWrite,
	})
}
