package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/kiosk404/herald/internal/herald/service/orchestrator/domain/entity"
	"github.com/kiosk404/herald/internal/herald/service/tools/builtin"
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
	"github.com/kiosk404/herald/pkg/utils/json"
)

// BuildDocument renders the primary tool's data as a markdown document.
// ok is false when the data cannot be read or there is nothing to write.
func BuildDocument(tool string, data any, uc *entity.UserContext) (title, content string, ok bool) {
	loc := uc.Location()
	ts := uc.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	day := ts.In(loc).Format("January 2, 2006")

	switch tool {
	case builtin.GetEmails:
		var list toolEntity.EmailList
		if json.Convert(data, &list) != nil {
			return "", "", false
		}
		return "Email Summary - " + day, emailMarkdown(list, day, loc), true
	case builtin.GetCalendarEvents:
		var list toolEntity.EventList
		if json.Convert(data, &list) != nil {
			return "", "", false
		}
		return "Calendar Summary - " + day, eventMarkdown(list, day, loc), true
	case builtin.SearchDriveFiles:
		var list toolEntity.FileList
		if json.Convert(data, &list) != nil {
			return "", "", false
		}
		return "Drive Files - " + day, fileMarkdown(list, day, loc), true
	case builtin.GenerateContent:
		var gen toolEntity.GeneratedContent
		if json.Convert(data, &gen) != nil || strings.TrimSpace(gen.Content) == "" {
			return "", "", false
		}
		title := strings.TrimSpace(gen.Topic)
		if title == "" {
			title = "Generated Content - " + day
		}
		return title, gen.Content, true
	case builtin.SummarizeDocument:
		var sum toolEntity.Summary
		if json.Convert(data, &sum) != nil || strings.TrimSpace(sum.Summary) == "" {
			return "", "", false
		}
		return "Summary - " + day, fmt.Sprintf("# Summary\n\n_Source: %s_\n\n%s\n", sum.Source, sum.Summary), true
	}
	return "", "", false
}

func emailMarkdown(list toolEntity.EmailList, day string, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Email Summary\n\n_Generated %s from %d emails._\n", day, len(list.Emails))
	for i, e := range list.Emails {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", i+1, orDefault(e.Subject, "(no subject)"))
		fmt.Fprintf(&b, "- **From:** %s\n", e.From)
		fmt.Fprintf(&b, "- **Date:** %s\n", e.Date.In(loc).Format("Mon Jan 2, 15:04"))
		if e.Snippet != "" {
			fmt.Fprintf(&b, "\n> %s\n", e.Snippet)
		}
	}
	if len(list.Emails) == 0 {
		b.WriteString("\nNo emails matched.\n")
	}
	return b.String()
}

func eventMarkdown(list toolEntity.EventList, day string, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Calendar Summary\n\n_Generated %s, %d events._\n", day, len(list.Events))
	for i, e := range list.Events {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", i+1, e.Title)
		fmt.Fprintf(&b, "- **When:** %s to %s\n", e.Start.In(loc).Format("Mon Jan 2, 15:04"), e.End.In(loc).Format("15:04"))
		if e.Location != "" {
			fmt.Fprintf(&b, "- **Where:** %s\n", e.Location)
		}
		if len(e.Attendees) > 0 {
			fmt.Fprintf(&b, "- **Attendees:** %s\n", strings.Join(e.Attendees, ", "))
		}
		if e.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", e.Description)
		}
	}
	if len(list.Events) == 0 {
		b.WriteString("\nNo events scheduled.\n")
	}
	return b.String()
}

func fileMarkdown(list toolEntity.FileList, day string, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Drive Files\n\n_Generated %s, %d files._\n", day, len(list.Files))
	for i, f := range list.Files {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", i+1, f.Name)
		fmt.Fprintf(&b, "- **Type:** %s\n", f.MimeType)
		if f.Owner != "" {
			fmt.Fprintf(&b, "- **Owner:** %s\n", f.Owner)
		}
		fmt.Fprintf(&b, "- **Modified:** %s\n", f.ModifiedAt.In(loc).Format("Jan 2, 2006 15:04"))
		if f.URL != "" {
			fmt.Fprintf(&b, "- **Link:** %s\n", f.URL)
		}
	}
	if len(list.Files) == 0 {
		b.WriteString("\nNo files matched.\n")
	}
	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
