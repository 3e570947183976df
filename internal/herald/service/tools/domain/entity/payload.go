package entity

import (
	wsEntity "github.com/kiosk404/herald/internal/herald/service/workspace/domain/entity"
)

// Typed payloads returned by the built-in tools. Results cross the pipeline
// as `any`; consumers convert them back with json.Convert.

type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Engine  string `json:"engine,omitempty"`
}

type SearchResults struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

type CrawledPage struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content"`
	Headings    []string `json:"headings,omitempty"`
	Links       int      `json:"links"`
}

type EventList struct {
	Date   string            `json:"date,omitempty"`
	Count  int               `json:"count"`
	Events []*wsEntity.Event `json:"events"`
}

type EmailList struct {
	Query  string            `json:"query,omitempty"`
	Count  int               `json:"count"`
	Emails []*wsEntity.Email `json:"emails"`
}

type FileList struct {
	Query string           `json:"query,omitempty"`
	Count int              `json:"count"`
	Files []*wsEntity.File `json:"files"`
}

type GeneratedContent struct {
	Topic   string `json:"topic"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

type Summary struct {
	Source  string `json:"source"`
	Summary string `json:"summary"`
}

type Calculation struct {
	Expression string `json:"expression"`
	Result     any    `json:"result"`
}

type CurrentTime struct {
	Timezone  string `json:"timezone"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	DayOfWeek string `json:"dayOfWeek"`
}
