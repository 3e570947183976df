package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanForSpeech(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"## Today\n\nYou have **2 meetings**.", "Today\n\nYou have 2 meetings."},
		{"- Standup at *9:00*\n- Review at __14:00__", "Standup at 9:00\nReview at 14:00"},
		{"1. First\n2) Second", "First\nSecond"},
		{"See [the docs](https://example.com) or ![logo](a.png).", "See the docs or logo."},
		{"> quoted ~~old~~ text", "quoted old text"},
		{"Run `get_calendar_events` now", "Run get_calendar_events now"},
		{"snake_case_name stays", "snake_case_name stays"},
		{"```go\nfmt.Println(1)\n```", "fmt.Println(1)"},
		{"above\n\n---\n\n\n\nbelow", "above\n\nbelow"},
		{"| a | b |\n|---|---|\n| 1 | 2 |", "a b\n\n1 2"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanForSpeech(tc.in), tc.in)
	}
}
