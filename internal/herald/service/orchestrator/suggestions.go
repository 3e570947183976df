package orchestrator

import (
	toolEntity "github.com/kiosk404/herald/internal/herald/service/tools/domain/entity"
)

var categoryActions = map[toolEntity.Category][]string{
	toolEntity.CategoryCalendar:     {"Add a new event", "Check tomorrow's schedule", "Create a summary document of these events"},
	toolEntity.CategoryEmail:        {"Reply to the latest email", "Show only unread emails", "Create a report from these emails"},
	toolEntity.CategoryDrive:        {"Open the most recent file", "Search for another file"},
	toolEntity.CategoryFiles:        {"Open the most recent file", "Search for another file"},
	toolEntity.CategoryDocuments:    {"Summarize this document", "Create another document"},
	toolEntity.CategoryProductivity: {"Save this as a document", "Make it shorter", "Change the tone"},
	toolEntity.CategoryWeb:          {"Search for more details", "Save these findings to a document"},
	toolEntity.CategorySearch:       {"Search for more details", "Save these findings to a document"},
	toolEntity.CategorySystem:       {"Ask another question"},
	toolEntity.CategoryExternal:     {"Ask a follow-up question"},
}

var defaultActions = []string{"Ask a follow-up question"}

// SuggestedActions returns follow-up suggestions for a tool category.
func SuggestedActions(category toolEntity.Category) []string {
	actions, ok := categoryActions[category]
	if !ok {
		actions = defaultActions
	}
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}
