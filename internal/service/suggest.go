package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"shoplist/internal/model"
)

const maxSuggestions = 8

// dayPatterns maps each weekday to items often bought that day.
var dayPatterns = map[time.Weekday][]string{
	time.Sunday:    {"Coffee", "Pastries"},
	time.Monday:    {"Lunch Items", "Snacks"},
	time.Tuesday:   {"Fresh Produce"},
	time.Wednesday: {"Midweek Essentials"},
	time.Thursday:  {"Weekend Prep"},
	time.Friday:    {"Fresh Fish", "Weekend Food"},
	time.Saturday:  {"Party Supplies", "Treats"},
}

// Suggest proposes up to 8 items for the current list: first items bought at
// least three times (descending count, top five considered), then the
// day-of-week patterns, skipping anything already on the list. The combined
// sequence is truncated without re-sorting.
func (s *Service) Suggest(currentItemNames []string, storeID string) ([]model.Suggestion, error) {
	present := make(map[string]bool, len(currentItemNames))
	for _, name := range currentItemNames {
		present[strings.ToLower(name)] = true
	}

	history, err := s.store.Settings.ItemHistory()
	if err != nil {
		return nil, err
	}

	type entry struct {
		name  string
		usage model.ItemUsage
	}
	var frequent []entry
	for name, usage := range history {
		if present[strings.ToLower(name)] {
			continue
		}
		frequent = append(frequent, entry{name, usage})
	}
	sort.Slice(frequent, func(i, j int) bool {
		if frequent[i].usage.Count != frequent[j].usage.Count {
			return frequent[i].usage.Count > frequent[j].usage.Count
		}
		return frequent[i].name < frequent[j].name
	})
	if len(frequent) > 5 {
		frequent = frequent[:5]
	}

	suggestions := make([]model.Suggestion, 0, maxSuggestions)
	for _, e := range frequent {
		if e.usage.Count < 3 {
			continue
		}
		confidence := float64(e.usage.Count) / 10
		if confidence > 0.9 {
			confidence = 0.9
		}
		suggestions = append(suggestions, model.Suggestion{
			ItemName:   e.name,
			Reason:     fmt.Sprintf("Bought %d times", e.usage.Count),
			Confidence: confidence,
		})
	}

	today := s.now().Weekday()
	for _, name := range dayPatterns[today] {
		if present[strings.ToLower(name)] {
			continue
		}
		suggestions = append(suggestions, model.Suggestion{
			ItemName:   name,
			Reason:     fmt.Sprintf("Often bought on %s", today),
			Confidence: 0.6,
		})
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions, nil
}
