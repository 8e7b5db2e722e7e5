package github

import (
	"fmt"
	"strings"

	"github.com/rohankatakam/startrend/internal/models"
)

const (
	// DefaultMinStars is applied when the query has no star filter
	DefaultMinStars = 100
	// fallbackQuery is used when nothing else produced a qualifier
	fallbackQuery = "stars:>=1000"
)

// PopularLanguages are offered as language filter suggestions
var PopularLanguages = []string{
	"JavaScript",
	"TypeScript",
	"Python",
	"Java",
	"Go",
	"Rust",
	"C++",
	"C",
	"C#",
	"Ruby",
	"PHP",
	"Swift",
	"Kotlin",
	"Scala",
	"Shell",
	"HTML",
	"CSS",
	"Vue",
	"Dart",
}

// BuildSearchQuery turns a search into Search API qualifiers joined by spaces.
// Dates use the days the user asked for, not the clamped counting window.
func BuildSearchQuery(q models.SearchQuery) string {
	var parts []string

	if name := strings.TrimSpace(q.NamePattern); name != "" {
		parts = append(parts, name+" in:name")
	}
	if lang := strings.TrimSpace(q.Language); lang != "" {
		parts = append(parts, "language:"+quoteIfNeeded(lang))
	}
	if q.HasStart() {
		parts = append(parts, "created:>="+q.StartDate.Format(models.DateLayout))
	}
	if q.HasEnd() {
		parts = append(parts, "pushed:<="+q.EndDate.Format(models.DateLayout))
	}
	if q.MinStars > 0 {
		parts = append(parts, fmt.Sprintf("stars:>=%d", q.MinStars))
	} else {
		parts = append(parts, fmt.Sprintf("stars:>=%d", DefaultMinStars))
	}

	query := strings.TrimSpace(strings.Join(parts, " "))
	if query == "" {
		return fallbackQuery
	}
	return query
}

func quoteIfNeeded(v string) string {
	if strings.ContainsAny(v, " \t") {
		return `"` + v + `"`
	}
	return v
}
