package models

import (
	"time"
)

// DateLayout is the calendar-day format used for search dates and cache keys
const DateLayout = "2006-01-02"

// StarEventType is the Events API type recorded when a user stars a repository
const StarEventType = "WatchEvent"

// Repository is read-only metadata returned by the Search API
type Repository struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Owner       string `json:"owner"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Language    string `json:"language"`
	StarCount   int    `json:"star_count"`
}

// Event is the subset of a repository event needed to count stars
type Event struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchRequest is the raw search input as submitted by a CLI flag set or HTTP query string
type SearchRequest struct {
	Name              string `json:"name" validate:"omitempty,max=256"`
	Language          string `json:"language" validate:"omitempty,max=64"`
	StartDate         string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate           string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	MinStars          int    `json:"min_stars" validate:"gte=0"`
	MinIncreasedStars int    `json:"min_increased_stars" validate:"gte=0"`
}

// SearchQuery is a validated search. Zero StartDate/EndDate mean "not set".
type SearchQuery struct {
	NamePattern       string
	Language          string
	StartDate         time.Time
	EndDate           time.Time
	MinStars          int
	MinIncreasedStars int
}

// HasStart reports whether the user supplied a start date
func (q SearchQuery) HasStart() bool { return !q.StartDate.IsZero() }

// HasEnd reports whether the user supplied an end date
func (q SearchQuery) HasEnd() bool { return !q.EndDate.IsZero() }

// Window is an inclusive calendar-day range. Only the calendar days of Start and End matter for counting.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartKey returns the start day as YYYY-MM-DD
func (w Window) StartKey() string { return w.Start.Format(DateLayout) }

// EndKey returns the end day as YYYY-MM-DD
func (w Window) EndKey() string { return w.End.Format(DateLayout) }

// Bounds returns the first and last instants counted by the window:
// 00:00:00 on the start day through 23:59:59.999999999 on the end day.
func (w Window) Bounds() (time.Time, time.Time) {
	y, m, d := w.Start.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, w.Start.Location())
	y, m, d = w.End.Date()
	to := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), w.End.Location())
	return from, to
}

// Contains reports whether t falls inside the window, both endpoint days included
func (w Window) Contains(t time.Time) bool {
	from, to := w.Bounds()
	return !t.Before(from) && !t.After(to)
}

// GrowthStatus records how trustworthy a StarGrowth count is
type GrowthStatus string

const (
	StatusComplete    GrowthStatus = "complete"
	StatusRateLimited GrowthStatus = "rate_limited"
	StatusErrored     GrowthStatus = "errored"
)

// StarGrowth is the number of star events seen for one repository in one window
type StarGrowth struct {
	RepositoryID int64        `json:"repository_id"`
	FullName     string       `json:"full_name"`
	WindowStart  time.Time    `json:"window_start"`
	WindowEnd    time.Time    `json:"window_end"`
	Count        int          `json:"count"`
	Status       GrowthStatus `json:"status"`
	PagesFetched int          `json:"pages_fetched"`
}

// EnrichedResult is a search result joined with its star growth
type EnrichedResult struct {
	Repository
	IncreasedStars int          `json:"increased_stars"`
	Status         GrowthStatus `json:"status"`
	Degraded       bool         `json:"degraded"`
}

// NewEnrichedResult joins repo with g. Non-complete growth counts as zero and is flagged degraded.
func NewEnrichedResult(repo Repository, g StarGrowth) EnrichedResult {
	r := EnrichedResult{Repository: repo, Status: g.Status}
	if g.Status == StatusComplete {
		r.IncreasedStars = g.Count
	} else {
		r.Degraded = true
	}
	return r
}

// BatchStats summarises one aggregation pass
type BatchStats struct {
	Candidates int `json:"candidates"`
	Fetched    int `json:"fetched"`
	CacheHits  int `json:"cache_hits"`
	Skipped    int `json:"skipped"`
	Degraded   int `json:"degraded"`
	Filtered   int `json:"filtered"`
}

// SearchResponse is what the presentation layer renders
type SearchResponse struct {
	BatchID        string           `json:"batch_id"`
	Query          string           `json:"query"`
	EffectiveStart string           `json:"effective_start"`
	EffectiveEnd   string           `json:"effective_end"`
	Results        []EnrichedResult `json:"results"`
	Stats          BatchStats       `json:"stats"`
}
