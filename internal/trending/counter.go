package trending

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/models"
)

const (
	// DefaultEventsPerPage is the largest page the Events API serves
	DefaultEventsPerPage = 100
	// DefaultMaxEventPages caps history at the 300 events the Events API exposes
	DefaultMaxEventPages = 3
)

// EventSource serves one page of a repository's events, newest first.
// Throttling must be reported as an error matching errors.ErrRateLimited.
type EventSource interface {
	ListEvents(ctx context.Context, fullName string, page, perPage int) ([]models.Event, error)
}

// Counter counts star events for one repository inside one window
type Counter struct {
	source   EventSource
	perPage  int
	maxPages int
	logger   *logrus.Logger
}

// NewCounter creates a Counter. Non-positive perPage/maxPages fall back to the Events API limits.
func NewCounter(source EventSource, perPage, maxPages int, logger *logrus.Logger) *Counter {
	if perPage <= 0 {
		perPage = DefaultEventsPerPage
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxEventPages
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Counter{
		source:   source,
		perPage:  perPage,
		maxPages: maxPages,
		logger:   logger,
	}
}

// Count pages through repo's event history and counts star events inside w.
// It never returns an error: throttling yields StatusRateLimited with a zero count,
// other failures stop paging and keep whatever earlier pages produced.
func (c *Counter) Count(ctx context.Context, repo models.Repository, w models.Window) models.StarGrowth {
	growth := models.StarGrowth{
		RepositoryID: repo.ID,
		FullName:     repo.FullName,
		WindowStart:  w.Start,
		WindowEnd:    w.End,
	}
	log := c.logger.WithField("repository", repo.FullName)

	var events []models.Event
	for page := 1; page <= c.maxPages; page++ {
		batch, err := c.source.ListEvents(ctx, repo.FullName, page, c.perPage)
		if err != nil {
			if errors.IsRateLimited(err) {
				log.WithField("page", page).Warn("events API rate limited")
				growth.Status = models.StatusRateLimited
				growth.Count = 0
				return growth
			}
			if ctx.Err() != nil {
				// cancelled part way through; a partial history would undercount
				growth.Status = models.StatusErrored
				growth.Count = 0
				return growth
			}
			log.WithError(err).WithField("page", page).Warn("events fetch failed, stopping pagination")
			break
		}

		growth.PagesFetched++
		events = append(events, batch...)

		if len(batch) < c.perPage {
			break
		}
	}

	if growth.PagesFetched == 0 {
		growth.Status = models.StatusErrored
		return growth
	}

	for _, e := range events {
		if e.Type == models.StarEventType && w.Contains(e.CreatedAt) {
			growth.Count++
		}
	}
	growth.Status = models.StatusComplete

	log.WithFields(logrus.Fields{
		"pages":  growth.PagesFetched,
		"events": len(events),
		"stars":  growth.Count,
	}).Debug("counted star events")

	return growth
}
