package trending

import (
	"time"

	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/models"
)

// RecencyLimit is how far back the Events API retains repository events.
// Windows are clamped so they never start before now - RecencyLimit.
const RecencyLimit = 90 * 24 * time.Hour

// RecencyDays is RecencyLimit expressed in days, for messages
const RecencyDays = int(RecencyLimit / (24 * time.Hour))

// ClampWindow computes the effective counting window for q at instant now.
// Unset dates default to the full retention horizon ending now.
func ClampWindow(q models.SearchQuery, now time.Time, loc *time.Location) (models.Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	horizon := now.Add(-RecencyLimit)

	start := horizon
	if q.HasStart() && q.StartDate.After(horizon) {
		start = q.StartDate.In(loc)
	}

	end := now
	if q.HasEnd() && q.EndDate.Before(now) {
		end = q.EndDate.In(loc)
	}

	if startOfDay(start).After(startOfDay(end)) {
		return models.Window{}, errors.ValidationErrorf(
			"date range ends %s, before the %d-day event history GitHub keeps (earliest %s)",
			end.Format(models.DateLayout), RecencyDays, horizon.Format(models.DateLayout))
	}

	return models.Window{Start: start, End: end}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
