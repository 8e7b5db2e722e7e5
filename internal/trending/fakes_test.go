package trending

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/models"
)

// pageResult is what fakeSource serves for one page
type pageResult struct {
	events []models.Event
	err    error
}

// fakeSource serves scripted event pages and records every call
type fakeSource struct {
	mu    sync.Mutex
	pages map[string][]pageResult
	calls []string
	delay time.Duration
}

func newFakeSource() *fakeSource {
	return &fakeSource{pages: make(map[string][]pageResult)}
}

func (f *fakeSource) script(fullName string, pages ...pageResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[fullName] = pages
}

func (f *fakeSource) ListEvents(ctx context.Context, fullName string, page, perPage int) ([]models.Event, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s#%d", fullName, page))
	pages := f.pages[fullName]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, errors.FetchErrored(ctx.Err(), fullName)
		}
	}

	if page > len(pages) {
		return nil, nil
	}
	p := pages[page-1]
	return p.events, p.err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSource) callsFor(fullName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) > len(fullName) && c[:len(fullName)+1] == fullName+"#" {
			n++
		}
	}
	return n
}

// stars returns n star events at the given instant
func stars(n int, at time.Time) []models.Event {
	out := make([]models.Event, n)
	for i := range out {
		out[i] = models.Event{Type: models.StarEventType, CreatedAt: at}
	}
	return out
}

// pushes returns n non-star events at the given instant
func pushes(n int, at time.Time) []models.Event {
	out := make([]models.Event, n)
	for i := range out {
		out[i] = models.Event{Type: "PushEvent", CreatedAt: at}
	}
	return out
}

func rateLimitedPage(repo string) pageResult {
	return pageResult{err: errors.RateLimited(fmt.Errorf("403 API rate limit exceeded"), repo)}
}

func failedPage(repo string) pageResult {
	return pageResult{err: errors.FetchErrored(fmt.Errorf("502 Bad Gateway"), repo)}
}

func repo(id int64, fullName string, starCount int) models.Repository {
	return models.Repository{ID: id, FullName: fullName, StarCount: starCount}
}

// fakeSearcher returns fixed candidates or a fixed error
type fakeSearcher struct {
	repos   []models.Repository
	err     error
	queries []string
}

func (f *fakeSearcher) SearchRepositories(ctx context.Context, query string) ([]models.Repository, error) {
	f.queries = append(f.queries, query)
	return f.repos, f.err
}
