package github

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/models"
)

// lowQuotaThreshold is the remaining-request count below which the client warns
const lowQuotaThreshold = 10

// Options configures a Client
type Options struct {
	BaseURL           string
	Token             string // Optional
	RequestsPerSecond float64
	Timeout           time.Duration
	SearchPerPage     int
	HTTPClient        *http.Client
	Logger            *logrus.Logger
}

// Client wraps the GitHub API client with client-side pacing.
// It serves both the Search API and the Events API collaborators.
type Client struct {
	client        *github.Client
	rateLimiter   *rate.Limiter
	logger        *logrus.Logger
	searchPerPage int
}

// NewClient creates a new GitHub client
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	client := github.NewClient(httpClient)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, errors.ConfigErrorf("invalid GitHub base URL %q: %v", opts.BaseURL, err)
		}
		client.BaseURL = u
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	perPage := opts.SearchPerPage
	if perPage <= 0 {
		perPage = 30
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		client:        client,
		rateLimiter:   rate.NewLimiter(rate.Limit(rps), 1),
		logger:        logger,
		searchPerPage: perPage,
	}, nil
}

// SearchRepositories runs one Search API query sorted by stars descending.
// Any failure is a search failure carrying the upstream message.
func (c *Client) SearchRepositories(ctx context.Context, query string) ([]models.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.SearchFailure(err, "search cancelled")
	}

	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			PerPage: c.searchPerPage,
		},
	}

	result, resp, err := c.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		if isTransportError(err) {
			return nil, errors.SearchFailure(errors.NetworkError(err, "GitHub API unreachable"), "GitHub API is unreachable").
				WithContext("query", query)
		}
		return nil, errors.SearchFailure(err, upstreamMessage(err)).WithContext("query", query)
	}
	c.logRateLimit(resp, "search")

	repos := make([]models.Repository, 0, len(result.Repositories))
	for _, r := range result.Repositories {
		repos = append(repos, models.Repository{
			ID:          r.GetID(),
			Name:        r.GetName(),
			FullName:    r.GetFullName(),
			Owner:       r.GetOwner().GetLogin(),
			URL:         r.GetHTMLURL(),
			Description: r.GetDescription(),
			Language:    r.GetLanguage(),
			StarCount:   r.GetStargazersCount(),
		})
	}

	c.logger.WithFields(logrus.Fields{
		"query":      query,
		"total":      result.GetTotal(),
		"incomplete": result.GetIncompleteResults(),
		"returned":   len(repos),
	}).Debug("search completed")

	return repos, nil
}

// ListEvents fetches one page of a repository's public events, newest first.
// Throttling is returned as errors.ErrRateLimited; anything else as errors.ErrFetch.
func (c *Client) ListEvents(ctx context.Context, fullName string, page, perPage int) ([]models.Event, error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || repo == "" {
		return nil, errors.FetchErrored(fmt.Errorf("malformed repository name %q", fullName), fullName)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.FetchErrored(err, fullName)
	}

	events, resp, err := c.client.Activity.ListRepositoryEvents(ctx, owner, repo, &github.ListOptions{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		if IsRateLimitError(err) {
			return nil, errors.RateLimited(err, fullName)
		}
		if isTransportError(err) {
			err = errors.NetworkError(err, "GitHub API unreachable")
		}
		return nil, errors.FetchErrored(err, fullName).WithContext("page", page)
	}
	c.logRateLimit(resp, "events")

	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		out = append(out, models.Event{
			Type:      e.GetType(),
			CreatedAt: e.GetCreatedAt().Time,
		})
	}
	return out, nil
}

// IsRateLimitError reports whether err is an upstream throttling response.
// go-github classifies 403 + X-RateLimit-Remaining: 0 and secondary limits itself.
// A 403 whose message mentions a rate limit and any 429 are checked here.
func IsRateLimitError(err error) bool {
	var rle *github.RateLimitError
	if stderrors.As(err, &rle) {
		return true
	}
	var abuse *github.AbuseRateLimitError
	if stderrors.As(err, &abuse) {
		return true
	}
	var er *github.ErrorResponse
	if stderrors.As(err, &er) && er.Response != nil {
		switch er.Response.StatusCode {
		case http.StatusTooManyRequests:
			return true
		case http.StatusForbidden:
			return strings.Contains(strings.ToLower(er.Message), "rate limit")
		}
	}
	return false
}

// isTransportError reports whether the request never got an HTTP response
func isTransportError(err error) bool {
	var ue *url.Error
	return stderrors.As(err, &ue)
}

// upstreamMessage extracts the message GitHub put in the error body
func upstreamMessage(err error) string {
	var rle *github.RateLimitError
	if stderrors.As(err, &rle) {
		return rle.Message
	}
	var abuse *github.AbuseRateLimitError
	if stderrors.As(err, &abuse) {
		return abuse.Message
	}
	var er *github.ErrorResponse
	if stderrors.As(err, &er) {
		return er.Message
	}
	return ""
}

func (c *Client) logRateLimit(resp *github.Response, api string) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}

	if resp.Rate.Remaining < lowQuotaThreshold {
		c.logger.WithFields(logrus.Fields{
			"api":       api,
			"remaining": resp.Rate.Remaining,
			"limit":     resp.Rate.Limit,
			"reset":     resp.Rate.Reset.Time.Format(time.RFC3339),
		}).Warn("GitHub rate limit low")
	}
}
