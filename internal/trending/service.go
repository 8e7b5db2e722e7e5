package trending

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/github"
	"github.com/rohankatakam/startrend/internal/models"
)

// Searcher runs a Search API query and returns candidates ordered by stars descending
type Searcher interface {
	SearchRepositories(ctx context.Context, query string) ([]models.Repository, error)
}

// Service answers trending searches: it validates the request, clamps the window,
// asks the Search API for candidates and hands them to the Aggregator.
type Service struct {
	searcher   Searcher
	aggregator *Aggregator
	validate   *validator.Validate
	location   *time.Location
	now        func() time.Time
	logger     *logrus.Logger
}

// ServiceOption customises a Service
type ServiceOption func(*Service)

// WithClock overrides the time source used for window clamping
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone that defines calendar days
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewService creates a Service
func NewService(searcher Searcher, aggregator *Aggregator, logger *logrus.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Service{
		searcher:   searcher,
		aggregator: aggregator,
		validate:   newValidator(),
		location:   time.UTC,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseRequest validates raw input and converts it into a SearchQuery
func (s *Service) ParseRequest(req models.SearchRequest) (models.SearchQuery, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.SearchQuery{}, validationFailure(err)
	}

	q := models.SearchQuery{
		NamePattern:       strings.TrimSpace(req.Name),
		Language:          strings.TrimSpace(req.Language),
		MinStars:          req.MinStars,
		MinIncreasedStars: req.MinIncreasedStars,
	}

	var err error
	if req.StartDate != "" {
		if q.StartDate, err = time.ParseInLocation(models.DateLayout, req.StartDate, s.location); err != nil {
			return models.SearchQuery{}, errors.ValidationErrorf("invalid start date %q", req.StartDate)
		}
	}
	if req.EndDate != "" {
		if q.EndDate, err = time.ParseInLocation(models.DateLayout, req.EndDate, s.location); err != nil {
			return models.SearchQuery{}, errors.ValidationErrorf("invalid end date %q", req.EndDate)
		}
	}
	if q.HasStart() && q.HasEnd() && q.StartDate.After(q.EndDate) {
		return models.SearchQuery{}, errors.ValidationErrorf("start date %s is after end date %s", req.StartDate, req.EndDate)
	}

	return q, nil
}

// Search runs one batch. The only errors returned are validation errors and
// search failures; per-repository problems show up as degraded results.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	batchID := uuid.NewString()
	log := s.logger.WithField("batch_id", batchID)

	q, err := s.ParseRequest(req)
	if err != nil {
		return nil, err
	}

	window, err := ClampWindow(q, s.now(), s.location)
	if err != nil {
		return nil, err
	}

	query := github.BuildSearchQuery(q)
	log.WithFields(logrus.Fields{
		"query":        query,
		"window_start": window.StartKey(),
		"window_end":   window.EndKey(),
	}).Info("search submitted")

	candidates, err := s.searcher.SearchRepositories(ctx, query)
	if err != nil {
		log.WithError(err).Error("search failed")
		if stderrors.Is(err, errors.ErrSearch) {
			return nil, err
		}
		return nil, errors.SearchFailure(err, "")
	}

	results, stats := s.aggregator.Aggregate(ctx, candidates, window, q.MinIncreasedStars)

	return &models.SearchResponse{
		BatchID:        batchID,
		Query:          query,
		EffectiveStart: window.StartKey(),
		EffectiveEnd:   window.EndKey(),
		Results:        results,
		Stats:          stats,
	}, nil
}

// newValidator reports fields by their json names so messages match what callers sent
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func validationFailure(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.ValidationErrorf("invalid search: %v", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date in YYYY-MM-DD form", fe.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must not be negative", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s is too long", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.ValidationError(strings.Join(msgs, "; "))
}
