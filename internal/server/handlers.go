package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/github"
	"github.com/rohankatakam/startrend/internal/models"
)

// errorBody is returned for every non-2xx response
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

type handlers struct {
	svc    SearchService
	logger *logrus.Logger
}

// search handles GET /api/search?name=&language=&start_date=&end_date=&min_stars=&min_increased_stars=
func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := models.SearchRequest{
		Name:      q.Get("name"),
		Language:  q.Get("language"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	var err error
	if req.MinStars, err = intParam(q.Get("min_stars")); err != nil {
		h.fail(w, r, errors.ValidationErrorf("min_stars must be an integer"))
		return
	}
	if req.MinIncreasedStars, err = intParam(q.Get("min_increased_stars")); err != nil {
		h.fail(w, r, errors.ValidationErrorf("min_increased_stars must be an integer"))
		return
	}

	resp, err := h.svc.Search(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// languages handles GET /api/languages
func (h *handlers) languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"languages": github.PopularLanguages})
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		entry := h.logger.WithFields(logrus.Fields{
			"request_id": chimw.GetReqID(r.Context()),
			"error_type": errors.GetType(err),
		})
		entry.WithError(err).Error("search request failed")
		entry.Debugf("error detail:\n%s", errors.Detail(err))
	}
	writeJSON(w, status, errorBody{
		Error:     errors.UserMessage(err),
		Code:      code,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

// classify maps the error taxonomy onto HTTP statuses.
// A transport failure wrapped inside a search failure reports as unreachable.
func classify(err error) (int, string) {
	switch {
	case stderrors.Is(err, errors.ErrValidation):
		return http.StatusBadRequest, "invalid_request"
	case stderrors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case stderrors.Is(err, errors.ErrNetwork):
		return http.StatusBadGateway, "upstream_unreachable"
	case stderrors.Is(err, errors.ErrSearch):
		return http.StatusBadGateway, "search_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
