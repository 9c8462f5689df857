package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wellplay/game-server/assets"
	"github.com/wellplay/game-server/internal/results"
)

const maxResultsLimit = 100

// mountResults registers the read side of result persistence.
func (s *Server) mountResults(r chi.Router) {
	r.Get("/results", s.handleRecentResults)
	r.Get("/results/summary", s.handleResultSummary)
}

func (s *Server) handleRecentResults(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusServiceUnavailable, "results_disabled", nil)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_limit", nil)
			return
		}
		limit = min(n, maxResultsLimit)
	}
	recs, err := s.results.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("recent results")
		writeError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if recs == nil {
		recs = []results.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": recs})
}

func (s *Server) handleResultSummary(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		writeError(w, http.StatusServiceUnavailable, "results_disabled", nil)
		return
	}
	sum, err := s.results.Summary(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("results summary")
		writeError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if sum == nil {
		sum = []results.TypeSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": sum})
}

// ------------------------------- fixtures ----------------------------------

func (s *Server) handleFixtures(w http.ResponseWriter, r *http.Request) {
	names, err := assets.FixtureNames()
	if err != nil {
		log.Error().Err(err).Msg("list fixtures")
		writeError(w, http.StatusInternalServerError, "internal", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fixtures": names})
}

func (s *Server) handleFixture(w http.ResponseWriter, r *http.Request) {
	b, err := assets.FixtureJSON(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
