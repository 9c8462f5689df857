// internal/httpserver/routes_daily.go
//
// HTTP route for the daily word search.
//   - POST /daily/word-search → start today's puzzle as a normal session
//
// Every player gets the same grid for a UTC day: the generator is seeded
// from a keyed hash of the date and the server's DAILY_SALT.

package httpserver

import (
	"math/rand"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wellplay/game-server/assets"
	"github.com/wellplay/game-server/internal/words"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Post("/daily/word-search", s.handleDailyWordSearch)
}

func (s *Server) handleDailyWordSearch(w http.ResponseWriter, r *http.Request) {
	now := s.now().UTC()
	g, err := assets.Fixture(assets.DailyFixture)
	if err != nil {
		log.Error().Err(err).Msg("load daily fixture")
		writeError(w, http.StatusInternalServerError, "daily_unavailable", nil)
		return
	}
	seed := words.DailySeed(now, s.salt)
	s.start(w, r, g, rand.New(rand.NewSource(seed)), words.DateKey(now))
}
