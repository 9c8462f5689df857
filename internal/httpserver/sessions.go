package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wellplay/game-server/assets"
	"github.com/wellplay/game-server/internal/game"
	"github.com/wellplay/game-server/internal/results"
	"github.com/wellplay/game-server/internal/schema"
	"github.com/wellplay/game-server/internal/store"
)

const maxSchemaBytes = 1 << 20

// mountSessions registers the session lifecycle routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Post("/sessions", s.handleCreate)
	r.Get("/sessions/{id}", s.handleGet)

	auth := r.With(s.requireSessionToken)
	auth.Post("/sessions/{id}/actions", s.handleAction)
	auth.Post("/sessions/{id}/complete", s.handleComplete)
	auth.Post("/sessions/{id}/reset", s.handleReset)
	auth.Delete("/sessions/{id}", s.handleDelete)
}

type createRes struct {
	SessionID   string        `json:"sessionId"`
	Token       string        `json:"token"`
	Date        string        `json:"date,omitempty"`
	Snapshot    game.Snapshot `json:"snapshot"`
	FailedWords []string      `json:"failedWords"`
}

type actionRes struct {
	Ignored  bool          `json:"ignored"`
	Reason   string        `json:"reason,omitempty"`
	Snapshot game.Snapshot `json:"snapshot"`
}

type completeRes struct {
	Result   game.Result   `json:"result"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// event is one message on a session's live stream.
type event struct {
	Type     string         `json:"type"` // "snapshot" | "result"
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Result   *game.Result   `json:"result,omitempty"`
}

// handleCreate starts a session from a schema body or {"fixture": name}.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSchemaBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_body", err)
		return
	}
	g, err := gameFromBody(body)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.start(w, r, g, s.newRand(), "")
}

func gameFromBody(body []byte) (*schema.Game, error) {
	var ref struct {
		Fixture string `json:"fixture"`
	}
	if json.Unmarshal(body, &ref) == nil && ref.Fixture != "" {
		return assets.Fixture(ref.Fixture)
	}
	return schema.Decode(body)
}

// start creates, stores and announces a session for g.
func (s *Server) start(w http.ResponseWriter, r *http.Request, g *schema.Game, rng *rand.Rand, date string) {
	now := s.now()
	sess, err := game.NewSession(g, rng, now)
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("sessionId", sess.ID).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", nil)
		return
	}
	token, err := s.tokens.sign(sess.ID, now)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "sign_failed", nil)
		return
	}

	res := createRes{SessionID: sess.ID, Token: token, Date: date, Snapshot: game.View(*sess), FailedWords: []string{}}
	if sess.Puzzle != nil && len(sess.Puzzle.Failed) > 0 {
		res.FailedWords = sess.Puzzle.Failed
		log.Warn().Str("sessionId", sess.ID).Strs("failed", sess.Puzzle.Failed).Int("size", sess.Puzzle.Size).
			Msg("word search generation incomplete")
	}
	log.Info().Str("sessionId", sess.ID).Str("type", string(g.Type)).Str("gameId", g.ID).Msg("session started")
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, game.View(*sess))
}

// handleAction applies one player action. Invalid input and actions on a
// completed session are absorbed: 200, ignored, snapshot unchanged.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var a game.Action
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSchemaBytes)).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err)
		return
	}
	id := chi.URLParam(r, "id")
	defer s.lock(id)()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	next, err := game.Apply(*sess, a, s.now())
	if errors.Is(err, game.ErrInvalidAction) || errors.Is(err, game.ErrCompleted) {
		log.Debug().Err(err).Str("sessionId", id).Str("kind", string(a.Kind)).Msg("action ignored")
		writeJSON(w, http.StatusOK, actionRes{Ignored: true, Reason: err.Error(), Snapshot: game.View(*sess)})
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Save(r.Context(), &next); err != nil {
		log.Error().Err(err).Str("sessionId", id).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", nil)
		return
	}

	snap := game.View(next)
	s.publish(id, event{Type: "snapshot", Snapshot: &snap})
	if next.State.Status == game.StatusCompleted {
		log.Info().Str("sessionId", id).Int("score", next.State.Score).Msg("session auto-completed")
		s.scheduleCompletion(next)
	}
	writeJSON(w, http.StatusOK, actionRes{Snapshot: snap})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	defer s.lock(id)()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	next, res, err := game.Complete(*sess, s.now())
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Save(r.Context(), &next); err != nil {
		log.Error().Err(err).Str("sessionId", id).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", nil)
		return
	}
	snap := game.View(next)
	s.publish(id, event{Type: "snapshot", Snapshot: &snap})
	s.scheduleCompletion(next)
	log.Info().Str("sessionId", id).Int("score", res.Score).Int("maxScore", res.MaxScore).Msg("session completed")
	writeJSON(w, http.StatusOK, completeRes{Result: res, Snapshot: snap})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	defer s.lock(id)()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.deferred.Cancel(id)
	next, err := game.Reset(*sess, s.newRand(), s.now())
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Save(r.Context(), &next); err != nil {
		log.Error().Err(err).Str("sessionId", id).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", nil)
		return
	}
	snap := game.View(next)
	s.publish(id, event{Type: "snapshot", Snapshot: &snap})
	writeJSON(w, http.StatusOK, snap)
}

// handleDelete tears a session down. A pending completion callback is dropped.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	defer s.lock(id)()

	if s.deferred.Cancel(id) {
		log.Info().Str("sessionId", id).Msg("pending completion suppressed")
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	s.hub.close(id)
	w.WriteHeader(http.StatusNoContent)
}

// scheduleCompletion runs the completion callback after the pacing delay.
func (s *Server) scheduleCompletion(sess game.Session) {
	if sess.State.Result == nil {
		return
	}
	res := *sess.State.Result
	s.deferred.Schedule(sess.ID, func() { s.onComplete(sess, res) })
}

// onComplete persists the result and tells listeners. It does nothing for a
// session deleted in the meantime.
func (s *Server) onComplete(sess game.Session, res game.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	unlock := s.lock(sess.ID)
	_, err := s.store.Get(ctx, sess.ID)
	unlock()
	if errors.Is(err, store.ErrNotFound) {
		log.Debug().Str("sessionId", sess.ID).Msg("session gone, completion dropped")
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("sessionId", sess.ID).Msg("completion lookup")
	}

	if s.results != nil {
		inserted, err := s.results.Insert(ctx, results.NewRecord(sess, res, s.now()))
		switch {
		case err != nil:
			log.Error().Err(err).Str("sessionId", sess.ID).Msg("persist result")
		case !inserted:
			log.Debug().Str("sessionId", sess.ID).Int("attempt", sess.State.Attempt).Msg("result already stored")
		}
	}
	s.publish(sess.ID, event{Type: "result", Result: &res})
}

func (s *Server) publish(id string, ev event) {
	b, err := json.Marshal(ev)
	if err != nil {
		log.Warn().Err(err).Msg("encode event")
		return
	}
	s.hub.publish(id, b)
}

// fail maps engine and store errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schema.ErrUnknownType):
		writeError(w, http.StatusUnprocessableEntity, "unknown_type", err)
	case errors.Is(err, schema.ErrSchemaInvalid):
		writeError(w, http.StatusUnprocessableEntity, "schema_invalid", err)
	case errors.Is(err, game.ErrUnsupportedType):
		writeError(w, http.StatusUnprocessableEntity, "unsupported_type", err)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, fs.ErrNotExist):
		writeError(w, http.StatusNotFound, "fixture_not_found", nil)
	case errors.Is(err, game.ErrNotReady):
		writeError(w, http.StatusConflict, "not_ready", nil)
	case errors.Is(err, game.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, "already_completed", nil)
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal", nil)
	}
}
