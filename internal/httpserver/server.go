// internal/httpserver/server.go
//
// HTTP server wiring for the game session backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/fixtures".
//   - Session endpoints: create, read, act, complete, reset, delete, live stream.
//   - Daily word search under /daily; finished results under /results.
//   - Deferred completion callback: persist the result and notify listeners.
//
// Notes:
//   - Mutating session calls need the session token returned at creation.
//   - Per-action input errors never fail the request; they come back as
//     {"ignored": true} with the unchanged snapshot.
//   - Requests for the same session are serialised by a striped lock.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/wellplay/game-server/internal/game"
	"github.com/wellplay/game-server/internal/results"
	"github.com/wellplay/game-server/internal/store"
)

// Options configures a Server. Zero values fall back to development defaults.
type Options struct {
	Store         store.Store
	Results       *results.Store // nil disables result persistence
	ClientOrigins []string
	SessionSecret string
	TokenTTL      time.Duration
	CompleteDelay time.Duration
	DailySalt     string

	// Now and NewRand are swapped in tests.
	Now     func() time.Time
	NewRand func() *rand.Rand
}

// Server bundles router, session store, results store and live-update hub.
type Server struct {
	r        *chi.Mux
	http     *http.Server
	store    store.Store
	results  *results.Store
	hub      *hub
	deferred *game.Deferred
	tokens   tokenSigner
	salt     string
	origins  []string
	now      func() time.Time
	newRand  func() *rand.Rand

	locks [64]sync.Mutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	if len(opts.ClientOrigins) == 0 {
		opts.ClientOrigins = []string{"http://localhost:5173"}
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	s := &Server{
		r:        chi.NewRouter(),
		store:    opts.Store,
		results:  opts.Results,
		hub:      newHub(),
		deferred: game.NewDeferred(opts.CompleteDelay),
		tokens:   tokenSigner{secret: []byte(opts.SessionSecret), ttl: opts.TokenTTL},
		salt:     opts.DailySalt,
		origins:  opts.ClientOrigins,
		now:      opts.Now,
		newRand:  opts.NewRand,
	}
	if len(s.tokens.secret) == 0 {
		log.Warn().Msg("no session secret configured; using development default")
		s.tokens.secret = []byte("dev_secret_change_me")
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.ClientOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// websocket upgrades must not sit behind the timeout or JSON content type
	s.r.Get("/sessions/{id}/ws", s.handleStream)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"game-server","endpoints":["/health","/fixtures","POST /sessions","POST /daily/word-search","/results"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Get("/fixtures", s.handleFixtures)
		r.Get("/fixtures/{name}", s.handleFixture)

		s.mountSessions(r)
		s.mountDaily(r)
		s.mountResults(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	return s
}

// Start begins serving HTTP on addr and blocks until Shutdown.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, drops pending completion callbacks and
// closes live streams.
func (s *Server) Shutdown(ctx context.Context) error {
	s.deferred.Stop()
	s.hub.closeAll()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// lock serialises work on one session id.
func (s *Server) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &s.locks[h.Sum32()%uint32(len(s.locks))]
	m.Lock()
	return m.Unlock
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, code int, errCode string, err error) {
	body := errorBody{Error: errCode}
	if err != nil {
		body.Detail = err.Error()
	}
	writeJSON(w, code, body)
}
