package bridge

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/core/model"
	"github.com/chandunetha0218/Mouse-keyboard-tracking-system/internal/util"
)

// connectedWindow is how long after the last bridge request the browser
// extension still counts as connected.
const connectedWindow = 10 * time.Second

// Handlers are the callbacks the bridge drives. Sync receives punch data
// pushed by the browser extension; Start and Stop are legacy manual
// endpoints.
type Handlers struct {
	Sync  func(model.SyncUpdate)
	Start func()
	Stop  func()
}

// Server is the loopback command server the companion browser extension
// talks to. It accepts query-parameter-encoded punch data on /sync and a
// liveness ping on /heartbeat.
type Server struct {
	srv      *http.Server
	handlers Handlers

	mu       sync.Mutex
	lastSeen time.Time
}

// NewServer creates a bridge server listening on addr.
func NewServer(addr string, handlers Handlers) *Server {
	s := &Server{handlers: handlers}

	mux := http.NewServeMux()
	mux.HandleFunc("/sync", s.handleSync)
	mux.HandleFunc("/heartbeat", s.handleHeartbeat)
	mux.HandleFunc("/start", s.handleStart)
	mux.HandleFunc("/stop", s.handleStop)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until ctx is done. Failure to bind is logged, not fatal: the
// poll loop still covers sync without the bridge.
func (s *Server) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx)
	}()

	util.LogInfof("Browser bridge listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		util.LogErrorf("Browser bridge failed: %v", err)
	}
}

// Connected reports whether the extension pinged recently.
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastSeen) <= connectedWindow
}

func (s *Server) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.touch()
	q := r.URL.Query()

	update := model.SyncUpdate{
		PunchIn:   q.Get("punch_in"),
		PunchOut:  q.Get("punch_out"),
		Date:      q.Get("date"),
		Status:    q.Get("status"),
		WorkedStr: q.Get("worked"),
	}
	util.LogDebugf("Bridge sync: in=%q out=%q date=%q", update.PunchIn, update.PunchOut, update.Date)

	if s.handlers.Sync != nil {
		s.handlers.Sync(update)
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Sync Received"))
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	s.touch()
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Alive"))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.touch()
	if s.handlers.Start != nil {
		s.handlers.Start()
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.touch()
	if s.handlers.Stop != nil {
		s.handlers.Stop()
	}
	w.WriteHeader(http.StatusOK)
}

// corsMiddleware lets the extension call from the portal's origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
