// Package mockbridge simulates the PeerAuth extension bridge in memory. It
// backs `peer bridge mock` and the bridge client tests.
package mockbridge

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/zkp2p/peer-cli/pkg/extension"
	"github.com/zkp2p/peer-cli/pkg/onramp"
)

// Options controls how the simulated extension behaves.
type Options struct {
	State   extension.State
	Version string
	// Approve decides the answer to connection prompts.
	Approve bool
	// ApprovalDelay keeps an approved connection pending for this long.
	ApprovalDelay time.Duration
	// InitialStatus is the connection status before any prompt.
	InitialStatus extension.ConnectionStatus
	// Token, when set, is required as a bearer token on every API call.
	Token string
	// Now overrides the clock.
	Now func() time.Time
}

// Server is an http.Handler implementing the bridge API.
type Server struct {
	opts    Options
	metrics *metricsRegistry
	mux     *http.ServeMux

	mu           sync.Mutex
	status       extension.ConnectionStatus
	pendingUntil time.Time
	prompts      int
	onramps      []onramp.Params
}

// New returns a simulated bridge.
func New(opts Options) *Server {
	if opts.State == "" {
		opts.State = extension.StateReady
	}
	if opts.InitialStatus == "" {
		opts.InitialStatus = extension.StatusDisconnected
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		opts:    opts,
		metrics: newMetricsRegistry(),
		mux:     http.NewServeMux(),
		status:  opts.InitialStatus,
	}
	s.mux.HandleFunc("GET /v1/state", s.instrument("state", s.handleState))
	s.mux.HandleFunc("GET /v1/connection", s.instrument("connection_status", s.requireInstalled(s.handleConnectionStatus)))
	s.mux.HandleFunc("POST /v1/connection", s.instrument("request_connection", s.requireInstalled(s.handleRequestConnection)))
	s.mux.HandleFunc("POST /v1/onramp", s.instrument("onramp", s.requireInstalled(s.handleOnramp)))
	s.mux.Handle("GET /metrics", s.metrics.handler())
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Onramps returns the parameter sets received so far.
func (s *Server) Onramps() []onramp.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]onramp.Params, len(s.onramps))
	copy(out, s.onramps)
	return out
}

// Prompts returns how many connection prompts were shown.
func (s *Server) Prompts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompts
}

// SetStatus overrides the current connection status.
func (s *Server) SetStatus(status extension.ConnectionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.pendingUntil = time.Time{}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.opts.Token {
			writeError(w, http.StatusUnauthorized, "invalid pairing token")
			s.metrics.incRequest(endpoint, http.StatusUnauthorized)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.metrics.incRequest(endpoint, rec.code)
		pterm.Debug.Printf("%s %s -> %d\n", r.Method, r.URL.Path, rec.code)
	}
}

func (s *Server) requireInstalled(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.opts.State.Installed() {
			writeError(w, http.StatusServiceUnavailable, "extension not installed")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   s.opts.State,
		"version": s.opts.Version,
	})
}

func (s *Server) handleConnectionStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.status == extension.StatusPending && !s.pendingUntil.IsZero() && !s.opts.Now().Before(s.pendingUntil) {
		s.status = extension.StatusConnected
		s.pendingUntil = time.Time{}
	}
	status := s.status
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (s *Server) handleRequestConnection(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.prompts++
	if s.opts.Approve {
		if s.opts.ApprovalDelay > 0 {
			s.status = extension.StatusPending
			s.pendingUntil = s.opts.Now().Add(s.opts.ApprovalDelay)
		} else {
			s.status = extension.StatusConnected
		}
	}
	s.mu.Unlock()

	s.metrics.incApproval(s.opts.Approve)
	writeJSON(w, http.StatusOK, map[string]any{"approved": s.opts.Approve})
}

func (s *Server) handleOnramp(w http.ResponseWriter, r *http.Request) {
	var params onramp.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid onramp params: "+err.Error())
		return
	}

	s.mu.Lock()
	connected := s.status == extension.StatusConnected
	if connected {
		s.onramps = append(s.onramps, params)
	}
	s.mu.Unlock()

	if !connected {
		writeError(w, http.StatusConflict, "not connected")
		return
	}
	s.metrics.incOnramp()
	pterm.Info.Printf("Onramp requested with %d parameter(s)\n", len(params))
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
