// Package server exposes the engine over HTTP using github.com/go-chi/chi/v5
// — the teacher's go.mod declares chi but no teacher file ever imports it;
// this is its first real use in the dependency graph. It gives the
// caller-facing "host" surface spec.md assumes exists but places out of
// scope (§1), without reimplementing anything spec.md actually specifies.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"in3go/core"
)

// Server drives request contexts against a shared *core.Client. The
// client itself is not safe for concurrent use (spec.md §5), so the server
// serialises every /rpc call through reqMu.
type Server struct {
	client *core.Client
	router chi.Router
	reqMu  chan struct{}
}

// New builds a chi-routed server over client, with a single in-flight
// request slot guarding the client's non-thread-safe state (spec.md §5:
// "a host wanting parallel contexts must serialise access or partition
// clients").
func New(client *core.Client) *Server {
	s := &Server{client: client, reqMu: make(chan struct{}, 1)}
	s.reqMu <- struct{}{}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Post("/rpc", s.handleRPC)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type rpcEnvelope struct {
	ID     uint64 `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params"`
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	var envelope rpcEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	<-s.reqMu
	defer func() { s.reqMu <- struct{}{} }()

	rctx := core.NewRPCContext(s.client, []core.RPCRequest{{
		ID:     envelope.ID,
		Method: envelope.Method,
		Params: envelope.Params,
	}})
	defer rctx.Free()

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := core.Send(ctx, rctx); err != nil {
		logrus.Warnf("rpc %s failed: %s", envelope.Method, err.Error())
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rctx.ParsedResult)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
