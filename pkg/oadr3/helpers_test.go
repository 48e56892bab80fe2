package oadr3

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clean-energy-tools/openadr-3-client/internal/auth"
	"github.com/clean-energy-tools/openadr-3-client/pkg/config"
	"github.com/clean-energy-tools/openadr-3-client/pkg/model"
	"github.com/clean-energy-tools/openadr-3-client/pkg/transport"
)

const testBaseURL = "https://vtn.example.com/openadr3/3.0.1"

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	cfg, err := config.New(baseURL, "ven-client", "ven-secret")
	require.NoError(t, err)
	return cfg
}

// spyTransport records every request and answers with respond.
type spyTransport struct {
	mu       sync.Mutex
	requests []transport.Request
	respond  func(req transport.Request) (int, []byte, error)
}

func (s *spyTransport) Execute(_ context.Context, req transport.Request) (int, []byte, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.respond == nil {
		return http.StatusOK, []byte(`{}`), nil
	}
	return s.respond(req)
}

func (s *spyTransport) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *spyTransport) last() transport.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

// staticAuth hands out a fixed token and counts grants.
func staticAuth(token string) (auth.Authenticator, *atomic.Int32) {
	var n atomic.Int32
	return auth.AuthenticatorFunc(func(context.Context) (auth.Credential, error) {
		n.Add(1)
		return auth.Credential{AccessToken: token, TokenType: "Bearer", ExpiresIn: 3600}, nil
	}), &n
}

// newSpyClient builds a client whose transport is a spy and whose tokens come from staticAuth.
func newSpyClient(t *testing.T, spy *spyTransport) (*Client, *atomic.Int32) {
	t.Helper()
	a, grants := staticAuth("test-token")
	c, err := NewClient(testConfig(t, testBaseURL), WithTransport(spy), WithAuthenticator(a))
	require.NoError(t, err)
	return c, grants
}

func sampleProgram(id string) model.Program {
	return model.Program{
		ID:           id,
		ProgramName:  "Summer Peak",
		RetailerName: "Acme Energy",
		ProgramType:  model.ProgramTypeDemandResponse,
		Country:      "US",
		Targets:      []model.TargetType{model.TargetResidential},
	}
}

func sampleEvent(id, programID string) model.Event {
	start := time.Date(2026, 7, 1, 14, 0, 0, 0, time.UTC)
	return model.Event{
		ID:        id,
		ProgramID: programID,
		EventName: "Heat wave",
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
	}
}

// ─── Fake VTN ─────────────────────────────────────────────────────────────────

// fakeVTN is an in-memory OpenADR 3 server covering the token endpoint,
// programs and events.
type fakeVTN struct {
	srv         *httptest.Server
	tokenCalls  atomic.Int32
	mu          sync.Mutex
	programs    map[string]model.Program
	events      map[string]model.Event
	tokensValid bool
}

func newFakeVTN(t *testing.T) *fakeVTN {
	t.Helper()
	v := &fakeVTN{
		programs:    map[string]model.Program{},
		events:      map[string]model.Event{},
		tokensValid: true,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token", v.token)
	mux.HandleFunc("GET /programs", v.authed(v.listPrograms))
	mux.HandleFunc("POST /programs", v.authed(v.createProgram))
	mux.HandleFunc("GET /programs/{id}", v.authed(v.getProgram))
	mux.HandleFunc("DELETE /programs/{id}", v.authed(v.deleteProgram))
	mux.HandleFunc("GET /programs/{id}/events", v.authed(v.listEvents))
	mux.HandleFunc("POST /programs/{id}/events", v.authed(v.createEvent))
	mux.HandleFunc("GET /broken", v.authed(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id": `))
	}))

	v.srv = httptest.NewServer(mux)
	t.Cleanup(v.srv.Close)
	return v
}

func (v *fakeVTN) client(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient(testConfig(t, v.srv.URL+"/"), opts...)
	require.NoError(t, err)
	return c
}

func (v *fakeVTN) revokeTokens() {
	v.mu.Lock()
	v.tokensValid = false
	v.mu.Unlock()
}

func (v *fakeVTN) token(w http.ResponseWriter, r *http.Request) {
	n := v.tokenCalls.Add(1)
	if err := r.ParseForm(); err != nil || r.PostForm.Get("client_secret") != "ven-secret" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		return
	}
	v.mu.Lock()
	v.tokensValid = true
	v.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": "tok-" + string(rune('0'+n)),
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (v *fakeVTN) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		valid := v.tokensValid
		v.mu.Unlock()
		if !valid || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer tok-") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"title": "Unauthorized", "detail": "token rejected"})
			return
		}
		next(w, r)
	}
}

func (v *fakeVTN) listPrograms(w http.ResponseWriter, _ *http.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.Program, 0, len(v.programs))
	for _, p := range v.programs {
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (v *fakeVTN) createProgram(w http.ResponseWriter, r *http.Request) {
	var p model.Program
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"title": "Bad Request", "detail": err.Error()})
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.programs[p.ID]; exists {
		writeJSON(w, http.StatusConflict, map[string]any{"type": "conflict", "title": "Conflict", "detail": "program exists"})
		return
	}
	v.programs[p.ID] = p
	writeJSON(w, http.StatusCreated, p)
}

func (v *fakeVTN) getProgram(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.programs[r.PathValue("id")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"title": "Not Found", "detail": "no such program"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (v *fakeVTN) deleteProgram(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id := r.PathValue("id")
	if _, ok := v.programs[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	delete(v.programs, id)
	w.WriteHeader(http.StatusNoContent)
}

func (v *fakeVTN) listEvents(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := []model.Event{}
	for _, e := range v.events {
		if e.ProgramID == r.PathValue("id") {
			out = append(out, e)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (v *fakeVTN) createEvent(w http.ResponseWriter, r *http.Request) {
	var e model.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"title": "Bad Request"})
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events[e.ID] = e
	writeJSON(w, http.StatusCreated, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
