package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/baechuer/identity-service/internal/application/identity"
	"github.com/baechuer/identity-service/internal/audit"
	"github.com/baechuer/identity-service/internal/domain"
	"github.com/baechuer/identity-service/internal/infrastructure/memory"
	"github.com/baechuer/identity-service/internal/infrastructure/security"
	"github.com/baechuer/identity-service/internal/transport/http/middleware"
)

type recordingPublisher struct {
	mu         sync.Mutex
	registered []domain.AccountRegistered
	updated    []domain.ProfileUpdated
	err        error
}

func (p *recordingPublisher) PublishAccountRegistered(_ context.Context, evt domain.AccountRegistered) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, evt)
	return p.err
}

func (p *recordingPublisher) PublishProfileUpdated(_ context.Context, evt domain.ProfileUpdated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, evt)
	return p.err
}

type testEnv struct {
	store *memory.AccountStore
	pub   *recordingPublisher
	audit *bytes.Buffer
	mux   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewAccountStore()
	svc := identity.NewService(store, security.NewBcryptHasher(4))
	pub := &recordingPublisher{}
	var auditBuf bytes.Buffer

	h := NewAccountHandler(svc, pub, audit.New(zerolog.New(&auditBuf)))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/identity/v1", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/authenticate", h.Authenticate)
		r.Get("/accounts", h.FindByEmail)
		r.Get("/accounts/{id}", h.Get)
		r.Patch("/accounts/{id}", h.UpdateProfile)
	})

	return &testEnv{store: store, pub: pub, audit: &auditBuf, mux: r}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.mux.ServeHTTP(rr, req)
	return rr
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Meta      map[string]string `json:"meta"`
		RequestID string            `json:"request_id"`
	} `json:"error"`
}

func mustReadJSON(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body: %v (%q)", err, rr.Body.String())
	}
}

func requireStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected status %d, got %d body=%s", want, rr.Code, rr.Body.String())
	}
}

func requireErrorCode(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	var body errorEnvelope
	mustReadJSON(t, rr, &body)
	if body.Error.Code != want {
		t.Fatalf("expected error code %q, got %q", want, body.Error.Code)
	}
}

var errBroker = errors.New("broker down")
