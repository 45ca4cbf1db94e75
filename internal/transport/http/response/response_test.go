package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baechuer/identity-service/internal/domain"
	reqctx "github.com/baechuer/identity-service/internal/pkg/context"
)

// ---------- helpers ----------

func mustDecodeJSONLine(t *testing.T, b []byte, dst any) {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(dst); err != nil {
		t.Fatalf("decode json: %v, body=%q", err, string(b))
	}
}

func newReqWithBody(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ---------- DecodeJSON ----------

type decodeDst struct {
	A string `json:"a"`
	B int    `json:"b"`
}

func TestDecodeJSON_OK_SingleObject(t *testing.T) {
	req := newReqWithBody(t, `{"a":"x","b":1}`)

	var dst decodeDst
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if dst.A != "x" || dst.B != 1 {
		t.Fatalf("unexpected dst: %+v", dst)
	}
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	req := newReqWithBody(t, `{"a":"x","c":"oops"}`)

	var dst decodeDst
	if err := DecodeJSON(req, &dst); !domain.Is(err, domain.CodeInvalidJSON) {
		t.Fatalf("expected invalid_json, got %v", err)
	}
}

func TestDecodeJSON_InvalidJSON(t *testing.T) {
	req := newReqWithBody(t, `{"a":"x",`)

	var dst decodeDst
	if err := DecodeJSON(req, &dst); !domain.Is(err, domain.CodeInvalidJSON) {
		t.Fatalf("expected invalid_json, got %v", err)
	}
}

func TestDecodeJSON_MultipleJSONValues(t *testing.T) {
	req := newReqWithBody(t, `{}{}`)

	var dst map[string]any
	if err := DecodeJSON(req, &dst); !domain.Is(err, domain.CodeInvalidJSON) {
		t.Fatalf("expected invalid_json, got %v", err)
	}
}

// ---------- WriteError ----------

func TestWriteError_DomainError_MapsStatusCodeAndPayload(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(reqctx.WithRequestID(req.Context(), "req-123"))
	rr := httptest.NewRecorder()

	WriteError(rr, req, domain.ErrMissingField("email"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("expected content-type json, got %q", ct)
	}

	var body ErrorBody
	mustDecodeJSONLine(t, rr.Body.Bytes(), &body)
	if body.Error.Code != "missing_field" {
		t.Fatalf("expected code missing_field, got %q", body.Error.Code)
	}
	if body.Error.Meta["field"] != "email" {
		t.Fatalf("expected meta.field=email, got %+v", body.Error.Meta)
	}
	if body.Error.RequestID != "req-123" {
		t.Fatalf("expected request_id req-123, got %q", body.Error.RequestID)
	}
}

func TestWriteError_EmailTaken_409(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	rr := httptest.NewRecorder()

	WriteError(rr, req, domain.ErrEmailTaken("a@x.io"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	var body ErrorBody
	mustDecodeJSONLine(t, rr.Body.Bytes(), &body)
	if body.Error.Message != "this email cannot be used" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}

func TestWriteError_NonDomainError_HidesDetailsAndReturns500(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rr := httptest.NewRecorder()

	WriteError(rr, req, errors.New("boom: secret detail"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "secret detail") {
		t.Fatalf("internal details leaked: %q", rr.Body.String())
	}
	var body ErrorBody
	mustDecodeJSONLine(t, rr.Body.Bytes(), &body)
	if body.Error.Code != "internal_error" || body.Error.Message != "internal error" {
		t.Fatalf("unexpected payload %+v", body.Error)
	}
}

func TestStatusFromKind_Mapping(t *testing.T) {
	cases := []struct {
		kind domain.ErrKind
		want int
	}{
		{domain.KindValidation, http.StatusBadRequest},
		{domain.KindAuth, http.StatusUnauthorized},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindConflict, http.StatusConflict},
		{domain.KindInfrastructure, http.StatusServiceUnavailable},
		{domain.KindInternal, http.StatusInternalServerError},
		{"unknown", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFromKind(tc.kind); got != tc.want {
			t.Fatalf("kind=%q expected %d got %d", tc.kind, tc.want, got)
		}
	}
}

// ---------- success helpers ----------

func TestWriteJSON_DoesNotOverrideExistingContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	rr.Header().Set("Content-Type", "application/custom")

	WriteJSON(rr, http.StatusCreated, map[string]any{"x": 1})

	if ct := rr.Result().Header.Get("Content-Type"); ct != "application/custom" {
		t.Fatalf("expected preserve content-type, got %q", ct)
	}
}

func TestCreated_WrapsEnvelopeAnd201(t *testing.T) {
	rr := httptest.NewRecorder()
	Created(rr, map[string]any{"id": "z"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var env Envelope
	mustDecodeJSONLine(t, rr.Body.Bytes(), &env)
	m, ok := env.Data.(map[string]any)
	if !ok || m["id"] != "z" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
}

func TestNoContent_Writes204AndNoBody(t *testing.T) {
	rr := httptest.NewRecorder()
	NoContent(rr)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}
}

func TestSuccessHelpers_MarkAccountBodiesNoStore(t *testing.T) {
	for name, write := range map[string]func(http.ResponseWriter){
		"ok":         func(w http.ResponseWriter) { OK(w, map[string]any{"id": "a"}) },
		"created":    func(w http.ResponseWriter) { Created(w, map[string]any{"id": "a"}) },
		"no_content": NoContent,
	} {
		rr := httptest.NewRecorder()
		write(rr)
		if cc := rr.Result().Header.Get("Cache-Control"); cc != "no-store" {
			t.Fatalf("%s: expected no-store, got %q", name, cc)
		}
	}
}

func TestWriteJSON_EncodeFailureKeepsStatus(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSON(rr, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status to be committed, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected no body on encode failure, got %q", rr.Body.String())
	}
}
