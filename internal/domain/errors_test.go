package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_ErrorString_NoCause(t *testing.T) {
	err := New(KindAuth, CodeInvalidCredentials, "invalid email or password")

	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error string")
	}
}

func TestError_ErrorString_WithCause(t *testing.T) {
	root := errors.New("root cause")
	err := ErrStoreUnavailable(root)

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}
}

func TestError_Unwrap(t *testing.T) {
	root := errors.New("root")
	err := ErrInternal(root)

	if errors.Unwrap(err) != root {
		t.Fatalf("unwrap did not return cause")
	}
}

func TestWithMeta_AttachesMeta(t *testing.T) {
	err := ErrMissingField("email")

	if err.Meta["field"] != "email" {
		t.Fatalf("unexpected meta value: %+v", err.Meta)
	}
}

func TestErrEmailTaken_CarriesEmail(t *testing.T) {
	err := ErrEmailTaken("a@x.com")

	if err.Kind != KindConflict {
		t.Fatalf("expected conflict kind, got %s", err.Kind)
	}
	if err.Meta["email"] != "a@x.com" {
		t.Fatalf("unexpected meta: %+v", err.Meta)
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := ErrInvalidCredentials()

	if !Is(err, CodeInvalidCredentials) {
		t.Fatalf("expected code match")
	}
	if Is(err, CodeEmailTaken) {
		t.Fatalf("unexpected code match")
	}
}

func TestIs_WrappedDomainError(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrAccountNotFound())

	if !Is(err, CodeAccountNotFound) {
		t.Fatalf("expected wrapped code match")
	}
}

func TestIs_NonDomainError(t *testing.T) {
	if Is(errors.New("plain error"), CodeInvalidCredentials) {
		t.Fatalf("plain error must not match")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrKind
	}{
		{ErrAccountNotFound(), KindNotFound},
		{ErrConflict("email", nil), KindConflict},
		{ErrStoreUnavailable(errors.New("x")), KindInfrastructure},
		{ErrInvalidField("email", "blank"), KindValidation},
		{ErrInvalidJSON(errors.New("eof")), KindValidation},
		{errors.New("plain"), KindInternal},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}
